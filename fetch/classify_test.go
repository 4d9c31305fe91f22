package fetch

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		url    string
		kind   Kind
		handle string
		postID string
		owner  string
		repo   string
	}{
		{"https://x.com/acme/status/123", KindSocial, "acme", "123", "", ""},
		{"https://twitter.com/acme/status/456/photo/1", KindSocial, "acme", "456", "", ""},
		{"https://x.com/acme", KindGeneric, "", "", "", ""},
		{"https://github.com/acme/tool", KindRepo, "", "", "acme", "tool"},
		{"https://www.github.com/acme/tool.git", KindRepo, "", "", "acme", "tool"},
		{"https://github.com/acme/tool/tree/main/docs", KindRepo, "", "", "acme", "tool"},
		{"https://github.com/topics/mcp", KindGeneric, "", "", "", ""},
		{"https://github.com/acme", KindGeneric, "", "", "", ""},
		{"https://acme.dev/docs", KindGeneric, "", "", "", ""},
		{"not a url", KindGeneric, "", "", "", ""},
	}
	for _, c := range cases {
		got := Classify(c.url)
		if got.Kind != c.kind || got.Handle != c.handle || got.PostID != c.postID || got.Owner != c.owner || got.Repo != c.repo {
			t.Errorf("Classify(%q) = %+v; want kind=%s handle=%q post=%q owner=%q repo=%q",
				c.url, got, c.kind, c.handle, c.postID, c.owner, c.repo)
		}
	}
}

func TestIsSocialAndAbsolute(t *testing.T) {
	if !IsSocial("https://t.co/abc") || !IsSocial("https://x.com/acme") {
		t.Fatal("expected social hosts")
	}
	if IsSocial("https://github.com/acme") {
		t.Fatal("github is not social")
	}
	if !IsAbsoluteURL("https://acme.dev") || IsAbsoluteURL("/relative") || IsAbsoluteURL("ftp://acme.dev") {
		t.Fatal("IsAbsoluteURL mismatch")
	}
}

func TestTruncateAndCleanText(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := CleanText("  a   b \n\n\n  c  \n"); got != "a b\n\nc" {
		t.Fatalf("CleanText = %q", got)
	}
}
