package deduplication

import "testing"

func TestNormalizeTextAndURL(t *testing.T) {
	cases := []struct {
		name         string
		url          string
		text         string
		wantNormURL  string
		wantNormText string
	}{
		{"simple", "https://example.com/path", "Hello World", "https://example.com/path", "hello world"},
		{"utm and fragment", "https://example.com/path?utm_source=feed#section", "  Hello   World  ", "https://example.com/path", "hello world"},
		{"uppercase host", "HTTP://Example.COM/", "TiTle", "http://example.com", "title"},
		{"tracking params", "https://example.com/?fbclid=XYZ&gclid=ABC&utm_medium=1", "T", "https://example.com", "t"},
		{"www prefix", "https://www.github.com/acme/tool/", "MCP  server", "https://github.com/acme/tool", "mcp server"},
		{"keeps real query", "https://example.com/docs?page=2&ref_src=twsrc", "x", "https://example.com/docs?page=2", "x"},
		{"empty", "   ", "", "", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if nu := NormalizeURL(c.url); nu != c.wantNormURL {
				t.Fatalf("NormalizeURL(%q) = %q; want %q", c.url, nu, c.wantNormURL)
			}
			if nt := NormalizeText(c.text); nt != c.wantNormText {
				t.Fatalf("NormalizeText(%q) = %q; want %q", c.text, nt, c.wantNormText)
			}
		})
	}
}
