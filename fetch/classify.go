// Package fetch holds the leaf content fetchers: plain HTTP, README, browsers and web search.
package fetch

import (
	"net/url"
	"strings"
)

// Kind is the shape of a URL for enrichment dispatch
type Kind int

const (
	KindGeneric Kind = iota
	KindSocial
	KindRepo
)

func (k Kind) String() string {
	switch k {
	case KindSocial:
		return "social"
	case KindRepo:
		return "repo"
	default:
		return "generic"
	}
}

// Target is a classified URL
type Target struct {
	Kind   Kind
	URL    string
	Handle string // social
	PostID string // social
	Owner  string // repo
	Repo   string // repo
}

var socialHosts = map[string]bool{
	"x.com": true, "twitter.com": true, "mobile.twitter.com": true, "mobile.x.com": true,
}

// reserved github paths that are not owner/repo pairs
var githubReserved = map[string]bool{
	"orgs": true, "topics": true, "marketplace": true, "features": true, "settings": true,
	"explore": true, "sponsors": true, "collections": true, "trending": true, "login": true,
}

// Classify decides whether raw is a social post, a code repository or a generic page
func Classify(raw string) Target {
	t := Target{Kind: KindGeneric, URL: raw}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return t
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	switch {
	case socialHosts[host]:
		// /<handle>/status/<id>[/...]
		if len(parts) >= 3 && (parts[1] == "status" || parts[1] == "statuses") && isDigits(parts[2]) {
			t.Kind = KindSocial
			t.Handle = parts[0]
			t.PostID = parts[2]
		}
	case host == "github.com":
		if len(parts) >= 2 && !githubReserved[strings.ToLower(parts[0])] {
			t.Kind = KindRepo
			t.Owner = parts[0]
			t.Repo = strings.TrimSuffix(parts[1], ".git")
		}
	}
	return t
}

// IsSocial reports whether raw points at the social platform at all, post or not
func IsSocial(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return socialHosts[host] || host == "t.co"
}

// IsAbsoluteURL reports whether raw is a well-formed http(s) URL with a host
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
