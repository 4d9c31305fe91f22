package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"toolscout/deduplication"
)

// Link is a followable anchor found on a page
type Link struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// ExtractLinks parses markup and returns up to max absolute http(s) links, resolved
// against base. Fragments, mailto/javascript anchors, the page itself and repeats are dropped.
func ExtractLinks(html, base string, max int) []Link {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	self := deduplication.NormalizeURL(base)
	seen := map[string]bool{self: true}
	var links []Link

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := baseURL.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return true
		}
		abs.Fragment = ""
		key := deduplication.NormalizeURL(abs.String())
		if seen[key] {
			return true
		}
		seen[key] = true

		label := strings.Join(strings.Fields(s.Text()), " ")
		if label == "" {
			label, _ = s.Attr("title")
		}
		links = append(links, Link{URL: abs.String(), Label: Truncate(label, 120)})
		return max <= 0 || len(links) < max
	})
	return links
}
