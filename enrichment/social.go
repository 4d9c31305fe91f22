package enrichment

import (
	"context"
	"strings"

	"toolscout/fetch"
)

// maxLinkedTries bounds how many resolved links are fetched looking for content
const maxLinkedTries = 3

// social resolves a post into its text, the links it points at and the best linked content.
// Links come from the post itself and the author's replies in the thread. The declared
// websites of mentioned accounts are tried only when none of those links yields content.
func (e *Engine) social(ctx context.Context, target fetch.Target) string {
	if e.opts.Social == nil {
		return ""
	}
	post, err := e.opts.Social.LookupPost(ctx, target.PostID)
	if err != nil {
		e.log.Debugf("Post lookup failed for %s: %v", target.PostID, err)
		return ""
	}

	links := externalLinks(post.Item.URLs)

	if post.ConversationID != "" {
		handle := post.Item.AuthorHandle
		if handle == "" {
			handle = target.Handle
		}
		replies, err := e.opts.Social.AuthorReplies(ctx, post.ConversationID, handle)
		if err != nil {
			e.log.Debugf("Reply lookup failed for %s: %v", target.PostID, err)
		}
		for _, r := range replies {
			if r.Item.ID == post.Item.ID {
				continue
			}
			links = appendUnique(links, externalLinks(r.Item.URLs)...)
		}
	}

	best := e.firstContent(ctx, links)

	if best == "" {
		var sites []string
		for _, handle := range post.Mentions {
			site, err := e.opts.Social.ProfileURL(ctx, handle)
			if err != nil {
				e.log.Debugf("Profile lookup failed for @%s: %v", handle, err)
				continue
			}
			if fetch.IsAbsoluteURL(site) && !fetch.IsSocial(site) && !contains(links, site) {
				sites = appendUnique(sites, site)
			}
		}
		links = append(links, sites...)
		best = e.firstContent(ctx, sites)
	}

	var b strings.Builder
	b.WriteString(post.Item.Text)
	if len(links) > 0 {
		b.WriteString("\n\nLinks:")
		for _, l := range links {
			b.WriteString("\n- " + l)
		}
	}
	if best != "" {
		b.WriteString("\n\n" + best)
	}
	return strings.TrimSpace(b.String())
}

// firstContent returns the first non-empty enrichment among the leading maxLinkedTries links
func (e *Engine) firstContent(ctx context.Context, links []string) string {
	for i, link := range links {
		if i == maxLinkedTries || ctx.Err() != nil {
			break
		}
		if text := e.enrichLinked(ctx, link); text != "" {
			return text
		}
	}
	return ""
}

// enrichLinked resolves a link found in a post; social links are never followed again
func (e *Engine) enrichLinked(ctx context.Context, link string) string {
	target := fetch.Classify(link)
	switch target.Kind {
	case fetch.KindRepo:
		return e.readme(ctx, target)
	case fetch.KindSocial:
		return ""
	default:
		return e.agent.Research(ctx, link)
	}
}

func externalLinks(urls []string) []string {
	var out []string
	for _, u := range urls {
		if fetch.IsAbsoluteURL(u) && !fetch.IsSocial(u) {
			out = appendUnique(out, u)
		}
	}
	return out
}

func appendUnique(list []string, more ...string) []string {
	for _, m := range more {
		if !contains(list, m) {
			list = append(list, m)
		}
	}
	return list
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
