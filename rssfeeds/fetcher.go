package rssfeeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"toolscout/types"
)

// FetchFeed retrieves and parses an RSS/Atom feed, returning up to maxCount items
func FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]types.SourceItem, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	count := len(feed.Items)
	if maxCount > 0 && maxCount < count {
		count = maxCount
	}
	items := make([]types.SourceItem, 0, count)

	for i := 0; i < count; i++ {
		item := feed.Items[i]
		if item == nil || (item.Link == "" && item.GUID == "") {
			continue
		}

		// Use GUID if available, otherwise generate from URL
		id := item.GUID
		if id == "" {
			id = item.Link
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		// The entry's own page (e.g. the discussion) is the permalink; the link is what it points at
		permalink := item.Link
		if strings.HasPrefix(item.GUID, "http://") || strings.HasPrefix(item.GUID, "https://") {
			permalink = item.GUID
		}
		var urls []string
		if item.Link != "" && item.Link != permalink {
			urls = append(urls, item.Link)
		}

		items = append(items, types.SourceItem{
			ID:           "rss:" + types.GenerateID(id),
			Text:         strings.TrimSpace(item.Title + "\n\n" + stripHTML(summary)),
			AuthorHandle: author,
			CreatedAt:    publishedAt,
			URLs:         urls,
			Permalink:    permalink,
			Origin:       "rss",
		})
	}

	return items, nil
}

// stripHTML reduces a feed description to its visible text
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
