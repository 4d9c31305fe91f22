package xapi

import (
	"strings"
	"time"

	"toolscout/types"
)

type apiURL struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	UnwoundURL  string `json:"unwound_url"`
}

type apiMetrics struct {
	LikeCount       int `json:"like_count"`
	RetweetCount    int `json:"retweet_count"`
	ReplyCount      int `json:"reply_count"`
	QuoteCount      int `json:"quote_count"`
	ImpressionCount int `json:"impression_count"`
}

type apiMention struct {
	Username string `json:"username"`
}

type apiTweet struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	AuthorID       string     `json:"author_id"`
	ConversationID string     `json:"conversation_id"`
	CreatedAt      time.Time  `json:"created_at"`
	PublicMetrics  apiMetrics `json:"public_metrics"`
	Entities       struct {
		URLs     []apiURL     `json:"urls"`
		Mentions []apiMention `json:"mentions"`
	} `json:"entities"`
}

type apiUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Entities struct {
		URL struct {
			URLs []apiURL `json:"urls"`
		} `json:"url"`
	} `json:"entities"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

type apiIncludes struct {
	Users []apiUser `json:"users"`
}

type apiMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

type listResponse struct {
	Data     []apiTweet  `json:"data"`
	Includes apiIncludes `json:"includes"`
	Meta     apiMeta     `json:"meta"`
	Errors   []apiError  `json:"errors"`
}

type postResponse struct {
	Data     *apiTweet   `json:"data"`
	Includes apiIncludes `json:"includes"`
	Errors   []apiError  `json:"errors"`
}

type userResponse struct {
	Data   *apiUser   `json:"data"`
	Errors []apiError `json:"errors"`
}

// Page is one page of a paginated listing
type Page struct {
	Items     []types.SourceItem
	NextToken string
}

// Post is a single post with the context the social enrichment flow needs
type Post struct {
	Item           types.SourceItem
	ConversationID string
	Mentions       []string
}

// Permalink builds the canonical post URL
func Permalink(handle, id string) string {
	if handle == "" {
		return "https://x.com/i/web/status/" + id
	}
	return "https://x.com/" + handle + "/status/" + id
}

// resolved returns the most specific link target
func (u apiURL) resolved() string {
	switch {
	case u.UnwoundURL != "":
		return u.UnwoundURL
	case u.ExpandedURL != "":
		return u.ExpandedURL
	default:
		return u.URL
	}
}

func handles(users []apiUser) map[string]string {
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Username
	}
	return out
}

func toItem(t apiTweet, handleByID map[string]string, origin string) types.SourceItem {
	handle := handleByID[t.AuthorID]
	var urls []string
	seen := make(map[string]bool)
	for _, u := range t.Entities.URLs {
		target := u.resolved()
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		urls = append(urls, target)
	}
	return types.SourceItem{
		ID:           t.ID,
		Text:         strings.TrimSpace(t.Text),
		AuthorHandle: handle,
		CreatedAt:    t.CreatedAt,
		URLs:         urls,
		Metrics: types.Engagement{
			Likes:       t.PublicMetrics.LikeCount,
			Reposts:     t.PublicMetrics.RetweetCount + t.PublicMetrics.QuoteCount,
			Replies:     t.PublicMetrics.ReplyCount,
			Impressions: t.PublicMetrics.ImpressionCount,
		},
		Permalink: Permalink(handle, t.ID),
		Origin:    origin,
	}
}

// declaredURL prefers the expanded profile link over the t.co wrapper
func (u apiUser) declaredURL() string {
	for _, link := range u.Entities.URL.URLs {
		if r := link.resolved(); r != "" {
			return r
		}
	}
	return u.URL
}

func errorText(errs []apiError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Detail != "" {
			parts = append(parts, e.Detail)
		} else {
			parts = append(parts, e.Title)
		}
	}
	return strings.Join(parts, "; ")
}
