// Package llm wraps the chat-completion endpoints used as the judge and the research decider.
package llm

import (
	"context"
	"errors"
	"strings"

	"toolscout/config"
)

// ErrNotConfigured is returned by New when no model credentials are present
var ErrNotConfigured = errors.New("no language model configured")

// Client is a single-turn chat completion
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// New returns the Gemini client when a Gemini key is set, else the OpenAI-compatible client
func New(ctx context.Context, cfg config.Config) (Client, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		return NewGenAIClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case cfg.OpenAIAPIKey != "":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBase, cfg.OpenAIModel), nil
	default:
		return nil, ErrNotConfigured
	}
}

// ExtractJSON pulls the first JSON object or array out of a model reply,
// tolerating code fences and chatter around it. It returns "" when none is found.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	opener, closer := s[start], byte('}')
	if opener == '[' {
		closer = ']'
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
