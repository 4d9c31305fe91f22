package fetch

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNoContent means the fetch succeeded but produced nothing usable
	ErrNoContent = errors.New("no usable content")
	// ErrRejected means the content failed the acceptance rules for its stage
	ErrRejected = errors.New("content rejected")
	// ErrUnavailable means the fetcher is not configured or not reachable
	ErrUnavailable = errors.New("fetcher unavailable")
)

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// CleanText collapses runs of blank space while keeping line breaks
func CleanText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
