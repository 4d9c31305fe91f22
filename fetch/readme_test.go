package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadmeFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/cli/readme", r.URL.Path)
		assert.Equal(t, "application/vnd.github.raw+json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("# Acme\n\n" + strings.Repeat("x", 5000)))
	}))
	defer srv.Close()

	text, err := NewReadmeFetcher("gh-token", nil).WithBaseURL(srv.URL).Fetch(context.Background(), "acme", "cli")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "# Acme"))
	assert.Len(t, []rune(text), 3000)
}

func TestReadmeFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewReadmeFetcher("", nil).WithBaseURL(srv.URL).Fetch(context.Background(), "acme", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
