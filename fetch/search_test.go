package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestWebSearchSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "engine", r.URL.Query().Get("cx"))
		assert.Equal(t, "acme cli", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("num"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"Acme CLI","link":"https://acme.dev","snippet":"Ship agents. "},
			{"title":"Acme on GitHub","link":"https://github.com/acme/cli","snippet":"npm install -g acme"}
		]}`))
	}))
	defer srv.Close()

	ws, err := NewWebSearch(context.Background(), "key", "engine", option.WithEndpoint(srv.URL), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	summary, err := ws.Summary(context.Background(), "acme cli")
	require.NoError(t, err)
	assert.Contains(t, summary, "1. Acme CLI\nhttps://acme.dev\nShip agents.")
	assert.Contains(t, summary, "2. Acme on GitHub")
}

func TestWebSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ws, err := NewWebSearch(context.Background(), "key", "engine", option.WithEndpoint(srv.URL), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	_, err = ws.Summary(context.Background(), "nothing")
	assert.True(t, errors.Is(err, ErrNoContent))
}
