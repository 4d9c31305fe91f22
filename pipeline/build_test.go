package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolscout/config"
	"toolscout/orchestrator"
	"toolscout/xapi"
)

func names(sources []orchestrator.Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Name())
	}
	return out
}

func TestDefaultSourcesKeepFeedsOutOfRotation(t *testing.T) {
	q, err := config.LoadQueries("")
	require.NoError(t, err)
	require.NotEmpty(t, q.Feeds, "default queries ship an RSS feed")

	x, err := xapi.New(context.Background(), xapi.Options{BearerToken: "tok"})
	require.NoError(t, err)

	cfg := testConfig(t)
	assert.Equal(t, []string{"feed", "search"}, names(sourceFactory(cfg, x, q, nil)()))
	assert.Equal(t, []string{"rss"}, names(supplementFactory(q, nil)()))
}

func TestSourcesWithoutProviderOrFeeds(t *testing.T) {
	cfg := testConfig(t)
	assert.Empty(t, sourceFactory(cfg, nil, config.Queries{Search: []string{"mcp"}}, nil)())
	assert.Empty(t, supplementFactory(config.Queries{}, nil)())
}
