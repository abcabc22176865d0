package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faultline/faultline/internal/model"
)

func TestResultCacheMissIsNotAnError(t *testing.T) {
	_, r := newTestRedis(t)
	c := NewResultCache(r, time.Hour)

	entry, found, err := c.Lookup(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, entry)
}

func TestResultCacheStoreAndLookup(t *testing.T) {
	_, r := newTestRedis(t)
	c := NewResultCache(r, time.Hour)
	ctx := context.Background()

	report := &model.AnalysisReport{
		Score:   85,
		Summary: "ready with caveats",
		Findings: []model.Finding{
			{Title: "No rate limiting", Severity: model.SeverityMedium, Category: "Reliability"},
		},
	}
	require.NoError(t, c.Store(ctx, "deadbeef", report, "# Report"))

	entry, found, err := c.Lookup(ctx, "deadbeef")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 85, entry.Result.Score)
	assert.Len(t, entry.Result.Findings, 1)
	assert.Equal(t, "# Report", entry.Markdown)
}

func TestResultCacheOverwriteIsIdempotent(t *testing.T) {
	_, r := newTestRedis(t)
	c := NewResultCache(r, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "deadbeef", &model.AnalysisReport{Score: 50}, "v1"))
	require.NoError(t, c.Store(ctx, "deadbeef", &model.AnalysisReport{Score: 60}, "v2"))

	entry, found, err := c.Lookup(ctx, "deadbeef")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 60, entry.Result.Score)
	assert.Equal(t, "v2", entry.Markdown)
}

func TestResultCacheExpiry(t *testing.T) {
	mr, r := newTestRedis(t)
	c := NewResultCache(r, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "deadbeef", &model.AnalysisReport{Score: 50}, "v1"))

	mr.FastForward(2 * time.Minute)

	_, found, err := c.Lookup(ctx, "deadbeef")
	require.NoError(t, err)
	assert.False(t, found)
}
