package statscache_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanlin/lexibook/internal/models"
	"github.com/hanlin/lexibook/internal/statscache"
)

func openStore(t *testing.T) *statscache.Store {
	t.Helper()
	store, err := statscache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutAndRange(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	stats := []models.DailyStat{
		{Date: "2025-06-01", LearnedCount: 3, ReviewedCount: 2},
		{Date: "2025-06-15", LearnedCount: 0, ReviewedCount: 1},
		{Date: "2025-07-01", LearnedCount: 5, ReviewedCount: 5},
	}
	require.NoError(t, store.Put(ctx, stats))

	got, err := store.Range(ctx, "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	require.Len(t, got, 2, "july row is outside the range")
	assert.Equal(t, "2025-06-01", got[0].Date)
	assert.Equal(t, 3, got[0].LearnedCount)
	assert.Equal(t, "2025-06-15", got[1].Date)
}

func TestPut_OverwritesSameDay(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, []models.DailyStat{{Date: "2025-06-01", LearnedCount: 1, ReviewedCount: 0}}))
	require.NoError(t, store.Put(ctx, []models.DailyStat{{Date: "2025-06-01", LearnedCount: 4, ReviewedCount: 3}}))

	got, err := store.Range(ctx, "2025-06-01", "2025-06-01")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].LearnedCount)
	assert.Equal(t, 3, got[0].ReviewedCount)
}

func TestPut_EmptyBatchIsNoOp(t *testing.T) {
	store := openStore(t)
	assert.NoError(t, store.Put(context.Background(), nil))
}

func TestRange_EmptyCache(t *testing.T) {
	store := openStore(t)

	got, err := store.Range(context.Background(), "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	assert.Empty(t, got)
}
