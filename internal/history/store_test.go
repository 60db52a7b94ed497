package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		run := Run{
			StartedAt:  base.Add(time.Duration(i) * time.Second),
			GatewayURL: "https://gw.example.com/mcp",
			Tool:       "tavily-search",
			OK:         i != 1,
			DurationMs: int64(100 + i),
		}
		if !run.OK {
			run.Error = "tools/call failed: status 500"
		}
		require.NoError(t, store.Record(ctx, run))
	}

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Newest first.
	assert.Equal(t, int64(102), runs[0].DurationMs)
	assert.Equal(t, int64(100), runs[2].DurationMs)
	assert.False(t, runs[1].OK)
	assert.Contains(t, runs[1].Error, "status 500")
}

func TestRecentLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Run{
			GatewayURL: "https://gw.example.com/mcp",
			Tool:       "tavily-search",
			OK:         true,
		}))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRecordGeneratesID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Run{GatewayURL: "u", Tool: "t", OK: true}))

	runs, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.NotEmpty(t, runs[0].ID)
	assert.False(t, runs[0].StartedAt.IsZero())
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
