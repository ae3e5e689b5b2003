package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

// Runs against a real server: REDIS_TEST_ADDR=localhost:6379 go test ./...
func testCache(t *testing.T) *SnapshotCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := Connect(context.Background(), addr, os.Getenv("REDIS_TEST_PASSWORD"))
	require.NotNil(t, client, "redis at %s unreachable", addr)
	t.Cleanup(func() { client.Close() })
	return NewSnapshotCache(client, time.Minute)
}

func TestSnapshotRoundTrip(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	snap := domain.Snapshot{
		GameID:    "test-" + time.Now().Format("150405.000000"),
		RedKind:   "human",
		BlueKind:  "engine",
		Columns:   []int{3, 3, 2},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, cache.SaveSnapshot(ctx, snap))

	got, err := cache.LoadSnapshot(ctx, snap.GameID)
	require.NoError(t, err)
	assert.Equal(t, snap, *got)

	require.NoError(t, cache.DeleteSnapshot(ctx, snap.GameID))
	_, err = cache.LoadSnapshot(ctx, snap.GameID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnectUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Nil(t, Connect(ctx, "127.0.0.1:1", ""))
}
