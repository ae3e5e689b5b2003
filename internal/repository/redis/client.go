package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

const snapshotKeyPrefix = "game:snapshot:"

// Connect returns a client for addr, or nil when Redis cannot be reached.
// Startup never fails because of Redis; snapshots are simply not kept.
func Connect(ctx context.Context, addr, password string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("component", "redis").Str("addr", addr).
			Msg("could not connect to Redis, running without snapshots")
		client.Close()
		return nil
	}

	log.Info().Str("component", "redis").Str("addr", addr).Msg("connected successfully")
	return client
}

// SnapshotCache keeps unfinished games in Redis, expiring them after ttl of inactivity.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(gameID string) string {
	return snapshotKeyPrefix + gameID
}

func (c *SnapshotCache) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, snapshotKey(snap.GameID), data, c.ttl).Err()
}

func (c *SnapshotCache) LoadSnapshot(ctx context.Context, gameID string) (*domain.Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (c *SnapshotCache) DeleteSnapshot(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, snapshotKey(gameID)).Err()
}
