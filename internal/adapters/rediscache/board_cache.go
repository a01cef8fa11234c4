// Package rediscache implements the board snapshot cache on Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/taskboard/internal/ports/secondary"
)

// DefaultKey is the Redis key holding the board snapshot.
const DefaultKey = "taskboard:board"

// generationSuffix names the counter bumped by every Invalidate.
const generationSuffix = ":gen"

// BoardCache stores the board snapshot as JSON under one key, next to a
// generation counter that makes fills conditional.
// A nil client turns every call into a miss or a no-op.
type BoardCache struct {
	redis  *redis.Client
	key    string
	genKey string
}

// NewBoardCache creates a cache on client. An empty key uses DefaultKey.
func NewBoardCache(client *redis.Client, key string) *BoardCache {
	if key == "" {
		key = DefaultKey
	}
	return &BoardCache{redis: client, key: key, genKey: key + generationSuffix}
}

// NewClient parses a redis:// URL and returns a connected client.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

var _ secondary.BoardCache = (*BoardCache)(nil)

// Get returns the cached snapshot, or nil on a miss.
// An undecodable entry is dropped and reported as a miss.
func (c *BoardCache) Get(ctx context.Context) (*secondary.BoardSnapshot, error) {
	if c.redis == nil {
		return nil, nil
	}
	data, err := c.redis.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board cache: %w", err)
	}

	var snap secondary.BoardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		_ = c.redis.Del(ctx, c.key).Err()
		return nil, nil
	}
	return &snap, nil
}

// Generation returns the current eviction generation, 0 before the first eviction.
func (c *BoardCache) Generation(ctx context.Context) (int64, error) {
	if c.redis == nil {
		return 0, nil
	}
	return c.generation(ctx, c.redis)
}

// getter is the part of *redis.Client and *redis.Tx that reads a key.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *BoardCache) generation(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read board cache generation: %w", err)
	}
	return gen, nil
}

// Set stores the snapshot for ttl if no Invalidate ran since gen was read.
// It reports whether the snapshot was stored. A zero ttl disables caching.
func (c *BoardCache) Set(ctx context.Context, snap *secondary.BoardSnapshot, gen int64, ttl time.Duration) (bool, error) {
	if c.redis == nil || ttl <= 0 || snap == nil {
		return false, nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("failed to encode board snapshot: %w", err)
	}

	stored := false
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, data, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, c.genKey)

	// An Invalidate between WATCH and EXEC aborts the transaction.
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to write board cache: %w", err)
	}
	return stored, nil
}

// Invalidate drops the cached snapshot and bumps the generation so that
// fills started before this call are discarded.
func (c *BoardCache) Invalidate(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to evict board cache: %w", err)
	}
	return nil
}
