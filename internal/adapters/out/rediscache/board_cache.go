// Package rediscache publishes the delivery board snapshot to Redis so dashboards outside this
// process can read the counts without querying the service.
package rediscache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"rxdelivery/internal/core/ports"
	"rxdelivery/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultBoardKey = "delivery:board"

	fieldActive    = "active"
	fieldCompleted = "completed"
	fieldUpdatedAt = "updated_at"
)

var _ ports.BoardCache = (*BoardCache)(nil)

// BoardCache stores the snapshot as a hash under a single key.
type BoardCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewBoardCache creates a cache writing to key. A zero ttl keeps the snapshot until overwritten.
func NewBoardCache(client *redis.Client, key string, ttl time.Duration) *BoardCache {
	if key == "" {
		key = DefaultBoardKey
	}
	return &BoardCache{client: client, key: key, ttl: ttl}
}

func (c *BoardCache) Store(ctx context.Context, snapshot ports.BoardSnapshot) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, c.key,
			fieldActive, snapshot.Active,
			fieldCompleted, snapshot.Completed,
			fieldUpdatedAt, snapshot.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if c.ttl > 0 {
			pipe.Expire(ctx, c.key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store board snapshot: %w", err)
	}
	return nil
}

func (c *BoardCache) Load(ctx context.Context) (ports.BoardSnapshot, error) {
	fields, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return ports.BoardSnapshot{}, fmt.Errorf("load board snapshot: %w", err)
	}
	if len(fields) == 0 {
		return ports.BoardSnapshot{}, errs.NewObjectNotFoundError("board snapshot", c.key)
	}

	var snapshot ports.BoardSnapshot
	if snapshot.Active, err = strconv.Atoi(fields[fieldActive]); err != nil {
		return ports.BoardSnapshot{}, errs.NewValueIsInvalidErrorWithCause(fieldActive, err)
	}
	if snapshot.Completed, err = strconv.Atoi(fields[fieldCompleted]); err != nil {
		return ports.BoardSnapshot{}, errs.NewValueIsInvalidErrorWithCause(fieldCompleted, err)
	}
	if snapshot.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt]); err != nil {
		return ports.BoardSnapshot{}, errs.NewValueIsInvalidErrorWithCause(fieldUpdatedAt, err)
	}
	return snapshot, nil
}
