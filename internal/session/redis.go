package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares sessions between bot replicas. Abandoned operations
// expire after ttl.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(owner int64) string {
	return fmt.Sprintf("session:%d", owner)
}

func (r *RedisStore) Get(ctx context.Context, owner int64) (*Session, error) {
	raw, err := r.rdb.Get(ctx, key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %d: %w", owner, err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %d: %w", owner, err)
	}
	s.Owner = owner
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if s.Idle() {
		return r.Clear(ctx, s.Owner)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(s.Owner), b, r.ttl).Err()
}

func (r *RedisStore) Clear(ctx context.Context, owner int64) error {
	return r.rdb.Del(ctx, key(owner)).Err()
}
