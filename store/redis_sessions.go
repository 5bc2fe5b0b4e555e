package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leoverde/pulse/services"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps session state in Redis under the opaque session
// id, with an idle-expiry TTL that refreshes on every read.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ services.SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Read(ctx context.Context, id string) (*services.SessionData, error) {
	raw, err := s.rdb.GetEx(ctx, sessionKeyPrefix+id, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session read: %w", err)
	}
	var data services.SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt session is unrecoverable; treat it as absent.
		_ = s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
		return nil, nil
	}
	return &data, nil
}

func (s *RedisSessionStore) Write(ctx context.Context, id string, data *services.SessionData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+id, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}
