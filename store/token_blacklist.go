package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "token:blacklist:"

// TokenBlacklist records revoked API bearer tokens until their natural
// expiration, so logout works for token clients the same as for sessions.
type TokenBlacklist struct {
	rdb *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

// Revoke stores the token keyed with a TTL matching its remaining lifetime.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
}

// Revoked reports whether a token was invalidated before expiry. Redis
// errors fail open to avoid locking every token client out on an outage.
func (b *TokenBlacklist) Revoked(ctx context.Context, token string) bool {
	n, err := b.rdb.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}
