package session

import (
	"context"
	"errors"
	"time"

	"go-todo/pkg/redis"
)

type RedisRevocationGateway struct {
	client *redis.Client
}

var _ RevocationGateway = (*RedisRevocationGateway)(nil)

func NewRedisRevocationGateway(client *redis.Client) *RedisRevocationGateway {
	return &RedisRevocationGateway{client: client}
}

func (gateway *RedisRevocationGateway) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return gateway.client.Set(ctx, gateway.client.Key("session", "revoked", sessionID), "1", ttl)
}

func (gateway *RedisRevocationGateway) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	return gateway.client.Exists(ctx, gateway.client.Key("session", "revoked", sessionID))
}

// RedisAttemptLimiter adapts the redis fixed window limiter
type RedisAttemptLimiter struct {
	limiter *redis.RateLimiter
}

var _ AttemptLimiter = (*RedisAttemptLimiter)(nil)

func NewRedisAttemptLimiter(limiter *redis.RateLimiter) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{limiter: limiter}
}

func (l *RedisAttemptLimiter) Allow(ctx context.Context, key string) error {
	err := l.limiter.Allow(ctx, key)
	if errors.Is(err, redis.ErrRateLimitExceeded) {
		return ErrTooManyAttempts
	}
	return err
}
