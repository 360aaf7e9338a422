package session

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyAttempts is returned by AttemptLimiter implementations
var ErrTooManyAttempts = errors.New("too many attempts")

// RevocationGateway remembers signed-out session ids until their token would expire anyway
type RevocationGateway interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// AttemptLimiter bounds sign-in attempts per key
type AttemptLimiter interface {
	// Allow records an attempt and returns ErrTooManyAttempts when the key is over its budget
	Allow(ctx context.Context, key string) error
}
