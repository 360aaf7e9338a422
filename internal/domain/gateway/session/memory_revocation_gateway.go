package session

import (
	"context"
	"sync"
	"time"
)

type MemoryRevocationGateway struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

var _ RevocationGateway = (*MemoryRevocationGateway)(nil)

func NewMemoryRevocationGateway() *MemoryRevocationGateway {
	return &MemoryRevocationGateway{revoked: make(map[string]time.Time), now: time.Now}
}

func (gateway *MemoryRevocationGateway) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	now := gateway.now()
	for id, until := range gateway.revoked {
		if !now.Before(until) {
			delete(gateway.revoked, id)
		}
	}
	if ttl > 0 {
		gateway.revoked[sessionID] = now.Add(ttl)
	}
	return nil
}

func (gateway *MemoryRevocationGateway) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	until, ok := gateway.revoked[sessionID]
	return ok && gateway.now().Before(until), nil
}

// MemoryAttemptLimiter counts attempts per key in fixed windows
type MemoryAttemptLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	counts map[string]int
	starts map[string]time.Time
	now    func() time.Time
}

var _ AttemptLimiter = (*MemoryAttemptLimiter)(nil)

func NewMemoryAttemptLimiter(max int, window time.Duration) *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{
		max:    max,
		window: window,
		counts: make(map[string]int),
		starts: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (l *MemoryAttemptLimiter) Allow(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if start, ok := l.starts[key]; !ok || now.Sub(start) >= l.window {
		l.starts[key] = now
		l.counts[key] = 0
	}
	l.counts[key]++
	if l.counts[key] > l.max {
		return ErrTooManyAttempts
	}
	return nil
}
