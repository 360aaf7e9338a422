package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRevocationGateway(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	gateway := NewMemoryRevocationGateway()
	gateway.now = func() time.Time { return now }
	ctx := context.Background()

	if revoked, _ := gateway.IsRevoked(ctx, "s1"); revoked {
		t.Fatalf("fresh session reported revoked")
	}
	_ = gateway.Revoke(ctx, "s1", time.Hour)
	if revoked, _ := gateway.IsRevoked(ctx, "s1"); !revoked {
		t.Fatalf("revoked session not reported")
	}

	now = now.Add(2 * time.Hour)
	if revoked, _ := gateway.IsRevoked(ctx, "s1"); revoked {
		t.Fatalf("revocation should lapse with the token")
	}
}

func TestMemoryAttemptLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewMemoryAttemptLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Allow(ctx, "a@b.c"); err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
	if err := limiter.Allow(ctx, "a@b.c"); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("third attempt err = %v", err)
	}
	if err := limiter.Allow(ctx, "other@b.c"); err != nil {
		t.Fatalf("other key limited: %v", err)
	}

	now = now.Add(time.Minute)
	if err := limiter.Allow(ctx, "a@b.c"); err != nil {
		t.Fatalf("new window still limited: %v", err)
	}
}
