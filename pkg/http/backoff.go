package http

import (
	"context"
	"math"
	"net/http"
	"time"
)

// BackoffConfig controls how failed requests are retried.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// RetryOnStatus lists the status codes worth retrying. Empty means 429 and any 5xx.
	RetryOnStatus []int
}

// DefaultBackoff returns a conservative exponential backoff.
func DefaultBackoff() *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
	}
}

func (b *BackoffConfig) shouldRetry(status int, err error) bool {
	if b == nil {
		return false
	}
	if err != nil {
		return true
	}
	if len(b.RetryOnStatus) == 0 {
		return status == http.StatusTooManyRequests || status >= 500
	}
	for _, s := range b.RetryOnStatus {
		if s == status {
			return true
		}
	}
	return false
}

// interval returns the delay before the given retry, starting at zero.
func (b *BackoffConfig) interval(retry int) time.Duration {
	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := time.Duration(float64(b.InitialInterval) * math.Pow(multiplier, float64(retry)))
	if b.MaxInterval > 0 && delay > b.MaxInterval {
		return b.MaxInterval
	}
	return delay
}

func (b *BackoffConfig) wait(ctx context.Context, retry int) error {
	timer := time.NewTimer(b.interval(retry))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
