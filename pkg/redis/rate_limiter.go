package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrRateLimitExceeded is returned when a key exhausted its window
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// RateLimiterOptions represents options for fixed window rate limiting
type RateLimiterOptions struct {
	// MaxPerWindow is the number of hits allowed per window
	MaxPerWindow int
	// Window is the window length
	Window time.Duration
	// Namespace prefixes every counter key
	Namespace string
}

// NewRateLimiterOptions creates options allowing max hits per minute
func NewRateLimiterOptions(max int) *RateLimiterOptions {
	return &RateLimiterOptions{
		MaxPerWindow: max,
		Window:       time.Minute,
	}
}

// WithWindow sets the window length
func (o *RateLimiterOptions) WithWindow(window time.Duration) *RateLimiterOptions {
	o.Window = window
	return o
}

// WithNamespace sets the key namespace
func (o *RateLimiterOptions) WithNamespace(namespace string) *RateLimiterOptions {
	o.Namespace = namespace
	return o
}

// Validate validates the options
func (o *RateLimiterOptions) Validate() error {
	if o.MaxPerWindow < 1 {
		return fmt.Errorf("max per window must be greater than 0")
	}
	if o.Window <= 0 {
		return fmt.Errorf("window must be positive")
	}
	return nil
}

// RateLimiter counts hits per key in fixed windows stored in Redis
type RateLimiter struct {
	client *Client
	opts   *RateLimiterOptions
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, opts *RateLimiterOptions) (*RateLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if opts == nil {
		opts = NewRateLimiterOptions(60)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &RateLimiter{client: client, opts: opts}, nil
}

// buildKey names the counter of key for the window containing now
func (rl *RateLimiter) buildKey(key string, now time.Time) string {
	window := strconv.FormatInt(now.UnixNano()/int64(rl.opts.Window), 10)
	if rl.opts.Namespace != "" {
		return rl.client.Key("ratelimit", rl.opts.Namespace, key, window)
	}
	return rl.client.Key("ratelimit", key, window)
}

// Allow registers a hit for key and returns ErrRateLimitExceeded once the window is exhausted
func (rl *RateLimiter) Allow(ctx context.Context, key string) error {
	count, err := rl.client.IncrWithExpire(ctx, rl.buildKey(key, time.Now()), rl.opts.Window)
	if err != nil {
		return fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count > int64(rl.opts.MaxPerWindow) {
		return ErrRateLimitExceeded
	}
	return nil
}
