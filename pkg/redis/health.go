package redis

import (
	"context"
	"strconv"
	"time"
)

// Health is the state of a Redis backed component
type Health struct {
	Up      bool
	Details map[string]string
}

// HealthChecker pings Redis with a bounded timeout
type HealthChecker struct {
	client  *Client
	timeout time.Duration
}

func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{client: client, timeout: 3 * time.Second}
}

// Check pings Redis and reports latency and pool statistics
func (h *HealthChecker) Check(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := h.client.Ping(ctx)

	config := h.client.Config()
	stats := h.client.poolStats()
	details := map[string]string{
		"addr":        config.Addr(),
		"database":    strconv.Itoa(config.Database),
		"latency":     time.Since(start).String(),
		"total_conns": strconv.FormatUint(uint64(stats.TotalConns), 10),
		"idle_conns":  strconv.FormatUint(uint64(stats.IdleConns), 10),
	}
	if err != nil {
		details["error"] = err.Error()
	}
	return Health{Up: err == nil, Details: details}
}
