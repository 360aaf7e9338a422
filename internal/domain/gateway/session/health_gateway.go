package session

import (
	"context"

	"go-todo/internal/domain/model"
	"go-todo/pkg/redis"
)

// HealthGateway reports the health of the session cache
type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

type RedisHealthGateway struct {
	checker *redis.HealthChecker
}

var _ HealthGateway = (*RedisHealthGateway)(nil)

func NewRedisHealthGateway(client *redis.Client) *RedisHealthGateway {
	return &RedisHealthGateway{checker: redis.NewHealthChecker(client)}
}

func (gateway *RedisHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	check := gateway.checker.Check(ctx)
	status := model.StatusDown
	if check.Up {
		status = model.StatusUp
	}
	return model.ComponentHealthStatus{Status: status, Details: check.Details}
}

// DisabledHealthGateway is used when redis is not configured
type DisabledHealthGateway struct{}

func (DisabledHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status:  model.StatusUnknown,
		Details: map[string]string{"message": "redis disabled"},
	}
}
