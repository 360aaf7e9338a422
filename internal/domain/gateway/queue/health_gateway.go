package queue

import (
	"context"

	"go-todo/internal/domain/model"
)

// Consumer is a running event consumer that can report its health
type Consumer interface {
	HealthDetails() (bool, map[string]string)
}

type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
	RegisterConsumer(name string, consumer Consumer)
	UnregisterConsumer(name string)
}
