package db

import (
	"context"

	"go-todo/internal/domain/model"
)

// MemoryHealthDBGateway reports the in-process store, which is always up
type MemoryHealthDBGateway struct{}

var _ HealthDBGateway = (*MemoryHealthDBGateway)(nil)

func (gateway *MemoryHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status:  model.StatusUp,
		Details: map[string]string{"driver": DriverMemory},
	}
}
