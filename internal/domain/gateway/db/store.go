package db

import (
	"context"
	"time"

	"go-todo/internal/domain/model"
)

// Store drivers, as named in app.store.driver and app.auth.store
const (
	DriverSQLC   = "sqlc"
	DriverGorm   = "gorm"
	DriverMemory = "memory"
)

// healthTimeout bounds each store probe
const healthTimeout = 2 * time.Second

// HealthDBGateway probes the store backing the gateways
type HealthDBGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

func down(driver string, err error) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusDown,
		Details: map[string]string{
			"driver":  driver,
			"message": err.Error(),
		},
	}
}
