package db

import (
	"context"
	"database/sql"
	"strconv"

	"go-todo/internal/domain/model"
)

type SQLCHealthDBGateway struct {
	DB *sql.DB
}

var _ HealthDBGateway = (*SQLCHealthDBGateway)(nil)

func NewSQLCHealthDBGateway(db *sql.DB) *SQLCHealthDBGateway {
	return &SQLCHealthDBGateway{DB: db}
}

// Health pings the pool and checks the todo schema is migrated
func (gateway *SQLCHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := gateway.DB.PingContext(ctx); err != nil {
		return down(DriverSQLC, err)
	}

	var todos int64
	if err := gateway.DB.QueryRowContext(ctx, `SELECT count(*) FROM todos`).Scan(&todos); err != nil {
		return down(DriverSQLC, err)
	}

	stats := gateway.DB.Stats()
	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"driver":           DriverSQLC,
			"todos":            strconv.FormatInt(todos, 10),
			"open_connections": strconv.Itoa(stats.OpenConnections),
			"in_use":           strconv.Itoa(stats.InUse),
		},
	}
}
