package health

import (
	"context"
	"strconv"
	"time"

	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/gateway/queue"
	"go-todo/internal/domain/gateway/session"
	"go-todo/internal/domain/model"
)

type healthUseCase struct {
	dbGateway    db.HealthDBGateway
	queueGateway queue.HealthGateway
	cacheGateway session.HealthGateway
	sessions     SessionCounter
	now          func() time.Time
}

func NewHealthUseCase(dbGateway db.HealthDBGateway, queueGateway queue.HealthGateway, cacheGateway session.HealthGateway, sessions SessionCounter) UseCase {
	return &healthUseCase{
		dbGateway:    dbGateway,
		queueGateway: queueGateway,
		cacheGateway: cacheGateway,
		sessions:     sessions,
		now:          time.Now,
	}
}

func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	dbHealth := useCase.dbGateway.Health(ctx)
	queueHealth := useCase.queueGateway.Health(ctx)
	cacheHealth := useCase.cacheGateway.Health(ctx)

	return model.HealthResponse{
		Status:    model.Overall(dbHealth, queueHealth, cacheHealth),
		CheckedAt: useCase.now().UTC(),
		Database:  dbHealth,
		Queue:     queueHealth,
		Cache:     cacheHealth,
		Sessions: model.ComponentHealthStatus{
			Status:  model.StatusUp,
			Details: map[string]string{"active": strconv.Itoa(useCase.sessions.Len())},
		},
	}
}
