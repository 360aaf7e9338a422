package health

import (
	"context"

	"go-todo/internal/domain/model"
)

// SessionCounter reports the number of live sessions
type SessionCounter interface {
	Len() int
}

type UseCase interface {
	// CheckHealth probes every dependency; the context bounds the probes
	CheckHealth(ctx context.Context) model.HealthResponse
}
