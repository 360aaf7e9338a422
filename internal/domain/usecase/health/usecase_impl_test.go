package health

import (
	"context"
	"testing"

	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/gateway/queue"
	"go-todo/internal/domain/gateway/session"
	"go-todo/internal/domain/model"
)

type fixedHealth model.HealthStatus

func (f fixedHealth) Health(ctx context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{Status: model.HealthStatus(f)}
}

type sessionCount int

func (s sessionCount) Len() int { return int(s) }

type upConsumer struct{}

func (upConsumer) HealthDetails() (bool, map[string]string) { return true, nil }

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name  string
		db    db.HealthDBGateway
		cache session.HealthGateway
		want  model.HealthStatus
	}{
		{"memory store without redis", &db.MemoryHealthDBGateway{}, session.DisabledHealthGateway{}, model.StatusUp},
		{"database down", fixedHealth(model.StatusDown), session.DisabledHealthGateway{}, model.StatusDown},
		{"cache down", &db.MemoryHealthDBGateway{}, fixedHealth(model.StatusDown), model.StatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewHealthUseCase(tt.db, queue.NewQueueHealthGateway("sqs"), tt.cache, sessionCount(2))
			got := uc.CheckHealth(context.Background())
			if got.Status != tt.want {
				t.Fatalf("status = %s, want %s", got.Status, tt.want)
			}
			if got.Queue.Status != model.StatusUnknown || got.Sessions.Details["active"] != "2" {
				t.Fatalf("response = %+v", got)
			}
			if got.CheckedAt.IsZero() {
				t.Fatalf("checked_at not set")
			}
		})
	}
}

func TestCheckHealth_RegisteredConsumer(t *testing.T) {
	queueGateway := queue.NewQueueHealthGateway("sqs")
	queueGateway.RegisterConsumer("todo-events", upConsumer{})

	got := NewHealthUseCase(&db.MemoryHealthDBGateway{}, queueGateway, session.DisabledHealthGateway{}, sessionCount(0)).
		CheckHealth(context.Background())
	if got.Status != model.StatusUp || got.Queue.Status != model.StatusUp {
		t.Fatalf("response = %+v", got)
	}
}
