package queue

import (
	"context"

	"go-todo/internal/domain/model"
)

// EventPublisher delivers todo change events to other instances
type EventPublisher interface {
	Publish(ctx context.Context, event model.TodoEvent) error
}

// NoopEventPublisher drops every event
type NoopEventPublisher struct{}

var _ EventPublisher = NoopEventPublisher{}

func (NoopEventPublisher) Publish(ctx context.Context, event model.TodoEvent) error {
	return nil
}
