package redis

import (
	"context"

	"go.uber.org/zap"

	"go-todo/internal/domain/gateway/queue"
	"go-todo/internal/domain/model"
	"go-todo/pkg/log"
	pkgredis "go-todo/pkg/redis"
)

// EventPublisher broadcasts todo events on a redis channel, reaching every instance
type EventPublisher struct {
	publisher *pkgredis.Publisher
	channel   string
}

var _ queue.EventPublisher = (*EventPublisher)(nil)

func NewEventPublisher(publisher *pkgredis.Publisher, channel string) *EventPublisher {
	return &EventPublisher{publisher: publisher, channel: channel}
}

// Publish succeeds even when no instance is subscribed; the receiver count is only logged
func (p *EventPublisher) Publish(ctx context.Context, event model.TodoEvent) error {
	receivers, err := p.publisher.PublishJSON(ctx, p.channel, event)
	if err != nil {
		return err
	}
	log.Debug("todo event published",
		zap.String("channel", p.channel),
		zap.String("type", string(event.Type)),
		zap.Int64("receivers", receivers))
	return nil
}
