package aws

import (
	"context"
	"strconv"

	"go-todo/internal/domain/gateway/queue"
	"go-todo/internal/domain/model"
	"go-todo/pkg/sqs"
)

// SQSEventPublisher sends todo events to a queue. FIFO queues keep each owner's events in order.
type SQSEventPublisher struct {
	sender    *sqs.Sender
	queueName string
}

var _ queue.EventPublisher = (*SQSEventPublisher)(nil)

func NewSQSEventPublisher(client sqs.SQSClient, queueName string) *SQSEventPublisher {
	return &SQSEventPublisher{
		sender:    sqs.NewSender(client),
		queueName: queueName,
	}
}

func (publisher *SQSEventPublisher) Publish(ctx context.Context, event model.TodoEvent) error {
	return publisher.sender.Send(ctx, publisher.queueName, sqs.Message{
		Body: event,
		Attributes: map[string]string{
			"type":  string(event.Type),
			"owner": event.Owner,
		},
		GroupID:         event.Owner,
		DeduplicationID: event.SessionID + ":" + event.TodoID + ":" + strconv.FormatInt(event.OccurredAt.UnixNano(), 10),
	})
}
