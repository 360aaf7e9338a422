package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"go-todo/internal/domain/model"
	"go-todo/pkg/log"
	"go-todo/pkg/msg"
	"go-todo/pkg/sqs"
)

// Resyncer refetches the live sessions of an owner
type Resyncer interface {
	Resync(ctx context.Context, owner, originSessionID string) int
}

// TodoEventProcessor refreshes a user's other sessions when one of them changes a todo
type TodoEventProcessor struct {
	sessions Resyncer
}

var _ sqs.Handler = (*TodoEventProcessor)(nil)

func NewTodoEventProcessor(sessions Resyncer) *TodoEventProcessor {
	return &TodoEventProcessor{sessions: sessions}
}

// HandleMessage implements the sqs.Handler interface
func (p *TodoEventProcessor) HandleMessage(ctx context.Context, message *types.Message) error {
	if message == nil || message.Body == nil {
		return fmt.Errorf("received nil message or message body")
	}
	return p.process(ctx, []byte(*message.Body))
}

// HandleRedisMessage handles events published on a redis channel
func (p *TodoEventProcessor) HandleRedisMessage(ctx context.Context, channel string, message string) error {
	return p.process(ctx, []byte(message))
}

// process discards malformed events so they are not redelivered forever
func (p *TodoEventProcessor) process(ctx context.Context, body []byte) error {
	var event model.TodoEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Warn(msg.GetMessage("event.log.invalid", err.Error()))
		return nil
	}
	if !event.Valid() {
		log.Warn(msg.GetMessage("event.log.invalid", string(body)))
		return nil
	}

	log.Info(msg.GetMessage("event.log.received", event.Type, event.Owner))
	resynced := p.sessions.Resync(ctx, event.Owner, event.SessionID)
	log.Info(msg.GetMessage("event.log.resynced", resynced, event.Owner))
	return nil
}
