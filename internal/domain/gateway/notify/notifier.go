package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"go-todo/internal/domain/model"
	"go-todo/pkg/log"
	"go-todo/pkg/msg"
)

// Notifier is a fire-and-forget sink for user notifications
type Notifier interface {
	Notify(ctx context.Context, notification model.Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, notification model.Notification)

func (f NotifierFunc) Notify(ctx context.Context, notification model.Notification) {
	f(ctx, notification)
}

// FanOut delivers to every notifier in order
type FanOut []Notifier

func (f FanOut) Notify(ctx context.Context, notification model.Notification) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, notification)
		}
	}
}

// LogNotifier writes notifications to the application log
type LogNotifier struct {
	Session string
}

func (n LogNotifier) Notify(ctx context.Context, notification model.Notification) {
	log.Debug(msg.GetMessage("todo.log.notification", n.Session, notification.Title, notification.Description),
		zap.String("severity", string(notification.Severity)))
}

// Recorder keeps undelivered notifications until they are drained, dropping the oldest past its capacity
type Recorder struct {
	mu       sync.Mutex
	pending  []model.Notification
	capacity int
}

func NewRecorder(capacity int) *Recorder {
	if capacity < 1 {
		capacity = 1
	}
	return &Recorder{capacity: capacity}
}

func (r *Recorder) Notify(ctx context.Context, notification model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, notification)
	if over := len(r.pending) - r.capacity; over > 0 {
		r.pending = r.pending[over:]
	}
}

// Drain returns pending notifications oldest first and forgets them
func (r *Recorder) Drain() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	drained := r.pending
	r.pending = nil
	return drained
}
