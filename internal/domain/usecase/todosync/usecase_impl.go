package todosync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/gateway/notify"
	"go-todo/internal/domain/gateway/queue"
	"go-todo/internal/domain/model"
	"go-todo/pkg/log"
	"go-todo/pkg/msg"
)

type todoSyncUseCase struct {
	gateway   db.TodoGateway
	notifier  notify.Notifier
	publisher queue.EventPublisher
	sessionID string
	now       func() time.Time

	// op serializes store round trips so responses apply in call order
	op sync.Mutex

	mu           sync.RWMutex
	identity     *entity.Identity
	todos        []entity.Todo
	loading      bool
	listeners    map[int]Listener
	nextListener int
}

// Option customizes a synchronizer
type Option func(*todoSyncUseCase)

// WithSessionID tags logs and events with the session id
func WithSessionID(sessionID string) Option {
	return func(uc *todoSyncUseCase) {
		uc.sessionID = sessionID
	}
}

// WithPublisher publishes a TodoEvent after each successful mutation
func WithPublisher(publisher queue.EventPublisher) Option {
	return func(uc *todoSyncUseCase) {
		if publisher != nil {
			uc.publisher = publisher
		}
	}
}

// WithClock overrides the event timestamp source
func WithClock(now func() time.Time) Option {
	return func(uc *todoSyncUseCase) {
		uc.now = now
	}
}

func NewTodoSyncUseCase(gateway db.TodoGateway, notifier notify.Notifier, opts ...Option) UseCase {
	if notifier == nil {
		notifier = notify.FanOut{}
	}
	uc := &todoSyncUseCase{
		gateway:   gateway,
		notifier:  notifier,
		publisher: queue.NoopEventPublisher{},
		now:       time.Now,
		todos:     []entity.Todo{},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *todoSyncUseCase) State() State {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.snapshot()
}

func (uc *todoSyncUseCase) Identity() *entity.Identity {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.identity == nil {
		return nil
	}
	identity := *uc.identity
	return &identity
}

func (uc *todoSyncUseCase) Subscribe(listener Listener) func() {
	uc.mu.Lock()
	id := uc.nextListener
	uc.nextListener++
	uc.listeners[id] = listener
	uc.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			uc.mu.Lock()
			delete(uc.listeners, id)
			uc.mu.Unlock()
		})
	}
}

func (uc *todoSyncUseCase) SetIdentity(ctx context.Context, identity *entity.Identity) {
	uc.op.Lock()
	defer uc.op.Unlock()

	uc.mu.Lock()
	current := uc.identity
	if identity == nil {
		if current == nil {
			uc.mu.Unlock()
			return
		}
		uc.identity = nil
		uc.todos = []entity.Todo{}
		uc.loading = false
		uc.emitLocked()
		return
	}
	if current != nil && current.UserID == identity.UserID {
		updated := *identity
		uc.identity = &updated
		uc.mu.Unlock()
		return
	}
	next := *identity
	uc.identity = &next
	uc.todos = []entity.Todo{}
	uc.emitLocked()

	_ = uc.fetch(ctx, next.UserID)
}

func (uc *todoSyncUseCase) FetchAll(ctx context.Context) error {
	uc.op.Lock()
	defer uc.op.Unlock()

	owner, err := uc.owner()
	if err != nil {
		return err
	}
	return uc.fetch(ctx, owner)
}

// fetch must run with op held
func (uc *todoSyncUseCase) fetch(ctx context.Context, owner string) error {
	uc.mu.Lock()
	uc.loading = true
	uc.emitLocked()

	start := time.Now()
	todos, err := uc.gateway.FindAllByOwner(ctx, owner)
	operationDuration.WithLabelValues(opFetch).Observe(time.Since(start).Seconds())

	uc.mu.Lock()
	uc.loading = false
	if err == nil {
		if todos == nil {
			todos = []entity.Todo{}
		}
		uc.todos = todos
	}
	uc.emitLocked()

	if err != nil {
		return uc.fail(ctx, opFetch, "todo.log.fetch-failed", "todo.notify.fetch-failed", err)
	}
	operationsTotal.WithLabelValues(opFetch, "success").Inc()
	return nil
}

func (uc *todoSyncUseCase) Create(ctx context.Context, title string, description *string) (*entity.Todo, error) {
	uc.op.Lock()
	defer uc.op.Unlock()

	owner, err := uc.owner()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	created, err := uc.gateway.Create(ctx, entity.Todo{
		Title:       title,
		Description: description,
		UserID:      owner,
	})
	operationDuration.WithLabelValues(opCreate).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, uc.fail(ctx, opCreate, "todo.log.create-failed", "todo.notify.create-failed", err)
	}

	uc.mu.Lock()
	todos := make([]entity.Todo, 0, len(uc.todos)+1)
	todos = append(todos, cloneTodo(*created))
	uc.todos = append(todos, uc.todos...)
	uc.emitLocked()

	uc.succeed(ctx, opCreate, "todo.notify.create-success", model.TodoCreated, owner, created.ID)
	return created, nil
}

func (uc *todoSyncUseCase) Update(ctx context.Context, id string, patch model.TodoPatch) (*entity.Todo, error) {
	uc.op.Lock()
	defer uc.op.Unlock()

	owner, err := uc.owner()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	updated, err := uc.gateway.UpdateByID(ctx, owner, id, patch)
	operationDuration.WithLabelValues(opUpdate).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, uc.fail(ctx, opUpdate, "todo.log.update-failed", "todo.notify.update-failed", err)
	}

	uc.mu.Lock()
	todos := make([]entity.Todo, len(uc.todos))
	for i, t := range uc.todos {
		if t.ID == id {
			todos[i] = cloneTodo(*updated)
		} else {
			todos[i] = t
		}
	}
	uc.todos = todos
	uc.emitLocked()

	uc.succeed(ctx, opUpdate, "todo.notify.update-success", model.TodoUpdated, owner, id)
	return updated, nil
}

func (uc *todoSyncUseCase) Delete(ctx context.Context, id string) error {
	uc.op.Lock()
	defer uc.op.Unlock()

	owner, err := uc.owner()
	if err != nil {
		return err
	}

	start := time.Now()
	err = uc.gateway.DeleteByID(ctx, owner, id)
	operationDuration.WithLabelValues(opDelete).Observe(time.Since(start).Seconds())
	if err != nil {
		return uc.fail(ctx, opDelete, "todo.log.delete-failed", "todo.notify.delete-failed", err)
	}

	uc.mu.Lock()
	todos := make([]entity.Todo, 0, len(uc.todos))
	for _, t := range uc.todos {
		if t.ID != id {
			todos = append(todos, t)
		}
	}
	uc.todos = todos
	uc.emitLocked()

	uc.succeed(ctx, opDelete, "todo.notify.delete-success", model.TodoDeleted, owner, id)
	return nil
}

func (uc *todoSyncUseCase) owner() (string, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.identity == nil {
		return "", ErrNoSession
	}
	return uc.identity.UserID, nil
}

// fail logs, counts and notifies a store failure, returning it wrapped
func (uc *todoSyncUseCase) fail(ctx context.Context, operation, logKey, notifyKey string, err error) error {
	operationsTotal.WithLabelValues(operation, "failure").Inc()
	log.Error(msg.GetMessage(logKey),
		zap.String("session", uc.sessionID),
		zap.String("operation", operation),
		zap.Error(err))
	uc.notifier.Notify(ctx, model.Notification{
		Title:       msg.GetMessage("todo.notify.error-title"),
		Description: msg.GetMessage(notifyKey),
		Severity:    model.SeverityError,
	})
	return fmt.Errorf("%w: %w", ErrRemoteOperation, err)
}

func (uc *todoSyncUseCase) succeed(ctx context.Context, operation, notifyKey string, eventType model.TodoEventType, owner, todoID string) {
	operationsTotal.WithLabelValues(operation, "success").Inc()
	uc.notifier.Notify(ctx, model.Notification{
		Title:       msg.GetMessage("todo.notify.success-title"),
		Description: msg.GetMessage(notifyKey),
		Severity:    model.SeveritySuccess,
	})

	event := model.TodoEvent{
		Type:       eventType,
		Owner:      owner,
		TodoID:     todoID,
		SessionID:  uc.sessionID,
		OccurredAt: uc.now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		log.Warn(msg.GetMessage("todo.log.event-failed"),
			zap.String("session", uc.sessionID),
			zap.String("event", string(eventType)),
			zap.Error(err))
	}
}

// emitLocked must be called with mu held for writing; it releases mu before invoking listeners
func (uc *todoSyncUseCase) emitLocked() {
	state := uc.snapshot()
	listeners := make([]Listener, 0, len(uc.listeners))
	for _, l := range uc.listeners {
		listeners = append(listeners, l)
	}
	uc.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

func (uc *todoSyncUseCase) snapshot() State {
	todos := make([]entity.Todo, len(uc.todos))
	for i, t := range uc.todos {
		todos[i] = cloneTodo(t)
	}
	return State{Todos: todos, Loading: uc.loading}
}

func cloneTodo(t entity.Todo) entity.Todo {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}
