package todosync

import (
	"context"
	"errors"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
	"go-todo/pkg/msg"
)

var (
	// ErrNoSession is returned when an operation runs before an identity is set
	ErrNoSession = errors.New(msg.GetMessage("todo.error.no-session"))
	// ErrRemoteOperation wraps every store failure
	ErrRemoteOperation = errors.New(msg.GetMessage("todo.error.remote"))
)

// State is a value snapshot of a session's todos
type State struct {
	Todos   []entity.Todo `json:"todos"`
	Loading bool          `json:"loading"`
}

// Listener receives every state transition
type Listener func(State)

// UseCase owns the in-memory todo list of one session and keeps it in step with the store.
// The list only changes after the store confirms an operation.
type UseCase interface {
	State() State
	Identity() *entity.Identity
	// SetIdentity clears the list and refetches when the user changes; nil signs the session out
	SetIdentity(ctx context.Context, identity *entity.Identity)
	FetchAll(ctx context.Context) error
	Create(ctx context.Context, title string, description *string) (*entity.Todo, error)
	Update(ctx context.Context, id string, patch model.TodoPatch) (*entity.Todo, error)
	Delete(ctx context.Context, id string) error
	// Subscribe registers a listener and returns a function that removes it
	Subscribe(listener Listener) func()
}
