package db

import (
	"context"
	"errors"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
	"go-todo/pkg/msg"
)

// ErrTodoNotFound is returned when an update targets a row the owner does not have
var ErrTodoNotFound = errors.New(msg.GetMessage("todo.error.not-found"))

// TodoGateway is the remote store of todos. Every operation is scoped to an owner.
type TodoGateway interface {
	// FindAllByOwner returns the owner's todos, newest created first
	FindAllByOwner(ctx context.Context, owner string) ([]entity.Todo, error)
	// Create inserts a todo, assigning id and timestamps, and returns the stored row
	Create(ctx context.Context, todo entity.Todo) (*entity.Todo, error)
	// UpdateByID applies the patch and returns the stored row, or ErrTodoNotFound
	UpdateByID(ctx context.Context, owner string, id string, patch model.TodoPatch) (*entity.Todo, error)
	// DeleteByID removes the row if present
	DeleteByID(ctx context.Context, owner string, id string) error
}
