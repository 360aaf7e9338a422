package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
)

// MemoryTodoGateway keeps todos in process. Rows are appended in creation order.
type MemoryTodoGateway struct {
	mu    sync.RWMutex
	todos []entity.Todo
	now   func() time.Time
}

var _ TodoGateway = (*MemoryTodoGateway)(nil)

func NewMemoryTodoGateway() *MemoryTodoGateway {
	return &MemoryTodoGateway{now: time.Now}
}

func (gateway *MemoryTodoGateway) FindAllByOwner(ctx context.Context, owner string) ([]entity.Todo, error) {
	gateway.mu.RLock()
	defer gateway.mu.RUnlock()

	results := make([]entity.Todo, 0)
	for i := len(gateway.todos) - 1; i >= 0; i-- {
		if gateway.todos[i].UserID == owner {
			results = append(results, copyTodo(gateway.todos[i]))
		}
	}
	return results, nil
}

func (gateway *MemoryTodoGateway) Create(ctx context.Context, todo entity.Todo) (*entity.Todo, error) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	now := gateway.now().UTC()
	todo.ID = uuid.New().String()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	if todo.Description != nil && *todo.Description == "" {
		todo.Description = nil
	}
	todo = copyTodo(todo)
	gateway.todos = append(gateway.todos, todo)

	created := copyTodo(todo)
	return &created, nil
}

func (gateway *MemoryTodoGateway) UpdateByID(ctx context.Context, owner string, id string, patch model.TodoPatch) (*entity.Todo, error) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	for i := range gateway.todos {
		t := &gateway.todos[i]
		if t.ID != id || t.UserID != owner {
			continue
		}
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			if *patch.Description == "" {
				t.Description = nil
			} else {
				d := *patch.Description
				t.Description = &d
			}
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		t.UpdatedAt = gateway.now().UTC()

		updated := copyTodo(*t)
		return &updated, nil
	}
	return nil, ErrTodoNotFound
}

func (gateway *MemoryTodoGateway) DeleteByID(ctx context.Context, owner string, id string) error {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	for i := range gateway.todos {
		if gateway.todos[i].ID == id && gateway.todos[i].UserID == owner {
			gateway.todos = append(gateway.todos[:i], gateway.todos[i+1:]...)
			return nil
		}
	}
	return nil
}

// copyTodo detaches the description pointer from the stored row
func copyTodo(t entity.Todo) entity.Todo {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}
