package model

import (
	"time"

	"go-todo/internal/domain/entity"
)

// TodoPatch is a partial update. Nil fields are left untouched; an empty Description clears it.
type TodoPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

type CreateTodoDTO struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

type UpdateTodoDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// TodoListDTO is the List view of a session
type TodoListDTO struct {
	Loading   bool          `json:"loading"`
	Active    []entity.Todo `json:"active"`
	Completed []entity.Todo `json:"completed"`
	Total     int           `json:"total"`
}

// TodoEventType names a change published after a successful mutation
type TodoEventType string

const (
	TodoCreated TodoEventType = "todo.created"
	TodoUpdated TodoEventType = "todo.updated"
	TodoDeleted TodoEventType = "todo.deleted"
)

type TodoEvent struct {
	Type       TodoEventType `json:"type"`
	Owner      string        `json:"owner"`
	TodoID     string        `json:"todo_id"`
	SessionID  string        `json:"session_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Valid reports whether the event carries what a consumer needs
func (e TodoEvent) Valid() bool {
	switch e.Type {
	case TodoCreated, TodoUpdated, TodoDeleted:
	default:
		return false
	}
	return e.Owner != "" && e.TodoID != ""
}
