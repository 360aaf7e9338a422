package view

import (
	"errors"
	"strings"

	"go-todo/internal/domain/model"
	"go-todo/pkg/msg"
)

// ErrTitleRequired rejects a form whose title is blank after trimming
var ErrTitleRequired = errors.New(msg.GetMessage("todo.error.title-required"))

// TodoForm is the create and edit form of a todo
type TodoForm struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// Create validates the form for a new todo. A blank description is absent.
func (f TodoForm) Create() (string, *string, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return "", nil, ErrTitleRequired
	}
	description := strings.TrimSpace(f.Description)
	if description == "" {
		return title, nil, nil
	}
	return title, &description, nil
}

// Edit validates the form for a saved edit. A blank description clears the stored one.
func (f TodoForm) Edit() (model.TodoPatch, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return model.TodoPatch{}, ErrTitleRequired
	}
	description := strings.TrimSpace(f.Description)
	return model.TodoPatch{Title: &title, Description: &description}, nil
}

// Toggle flips the completion flag of a todo
func Toggle(completed bool) model.TodoPatch {
	next := !completed
	return model.TodoPatch{Completed: &next}
}

// ValidatePatch trims a JSON patch the way the edit form does
func ValidatePatch(dto model.UpdateTodoDTO) (model.TodoPatch, error) {
	patch := model.TodoPatch{Completed: dto.Completed}
	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		if title == "" {
			return model.TodoPatch{}, ErrTitleRequired
		}
		patch.Title = &title
	}
	if dto.Description != nil {
		description := strings.TrimSpace(*dto.Description)
		patch.Description = &description
	}
	return patch, nil
}
