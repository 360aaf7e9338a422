package view

import (
	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
	"go-todo/internal/domain/usecase/todosync"
	"go-todo/pkg/msg"
)

// NewTodoList partitions a state into active and completed todos, keeping the list order
func NewTodoList(state todosync.State) model.TodoListDTO {
	list := model.TodoListDTO{
		Loading:   state.Loading,
		Active:    make([]entity.Todo, 0),
		Completed: make([]entity.Todo, 0),
		Total:     len(state.Todos),
	}
	for _, todo := range state.Todos {
		if todo.Completed {
			list.Completed = append(list.Completed, todo)
		} else {
			list.Active = append(list.Active, todo)
		}
	}
	return list
}

// Section is a headed group of todos shown only when it has items
type Section struct {
	Heading string
	Todos   []entity.Todo
}

// ListView is what the list renders: a placeholder or its sections
type ListView struct {
	Placeholder string
	Sections    []Section
}

func NewListView(state todosync.State) ListView {
	if state.Loading {
		return ListView{Placeholder: msg.GetMessage("todo.view.loading")}
	}
	if len(state.Todos) == 0 {
		return ListView{Placeholder: msg.GetMessage("todo.view.empty")}
	}

	list := NewTodoList(state)
	view := ListView{}
	if len(list.Active) > 0 {
		view.Sections = append(view.Sections, Section{
			Heading: msg.GetMessage("todo.view.active", len(list.Active)),
			Todos:   list.Active,
		})
	}
	if len(list.Completed) > 0 {
		view.Sections = append(view.Sections, Section{
			Heading: msg.GetMessage("todo.view.completed", len(list.Completed)),
			Todos:   list.Completed,
		})
	}
	return view
}
