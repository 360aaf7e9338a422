package view

import (
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
	"go-todo/pkg/msg"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TodosTemplate = "todos.html"
	AuthTemplate  = "auth.html"
)

// PageData feeds the todo page
type PageData struct {
	Email         string
	List          ListView
	Notifications []model.Notification
	Form          TodoForm
	FormError     string
	EditID        string
	// EditForm holds a rejected edit so it can be shown again with EditError
	EditForm  *TodoForm
	EditError string
}

// Item is one rendered todo, in edit mode when its id was requested
type Item struct {
	Todo    entity.Todo
	Editing bool
	Form    TodoForm
	Error   string
}

// itemOf renders todo, prefilling the edit form from a rejected submission when there is one
func itemOf(todo entity.Todo, page PageData) Item {
	item := Item{Todo: todo, Editing: todo.ID == page.EditID}
	if !item.Editing {
		return item
	}
	if page.EditForm != nil {
		item.Form = *page.EditForm
		item.Error = page.EditError
		return item
	}
	item.Form = TodoForm{Title: todo.Title}
	if todo.Description != nil {
		item.Form.Description = *todo.Description
	}
	return item
}

// AuthData feeds the sign-in page
type AuthData struct {
	Email string
	Error string
}

// Renderer renders the embedded html templates for echo
type Renderer struct {
	templates *template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses the templates. Relative links and form actions resolve against basePath,
// so a page rendered from a POST url still posts to the right routes.
func NewRenderer(basePath string) (*Renderer, error) {
	base := strings.TrimSuffix(basePath, "/") + "/"
	templates, err := template.New("").Funcs(template.FuncMap{
		"basePath": func() string { return base },
		"message":  msg.GetMessage,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"itemOf": itemOf,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
