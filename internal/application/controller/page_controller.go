package controller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"go-todo/internal/application/middleware"
	"go-todo/internal/application/view"
	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
	"go-todo/internal/domain/usecase/todosync"
	"go-todo/pkg/msg"
)

// PageController serves the server-rendered todo page. Mutations post back and redirect.
type PageController struct {
	api      *echo.Group
	sessions *middleware.SessionMiddleware
	basePath string
}

func NewPageController(api *echo.Group, sessions *middleware.SessionMiddleware, basePath string) *PageController {
	return &PageController{api: api, sessions: sessions, basePath: strings.TrimSuffix(basePath, "/")}
}

// InitPageRoutes initializes the browser routes
func (controller *PageController) InitPageRoutes() {
	signedIn := controller.sessions.Page(controller.basePath + "/auth")
	controller.api.GET("/", controller.Home, signedIn)
	controller.api.GET("/todos", controller.Todos, signedIn)
	controller.api.POST("/todos", controller.Create, signedIn)
	controller.api.POST("/todos/:id/toggle", controller.Toggle, signedIn)
	controller.api.POST("/todos/:id/edit", controller.Edit, signedIn)
	controller.api.POST("/todos/:id/delete", controller.Delete, signedIn)
}

func (controller *PageController) Home(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, controller.todosPath())
}

func (controller *PageController) Todos(c echo.Context) error {
	return controller.render(c, http.StatusOK, view.PageData{EditID: c.QueryParam("edit")})
}

func (controller *PageController) Create(c echo.Context) error {
	var form view.TodoForm
	if err := c.Bind(&form); err != nil {
		return invalidBody(c)
	}

	title, description, err := form.Create()
	if err != nil {
		return controller.render(c, http.StatusBadRequest, view.PageData{Form: form, FormError: err.Error()})
	}

	// store failures reach the page as notifications
	_, _ = middleware.SessionFrom(c).Create(c.Request().Context(), title, description)
	return c.Redirect(http.StatusSeeOther, controller.todosPath())
}

func (controller *PageController) Toggle(c echo.Context) error {
	session := middleware.SessionFrom(c)
	id := c.Param("id")
	todo, ok := find(session.State(), id)
	if !ok {
		session.Notifications.Notify(c.Request().Context(), model.Notification{
			Title:       msg.GetMessage("todo.notify.error-title"),
			Description: msg.GetMessage("todo.notify.not-found"),
			Severity:    model.SeverityError,
		})
		return controller.render(c, http.StatusNotFound, view.PageData{})
	}

	_, _ = session.Update(c.Request().Context(), id, view.Toggle(todo.Completed))
	return c.Redirect(http.StatusSeeOther, controller.todosPath())
}

func (controller *PageController) Edit(c echo.Context) error {
	var form view.TodoForm
	if err := c.Bind(&form); err != nil {
		return invalidBody(c)
	}

	id := c.Param("id")
	patch, err := form.Edit()
	if err != nil {
		return controller.render(c, http.StatusBadRequest, view.PageData{EditID: id, EditForm: &form, EditError: err.Error()})
	}

	_, _ = middleware.SessionFrom(c).Update(c.Request().Context(), id, patch)
	return c.Redirect(http.StatusSeeOther, controller.todosPath())
}

func (controller *PageController) Delete(c echo.Context) error {
	_ = middleware.SessionFrom(c).Delete(c.Request().Context(), c.Param("id"))
	return c.Redirect(http.StatusSeeOther, controller.todosPath())
}

// render fills the session parts of page and renders it
func (controller *PageController) render(c echo.Context, status int, page view.PageData) error {
	session := middleware.SessionFrom(c)
	page.Email = middleware.PrincipalFrom(c).Identity.Email
	page.List = view.NewListView(session.State())
	page.Notifications = session.Notifications.Drain()
	return c.Render(status, view.TodosTemplate, page)
}

func (controller *PageController) todosPath() string {
	return controller.basePath + "/todos"
}

func find(state todosync.State, id string) (entity.Todo, bool) {
	for _, todo := range state.Todos {
		if todo.ID == id {
			return todo, true
		}
	}
	return entity.Todo{}, false
}
