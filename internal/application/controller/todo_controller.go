package controller

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"go-todo/internal/application/middleware"
	"go-todo/internal/application/stream"
	"go-todo/internal/application/view"
	"go-todo/internal/domain/model"
	"go-todo/pkg/log"
)

type TodoController struct {
	api      *echo.Group
	sessions *middleware.SessionMiddleware
	hub      *stream.Hub
	upgrader websocket.Upgrader
}

func NewTodoController(api *echo.Group, sessions *middleware.SessionMiddleware, hub *stream.Hub) *TodoController {
	return &TodoController{
		api:      api,
		sessions: sessions,
		hub:      hub,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
}

// InitTodoRoutes initializes the todo API routes
func (controller *TodoController) InitTodoRoutes() {
	todos := controller.api.Group("/api/todos", controller.sessions.API())
	todos.GET("", controller.List)
	todos.POST("", controller.Create)
	todos.POST("/refresh", controller.Refresh)
	todos.GET("/stream", controller.Stream)
	todos.PATCH("/:id", controller.Update)
	todos.DELETE("/:id", controller.Delete)
}

// List godoc
// @Summary List todos
// @Description Returns the session's todos split into active and completed, newest first
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.TodoListDTO
// @Failure 401 {object} map[string]string
// @Router /api/todos [get]
func (controller *TodoController) List(c echo.Context) error {
	session := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, view.NewTodoList(session.State()))
}

// Create godoc
// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param todo body model.CreateTodoDTO true "New todo"
// @Success 201 {object} entity.Todo
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string "Store failure"
// @Router /api/todos [post]
func (controller *TodoController) Create(c echo.Context) error {
	var dto model.CreateTodoDTO
	if err := c.Bind(&dto); err != nil {
		return invalidBody(c)
	}

	form := view.TodoForm{Title: dto.Title}
	if dto.Description != nil {
		form.Description = *dto.Description
	}
	title, description, err := form.Create()
	if err != nil {
		return errorJSON(c, err)
	}

	todo, err := middleware.SessionFrom(c).Create(c.Request().Context(), title, description)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, todo)
}

// Update godoc
// @Summary Update a todo
// @Description Applies any subset of title, description and completed. An empty description clears it.
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo id"
// @Param todo body model.UpdateTodoDTO true "Changes"
// @Success 200 {object} entity.Todo
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string "Store failure"
// @Router /api/todos/{id} [patch]
func (controller *TodoController) Update(c echo.Context) error {
	var dto model.UpdateTodoDTO
	if err := c.Bind(&dto); err != nil {
		return invalidBody(c)
	}

	patch, err := view.ValidatePatch(dto)
	if err != nil {
		return errorJSON(c, err)
	}
	if patch.IsEmpty() {
		return invalidBody(c)
	}

	todo, err := middleware.SessionFrom(c).Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, todo)
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Security BearerAuth
// @Param id path string true "Todo id"
// @Success 204 "Todo deleted"
// @Failure 502 {object} map[string]string "Store failure"
// @Router /api/todos/{id} [delete]
func (controller *TodoController) Delete(c echo.Context) error {
	if err := middleware.SessionFrom(c).Delete(c.Request().Context(), c.Param("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Refresh godoc
// @Summary Refetch todos
// @Description Reloads the session's todos from the store
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.TodoListDTO
// @Failure 502 {object} map[string]string "Store failure"
// @Router /api/todos/refresh [post]
func (controller *TodoController) Refresh(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if err := session.FetchAll(c.Request().Context()); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, view.NewTodoList(session.State()))
}

// Stream godoc
// @Summary Live todo stream
// @Description Websocket pushing {"type":"state"|"notification","data":...} frames for the session
// @Tags todos
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Router /api/todos/stream [get]
func (controller *TodoController) Stream(c echo.Context) error {
	session := middleware.SessionFrom(c)
	conn, err := controller.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	stream.NewClient(controller.hub, conn, session.ID).Run(session)
	return nil
}
