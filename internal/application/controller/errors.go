package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"go-todo/internal/application/view"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/usecase/auth"
	"go-todo/internal/domain/usecase/todosync"
	"go-todo/pkg/msg"
)

// errorStatus maps domain errors to HTTP statuses
func errorStatus(err error) int {
	switch {
	case errors.Is(err, view.ErrTitleRequired),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, todosync.ErrNoSession),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, db.ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, todosync.ErrRemoteOperation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), map[string]string{"error": err.Error()})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg.GetMessage("todo.error.invalid-body")})
}
