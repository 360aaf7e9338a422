package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"go-todo/internal/application/middleware"
	"go-todo/internal/application/view"
	"go-todo/internal/domain/model"
	"go-todo/internal/domain/usecase/auth"
	"go-todo/internal/domain/usecase/todosync"
)

type AuthController struct {
	api          *echo.Group
	useCase      auth.UseCase
	registry     *todosync.Registry
	basePath     string
	secureCookie bool
}

func NewAuthController(api *echo.Group, useCase auth.UseCase, registry *todosync.Registry, basePath string, secureCookie bool) *AuthController {
	return &AuthController{
		api:          api,
		useCase:      useCase,
		registry:     registry,
		basePath:     strings.TrimSuffix(basePath, "/"),
		secureCookie: secureCookie,
	}
}

// InitAuthRoutes initializes sign-in, sign-up and sign-out routes
func (controller *AuthController) InitAuthRoutes() {
	controller.api.GET("/auth", controller.SignInPage)
	controller.api.POST("/auth/sign-up", controller.SignUp)
	controller.api.POST("/auth/sign-in", controller.SignIn)
	controller.api.POST("/auth/sign-out", controller.SignOut)
}

func (controller *AuthController) SignInPage(c echo.Context) error {
	return c.Render(http.StatusOK, view.AuthTemplate, view.AuthData{})
}

// SignUp godoc
// @Summary Register a user
// @Description Creates the account and opens a session. Accepts JSON or a form post.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param credentials body model.CredentialsDTO true "Email and password"
// @Success 201 {object} model.TokenDTO
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /auth/sign-up [post]
func (controller *AuthController) SignUp(c echo.Context) error {
	return controller.authenticate(c, http.StatusCreated, controller.useCase.SignUp)
}

// SignIn godoc
// @Summary Sign in
// @Description Opens a session. Accepts JSON or a form post.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param credentials body model.CredentialsDTO true "Email and password"
// @Success 200 {object} model.TokenDTO
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /auth/sign-in [post]
func (controller *AuthController) SignIn(c echo.Context) error {
	return controller.authenticate(c, http.StatusOK, controller.useCase.SignIn)
}

type authenticator func(ctx context.Context, credentials model.CredentialsDTO) (*model.TokenDTO, error)

func (controller *AuthController) authenticate(c echo.Context, status int, authenticate authenticator) error {
	var credentials model.CredentialsDTO
	if err := c.Bind(&credentials); err != nil {
		return invalidBody(c)
	}

	token, err := authenticate(c.Request().Context(), credentials)
	if err != nil {
		if wantsJSON(c) {
			return errorJSON(c, err)
		}
		return c.Render(errorStatus(err), view.AuthTemplate, view.AuthData{Email: credentials.Email, Error: err.Error()})
	}

	c.SetCookie(controller.sessionCookie(token.Token, token.ExpiresAt))
	if wantsJSON(c) {
		return c.JSON(status, token)
	}
	return c.Redirect(http.StatusSeeOther, controller.basePath+"/todos")
}

// SignOut godoc
// @Summary Sign out
// @Description Revokes the session token and closes the session
// @Tags auth
// @Security BearerAuth
// @Success 204 "Signed out"
// @Router /auth/sign-out [post]
func (controller *AuthController) SignOut(c echo.Context) error {
	if token := middleware.TokenFrom(c); token != "" {
		ctx := c.Request().Context()
		if sessionID, err := controller.useCase.SignOut(ctx, token); err == nil {
			controller.registry.Release(ctx, sessionID)
		}
	}

	c.SetCookie(controller.sessionCookie("", time.Unix(0, 0)))
	if wantsJSON(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, controller.basePath+"/auth")
}

func (controller *AuthController) sessionCookie(value string, expires time.Time) *http.Cookie {
	path := controller.basePath
	if path == "" {
		path = "/"
	}
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   controller.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// wantsJSON is true for API clients: JSON bodies, JSON accept headers or bearer tokens
func wantsJSON(c echo.Context) bool {
	request := c.Request()
	return strings.HasPrefix(request.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) ||
		strings.Contains(request.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(request.Header.Get(echo.HeaderAuthorization), "Bearer ")
}
