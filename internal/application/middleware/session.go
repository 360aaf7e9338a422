package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"go-todo/internal/domain/usecase/auth"
	"go-todo/internal/domain/usecase/todosync"
	"go-todo/pkg/log"
)

const (
	// SessionCookie carries the session token of browser clients
	SessionCookie = "session"

	principalKey = "principal"
	sessionKey   = "todo-session"
)

// SessionMiddleware resolves the caller's token and binds its todo session to the request
type SessionMiddleware struct {
	auth     auth.UseCase
	registry *todosync.Registry
}

func NewSessionMiddleware(auth auth.UseCase, registry *todosync.Registry) *SessionMiddleware {
	return &SessionMiddleware{auth: auth, registry: registry}
}

// API answers 401 when the request has no valid session
func (m *SessionMiddleware) API() echo.MiddlewareFunc {
	return m.require(func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": auth.ErrInvalidToken.Error()})
	})
}

// Page redirects to the sign-in page when the request has no valid session
func (m *SessionMiddleware) Page(signInPath string) echo.MiddlewareFunc {
	return m.require(func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, signInPath)
	})
}

func (m *SessionMiddleware) require(unauthorized echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFrom(c)
			if token == "" {
				return unauthorized(c)
			}

			ctx := c.Request().Context()
			principal, err := m.auth.Resolve(ctx, token)
			if err != nil {
				log.Debug("rejected session token", zap.Error(err))
				return unauthorized(c)
			}

			c.Set(principalKey, principal)
			c.Set(sessionKey, m.registry.Acquire(ctx, principal.SessionID, principal.Identity))
			return next(c)
		}
	}
}

// TokenFrom reads the bearer token, falling back to the session cookie
func TokenFrom(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// PrincipalFrom returns the principal bound by the session middleware
func PrincipalFrom(c echo.Context) *auth.Principal {
	principal, _ := c.Get(principalKey).(*auth.Principal)
	return principal
}

// SessionFrom returns the todo session bound by the session middleware
func SessionFrom(c echo.Context) *todosync.Session {
	session, _ := c.Get(sessionKey).(*todosync.Session)
	return session
}
