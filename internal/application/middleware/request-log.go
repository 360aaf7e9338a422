package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"go-todo/pkg/log"
	"go-todo/pkg/msg"
)

var quietPaths = []string{"/health", "/health/live", "/metrics"}

func skipRequestLog(c echo.Context) bool {
	path := c.Request().URL.Path
	if strings.Contains(path, "/swagger/") {
		return true
	}
	for _, quiet := range quietPaths {
		if strings.HasSuffix(path, quiet) {
			return true
		}
	}
	return false
}

// RequestLogger logs one line per request: errors and 5xx at error level, other 4xx at warn.
// Requests that passed the session middleware carry the session and user.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		Skipper:      skipRequestLog,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("route", v.RoutePath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}
			if principal := PrincipalFrom(c); principal != nil {
				fields = append(fields,
					zap.String("session_id", principal.SessionID),
					zap.String("user_id", principal.Identity.UserID))
			}

			switch {
			case v.Error != nil || v.Status >= http.StatusInternalServerError:
				log.Error(msg.GetMessage("app.req-fail", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error),
					append(fields, zap.Error(v.Error))...)
			case v.Status >= http.StatusBadRequest:
				log.Warn(msg.GetMessage("app.req-end", v.Method, v.URI, v.Status, v.Latency, v.RequestID), fields...)
			default:
				log.Info(msg.GetMessage("app.req-end", v.Method, v.URI, v.Status, v.Latency, v.RequestID), fields...)
			}
			return nil
		},
	})
}
