package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"go-todo/internal/domain/model"
)

type fixedHealthUseCase model.HealthStatus

func (f fixedHealthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	return model.HealthResponse{Status: model.HealthStatus(f)}
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		status model.HealthStatus
		code   int
	}{
		{model.StatusUp, http.StatusOK},
		{model.StatusDown, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			e := echo.New()
			NewHealthController(e.Group(""), fixedHealthUseCase(tt.status)).InitHealthRoutes()

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
		})
	}
}

func TestLive(t *testing.T) {
	e := echo.New()
	NewHealthController(e.Group(""), fixedHealthUseCase(model.StatusDown)).InitHealthRoutes()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
