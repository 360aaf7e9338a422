package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "go-todo/configs"
	"go-todo/internal/application/controller"
	"go-todo/internal/application/middleware"
	"go-todo/internal/application/schedule"
	"go-todo/internal/application/stream"
	"go-todo/internal/application/view"
	"go-todo/internal/domain/gateway/queue"
	"go-todo/internal/domain/usecase/auth"
	"go-todo/internal/domain/usecase/health"
	"go-todo/internal/domain/usecase/todosync"
	"go-todo/pkg/log"
	"go-todo/pkg/msg"
	"go-todo/pkg/resource"
)

// @title go-todo API
// @version 1.0
// @description Authenticated to-do list service
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	appName := resource.GetString("app.name")
	log.Info(msg.GetMessage("app.start", appName))
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init infra
	infra := newInfra()
	defer infra.Close()

	todoGateway, dbHealthGateway := infra.TodoStore(ctx)
	userGateway := infra.UserStore(ctx)
	revocationGateway, attemptLimiter, cacheHealthGateway := infra.SessionStore()

	// Init UseCase
	hub := stream.NewHub()
	queueHealthGateway := queue.NewQueueHealthGateway(resource.GetString("app.events.transport"))
	publisher := infra.EventPublisher(ctx)
	registry := todosync.NewRegistry(todoGateway, publisher, hub.Notifier)

	authUseCase := auth.NewAuthUseCase(userGateway, revocationGateway, attemptLimiter, auth.Config{
		Secret:   []byte(resource.GetString("app.auth.jwt-secret")),
		TokenTTL: resource.GetDuration("app.auth.token-ttl"),
		Issuer:   appName,
	})
	healthUseCase := health.NewHealthUseCase(dbHealthGateway, queueHealthGateway, cacheHealthGateway, registry)

	// Init Consumers
	infra.StartEventConsumer(ctx, registry, queueHealthGateway)

	// Init server
	contextPath := resource.GetString("app.server.context-path")
	e := echo.New()
	e.HideBanner = true
	renderer, err := view.NewRenderer(contextPath)
	if err != nil {
		log.Fatal("failed to parse templates", zap.Error(err))
	}
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())

	api := e.Group(contextPath)
	sessions := middleware.NewSessionMiddleware(authUseCase, registry)

	// Init Controller
	healthController := controller.NewHealthController(api, healthUseCase)
	metricsController := controller.NewMetricsController(api)
	swaggerController := controller.NewSwaggerController(api)
	authController := controller.NewAuthController(api, authUseCase, registry, contextPath, resource.GetBool("app.auth.cookie-secure"))
	todoController := controller.NewTodoController(api, sessions, hub)
	pageController := controller.NewPageController(api, sessions, contextPath)

	// Init Routes
	healthController.InitHealthRoutes()
	metricsController.InitMetricsRoutes()
	swaggerController.InitSwaggerRoutes()
	authController.InitAuthRoutes()
	todoController.InitTodoRoutes()
	pageController.InitPageRoutes()

	// Init Schedule
	sessionScheduler := schedule.NewSessionScheduler(registry, resource.GetDuration("app.session.max-idle"))
	if err := sessionScheduler.InitSessionScheduleTasks(resource.GetString("app.session.evict.cron")); err != nil {
		log.Fatal("failed to schedule session eviction", zap.Error(err))
	}
	defer sessionScheduler.Stop()

	// Start Routes
	port := resource.GetString("app.server.port")
	go func() {
		log.Info(msg.GetMessage("app.started", appName, port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stop", appName))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server", zap.Error(err))
	}
}
