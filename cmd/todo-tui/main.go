package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/api"
	"go-todo/internal/domain/model"
	"go-todo/internal/tui"
	"go-todo/pkg/http"
	"go-todo/pkg/log"
)

func main() {
	env := viper.New()
	env.SetEnvPrefix("todo")
	env.AutomaticEnv()
	env.SetDefault("url", "http://localhost:8080")

	baseURL := flag.String("url", env.GetString("url"), "todo service base url")
	email := flag.String("email", env.GetString("email"), "account email")
	password := flag.String("password", env.GetString("password"), "account password")
	signUp := flag.Bool("sign-up", false, "register the account before signing in")
	logFile := flag.String("log", env.GetString("log"), "write logs to this file instead of discarding them")
	logLevel := flag.String("log-level", env.GetString("log_level"), "minimum log level written to -log")
	flag.Parse()

	// the terminal belongs to the UI
	if *logFile != "" {
		file, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatal("failed to open log file", zap.Error(err))
		}
		defer file.Close()
		log.SetOutput(file)
		if *logLevel != "" {
			if err := log.SetLevel(*logLevel); err != nil {
				log.Warn("ignoring invalid log level", zap.String("level", *logLevel))
			}
		}
	} else {
		log.SetOutput(zapcore.AddSync(io.Discard))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	options := http.ClientOptions{
		ReadTimeout: 15 * time.Second,
		Backoff: &http.BackoffConfig{
			MaxRetries:      2,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      2,
			// a 502 means the store failed after the service got the request, so it is not retried
			RetryOnStatus: []int{429, 503},
		},
		Logger: &http.ZapLogger{},
	}
	authGateway := api.NewAuthAPIGateway(*baseURL, options)

	credentials := model.CredentialsDTO{Email: *email, Password: *password}
	authenticate := authGateway.SignIn
	if *signUp {
		authenticate = authGateway.SignUp
	}
	token, err := authenticate(ctx, credentials)
	if err != nil {
		log.Error("failed to open a session", zap.String("url", *baseURL), zap.Error(err))
		fmt.Fprintf(os.Stderr, "failed to open a session at %s: %v\n", *baseURL, err)
		os.Exit(1)
	}
	defer func() {
		if err := authGateway.SignOut(context.Background(), token.Token); err != nil {
			log.Warn("failed to sign out", zap.Error(err))
		}
	}()

	todoGateway := api.NewTodoAPIGateway(*baseURL, token.Token, options)
	identity := entity.Identity{UserID: token.UserID, Email: token.Email}
	if err := tui.Run(ctx, todoGateway, identity); err != nil {
		log.Error("terminal client stopped", zap.Error(err))
	}
}
