package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
	"go-todo/internal/infra/database"
	gormdb "go-todo/internal/infra/database/gorm"
	"go-todo/internal/infra/database/sqlc"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// exerciseTodoGateway checks the store contract every driver must honor
func exerciseTodoGateway(t *testing.T, gateway TodoGateway, owner, stranger string) {
	t.Helper()
	ctx := context.Background()

	first, err := gateway.Create(ctx, entity.Todo{Title: "first", UserID: owner})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := gateway.Create(ctx, entity.Todo{Title: "second", Description: strPtr("notes"), UserID: owner})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := gateway.Create(ctx, entity.Todo{Title: "theirs", UserID: stranger}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == "" || first.Completed || first.CreatedAt.IsZero() {
		t.Fatalf("created = %+v", first)
	}

	todos, err := gateway.FindAllByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("FindAllByOwner: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != second.ID || todos[1].ID != first.ID {
		t.Fatalf("FindAllByOwner = %+v", todos)
	}

	updated, err := gateway.UpdateByID(ctx, owner, second.ID, model.TodoPatch{Completed: boolPtr(true), Description: strPtr("")})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if !updated.Completed || updated.Description != nil || updated.Title != "second" {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := gateway.UpdateByID(ctx, stranger, second.ID, model.TodoPatch{Title: strPtr("x")}); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("update by another owner err = %v", err)
	}
	if err := gateway.DeleteByID(ctx, stranger, first.ID); err != nil {
		t.Fatalf("DeleteByID by stranger: %v", err)
	}

	if err := gateway.DeleteByID(ctx, owner, first.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := gateway.DeleteByID(ctx, owner, first.ID); err != nil {
		t.Fatalf("DeleteByID of absent row: %v", err)
	}

	todos, _ = gateway.FindAllByOwner(ctx, owner)
	if len(todos) != 1 || todos[0].ID != second.ID {
		t.Fatalf("after delete = %+v", todos)
	}
}

func TestMemoryTodoGateway(t *testing.T) {
	exerciseTodoGateway(t, NewMemoryTodoGateway(), "owner", "stranger")
}

func TestMemoryTodoGateway_EmptyOwner(t *testing.T) {
	todos, err := NewMemoryTodoGateway().FindAllByOwner(context.Background(), "nobody")
	if err != nil || todos == nil || len(todos) != 0 {
		t.Fatalf("todos = %#v err = %v", todos, err)
	}
}

func TestMemoryUserGateway(t *testing.T) {
	gateway := NewMemoryUserGateway()
	ctx := context.Background()

	if u, _ := gateway.FindByEmail(ctx, "a@b.c"); u != nil {
		t.Fatalf("unexpected user %+v", u)
	}
	created, err := gateway.Create(ctx, entity.User{Email: "a@b.c", PasswordHash: "h"})
	if err != nil || created.ID == "" {
		t.Fatalf("Create = %+v, %v", created, err)
	}
	if _, err := gateway.Create(ctx, entity.User{Email: "a@b.c"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate err = %v", err)
	}
	found, _ := gateway.FindByEmail(ctx, "a@b.c")
	if found == nil || found.ID != created.ID {
		t.Fatalf("FindByEmail = %+v", found)
	}
}

// postgresConfig reads TEST_DB_HOST; postgres tests skip when it is unset.
func postgresConfig(t *testing.T) database.Config {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set")
	}
	return database.Config{
		Host:     host,
		Port:     envOr("TEST_DB_PORT", "5432"),
		Username: envOr("TEST_DB_USERNAME", "postgres"),
		Password: envOr("TEST_DB_PASSWORD", "postgres"),
		Database: envOr("TEST_DB_DATABASE", "todo"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seedUsers(t *testing.T, users UserGateway) (string, string) {
	t.Helper()
	ctx := context.Background()
	owner, err := users.Create(ctx, entity.User{Email: uuid.NewString() + "@test", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	stranger, err := users.Create(ctx, entity.User{Email: uuid.NewString() + "@test", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("seed stranger: %v", err)
	}
	if _, err := users.Create(ctx, entity.User{Email: owner.Email, PasswordHash: "h"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email err = %v", err)
	}
	return owner.ID, stranger.ID
}

func TestSQLCTodoGateway(t *testing.T) {
	config := postgresConfig(t)
	conn, err := sqlc.Open(context.Background(), config)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	owner, stranger := seedUsers(t, NewSQLCUserGateway(conn))
	exerciseTodoGateway(t, NewSQLCTodoGateway(conn), owner, stranger)

	if health := NewSQLCHealthDBGateway(conn).Health(context.Background()); health.Status != model.StatusUp {
		t.Fatalf("health = %+v", health)
	}
}

func TestGormTodoGateway(t *testing.T) {
	config := postgresConfig(t)
	conn, err := gormdb.Open(config)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}

	owner, stranger := seedUsers(t, NewGormUserGateway(conn))
	exerciseTodoGateway(t, NewGormTodoGateway(conn), owner, stranger)

	if health := NewGormHealthDBGateway(conn).Health(context.Background()); health.Status != model.StatusUp {
		t.Fatalf("health = %+v", health)
	}
}

func TestNullableString(t *testing.T) {
	tests := []struct {
		in   *string
		want sql.NullString
	}{
		{nil, sql.NullString{}},
		{strPtr(""), sql.NullString{}},
		{strPtr("x"), sql.NullString{String: "x", Valid: true}},
	}
	for _, tt := range tests {
		if got := nullableString(tt.in); got != tt.want {
			t.Errorf("nullableString(%v) = %+v", tt.in, got)
		}
	}
}
