package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/model"
	httpclient "go-todo/pkg/http"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *TodoAPIGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewTodoAPIGateway(server.URL, "token-1", httpclient.ClientOptions{})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestFindAllByOwnerMergesPartitionsNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/todos/refresh" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token-1" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		writeJSON(w, http.StatusOK, model.TodoListDTO{
			Active:    []entity.Todo{{ID: "3", CreatedAt: base.Add(3 * time.Hour)}, {ID: "1", CreatedAt: base.Add(time.Hour)}},
			Completed: []entity.Todo{{ID: "2", Completed: true, CreatedAt: base.Add(2 * time.Hour)}},
			Total:     3,
		})
	})

	todos, err := gateway.FindAllByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(todos) != 3 || todos[0].ID != "3" || todos[1].ID != "2" || todos[2].ID != "1" {
		t.Fatalf("todos = %+v", todos)
	}
}

func TestCreateSendsTitleAndDescription(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var dto model.CreateTodoDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			t.Errorf("decode: %v", err)
		}
		if dto.Title != "Buy milk" || dto.Description == nil || *dto.Description != "2L" {
			t.Errorf("dto = %+v", dto)
		}
		writeJSON(w, http.StatusCreated, entity.Todo{ID: "t1", Title: dto.Title, Description: dto.Description, UserID: "u1"})
	})

	description := "2L"
	todo, err := gateway.Create(context.Background(), entity.Todo{Title: "Buy milk", Description: &description, UserID: "u1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.ID != "t1" || todo.UserID != "u1" {
		t.Fatalf("todo = %+v", todo)
	}
}

func TestUpdateByIDNotFound(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/todos/missing" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "todo not found"})
	})

	done := true
	_, err := gateway.UpdateByID(context.Background(), "u1", "missing", model.TodoPatch{Completed: &done})
	if !errors.Is(err, db.ErrTodoNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteByIDReportsServerError(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "remote operation failed"})
	})

	err := gateway.DeleteByID(context.Background(), "u1", "t1")
	if err == nil || err.Error() != "todo api: remote operation failed (status 502)" {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteByIDNoContent(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := gateway.DeleteByID(context.Background(), "u1", "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestAuthAPIGatewaySignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var credentials model.CredentialsDTO
		_ = json.NewDecoder(r.Body).Decode(&credentials)
		if r.URL.Path != "/auth/sign-in" || credentials.Email != "ana@example.com" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, model.TokenDTO{Token: "jwt", UserID: "u1", Email: credentials.Email})
	}))
	t.Cleanup(server.Close)
	gateway := NewAuthAPIGateway(server.URL, httpclient.ClientOptions{})

	token, err := gateway.SignIn(context.Background(), model.CredentialsDTO{Email: "ana@example.com", Password: "secret"})
	if err != nil || token.Token != "jwt" || token.UserID != "u1" {
		t.Fatalf("token = %+v, err = %v", token, err)
	}

	_, err = gateway.SignIn(context.Background(), model.CredentialsDTO{Email: "bob@example.com", Password: "secret"})
	if err == nil || err.Error() != "todo api: invalid email or password (status 401)" {
		t.Fatalf("err = %v", err)
	}
}
