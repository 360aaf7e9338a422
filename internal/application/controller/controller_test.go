package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"go-todo/internal/application/middleware"
	"go-todo/internal/application/stream"
	"go-todo/internal/application/view"
	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/gateway/queue"
	"go-todo/internal/domain/gateway/session"
	"go-todo/internal/domain/model"
	"go-todo/internal/domain/usecase/auth"
	"go-todo/internal/domain/usecase/todosync"
)

var errStoreDown = errors.New("connection refused")

// switchableGateway is the memory store with an outage switch
type switchableGateway struct {
	*db.MemoryTodoGateway
	mu   sync.Mutex
	down bool
}

func (g *switchableGateway) setDown(down bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.down = down
}

func (g *switchableGateway) err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.down {
		return errStoreDown
	}
	return nil
}

func (g *switchableGateway) Create(ctx context.Context, todo entity.Todo) (*entity.Todo, error) {
	if err := g.err(); err != nil {
		return nil, err
	}
	return g.MemoryTodoGateway.Create(ctx, todo)
}

func (g *switchableGateway) UpdateByID(ctx context.Context, owner, id string, patch model.TodoPatch) (*entity.Todo, error) {
	if err := g.err(); err != nil {
		return nil, err
	}
	return g.MemoryTodoGateway.UpdateByID(ctx, owner, id, patch)
}

func (g *switchableGateway) DeleteByID(ctx context.Context, owner, id string) error {
	if err := g.err(); err != nil {
		return err
	}
	return g.MemoryTodoGateway.DeleteByID(ctx, owner, id)
}

type harness struct {
	e        *echo.Echo
	auth     auth.UseCase
	store    *switchableGateway
	registry *todosync.Registry
	hub      *stream.Hub
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	e := echo.New()
	renderer, err := view.NewRenderer("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer

	store := &switchableGateway{MemoryTodoGateway: db.NewMemoryTodoGateway()}
	hub := stream.NewHub()
	registry := todosync.NewRegistry(store, queue.NoopEventPublisher{}, hub.Notifier)
	authUseCase := auth.NewAuthUseCase(
		db.NewMemoryUserGateway(),
		session.NewMemoryRevocationGateway(),
		session.NewMemoryAttemptLimiter(100, time.Minute),
		auth.Config{Secret: []byte("test-secret"), TokenTTL: time.Hour, Issuer: "go-todo"},
	)
	sessions := middleware.NewSessionMiddleware(authUseCase, registry)

	api := e.Group("")
	NewAuthController(api, authUseCase, registry, "", false).InitAuthRoutes()
	NewTodoController(api, sessions, hub).InitTodoRoutes()
	NewPageController(api, sessions, "").InitPageRoutes()

	return &harness{e: e, auth: authUseCase, store: store, registry: registry, hub: hub}
}

type requestOption func(*http.Request)

func bearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+token) }
}

func cookie(token string) requestOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token}) }
}

func (h *harness) json(method, path, body string, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) form(path string, values url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) signUp(t *testing.T, email string) model.TokenDTO {
	t.Helper()
	rec := h.json(http.MethodPost, "/auth/sign-up", `{"email":"`+email+`","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign-up status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var token model.TokenDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(rec.Body.Bytes(), &value); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return value
}

func TestUnauthenticatedRequests(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		method   string
		path     string
		opts     []requestOption
		status   int
		location string
	}{
		{"api without token", http.MethodGet, "/api/todos", nil, http.StatusUnauthorized, ""},
		{"api with garbage token", http.MethodGet, "/api/todos", []requestOption{bearer("garbage")}, http.StatusUnauthorized, ""},
		{"root page", http.MethodGet, "/", nil, http.StatusSeeOther, "/auth"},
		{"todos page", http.MethodGet, "/todos", nil, http.StatusSeeOther, "/auth"},
		{"todos page with bad cookie", http.MethodGet, "/todos", []requestOption{cookie("garbage")}, http.StatusSeeOther, "/auth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.json(tt.method, tt.path, "", tt.opts...)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.location != "" && rec.Header().Get(echo.HeaderLocation) != tt.location {
				t.Fatalf("location = %q", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestSignInPage(t *testing.T) {
	h := newHarness(t)
	rec := h.json(http.MethodGet, "/auth", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Sign In") {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSignUpSetsSessionCookie(t *testing.T) {
	h := newHarness(t)
	rec := h.json(http.MethodPost, "/auth/sign-up", `{"email":"ana@example.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookie || cookies[0].Value == "" || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
}

func TestAuthErrors(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "ana@example.com")

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"duplicate email", "/auth/sign-up", `{"email":"ana@example.com","password":"secret1"}`, http.StatusConflict},
		{"invalid email", "/auth/sign-up", `{"email":"ana","password":"secret1"}`, http.StatusBadRequest},
		{"weak password", "/auth/sign-up", `{"email":"bob@example.com","password":"123"}`, http.StatusBadRequest},
		{"wrong password", "/auth/sign-in", `{"email":"ana@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", "/auth/sign-in", `{"email":"bob@example.com","password":"secret1"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := h.json(http.MethodPost, tt.path, tt.body); rec.Code != tt.status {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestTodoAPILifecycle(t *testing.T) {
	h := newHarness(t)
	token := h.signUp(t, "ana@example.com").Token

	rec := h.json(http.MethodPost, "/api/todos", `{"title":"  Buy milk ","description":"  "}`, bearer(token))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	created := decode[entity.Todo](t, rec)
	if created.Title != "Buy milk" || created.Description != nil || created.Completed || created.ID == "" {
		t.Fatalf("created = %+v", created)
	}

	rec = h.json(http.MethodPatch, "/api/todos/"+created.ID, `{"completed":true}`, bearer(token))
	if rec.Code != http.StatusOK || !decode[entity.Todo](t, rec).Completed {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	list := decode[model.TodoListDTO](t, h.json(http.MethodGet, "/api/todos", "", bearer(token)))
	if list.Total != 1 || len(list.Completed) != 1 || len(list.Active) != 0 {
		t.Fatalf("list = %+v", list)
	}

	if rec = h.json(http.MethodDelete, "/api/todos/"+created.ID, "", bearer(token)); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	list = decode[model.TodoListDTO](t, h.json(http.MethodPost, "/api/todos/refresh", "", bearer(token)))
	if list.Total != 0 {
		t.Fatalf("list after delete = %+v", list)
	}
}

func TestTodoAPIErrors(t *testing.T) {
	h := newHarness(t)
	token := h.signUp(t, "ana@example.com").Token

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		down   bool
		status int
	}{
		{"blank title", http.MethodPost, "/api/todos", `{"title":"   "}`, false, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/todos", `{"title":`, false, http.StatusBadRequest},
		{"empty patch", http.MethodPatch, "/api/todos/x", `{}`, false, http.StatusBadRequest},
		{"blank title patch", http.MethodPatch, "/api/todos/x", `{"title":" "}`, false, http.StatusBadRequest},
		{"unknown id", http.MethodPatch, "/api/todos/missing", `{"completed":true}`, false, http.StatusNotFound},
		{"store down on create", http.MethodPost, "/api/todos", `{"title":"Buy milk"}`, true, http.StatusBadGateway},
		{"store down on delete", http.MethodDelete, "/api/todos/x", "", true, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.store.setDown(tt.down)
			defer h.store.setDown(false)

			if rec := h.json(tt.method, tt.path, tt.body, bearer(token)); rec.Code != tt.status {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}

	list := decode[model.TodoListDTO](t, h.json(http.MethodGet, "/api/todos", "", bearer(token)))
	if list.Total != 0 {
		t.Fatalf("failed requests changed the list: %+v", list)
	}
}

func TestTodosAreScopedToOwner(t *testing.T) {
	h := newHarness(t)
	ana := h.signUp(t, "ana@example.com").Token
	bob := h.signUp(t, "bob@example.com").Token

	created := decode[entity.Todo](t, h.json(http.MethodPost, "/api/todos", `{"title":"Ana's"}`, bearer(ana)))

	if list := decode[model.TodoListDTO](t, h.json(http.MethodGet, "/api/todos", "", bearer(bob))); list.Total != 0 {
		t.Fatalf("bob sees %+v", list)
	}
	if rec := h.json(http.MethodPatch, "/api/todos/"+created.ID, `{"completed":true}`, bearer(bob)); rec.Code != http.StatusNotFound {
		t.Fatalf("bob updated ana's todo: %d", rec.Code)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	h := newHarness(t)
	token := h.signUp(t, "ana@example.com").Token
	if rec := h.json(http.MethodGet, "/api/todos", "", bearer(token)); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if h.registry.Len() != 1 {
		t.Fatalf("sessions = %d", h.registry.Len())
	}

	if rec := h.json(http.MethodPost, "/auth/sign-out", "", bearer(token)); rec.Code != http.StatusNoContent {
		t.Fatalf("sign-out status = %d", rec.Code)
	}
	if h.registry.Len() != 0 {
		t.Fatalf("session survived sign-out")
	}
	if rec := h.json(http.MethodGet, "/api/todos", "", bearer(token)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token status = %d", rec.Code)
	}
}

func TestBrowserFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.form("/auth/sign-up", url.Values{"email": {"ana@example.com"}, "password": {"secret1"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/todos" {
		t.Fatalf("sign-up status = %d, location = %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	token := rec.Result().Cookies()[0].Value

	page := h.json(http.MethodGet, "/todos", "", cookie(token))
	if page.Code != http.StatusOK {
		t.Fatalf("page status = %d", page.Code)
	}
	for _, want := range []string{"Todo App", "Welcome back, ana@example.com", "No todos yet. Create your first one above!"} {
		if !strings.Contains(page.Body.String(), want) {
			t.Fatalf("page is missing %q", want)
		}
	}

	rec = h.form("/todos", url.Values{"title": {"   "}}, cookie(token))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), view.ErrTitleRequired.Error()) {
		t.Fatalf("blank title status = %d", rec.Code)
	}

	rec = h.form("/todos", url.Values{"title": {"Buy milk"}, "description": {"2L"}}, cookie(token))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d", rec.Code)
	}
	page = h.json(http.MethodGet, "/todos", "", cookie(token))
	for _, want := range []string{"Active Todos (1)", "Buy milk", "Todo created successfully!"} {
		if !strings.Contains(page.Body.String(), want) {
			t.Fatalf("page is missing %q", want)
		}
	}

	session := h.session(t, token)
	id := session.State().Todos[0].ID

	h.form("/todos/"+id+"/toggle", url.Values{}, cookie(token))
	page = h.json(http.MethodGet, "/todos", "", cookie(token))
	if !strings.Contains(page.Body.String(), "Completed Todos (1)") || strings.Contains(page.Body.String(), "Active Todos") {
		t.Fatalf("toggle did not complete the todo")
	}

	page = h.json(http.MethodGet, "/todos?edit="+id, "", cookie(token))
	if !strings.Contains(page.Body.String(), `action="todos/`+id+`/edit"`) {
		t.Fatalf("edit mode not rendered")
	}
	h.form("/todos/"+id+"/edit", url.Values{"title": {"Buy oat milk"}, "description": {""}}, cookie(token))
	if todo := session.State().Todos[0]; todo.Title != "Buy oat milk" || todo.Description != nil {
		t.Fatalf("edited todo = %+v", todo)
	}

	h.form("/todos/"+id+"/delete", url.Values{}, cookie(token))
	if len(session.State().Todos) != 0 {
		t.Fatalf("todo not deleted")
	}
}

func TestBrowserFormErrors(t *testing.T) {
	h := newHarness(t)
	token := h.signUp(t, "ana@example.com").Token

	h.form("/todos", url.Values{"title": {"Buy milk"}}, cookie(token))
	session := h.session(t, token)
	id := session.State().Todos[0].ID

	rec := h.form("/todos/"+id+"/edit", url.Values{"title": {"  "}, "description": {"whole milk"}}, cookie(token))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank edit status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{view.ErrTitleRequired.Error(), `action="todos/` + id + `/edit"`, "whole milk", `<base href="/">`} {
		if !strings.Contains(body, want) {
			t.Fatalf("edit page is missing %q", want)
		}
	}
	if todo := session.State().Todos[0]; todo.Title != "Buy milk" || todo.Description != nil {
		t.Fatalf("rejected edit reached the store: %+v", todo)
	}

	rec = h.form("/todos/missing/toggle", url.Values{}, cookie(token))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Todo not found") {
		t.Fatalf("unknown toggle status = %d", rec.Code)
	}
	if todo := session.State().Todos[0]; todo.Completed {
		t.Fatalf("unknown toggle changed %+v", todo)
	}
}

func (h *harness) session(t *testing.T, token string) *todosync.Session {
	t.Helper()
	principal, err := h.auth.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	session, ok := h.registry.Get(principal.SessionID)
	if !ok {
		t.Fatalf("no live session %s", principal.SessionID)
	}
	return session
}
