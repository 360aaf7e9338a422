package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/model"
	httpclient "go-todo/pkg/http"
)

// errorResponse is the error body of the todo API
type errorResponse struct {
	Error string `json:"error"`
}

// TodoAPIGateway is a TodoGateway backed by the todo service's JSON API. The bearer token
// decides the owner, so the owner arguments are only used by the server side.
type TodoAPIGateway struct {
	httpClient *httpclient.Client
}

var _ db.TodoGateway = (*TodoAPIGateway)(nil)

// NewTodoAPIGateway creates a gateway for the service at baseURL acting with token
func NewTodoAPIGateway(baseURL, token string, clientOptions httpclient.ClientOptions) *TodoAPIGateway {
	headers := map[string]string{"Authorization": "Bearer " + token}
	for k, v := range clientOptions.DefaultHeaders {
		headers[k] = v
	}
	clientOptions.DefaultHeaders = headers

	return &TodoAPIGateway{httpClient: httpclient.NewHttpClient(baseURL, clientOptions)}
}

// FindAllByOwner asks the service to refetch from its store and merges both partitions newest first
func (g *TodoAPIGateway) FindAllByOwner(ctx context.Context, owner string) ([]entity.Todo, error) {
	successResp, errResp, status, err := g.httpClient.Request().
		Method(http.MethodPost).
		Path("api", "todos", "refresh").
		Into(&model.TodoListDTO{}).
		OnError(&errorResponse{}).
		Do(ctx)
	if err != nil {
		return nil, remoteError(errResp, status, err)
	}

	list := successResp.(*model.TodoListDTO)
	todos := make([]entity.Todo, 0, len(list.Active)+len(list.Completed))
	todos = append(todos, list.Active...)
	todos = append(todos, list.Completed...)
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
	return todos, nil
}

func (g *TodoAPIGateway) Create(ctx context.Context, todo entity.Todo) (*entity.Todo, error) {
	successResp, errResp, status, err := g.httpClient.Request().
		Method(http.MethodPost).
		Path("api", "todos").
		Body(model.CreateTodoDTO{Title: todo.Title, Description: todo.Description}).
		Into(&entity.Todo{}).
		OnError(&errorResponse{}).
		Do(ctx)
	if err != nil {
		return nil, remoteError(errResp, status, err)
	}
	return successResp.(*entity.Todo), nil
}

func (g *TodoAPIGateway) UpdateByID(ctx context.Context, owner string, id string, patch model.TodoPatch) (*entity.Todo, error) {
	successResp, errResp, status, err := g.httpClient.Request().
		Method(http.MethodPatch).
		Path("api", "todos", id).
		Body(model.UpdateTodoDTO{Title: patch.Title, Description: patch.Description, Completed: patch.Completed}).
		Into(&entity.Todo{}).
		OnError(&errorResponse{}).
		Do(ctx)
	if err != nil {
		return nil, remoteError(errResp, status, err)
	}
	return successResp.(*entity.Todo), nil
}

func (g *TodoAPIGateway) DeleteByID(ctx context.Context, owner string, id string) error {
	_, errResp, status, err := g.httpClient.Request().
		Method(http.MethodDelete).
		Path("api", "todos", id).
		OnError(&errorResponse{}).
		Do(ctx)
	if err != nil {
		return remoteError(errResp, status, err)
	}
	return nil
}

func remoteError(errResp any, status int, err error) error {
	if status == http.StatusNotFound {
		return db.ErrTodoNotFound
	}
	if body, ok := errResp.(*errorResponse); ok && body != nil && body.Error != "" {
		return fmt.Errorf("todo api: %s (status %d)", body.Error, status)
	}
	return fmt.Errorf("todo api: %w", err)
}
