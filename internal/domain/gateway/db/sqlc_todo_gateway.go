package db

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
)

const todoColumns = `id, title, description, completed, created_at, updated_at, user_id`

type SQLCTodoGateway struct {
	DB *sql.DB
}

var _ TodoGateway = (*SQLCTodoGateway)(nil)

func NewSQLCTodoGateway(db *sql.DB) *SQLCTodoGateway {
	return &SQLCTodoGateway{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*entity.Todo, error) {
	var t entity.Todo
	var description sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &description, &t.Completed, &t.CreatedAt, &t.UpdatedAt, &t.UserID); err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	return &t, nil
}

func (gateway *SQLCTodoGateway) FindAllByOwner(ctx context.Context, owner string) (results []entity.Todo, err error) {
	rows, err := gateway.DB.QueryContext(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	results = make([]entity.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *t)
	}
	return results, rows.Err()
}

func (gateway *SQLCTodoGateway) Create(ctx context.Context, todo entity.Todo) (*entity.Todo, error) {
	todo.ID = uuid.New().String()
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	row := gateway.DB.QueryRowContext(ctx, `
		INSERT INTO todos (id, title, description, completed, created_at, updated_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+todoColumns,
		todo.ID, todo.Title, nullableString(todo.Description), todo.Completed,
		todo.CreatedAt, todo.UpdatedAt, todo.UserID)
	return scanTodo(row)
}

func (gateway *SQLCTodoGateway) UpdateByID(ctx context.Context, owner string, id string, patch model.TodoPatch) (*entity.Todo, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+next(*patch.Title))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+next(nullableString(patch.Description)))
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = "+next(*patch.Completed))
	}
	sets = append(sets, "updated_at = "+next(time.Now().UTC()))

	query := `UPDATE todos SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + next(id) + ` AND user_id = ` + next(owner) +
		` RETURNING ` + todoColumns

	t, err := scanTodo(gateway.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTodoNotFound
	}
	return t, err
}

func (gateway *SQLCTodoGateway) DeleteByID(ctx context.Context, owner string, id string) error {
	_, err := gateway.DB.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, owner)
	return err
}

// nullableString maps nil and empty to NULL
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
