package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"go-todo/internal/domain/entity"
)

// uniqueViolation is the postgres SQLSTATE for unique constraint failures
const uniqueViolation = "23505"

type SQLCUserGateway struct {
	DB *sql.DB
}

var _ UserGateway = (*SQLCUserGateway)(nil)

func NewSQLCUserGateway(db *sql.DB) *SQLCUserGateway {
	return &SQLCUserGateway{DB: db}
}

func (gateway *SQLCUserGateway) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := gateway.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (gateway *SQLCUserGateway) Create(ctx context.Context, user entity.User) (*entity.User, error) {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := gateway.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}
