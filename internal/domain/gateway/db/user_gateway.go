package db

import (
	"context"
	"errors"

	"go-todo/internal/domain/entity"
	"go-todo/pkg/msg"
)

// ErrEmailTaken is returned when a user with the same email exists
var ErrEmailTaken = errors.New(msg.GetMessage("auth.error.email-taken"))

type UserGateway interface {
	// FindByEmail returns nil when no user matches
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user entity.User) (*entity.User, error)
}
