package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/model"
	"go-todo/pkg/msg"
)

// MinPasswordLength is the shortest password accepted at sign-up
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New(msg.GetMessage("auth.error.invalid-credentials"))
	ErrEmailTaken         = db.ErrEmailTaken
	ErrInvalidToken       = errors.New(msg.GetMessage("auth.error.invalid-token"))
	ErrRateLimited        = errors.New(msg.GetMessage("auth.error.rate-limited"))
	ErrInvalidEmail       = errors.New(msg.GetMessage("auth.error.invalid-email"))
	ErrWeakPassword       = errors.New(msg.GetMessage("auth.error.weak-password", MinPasswordLength))
)

// Claims is the payload of a session token. The JWT id is the session id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Principal is a resolved session
type Principal struct {
	Identity  entity.Identity
	SessionID string
	ExpiresAt time.Time
}

type UseCase interface {
	SignUp(ctx context.Context, credentials model.CredentialsDTO) (*model.TokenDTO, error)
	SignIn(ctx context.Context, credentials model.CredentialsDTO) (*model.TokenDTO, error)
	// SignOut revokes the token's session and returns its id
	SignOut(ctx context.Context, token string) (string, error)
	Resolve(ctx context.Context, token string) (*Principal, error)
}
