package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/gateway/session"
	"go-todo/internal/domain/model"
	"go-todo/pkg/log"
	"go-todo/pkg/msg"
)

// Config configures token issuing
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
}

type authUseCase struct {
	users      db.UserGateway
	revocation session.RevocationGateway
	limiter    session.AttemptLimiter
	config     Config
	now        func() time.Time
}

func NewAuthUseCase(users db.UserGateway, revocation session.RevocationGateway, limiter session.AttemptLimiter, config Config) UseCase {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &authUseCase{
		users:      users,
		revocation: revocation,
		limiter:    limiter,
		config:     config,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *authUseCase) SignUp(ctx context.Context, credentials model.CredentialsDTO) (*model.TokenDTO, error) {
	email := normalizeEmail(credentials.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrInvalidEmail
	}
	if len(credentials.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := uc.users.Create(ctx, entity.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return nil, err
	}

	log.Info(msg.GetMessage("auth.log.signed-up", user.ID))
	return uc.issue(user)
}

func (uc *authUseCase) SignIn(ctx context.Context, credentials model.CredentialsDTO) (*model.TokenDTO, error) {
	email := normalizeEmail(credentials.Email)

	if uc.limiter != nil {
		if err := uc.limiter.Allow(ctx, email); err != nil {
			if errors.Is(err, session.ErrTooManyAttempts) {
				return nil, ErrRateLimited
			}
			return nil, err
		}
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	log.Info(msg.GetMessage("auth.log.signed-in", user.ID))
	return uc.issue(user)
}

func (uc *authUseCase) SignOut(ctx context.Context, token string) (string, error) {
	principal, err := uc.Resolve(ctx, token)
	if err != nil {
		return "", err
	}
	ttl := principal.ExpiresAt.Sub(uc.now())
	if err := uc.revocation.Revoke(ctx, principal.SessionID, ttl); err != nil {
		return "", err
	}
	log.Info(msg.GetMessage("auth.log.signed-out", principal.SessionID))
	return principal.SessionID, nil
}

func (uc *authUseCase) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return uc.config.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(uc.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := uc.revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return &Principal{
		Identity:  entity.Identity{UserID: claims.Subject, Email: claims.Email},
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (uc *authUseCase) issue(user *entity.User) (*model.TokenDTO, error) {
	now := uc.now()
	expiresAt := now.Add(uc.config.TokenTTL)

	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    uc.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.config.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.TokenDTO{
		Token:     signed,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Email:     user.Email,
	}, nil
}
