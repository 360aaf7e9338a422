package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-todo/internal/domain/entity"
)

type MemoryUserGateway struct {
	mu      sync.RWMutex
	byEmail map[string]entity.User
}

var _ UserGateway = (*MemoryUserGateway)(nil)

func NewMemoryUserGateway() *MemoryUserGateway {
	return &MemoryUserGateway{byEmail: make(map[string]entity.User)}
}

func (gateway *MemoryUserGateway) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	gateway.mu.RLock()
	defer gateway.mu.RUnlock()

	user, ok := gateway.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (gateway *MemoryUserGateway) Create(ctx context.Context, user entity.User) (*entity.User, error) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	if _, ok := gateway.byEmail[user.Email]; ok {
		return nil, ErrEmailTaken
	}
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()
	gateway.byEmail[user.Email] = user
	return &user, nil
}
