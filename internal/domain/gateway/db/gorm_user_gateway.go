package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-todo/internal/domain/entity"
)

type GormUserGateway struct {
	DB *gorm.DB
}

var _ UserGateway = (*GormUserGateway)(nil)

func NewGormUserGateway(db *gorm.DB) *GormUserGateway {
	return &GormUserGateway{DB: db}
}

func (gateway *GormUserGateway) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := gateway.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (gateway *GormUserGateway) Create(ctx context.Context, user entity.User) (*entity.User, error) {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()

	if err := gateway.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}
