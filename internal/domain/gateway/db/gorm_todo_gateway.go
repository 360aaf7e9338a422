package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
)

type GormTodoGateway struct {
	DB *gorm.DB
}

var _ TodoGateway = (*GormTodoGateway)(nil)

func NewGormTodoGateway(db *gorm.DB) *GormTodoGateway {
	return &GormTodoGateway{DB: db}
}

func (gateway *GormTodoGateway) FindAllByOwner(ctx context.Context, owner string) ([]entity.Todo, error) {
	todos := make([]entity.Todo, 0)
	err := gateway.DB.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Find(&todos).Error
	return todos, err
}

func (gateway *GormTodoGateway) Create(ctx context.Context, todo entity.Todo) (*entity.Todo, error) {
	todo.ID = uuid.New().String()
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	if todo.Description != nil && *todo.Description == "" {
		todo.Description = nil
	}

	if err := gateway.DB.WithContext(ctx).Create(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (gateway *GormTodoGateway) UpdateByID(ctx context.Context, owner string, id string, patch model.TodoPatch) (*entity.Todo, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			updates["description"] = nil
		} else {
			updates["description"] = *patch.Description
		}
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}

	var updated entity.Todo
	result := gateway.DB.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, owner).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTodoNotFound
	}
	return &updated, nil
}

func (gateway *GormTodoGateway) DeleteByID(ctx context.Context, owner string, id string) error {
	return gateway.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&entity.Todo{}).Error
}
