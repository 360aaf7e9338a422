package gorm

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-todo/internal/domain/entity"
	"go-todo/internal/infra/database"
)

// Open connects to postgres through gorm and migrates the entities
func Open(config database.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("fail to connect database: %w", err)
	}

	if err = db.AutoMigrate(&entity.User{}, &entity.Todo{}); err != nil {
		return nil, fmt.Errorf("fail to migrate database: %w", err)
	}
	return db, nil
}
