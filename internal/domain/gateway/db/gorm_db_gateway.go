package db

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/model"
)

type GormHealthDBGateway struct {
	DB *gorm.DB
}

var _ HealthDBGateway = (*GormHealthDBGateway)(nil)

func NewGormHealthDBGateway(db *gorm.DB) *GormHealthDBGateway {
	return &GormHealthDBGateway{DB: db}
}

func (gateway *GormHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	sqlDB, err := gateway.DB.DB()
	if err != nil {
		return down(DriverGorm, err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return down(DriverGorm, err)
	}

	var todos int64
	if err = gateway.DB.WithContext(ctx).Model(&entity.Todo{}).Count(&todos).Error; err != nil {
		return down(DriverGorm, err)
	}

	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"driver":  DriverGorm,
			"dialect": gateway.DB.Dialector.Name(),
			"todos":   strconv.FormatInt(todos, 10),
		},
	}
}
