package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

type PreOrderRepository interface {
	Create(ctx context.Context, data *model.PreOrderData) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.PreOrderData, error)
	// Перезаписать поля анкеты и признак завершённости.
	Update(ctx context.Context, data *model.PreOrderData) error
}

type GormPreOrderRepository struct {
	db *gorm.DB
}

func NewGormPreOrderRepository(db *gorm.DB) *GormPreOrderRepository {
	return &GormPreOrderRepository{db: db}
}

func (r *GormPreOrderRepository) Create(ctx context.Context, data *model.PreOrderData) error {
	return dbFrom(ctx, r.db).Create(data).Error
}

func (r *GormPreOrderRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.PreOrderData, error) {
	var p model.PreOrderData
	if err := dbFrom(ctx, r.db).First(&p, "order_id = ?", orderID).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *GormPreOrderRepository) Update(ctx context.Context, data *model.PreOrderData) error {
	res := dbFrom(ctx, r.db).
		Model(&model.PreOrderData{}).
		Where("id = ?", data.ID).
		Updates(map[string]any{
			"fields":       data.Fields,
			"is_completed": data.IsCompleted,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
