package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

// HistoryRepository: журнал только на добавление, обновлений и удалений нет.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.OrderHistory) error
	// Записи заказа в порядке Seq.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderHistory, error)
}

type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Append(ctx context.Context, entry *model.OrderHistory) error {
	return dbFrom(ctx, r.db).Create(entry).Error
}

func (r *GormHistoryRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderHistory, error) {
	var entries []model.OrderHistory
	err := dbFrom(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("seq ASC").
		Find(&entries).
		Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
