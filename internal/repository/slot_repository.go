package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

type SlotRepository interface {
	// Вставить слоты, пропуская уже существующие (professional_id, starts_at).
	InsertIfAbsent(ctx context.Context, slots []model.AvailabilitySlot) (int64, error)
	// Найти слот по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error)
	// Все слоты специалиста, начинающиеся в [from, to).
	ListByProfessionalRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]model.AvailabilitySlot, error)
	// Свободные слоты специалиста в [from, to) с пагинацией.
	ListAvailable(ctx context.Context, professionalID uuid.UUID, from, to time.Time, limit, offset int) ([]model.AvailabilitySlot, int64, error)
	// Атомарно закрепить свободный слот за заказом.
	Claim(ctx context.Context, slotID, orderID uuid.UUID) error
	// Вернуть слот в пул, если он закреплён именно за этим заказом.
	Release(ctx context.Context, slotID, orderID uuid.UUID) (bool, error)
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) InsertIfAbsent(ctx context.Context, slots []model.AvailabilitySlot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	res := dbFrom(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "professional_id"}, {Name: "starts_at"}},
			DoNothing: true,
		}).
		Create(&slots)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	if err := dbFrom(ctx, r.db).First(&slot, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &slot, nil
}

func (r *GormSlotRepository) ListByProfessionalRange(
	ctx context.Context,
	professionalID uuid.UUID,
	from, to time.Time,
) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	err := dbFrom(ctx, r.db).
		Model(&model.AvailabilitySlot{}).
		Where("professional_id = ?", professionalID).
		Where("starts_at >= ? AND starts_at < ?", from.UTC(), to.UTC()).
		Order("starts_at ASC").
		Find(&slots).
		Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) ListAvailable(
	ctx context.Context,
	professionalID uuid.UUID,
	from, to time.Time,
	limit, offset int,
) ([]model.AvailabilitySlot, int64, error) {
	var slots []model.AvailabilitySlot
	q := dbFrom(ctx, r.db).
		Model(&model.AvailabilitySlot{}).
		Where("professional_id = ?", professionalID).
		Where("starts_at >= ? AND starts_at < ?", from.UTC(), to.UTC()).
		Where("is_available = ? AND order_id IS NULL", true).
		// слот, на который ссылается живой заказ, не отдаём даже при рассогласованном флаге
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.slot_id = availability_slots.id AND orders.status IN ?)",
			model.ActiveOrderStatuses)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("starts_at ASC").Find(&slots).Error; err != nil {
		return nil, 0, err
	}

	return slots, total, nil
}

// Claim: условный UPDATE: из нескольких конкурентов строку изменит ровно один.
func (r *GormSlotRepository) Claim(ctx context.Context, slotID, orderID uuid.UUID) error {
	res := dbFrom(ctx, r.db).
		Model(&model.AvailabilitySlot{}).
		Where("id = ? AND order_id IS NULL AND is_available = ?", slotID, true).
		Updates(map[string]any{
			"order_id":     orderID,
			"is_available": false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrSlotUnavailable
	}
	return nil
}

func (r *GormSlotRepository) Release(ctx context.Context, slotID, orderID uuid.UUID) (bool, error) {
	res := dbFrom(ctx, r.db).
		Model(&model.AvailabilitySlot{}).
		Where("id = ? AND order_id = ?", slotID, orderID).
		Updates(map[string]any{
			"order_id":     nil,
			"is_available": true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
