package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

type OrderRepository interface {
	// Создать заказ.
	Create(ctx context.Context, order *model.Order) error
	// Получить заказ по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// Получить заказ и заблокировать строку до конца транзакции.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// Обновить заказ, если статус и версия не изменились с момента чтения.
	UpdateGuarded(ctx context.Context, id uuid.UUID, status model.OrderStatus, version int, fields map[string]any) error
	// Привязать анкету к заказу в Requested. Не является переходом, версия не меняется.
	LinkPreOrderData(ctx context.Context, orderID, dataID uuid.UUID) error
	// Сколько незавершённых заказов ссылается на слот.
	CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int64, error)
	// Список заказов по фильтру с пагинацией.
	List(ctx context.Context, filter model.OrderFilter, limit, offset int) ([]model.Order, int64, error)
}

// Реализация на GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return dbFrom(ctx, r.db).Create(order).Error
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	if err := dbFrom(ctx, r.db).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// GetByIDForUpdate: SELECT ... FOR UPDATE. SQLite блокировок строк не знает,
// там транзакции и так идут по одной.
func (r *GormOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", id).
		Error
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// UpdateGuarded поднимает версию на единицу. Ноль затронутых строк означает,
// что заказ успел измениться, и вызывающий получает ErrConcurrentModification.
func (r *GormOrderRepository) UpdateGuarded(
	ctx context.Context,
	id uuid.UUID,
	status model.OrderStatus,
	version int,
	fields map[string]any,
) error {
	update := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		update[k] = v
	}
	update["version"] = version + 1

	res := dbFrom(ctx, r.db).
		Model(&model.Order{}).
		Where("id = ? AND status = ? AND version = ?", id, status, version).
		Updates(update)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrConcurrentModification
	}
	return nil
}

func (r *GormOrderRepository) LinkPreOrderData(ctx context.Context, orderID, dataID uuid.UUID) error {
	res := dbFrom(ctx, r.db).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusRequested).
		Update("pre_order_data_id", dataID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrIntakeLocked
	}
	return nil
}

func (r *GormOrderRepository) CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int64, error) {
	var n int64
	err := dbFrom(ctx, r.db).
		Model(&model.Order{}).
		Where("slot_id = ? AND status IN ?", slotID, model.ActiveOrderStatuses).
		Count(&n).
		Error
	return n, err
}

func (r *GormOrderRepository) List(
	ctx context.Context,
	filter model.OrderFilter,
	limit, offset int,
) ([]model.Order, int64, error) {
	var (
		orders []model.Order
		total  int64
	)

	q := dbFrom(ctx, r.db).Model(&model.Order{})
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *filter.ProfessionalID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		q = q.Where("scheduled_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("scheduled_at < ?", filter.To.UTC())
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("scheduled_at DESC").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
