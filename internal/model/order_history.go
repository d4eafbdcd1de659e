package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// order_history — журнал переходов. Строки только добавляются.
// Seq совпадает с версией заказа после мутации, поэтому (order_id, seq) уникален.
type OrderHistory struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_history_seq,priority:1"`
	Seq     int       `gorm:"not null;uniqueIndex:idx_order_history_seq,priority:2"`

	Operation OrderOperation `gorm:"type:varchar(32);not null"`

	// nil: запись о создании заказа.
	PreviousStatus *OrderStatus `gorm:"type:varchar(32)"`
	NewStatus      OrderStatus  `gorm:"type:varchar(32);not null"`

	Reason string `gorm:"type:text"`
	Notes  string `gorm:"type:text"`

	ActorID uuid.UUID `gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName фиксирует имя таблицы: gorm сделал бы из него order_histories.
func (OrderHistory) TableName() string {
	return "order_history"
}

func (h *OrderHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// ValidateHistoryPath проверяет, что журнал начинается с создания
// и каждая следующая запись продолжает путь по графу статусов.
func ValidateHistoryPath(entries []OrderHistory) bool {
	if len(entries) == 0 {
		return false
	}
	var current *OrderStatus
	for i := range entries {
		e := entries[i]
		if (current == nil) != (e.PreviousStatus == nil) {
			return false
		}
		if current != nil && *current != *e.PreviousStatus {
			return false
		}
		if !IsValidStep(e.PreviousStatus, e.Operation, e.NewStatus) {
			return false
		}
		next := e.NewStatus
		current = &next
	}
	return true
}
