package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orders — заявка клиента на конкретный слот специалиста.
// Меняется только операциями жизненного цикла; Version растёт на каждой мутации.
type Order struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ClientID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProfessionalID uuid.UUID `gorm:"type:uuid;not null;index"`

	DomainConfigurationID *uuid.UUID `gorm:"type:uuid;index"`

	Status OrderStatus `gorm:"type:varchar(32);not null;index"`

	ScheduledAt     time.Time `gorm:"not null;index"`
	DurationMinutes int       `gorm:"not null"`

	Title       string `gorm:"type:varchar(255)"`
	Description string `gorm:"type:text"`
	Notes       string `gorm:"type:text"`

	// Причина последнего решения (одобрение, отказ, отмена).
	Reason string `gorm:"type:text"`

	SlotID         *uuid.UUID `gorm:"type:uuid;index"`
	PreOrderDataID *uuid.UUID `gorm:"type:uuid"`

	Version int `gorm:"not null"`

	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	CompletedAt *time.Time
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// EndsAt: плановое окончание приёма.
func (o *Order) EndsAt() time.Time {
	return o.ScheduledAt.Add(time.Duration(o.DurationMinutes) * time.Minute)
}

// OrderDetails: свободные поля, которые клиент передаёт при создании.
type OrderDetails struct {
	Title                 string
	Description           string
	Notes                 string
	DomainConfigurationID *uuid.UUID
}

// OrderFilter используется для выборки заказов клиента или специалиста.
type OrderFilter struct {
	ClientID       *uuid.UUID
	ProfessionalID *uuid.UUID
	Status         *OrderStatus
	From           *time.Time
	To             *time.Time
}
