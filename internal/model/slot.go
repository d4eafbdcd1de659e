package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
)

// availability_slots — конкретные интервалы, нарезанные из шаблонов.
// Пара (professional_id, starts_at) уникальна: на ней держится идемпотентность генерации.
type AvailabilitySlot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	TemplateID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProfessionalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_slot_professional_start,priority:1"`

	StartsAt time.Time `gorm:"not null;uniqueIndex:idx_slot_professional_start,priority:2"`
	EndsAt   time.Time `gorm:"not null"`

	IsAvailable bool `gorm:"not null;index"`

	// Заказ, который сейчас удерживает слот. Меняется только через Claim/Release.
	OrderID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (s *AvailabilitySlot) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *AvailabilitySlot) Range() calendar.TimeRange {
	return calendar.TimeRange{Start: s.StartsAt, End: s.EndsAt}
}

func (s *AvailabilitySlot) DurationMinutes() int {
	return int(s.EndsAt.Sub(s.StartsAt) / time.Minute)
}

// IsFree: флаг доступности выставлен и слот никем не удерживается.
func (s *AvailabilitySlot) IsFree() bool {
	return s.IsAvailable && s.OrderID == nil
}
