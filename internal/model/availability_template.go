package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
)

// Вид правила доступности.
type ScheduleKind string

const (
	ScheduleKindRecurring ScheduleKind = "recurring"
	ScheduleKindOneTime   ScheduleKind = "one_time"
)

// availability_templates — правила, по которым специалист публикует доступность.
type AvailabilityTemplate struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ProfessionalID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Если задано, длительность слота берётся из конфигурации домена.
	DomainConfigurationID *uuid.UUID `gorm:"type:uuid;index"`

	Kind ScheduleKind `gorm:"type:varchar(16);not null"`

	// Только для Recurring: 0=воскресенье … 6=суббота.
	DayOfWeek *int `gorm:"type:smallint"`

	// Ежедневное окно "HH:MM"–"HH:MM", полуоткрытое [StartTime, EndTime).
	StartTime string `gorm:"type:varchar(5);not null"`
	EndTime   string `gorm:"type:varchar(5);not null"`

	// Для Recurring: необязательные границы, для OneTime, обязательный диапазон.
	StartDate *datatypes.Date `gorm:"type:date"`
	EndDate   *datatypes.Date `gorm:"type:date"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (t *AvailabilityTemplate) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Window возвращает дневное окно шаблона в минутах от полуночи.
func (t *AvailabilityTemplate) Window() (startMin, endMin int, err error) {
	startMin, err = calendar.ParseClock(t.StartTime)
	if err != nil {
		return 0, 0, err
	}
	endMin, err = calendar.ParseEndClock(t.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if startMin >= endMin {
		return 0, 0, calendar.ErrInvalidTimeRange
	}
	return startMin, endMin, nil
}

// MatchesDate сообщает, применимо ли правило к дате (время суток игнорируется).
func (t *AvailabilityTemplate) MatchesDate(date time.Time) bool {
	if !t.IsActive {
		return false
	}
	day := calendar.DateOnly(date)

	switch t.Kind {
	case ScheduleKindRecurring:
		if t.DayOfWeek == nil || time.Weekday(*t.DayOfWeek) != day.Weekday() {
			return false
		}
		if t.StartDate != nil && day.Before(dateValue(t.StartDate)) {
			return false
		}
		if t.EndDate != nil && day.After(dateValue(t.EndDate)) {
			return false
		}
		return true
	case ScheduleKindOneTime:
		if t.StartDate == nil || t.EndDate == nil {
			return false
		}
		return !day.Before(dateValue(t.StartDate)) && !day.After(dateValue(t.EndDate))
	default:
		return false
	}
}

// NewDate приводит момент времени к datatypes.Date (полночь UTC).
func NewDate(t time.Time) *datatypes.Date {
	d := datatypes.Date(calendar.DateOnly(t))
	return &d
}

func dateValue(d *datatypes.Date) time.Time {
	return calendar.DateOnly(time.Time(*d))
}
