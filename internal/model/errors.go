package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
)

// Ошибки ядра. Все ожидаемые исходы возвращаются значениями, а не паниками.
var (
	ErrNotFound               = errors.New("not found")
	ErrSlotUnavailable        = errors.New("slot is no longer available")
	ErrInvalidTransition      = errors.New("invalid order transition")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrValidationFailed       = errors.New("intake validation failed")
	ErrConfigurationConflict  = errors.New("overlapping availability templates")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrForbidden              = errors.New("operation not permitted for caller")
	ErrCompletionTooEarly     = errors.New("order cannot be completed before its scheduled time")
	ErrIntakeLocked           = errors.New("pre-order data can no longer be changed")
)

// InvalidTransitionError: операция не разрешена из текущего статуса.
type InvalidTransitionError struct {
	Current   OrderStatus
	Attempted OrderOperation
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s from %s", e.Attempted, e.Current)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// ValidationError: анкета не содержит обязательных полей.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// ConfigurationConflictError: два шаблона одного специалиста дают пересекающиеся интервалы.
// Не фатальна: генерация продолжается, интервал остаётся за первым шаблоном.
type ConfigurationConflictError struct {
	TemplateID            uuid.UUID
	ConflictingTemplateID uuid.UUID
	Range                 calendar.TimeRange
}

func (e *ConfigurationConflictError) Error() string {
	return fmt.Sprintf("template %s interval %s–%s overlaps template %s",
		e.TemplateID,
		e.Range.Start.Format("2006-01-02 15:04"),
		e.Range.End.Format("15:04"),
		e.ConflictingTemplateID,
	)
}

func (e *ConfigurationConflictError) Unwrap() error { return ErrConfigurationConflict }
