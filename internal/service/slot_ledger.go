package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DimonBel/appointment-app-sub002/internal/logging"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
	"github.com/DimonBel/appointment-app-sub002/internal/repository"
)

// SlotLedger: единственный источник истины о том, кем занят слот.
// Захват выполняется условной записью в хранилище, без блокировок в памяти.
type SlotLedger struct {
	slots  repository.SlotRepository
	orders repository.OrderRepository
	logger *logging.Logger
}

func NewSlotLedger(slots repository.SlotRepository, orders repository.OrderRepository, logger *logging.Logger) *SlotLedger {
	if logger == nil {
		logger = logging.Default()
	}
	return &SlotLedger{slots: slots, orders: orders, logger: logger}
}

// IsAvailable: флаг выставлен, слот не удерживается и на него не ссылается ни один живой заказ.
func (l *SlotLedger) IsAvailable(ctx context.Context, slotID uuid.UUID) (bool, error) {
	slot, err := l.slots.GetByID(ctx, slotID)
	if err != nil {
		return false, err
	}
	if !slot.IsFree() {
		return false, nil
	}
	n, err := l.orders.CountActiveBySlot(ctx, slotID)
	if err != nil {
		return false, fmt.Errorf("count active orders: %w", err)
	}
	return n == 0, nil
}

// Claim возвращает model.ErrSlotUnavailable, если слот занят или не существует.
func (l *SlotLedger) Claim(ctx context.Context, slotID, orderID uuid.UUID) error {
	return l.slots.Claim(ctx, slotID, orderID)
}

// Release освобождает слот, только если он удерживается этим заказом.
func (l *SlotLedger) Release(ctx context.Context, slotID, orderID uuid.UUID) error {
	released, err := l.slots.Release(ctx, slotID, orderID)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if !released {
		l.logger.WarnContext(ctx, "slot was not held by order", "slot_id", slotID, "order_id", orderID)
	}
	return nil
}

// validateSlotModel проверяет слот перед захватом.
// Пустой professionalID отключает проверку владельца.
func validateSlotModel(slot *model.AvailabilitySlot, professionalID uuid.UUID) (bool, string) {
	if !slot.EndsAt.After(slot.StartsAt) {
		return false, "invalid slot time range"
	}
	if !slot.IsFree() {
		return false, "slot is not free"
	}
	if professionalID != uuid.Nil && slot.ProfessionalID != professionalID {
		return false, "slot professional mismatch"
	}
	return true, ""
}

// slotError переводит результат validateSlotModel в доменную ошибку.
func slotError(slot *model.AvailabilitySlot, professionalID uuid.UUID) error {
	ok, reason := validateSlotModel(slot, professionalID)
	if ok {
		return nil
	}
	if reason == "slot is not free" {
		return model.ErrSlotUnavailable
	}
	return invalidArgument(reason)
}
