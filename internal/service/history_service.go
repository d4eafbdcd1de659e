package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
	"github.com/DimonBel/appointment-app-sub002/internal/repository"
)

// HistoryService ведёт журнал переходов заказа.
type HistoryService struct {
	orders  repository.OrderRepository
	history repository.HistoryRepository
}

func NewHistoryService(orders repository.OrderRepository, history repository.HistoryRepository) *HistoryService {
	return &HistoryService{orders: orders, history: history}
}

// record добавляет строку журнала для уже изменённого заказа.
// Вызывается только внутри транзакции перехода; Seq равен новой версии заказа.
func (h *HistoryService) record(
	ctx context.Context,
	order *model.Order,
	op model.OrderOperation,
	previous *model.OrderStatus,
	reason, notes string,
	actorID uuid.UUID,
	at time.Time,
) (*model.OrderHistory, error) {
	entry := &model.OrderHistory{
		OrderID:        order.ID,
		Seq:            order.Version,
		Operation:      op,
		PreviousStatus: previous,
		NewStatus:      order.Status,
		Reason:         reason,
		Notes:          notes,
		ActorID:        actorID,
		CreatedAt:      at,
	}
	if err := h.history.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return entry, nil
}

// GetHistory возвращает журнал заказа по порядку переходов.
func (h *HistoryService) GetHistory(ctx context.Context, actor calendar.Actor, orderID uuid.UUID) ([]model.OrderHistory, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnOrder(order.ClientID, order.ProfessionalID) {
		return nil, fmt.Errorf("%w: read history of a foreign order", model.ErrForbidden)
	}
	entries, err := h.history.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Verify сверяет журнал с таблицей переходов и с текущим состоянием заказа.
func (h *HistoryService) Verify(ctx context.Context, orderID uuid.UUID) (bool, error) {
	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	entries, err := h.history.ListByOrder(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("list history: %w", err)
	}
	if !model.ValidateHistoryPath(entries) {
		return false, nil
	}
	last := entries[len(entries)-1]
	return len(entries) == order.Version && last.NewStatus == order.Status, nil
}
