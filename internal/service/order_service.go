package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
	"github.com/DimonBel/appointment-app-sub002/internal/logging"
	"github.com/DimonBel/appointment-app-sub002/internal/metrics"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
	"github.com/DimonBel/appointment-app-sub002/internal/notify"
	"github.com/DimonBel/appointment-app-sub002/internal/repository"
)

const defaultNotifyTimeout = 2 * time.Second

// CreateOrderInput: заявка клиента на конкретный слот.
type CreateOrderInput struct {
	ClientID       uuid.UUID
	ProfessionalID uuid.UUID
	SlotID         uuid.UUID
	Details        model.OrderDetails
}

// OrderDeps: хранилища и компоненты, на которых держится жизненный цикл заказа.
type OrderDeps struct {
	Tx        *repository.TxManager
	Orders    repository.OrderRepository
	Slots     repository.SlotRepository
	Templates repository.TemplateRepository
	Configs   repository.DomainConfigRepository
	Ledger    *SlotLedger
	History   *HistoryService
	Intake    *IntakeService
}

type OrderOption func(*OrderService)

// WithClock подменяет источник времени (проверка Complete, метки журнала).
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func WithSink(sink notify.Sink) OrderOption {
	return func(s *OrderService) { s.sink = sink }
}

func WithMetrics(m *metrics.SchedulingMetrics) OrderOption {
	return func(s *OrderService) { s.metrics = m }
}

func WithLogger(l *logging.Logger) OrderOption {
	return func(s *OrderService) { s.logger = l }
}

func WithNotifyTimeout(d time.Duration) OrderOption {
	return func(s *OrderService) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// OrderService: конечный автомат заказа. Каждая операция выполняется в одной короткой транзакции:
// условная запись статуса, захват/освобождение слота и строка журнала коммитятся вместе.
type OrderService struct {
	OrderDeps

	sink          notify.Sink
	metrics       *metrics.SchedulingMetrics
	logger        *logging.Logger
	now           func() time.Time
	notifyTimeout time.Duration
}

func NewOrderService(deps OrderDeps, opts ...OrderOption) *OrderService {
	s := &OrderService{
		OrderDeps:     deps,
		sink:          notify.Nop{},
		logger:        logging.Default(),
		now:           func() time.Time { return time.Now().UTC() },
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder захватывает слот и создаёт заказ в Requested.
// Захват слота идёт первым: при проигрыше гонки ничего не создаётся.
func (s *OrderService) CreateOrder(ctx context.Context, actor calendar.Actor, in CreateOrderInput) (order *model.Order, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(
		attribute.String("slot_id", in.SlotID.String()),
		attribute.String("professional_id", in.ProfessionalID.String()),
	))
	defer func() { s.finish(ctx, span, model.OperationCreate, started, order, err) }()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if in.ClientID == uuid.Nil || in.ProfessionalID == uuid.Nil || in.SlotID == uuid.Nil {
		return nil, invalidArgument("client, professional and slot ids are required")
	}
	if !actor.IsStaff() && (actor.Role != calendar.RoleClient || actor.ID != in.ClientID) {
		return nil, fmt.Errorf("%w: create order for another client", model.ErrForbidden)
	}

	var entry *model.OrderHistory
	err = s.Tx.Do(ctx, func(ctx context.Context) error {
		slot, err := s.Slots.GetByID(ctx, in.SlotID)
		if err != nil {
			return err
		}
		if err := slotError(slot, in.ProfessionalID); err != nil {
			return err
		}
		configID, err := s.domainConfigurationFor(ctx, slot, in.Details.DomainConfigurationID)
		if err != nil {
			return err
		}

		o := &model.Order{
			ID:                    uuid.New(),
			ClientID:              in.ClientID,
			ProfessionalID:        in.ProfessionalID,
			DomainConfigurationID: configID,
			Status:                model.OrderStatusRequested,
			ScheduledAt:           slot.StartsAt.UTC(),
			DurationMinutes:       slot.DurationMinutes(),
			Title:                 in.Details.Title,
			Description:           in.Details.Description,
			Notes:                 in.Details.Notes,
			SlotID:                &slot.ID,
			Version:               1,
		}
		if err := s.Ledger.Claim(ctx, slot.ID, o.ID); err != nil {
			return err
		}
		if err := s.Orders.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		entry, err = s.History.record(ctx, o, model.OperationCreate, nil, "", "", actor.ID, s.now())
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entry)
	return order, nil
}

// domainConfigurationFor: явно переданная конфигурация или конфигурация шаблона слота.
func (s *OrderService) domainConfigurationFor(
	ctx context.Context,
	slot *model.AvailabilitySlot,
	explicit *uuid.UUID,
) (*uuid.UUID, error) {
	if explicit != nil {
		if _, err := s.Configs.GetByID(ctx, *explicit); err != nil {
			return nil, fmt.Errorf("domain configuration: %w", err)
		}
		return explicit, nil
	}
	tpl, err := s.Templates.GetByID(ctx, slot.TemplateID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return tpl.DomainConfigurationID, nil
}

// Approve: Requested → Approved. Требует заполненной анкеты, если её ждёт домен заказа.
func (s *OrderService) Approve(ctx context.Context, actor calendar.Actor, orderID uuid.UUID, reason string) (*model.Order, error) {
	return s.apply(ctx, transitionRequest{op: model.OperationApprove, orderID: orderID, actor: actor, reason: reason})
}

// Decline: Requested → Declined, слот возвращается в пул. Причина обязательна.
func (s *OrderService) Decline(ctx context.Context, actor calendar.Actor, orderID uuid.UUID, reason string) (*model.Order, error) {
	return s.apply(ctx, transitionRequest{op: model.OperationDecline, orderID: orderID, actor: actor, reason: reason})
}

// Cancel: Requested | Approved → Cancelled, слот возвращается в пул.
func (s *OrderService) Cancel(ctx context.Context, actor calendar.Actor, orderID uuid.UUID, reason string) (*model.Order, error) {
	return s.apply(ctx, transitionRequest{op: model.OperationCancel, orderID: orderID, actor: actor, reason: reason})
}

// Complete: Approved → Completed после начала приёма.
// Раньше срока: только с force и только сотрудником или администратором.
func (s *OrderService) Complete(ctx context.Context, actor calendar.Actor, orderID uuid.UUID, notes string, force bool) (*model.Order, error) {
	return s.apply(ctx, transitionRequest{op: model.OperationComplete, orderID: orderID, actor: actor, notes: notes, force: force})
}

// MarkNoShow: Approved → NoShow. Слот остаётся за заказом.
func (s *OrderService) MarkNoShow(ctx context.Context, actor calendar.Actor, orderID uuid.UUID, notes string) (*model.Order, error) {
	return s.apply(ctx, transitionRequest{op: model.OperationNoShow, orderID: orderID, actor: actor, notes: notes})
}

type transitionRequest struct {
	op      model.OrderOperation
	orderID uuid.UUID
	actor   calendar.Actor
	reason  string
	notes   string
	force   bool
}

func (s *OrderService) apply(ctx context.Context, req transitionRequest) (order *model.Order, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "OrderService."+string(req.op), trace.WithAttributes(
		attribute.String("order_id", req.orderID.String()),
		attribute.String("operation", string(req.op)),
	))
	defer func() { s.finish(ctx, span, req.op, started, order, err) }()

	if err := checkActor(req.actor); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.reason)
	if req.op == model.OperationDecline && reason == "" {
		return nil, invalidArgument("decline reason is required")
	}

	var entry *model.OrderHistory
	err = s.Tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.Orders.GetByIDForUpdate(ctx, req.orderID)
		if err != nil {
			return err
		}
		if err := authorize(req.actor, current, req.op); err != nil {
			return err
		}
		next, err := req.op.Next(current.Status)
		if err != nil {
			return err
		}

		now := s.now()
		fields := map[string]any{"status": next}
		switch req.op {
		case model.OperationApprove:
			if err := s.Intake.ValidateForApproval(ctx, current); err != nil {
				return err
			}
		case model.OperationComplete:
			if now.Before(current.ScheduledAt) {
				if !req.force {
					return model.ErrCompletionTooEarly
				}
				if !req.actor.IsStaff() {
					return fmt.Errorf("%w: force-complete requires staff", model.ErrForbidden)
				}
			}
			fields["completed_at"] = now
		}
		if reason != "" {
			fields["reason"] = reason
		}

		if err := s.Orders.UpdateGuarded(ctx, current.ID, current.Status, current.Version, fields); err != nil {
			return err
		}
		if req.op.ReleasesSlot() && current.SlotID != nil {
			if err := s.Ledger.Release(ctx, *current.SlotID, current.ID); err != nil {
				return err
			}
		}

		updated, err := s.Orders.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}
		previous := current.Status
		entry, err = s.History.record(ctx, updated, req.op, &previous, reason, req.notes, req.actor.ID, now)
		if err != nil {
			return err
		}
		order = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entry)
	return order, nil
}

// Reschedule переносит заказ в другой слот, статус не меняется.
// Сначала захватывается новый слот; при неудаче старый остаётся за заказом.
// Ненулевой newDateTime должен совпадать с началом нового слота.
func (s *OrderService) Reschedule(
	ctx context.Context,
	actor calendar.Actor,
	orderID uuid.UUID,
	newDateTime time.Time,
	newSlotID uuid.UUID,
	notes string,
) (order *model.Order, err error) {
	const op = model.OperationReschedule
	started := time.Now()
	ctx, span := tracer.Start(ctx, "OrderService.reschedule", trace.WithAttributes(
		attribute.String("order_id", orderID.String()),
		attribute.String("slot_id", newSlotID.String()),
	))
	defer func() { s.finish(ctx, span, op, started, order, err) }()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if newSlotID == uuid.Nil {
		return nil, invalidArgument("new slot id is required")
	}

	var entry *model.OrderHistory
	err = s.Tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := authorize(actor, current, op); err != nil {
			return err
		}
		if _, err := op.Next(current.Status); err != nil {
			return err
		}
		if current.SlotID != nil && *current.SlotID == newSlotID {
			return invalidArgument("order already holds this slot")
		}

		slot, err := s.Slots.GetByID(ctx, newSlotID)
		if err != nil {
			return err
		}
		if err := slotError(slot, current.ProfessionalID); err != nil {
			return err
		}
		if !newDateTime.IsZero() && !newDateTime.Equal(slot.StartsAt) {
			return invalidArgument("new date-time does not match the slot start")
		}

		if err := s.Ledger.Claim(ctx, slot.ID, current.ID); err != nil {
			return err
		}
		err = s.Orders.UpdateGuarded(ctx, current.ID, current.Status, current.Version, map[string]any{
			"scheduled_at":     slot.StartsAt.UTC(),
			"duration_minutes": slot.DurationMinutes(),
			"slot_id":          slot.ID,
		})
		if err != nil {
			return err
		}
		if current.SlotID != nil {
			if err := s.Ledger.Release(ctx, *current.SlotID, current.ID); err != nil {
				return err
			}
		}

		updated, err := s.Orders.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}
		note := fmt.Sprintf("rescheduled from %s to %s",
			current.ScheduledAt.UTC().Format(time.RFC3339),
			updated.ScheduledAt.UTC().Format(time.RFC3339),
		)
		if extra := strings.TrimSpace(notes); extra != "" {
			note += "; " + extra
		}
		previous := current.Status
		entry, err = s.History.record(ctx, updated, op, &previous, "", note, actor.ID, s.now())
		if err != nil {
			return err
		}
		order = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entry)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor calendar.Actor, orderID uuid.UUID) (*model.Order, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnOrder(order.ClientID, order.ProfessionalID) {
		return nil, fmt.Errorf("%w: read a foreign order", model.ErrForbidden)
	}
	return order, nil
}

// ListOrders: клиент видит только свои заказы, специалист только адресованные ему.
func (s *OrderService) ListOrders(
	ctx context.Context,
	actor calendar.Actor,
	filter model.OrderFilter,
	limit, offset int,
) ([]model.Order, int64, error) {
	if err := checkActor(actor); err != nil {
		return nil, 0, err
	}
	switch actor.Role {
	case calendar.RoleClient:
		filter.ClientID = &actor.ID
	case calendar.RoleProfessional:
		filter.ProfessionalID = &actor.ID
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, invalidArgument("unknown order status")
	}
	orders, total, err := s.Orders.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

func authorize(actor calendar.Actor, o *model.Order, op model.OrderOperation) error {
	switch op {
	case model.OperationCancel, model.OperationReschedule:
		if actor.CanActOnOrder(o.ClientID, o.ProfessionalID) {
			return nil
		}
	default:
		if actor.CanManageProfessional(o.ProfessionalID) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s by %s", model.ErrForbidden, op, actor.Role)
}

// publish отправляет событие после коммита. Ошибка доставки только логируется.
func (s *OrderService) publish(ctx context.Context, entry *model.OrderHistory) {
	if entry == nil || s.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.sink.Publish(ctx, notify.FromHistory(entry)); err != nil {
		s.logger.WarnContext(ctx, "publish order event failed",
			"order_id", entry.OrderID,
			"operation", entry.Operation,
			"error", err,
		)
		s.metrics.ObserveNotifyFailure(string(entry.Operation))
	}
}

func (s *OrderService) finish(
	ctx context.Context,
	span trace.Span,
	op model.OrderOperation,
	started time.Time,
	order *model.Order,
	err error,
) {
	s.metrics.ObserveTransition(string(op), outcome(err), time.Since(started).Seconds())
	if errors.Is(err, model.ErrSlotUnavailable) {
		s.metrics.ObserveClaimConflict(string(op))
	}

	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "order operation applied",
			"operation", op,
			"order_id", order.ID,
			"status", order.Status,
			"version", order.Version,
		)
	case isExpected(err):
		s.logger.WarnContext(ctx, "order operation rejected", "operation", op, "error", err)
	default:
		s.logger.ErrorContext(ctx, "order operation failed", "operation", op, "error", err)
	}
	endSpan(span, err)
}
