// Package notify публикует события жизненного цикла заказа во внешний конвейер доставки.
// Доставка не входит в ядро: ошибка публикации никогда не откатывает переход.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/DimonBel/appointment-app-sub002/internal/logging"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

// Event: переход заказа, зафиксированный в журнале.
type Event struct {
	OrderID        uuid.UUID            `json:"order_id"`
	Operation      model.OrderOperation `json:"operation"`
	PreviousStatus *model.OrderStatus   `json:"previous_status,omitempty"`
	NewStatus      model.OrderStatus    `json:"new_status"`
	ActorID        uuid.UUID            `json:"actor_id"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

// FromHistory строит событие по записи журнала.
func FromHistory(h *model.OrderHistory) Event {
	return Event{
		OrderID:        h.OrderID,
		Operation:      h.Operation,
		PreviousStatus: h.PreviousStatus,
		NewStatus:      h.NewStatus,
		ActorID:        h.ActorID,
		OccurredAt:     h.CreatedAt.UTC(),
	}
}

type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Nop ничего не делает.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// LogSink пишет события в лог.
type LogSink struct {
	logger *logging.Logger
}

func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, e Event) error {
	prev := ""
	if e.PreviousStatus != nil {
		prev = string(*e.PreviousStatus)
	}
	s.logger.InfoContext(ctx, "order event",
		"order_id", e.OrderID,
		"operation", e.Operation,
		"previous_status", prev,
		"new_status", e.NewStatus,
		"actor_id", e.ActorID,
		"occurred_at", e.OccurredAt,
	)
	return nil
}

// MultiSink рассылает событие во все приёмники и собирает ошибки.
type MultiSink []Sink

func (m MultiSink) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
