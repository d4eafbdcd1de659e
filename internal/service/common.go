package service

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

var tracer = otel.Tracer("scheduling.internal.service")

// outcome: метка результата для метрик.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, model.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, model.ErrConcurrentModification):
		return "concurrent_modification"
	case errors.Is(err, model.ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrForbidden):
		return "forbidden"
	case errors.Is(err, model.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, model.ErrCompletionTooEarly):
		return "too_early"
	case errors.Is(err, model.ErrIntakeLocked):
		return "intake_locked"
	default:
		return "error"
	}
}

// isExpected: штатный исход, который не говорит о неисправности системы.
func isExpected(err error) bool {
	o := outcome(err)
	return o != "ok" && o != "error"
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func checkActor(a calendar.Actor) error {
	if err := calendar.ValidateActor(a); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
	}
	return nil
}

func invalidArgument(reason string) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidArgument, reason)
}
