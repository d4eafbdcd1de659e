package scheduling

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

// ErrorDomain: домен в errdetails.ErrorInfo для всех ошибок сервиса.
const ErrorDomain = "scheduling.v1"

// Стабильные причины ошибок для клиентов.
const (
	ReasonNotFound               = "NOT_FOUND"
	ReasonSlotUnavailable        = "SLOT_UNAVAILABLE"
	ReasonInvalidTransition      = "INVALID_TRANSITION"
	ReasonConcurrentModification = "CONCURRENT_MODIFICATION"
	ReasonValidationFailed       = "VALIDATION_FAILED"
	ReasonInvalidArgument        = "INVALID_ARGUMENT"
	ReasonForbidden              = "FORBIDDEN"
	ReasonCompletionTooEarly     = "COMPLETION_TOO_EARLY"
	ReasonIntakeLocked           = "INTAKE_LOCKED"
	ReasonInternal               = "INTERNAL"
)

func classify(err error) (codes.Code, string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return codes.NotFound, ReasonNotFound
	case errors.Is(err, model.ErrSlotUnavailable):
		return codes.Aborted, ReasonSlotUnavailable
	case errors.Is(err, model.ErrInvalidTransition):
		return codes.FailedPrecondition, ReasonInvalidTransition
	case errors.Is(err, model.ErrConcurrentModification):
		return codes.Aborted, ReasonConcurrentModification
	case errors.Is(err, model.ErrValidationFailed):
		return codes.InvalidArgument, ReasonValidationFailed
	case errors.Is(err, model.ErrInvalidArgument):
		return codes.InvalidArgument, ReasonInvalidArgument
	case errors.Is(err, model.ErrForbidden):
		return codes.PermissionDenied, ReasonForbidden
	case errors.Is(err, model.ErrCompletionTooEarly):
		return codes.FailedPrecondition, ReasonCompletionTooEarly
	case errors.Is(err, model.ErrIntakeLocked):
		return codes.FailedPrecondition, ReasonIntakeLocked
	case errors.Is(err, context.Canceled):
		return codes.Canceled, ReasonInternal
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded, ReasonInternal
	default:
		return codes.Internal, ReasonInternal
	}
}

// toStatus переводит доменную ошибку в gRPC-статус с ErrorInfo.
// Внутренние ошибки не раскрывают текст хранилища.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code, reason := classify(err)
	msg := err.Error()
	if code == codes.Internal {
		msg = "internal error"
	}
	st := status.New(code, msg)

	info := &errdetails.ErrorInfo{Reason: reason, Domain: ErrorDomain}
	var ite *model.InvalidTransitionError
	if errors.As(err, &ite) {
		info.Metadata = map[string]string{
			"current_status": string(ite.Current),
			"operation":      string(ite.Attempted),
		}
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		br := &errdetails.BadRequest{}
		for _, field := range ve.Missing {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       field,
				Description: "required field is missing",
			})
		}
		return withDetails(st, info, br)
	}
	return withDetails(st, info)
}

func withDetails(st *status.Status, details ...protoadapt.MessageV1) error {
	out, err := st.WithDetails(details...)
	if err != nil {
		return st.Err()
	}
	return out.Err()
}

// badRequest: ошибка разбора полей запроса.
func badRequest(field, description string) error {
	st := status.New(codes.InvalidArgument, field+": "+description)
	br := &errdetails.BadRequest{FieldViolations: []*errdetails.BadRequest_FieldViolation{{
		Field:       field,
		Description: description,
	}}}
	info := &errdetails.ErrorInfo{Reason: ReasonInvalidArgument, Domain: ErrorDomain}
	return withDetails(st, info, br)
}
