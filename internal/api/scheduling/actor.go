package scheduling

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
)

// Метаданные, в которых шлюз передаёт личность вызывающего.
const (
	ActorIDHeader   = "x-actor-id"
	ActorRoleHeader = "x-actor-role"
)

// actorFromContext читает вызывающего из входящих метаданных.
func actorFromContext(ctx context.Context) (calendar.Actor, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return calendar.Actor{}, badRequest(ActorIDHeader, "caller identity metadata is missing")
	}
	rawID := first(md.Get(ActorIDHeader))
	id, err := uuid.Parse(rawID)
	if err != nil {
		return calendar.Actor{}, badRequest(ActorIDHeader, "must be a uuid")
	}
	role, err := calendar.ParseRole(first(md.Get(ActorRoleHeader)))
	if err != nil {
		return calendar.Actor{}, badRequest(ActorRoleHeader, "unknown role")
	}
	return calendar.Actor{ID: id, Role: role}, nil
}

// WithActor добавляет личность вызывающего в исходящие метаданные клиента.
func WithActor(ctx context.Context, actor calendar.Actor) context.Context {
	return metadata.AppendToOutgoingContext(ctx,
		ActorIDHeader, actor.ID.String(),
		ActorRoleHeader, string(actor.Role),
	)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
