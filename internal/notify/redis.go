package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStreamSink добавляет события в Redis Stream (XADD MAXLEN ~).
type RedisStreamSink struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

func NewRedisStreamSink(client redis.Cmdable, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisStreamSink) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	prev := ""
	if e.PreviousStatus != nil {
		prev = string(*e.PreviousStatus)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"order_id":        e.OrderID.String(),
			"operation":       string(e.Operation),
			"previous_status": prev,
			"new_status":      string(e.NewStatus),
			"actor_id":        e.ActorID.String(),
			"occurred_at":     e.OccurredAt.UnixMilli(),
			"payload":         string(payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
