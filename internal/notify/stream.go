package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// StreamMessenger appends notices to a Redis stream for an external sender to consume.
type StreamMessenger struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewStreamMessenger(client *redis.Client, stream string) *StreamMessenger {
	return &StreamMessenger{client: client, stream: stream, maxLen: 10000}
}

func (m *StreamMessenger) Send(ctx context.Context, n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}
	err = m.client.XAdd(ctx, &redis.XAddArgs{
		Stream: m.stream,
		MaxLen: m.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"kind":      string(n.Kind),
			"data":      string(data),
			"timestamp": n.CreatedAt.Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", m.stream, err)
	}
	return nil
}
