package notifications

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the Redis pub/sub channel carrying quotation notifications
// between the worker, the API and connected websocket clients.
const Channel = "quotation-events"

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

var _ interfaces.INotifier = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: Channel}
}

func (p *RedisPublisher) Notify(ctx context.Context, n entities.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", n.Type, err)
	}
	return nil
}

// Relay forwards every notification published on Channel to the hub until
// ctx is cancelled. Malformed payloads are logged and dropped.
func Relay(ctx context.Context, client *redis.Client, hub *Hub, log *zap.Logger) error {
	sub := client.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", Channel, err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var n entities.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Warn("dropping malformed notification", zap.Error(err))
				continue
			}
			hub.Deliver(n)
		}
	}
}
