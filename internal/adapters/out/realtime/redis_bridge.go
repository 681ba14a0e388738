package realtime

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "marketplace:realtime:"

// RedisBridge shares realtime events between service instances. Publish sends
// the encoded frame to Redis; Run receives the frames of every instance,
// including this one, and hands them to the local hub.
type RedisBridge struct {
	client *redis.Client
	hub    *Hub
	logger *slog.Logger
}

func NewRedisBridge(client *redis.Client, hub *Hub, logger *slog.Logger) *RedisBridge {
	return &RedisBridge{
		client: client,
		hub:    hub,
		logger: logger.With("component", "realtime_redis_bridge"),
	}
}

func (b *RedisBridge) Publish(ctx context.Context, topic, event string, payload any) error {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelPrefix+topic, frame).Err()
}

// Run relays frames until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	b.logger.InfoContext(ctx, "subscribed to realtime channels", "pattern", channelPrefix+"*")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.hub.Deliver(strings.TrimPrefix(msg.Channel, channelPrefix), []byte(msg.Payload))
		}
	}
}
