package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"marketplace/internal/core/domain/model/notification"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the part of *amqp.Channel the push sender uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PushPayload is published for the push gateway, which owns the device tokens' provider.
type PushPayload struct {
	Token   string `json:"token"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Event   string `json:"event"`
	OrderID string `json:"orderId,omitempty"`
}

// RabbitPushSender publishes push notifications to a fanout exchange.
type RabbitPushSender struct {
	publisher Publisher
	exchange  string
	lock      sync.Mutex
}

// DeclarePushExchange declares the durable fanout exchange the push sender publishes to.
func DeclarePushExchange(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return nil
}

func NewRabbitPushSender(publisher Publisher, exchange string) *RabbitPushSender {
	return &RabbitPushSender{publisher: publisher, exchange: exchange}
}

func (s *RabbitPushSender) Channel() notification.Channel {
	return notification.Push
}

func (s *RabbitPushSender) Send(ctx context.Context, recipient string, msg notification.Message) error {
	payload := PushPayload{
		Token: recipient,
		Title: msg.Title,
		Body:  msg.Text,
		Event: msg.Topic.String() + ":" + msg.Event,
	}
	if msg.OrderID != nil {
		payload.OrderID = msg.OrderID.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	err = s.publisher.PublishWithContext(ctx, s.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish push message: %w", err)
	}
	return nil
}
