// Package channels holds the outbound side-channel senders used by the
// notification fanout.
package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/notification"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the senders use.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter builds a writer for one topic. Messages with the same key land
// on the same partition, so one recipient's messages stay ordered.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
}

// OutboundMessage is the record consumed by the email and SMS gateways.
type OutboundMessage struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	UserID  string `json:"userId"`
	OrderID string `json:"orderId,omitempty"`
	Event   string `json:"event"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// KafkaSender hands email or SMS messages to a gateway through a Kafka topic.
type KafkaSender struct {
	channel notification.Channel
	writer  MessageWriter
}

func NewKafkaEmailSender(writer MessageWriter) *KafkaSender {
	return &KafkaSender{channel: notification.Email, writer: writer}
}

func NewKafkaSMSSender(writer MessageWriter) *KafkaSender {
	return &KafkaSender{channel: notification.SMS, writer: writer}
}

func (s *KafkaSender) Channel() notification.Channel {
	return s.channel
}

func (s *KafkaSender) Send(ctx context.Context, recipient string, msg notification.Message) error {
	out := OutboundMessage{
		Channel: s.channel.String(),
		To:      recipient,
		UserID:  msg.Recipient.String(),
		Event:   msg.Topic.String() + ":" + msg.Event,
		Body:    msg.Text,
	}
	if s.channel == notification.Email {
		out.Subject = msg.Title
	}
	if msg.OrderID != nil {
		out.OrderID = msg.OrderID.String()
	}

	value, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", s.channel, err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(out.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "channel", Value: []byte(s.channel.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write %s message: %w", s.channel, err)
	}
	return nil
}
