package notification

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
)

// Topic is the entity a message is about.
type Topic string

const (
	TopicOrder    Topic = "order"
	TopicDelivery Topic = "delivery"
	TopicPayment  Topic = "payment"
	TopicLoyalty  Topic = "loyalty"
)

func (t Topic) String() string {
	return string(t)
}

var orderMessages = map[string]string{
	"created":                              "Your order has been placed successfully!",
	"status_pending_to_paid":               "Payment received! Your order is being prepared.",
	"status_paid_to_preparing":             "Your order is being prepared.",
	"status_preparing_to_ready":            "Your order is ready for pickup!",
	"status_ready_to_out_for_delivery":     "Your order is out for delivery!",
	"status_out_for_delivery_to_delivered": "Your order has been delivered. Enjoy!",
	"cancelled":                            "Your order has been cancelled.",
}

var deliveryMessages = map[string]string{
	"accepted":          "A driver has accepted your delivery!",
	"status_picked_up":  "Your order has been picked up by the driver.",
	"status_in_transit": "Your order is on the way!",
	"status_delivered":  "Your order has been delivered!",
}

var paymentMessages = map[string]string{
	"completed": "Payment successful!",
	"failed":    "Payment failed. Please try again.",
	"refunded":  "Payment has been refunded.",
}

var fallbacks = map[Topic]string{
	TopicOrder:    "Order status updated",
	TopicDelivery: "Delivery status updated",
	TopicPayment:  "Payment status updated",
	TopicLoyalty:  "Loyalty status updated",
}

var titles = map[Topic]string{
	TopicOrder:    "Order update",
	TopicDelivery: "Delivery update",
	TopicPayment:  "Payment update",
	TopicLoyalty:  "Loyalty update",
}

// Text resolves the human-readable text of an event key.
// Unknown keys fall back to "<Entity> status updated".
func Text(topic Topic, event string) string {
	var table map[string]string
	switch topic {
	case TopicOrder:
		table = orderMessages
	case TopicDelivery:
		table = deliveryMessages
	case TopicPayment:
		table = paymentMessages
	}
	if msg, ok := table[event]; ok {
		return msg
	}
	return fallbacks[topic]
}

// TierUpText is the loyalty message for reaching a new tier.
func TierUpText(tier string) string {
	return fmt.Sprintf("Congratulations! You have reached the %s tier.", tier)
}

// Message is what the fanout delivers to one recipient.
type Message struct {
	Topic     Topic
	Event     string
	Recipient kernel.UUID
	OrderID   *kernel.UUID
	Title     string
	Text      string
}

// NewMessage resolves title and text from the event key.
func NewMessage(topic Topic, event string, recipient kernel.UUID, orderID *kernel.UUID) Message {
	return Message{
		Topic:     topic,
		Event:     event,
		Recipient: recipient,
		OrderID:   orderID,
		Title:     titles[topic],
		Text:      Text(topic, event),
	}
}

// Realtime topics.
const (
	BroadcastTopic = "broadcast"
	AdminTopic     = "admin"
	TrackingTopic  = "tracking"
)

// UserTopic is the private topic of one user.
func UserTopic(userID kernel.UUID) string {
	return "user:" + userID.String()
}
