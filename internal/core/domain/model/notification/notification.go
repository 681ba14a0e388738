package notification

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Notification is the append-only record of one delivery attempt through one channel.
type Notification struct {
	ID           kernel.UUID
	UserID       kernel.UUID
	OrderID      *kernel.UUID
	Channel      Channel
	Title        string
	Message      string
	Status       Status
	SentAt       *time.Time
	ErrorMessage string
	Metadata     map[string]any
	CreatedAt    time.Time
}

// Attempt builds the record for one channel attempt from its outcome.
// A nil sendErr means the message was accepted by the channel.
func Attempt(msg Message, channel Channel, sendErr error, now time.Time) (Notification, error) {
	if err := msg.Recipient.Validate(); err != nil {
		return Notification{}, err
	}
	if msg.Text == "" {
		return Notification{}, errs.NewValueIsRequiredError("message")
	}

	n := Notification{
		ID:        kernel.NewUUID(),
		UserID:    msg.Recipient,
		OrderID:   msg.OrderID,
		Channel:   channel,
		Title:     msg.Title,
		Message:   msg.Text,
		Metadata:  map[string]any{"event": msg.Event, "topic": msg.Topic.String()},
		CreatedAt: now,
	}
	if sendErr != nil {
		n.Status = StatusFailed
		n.ErrorMessage = sendErr.Error()
		return n, nil
	}
	n.Status = StatusSent
	n.SentAt = &now
	return n, nil
}
