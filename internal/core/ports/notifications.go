package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
)

// EventNotifier hands committed domain events to the notification fanout.
// It never fails the caller; delivery problems are logged and recorded.
type EventNotifier interface {
	Notify(ctx context.Context, events ...kernel.DomainEvent)
}

// RealtimePublisher pushes a named event with a JSON-serializable payload to a topic
// such as "user:<id>", "admin", "tracking" or "broadcast".
type RealtimePublisher interface {
	Publish(ctx context.Context, topic, event string, payload any) error
}

// ChannelSender delivers text to one recipient address through one side channel.
type ChannelSender interface {
	Channel() notification.Channel
	Send(ctx context.Context, recipient string, msg notification.Message) error
}

// ContactDirectory resolves the side-channel addresses of a user.
type ContactDirectory interface {
	Contact(ctx context.Context, userID kernel.UUID) (notification.Contact, error)
}

// NotificationRepository appends notification attempt records.
type NotificationRepository interface {
	Add(ctx context.Context, n notification.Notification) error
}
