// Package notifications turns committed domain events into realtime messages and
// side-channel deliveries, recording the outcome of every attempt.
package notifications

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
	"marketplace/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Fanout is the stateless dispatcher behind ports.EventNotifier.
//
// For each event it publishes to the broadcast, customer, admin and driver topics
// as the event requires, then attempts every configured side channel for which
// the customer has an address. Channels run in parallel and independently; no
// failure is returned to the caller.
type Fanout struct {
	realtime ports.RealtimePublisher
	contacts ports.ContactDirectory
	records  ports.NotificationRepository
	senders  []ports.ChannelSender
	logger   *slog.Logger
	clock    kernel.Clock
}

func NewFanout(
	realtime ports.RealtimePublisher,
	contacts ports.ContactDirectory,
	records ports.NotificationRepository,
	logger *slog.Logger,
	clock kernel.Clock,
	senders ...ports.ChannelSender,
) *Fanout {
	if clock == nil {
		clock = kernel.SystemClock
	}
	return &Fanout{
		realtime: realtime,
		contacts: contacts,
		records:  records,
		senders:  senders,
		logger:   logger.With("component", "notification_fanout"),
		clock:    clock,
	}
}

// Notify dispatches the events in order. The request context may already be
// finishing, so dispatch runs detached from its cancellation.
func (f *Fanout) Notify(ctx context.Context, events ...kernel.DomainEvent) {
	ctx = context.WithoutCancel(ctx)
	for _, event := range events {
		f.dispatch(ctx, event)
	}
}

func (f *Fanout) dispatch(ctx context.Context, event kernel.DomainEvent) {
	p, ok := planFor(event)
	if !ok {
		f.logger.WarnContext(ctx, "no notification route for event", "event", event.EventName())
		return
	}

	ctx, span := tracing.Start(ctx, "notifications.Fanout.dispatch")
	span.SetAttributes(attribute.String("event", event.EventName()))
	defer span.End()

	for _, r := range p.routes {
		err := f.realtime.Publish(ctx, r.topic, r.name, r.env)
		if err != nil {
			f.logger.ErrorContext(ctx, "realtime publish failed", "topic", r.topic, "name", r.name, "error", err)
		}
		if r.inApp && p.message != nil {
			f.record(ctx, *p.message, notification.InApp, err)
		}
	}

	if p.message == nil || len(f.senders) == 0 {
		return
	}
	f.sendSideChannels(ctx, *p.message)
}

func (f *Fanout) sendSideChannels(ctx context.Context, msg notification.Message) {
	contact, err := f.contacts.Contact(ctx, msg.Recipient)
	if err != nil {
		f.logger.WarnContext(ctx, "contact lookup failed, side channels skipped", "user_id", msg.Recipient.String(), "error", err)
		return
	}

	var g errgroup.Group
	for _, sender := range f.senders {
		address, ok := contact.Address(sender.Channel())
		if !ok {
			continue
		}
		g.Go(func() error {
			sendErr := sender.Send(ctx, address, msg)
			if sendErr != nil {
				sendErr = errs.NewExternalChannelErrorWithCause(sender.Channel().String(), sendErr)
				f.logger.WarnContext(ctx, "notification channel failed",
					"channel", sender.Channel().String(), "event", msg.Event, "error", sendErr)
			}
			f.record(ctx, msg, sender.Channel(), sendErr)
			return nil
		})
	}
	_ = g.Wait()
}

func (f *Fanout) record(ctx context.Context, msg notification.Message, channel notification.Channel, sendErr error) {
	n, err := notification.Attempt(msg, channel, sendErr, f.clock())
	if err != nil {
		f.logger.ErrorContext(ctx, "invalid notification record", "channel", channel.String(), "error", err)
		return
	}
	metrics.Notifications.WithLabelValues(channel.String(), n.Status.String()).Inc()

	if err = f.records.Add(ctx, n); err != nil {
		f.logger.ErrorContext(ctx, "failed to store notification record", "channel", channel.String(), "error", err)
	}
}
