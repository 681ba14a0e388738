package kernel

import "time"

// DomainEvent is a fact raised by an aggregate while it changes state.
// Command handlers drain the events after mutating aggregates: some are consumed inside
// the same unit of work (a delivered delivery completes its order), all of them are
// handed to the notification fanout after commit.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventRecorder accumulates domain events for an aggregate.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) Raise(event DomainEvent) {
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in the order they were raised.
func (r *EventRecorder) Events() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) Clear() {
	r.events = nil
}

// Clock supplies the current time to handlers so time-dependent rules can be tested.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time {
	return time.Now().UTC()
}
