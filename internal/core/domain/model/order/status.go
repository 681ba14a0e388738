package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order. Its string values are persisted and
// exposed to clients verbatim.
type Status string

const (
	Pending        Status = "pending"
	Paid           Status = "paid"
	Preparing      Status = "preparing"
	Ready          Status = "ready"
	OutForDelivery Status = "out_for_delivery"
	Delivered      Status = "delivered"
	Cancelled      Status = "cancelled"
)

// getTransitions returns the allowed target statuses for every status.
// Terminal statuses map to an empty, non-nil slice.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:        {Paid, Cancelled},
		Paid:           {Preparing, Cancelled},
		Preparing:      {Ready, Cancelled},
		Ready:          {OutForDelivery},
		OutForDelivery: {Delivered, Cancelled},
		Delivered:      {},
		Cancelled:      {},
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Paid, Preparing, Ready, OutForDelivery, Delivered, Cancelled}
}

// ParseStatus converts an external value into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks that the status belongs to the vocabulary.
func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid order status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}

// AllowedTransitions returns the statuses reachable in one step.
func (s Status) AllowedTransitions() []Status {
	allowed := getTransitions()[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransitionTo reports whether target is reachable in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range getTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo validates a single step of the state machine.
//
// Returns:
//   - (target, nil) when the edge exists
//   - ("", *errs.ConflictError) naming the current status and the allowed set otherwise
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	if !s.CanTransitionTo(target) {
		return "", errs.NewInvalidTransitionError("order", s.String(), target.String(), statusStrings(s.AllowedTransitions()))
	}
	return target, nil
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	allowed, ok := getTransitions()[s]
	return ok && len(allowed) == 0
}

// IsCancellable reports whether a customer-initiated cancel is allowed. This is
// narrower than the transition table: out_for_delivery can only be cancelled by an
// explicit transition.
func (s Status) IsCancellable() bool {
	return s == Pending || s == Paid || s == Preparing
}

func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
