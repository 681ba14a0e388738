package delivery

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery.
type Status string

const (
	Pending   Status = "pending"
	Assigned  Status = "assigned"
	PickedUp  Status = "picked_up"
	InTransit Status = "in_transit"
	Delivered Status = "delivered"
	Failed    Status = "failed"
)

func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Assigned, Failed},
		Assigned:  {PickedUp, Failed},
		PickedUp:  {InTransit, Delivered, Failed},
		InTransit: {Delivered, Failed},
		Delivered: {},
		Failed:    {},
	}
}

// ParseStatus converts an external value into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid delivery status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	allowed, ok := getTransitions()[s]
	return ok && len(allowed) == 0
}

// TransitionTo validates one step; a missing edge is a conflict listing the allowed set.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	allowed := getTransitions()[s]
	for _, next := range allowed {
		if next == target {
			return target, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = a.String()
	}
	return "", errs.NewInvalidTransitionError("delivery", s.String(), target.String(), names)
}

// IsDriverUpdatable reports whether a driver may request this status directly.
// assigned is only reachable through Accept.
func (s Status) IsDriverUpdatable() bool {
	switch s {
	case PickedUp, InTransit, Delivered, Failed:
		return true
	default:
		return false
	}
}
