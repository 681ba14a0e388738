package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// PaymentStatus tracks settlement independently from Status.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func getPaymentTransitions() map[PaymentStatus][]PaymentStatus {
	return map[PaymentStatus][]PaymentStatus{
		PaymentPending:   {PaymentCompleted, PaymentFailed},
		PaymentFailed:    {PaymentCompleted, PaymentFailed},
		PaymentCompleted: {PaymentRefunded},
		PaymentRefunded:  {},
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s PaymentStatus) Validate() error {
	if _, ok := getPaymentTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid", fmt.Errorf("%q is not a valid payment status", string(s)))
	}
	return nil
}

func (s PaymentStatus) String() string {
	return string(s)
}

// TransitionTo validates a settlement step. A failed payment may be retried;
// only a completed payment can be refunded.
func (s PaymentStatus) TransitionTo(target PaymentStatus) (PaymentStatus, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	allowed := getPaymentTransitions()[s]
	for _, next := range allowed {
		if next == target {
			return target, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = a.String()
	}
	return "", errs.NewInvalidTransitionError("payment", s.String(), target.String(), names)
}
