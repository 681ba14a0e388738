package promo

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Reason identifies the first eligibility check a code failed.
type Reason string

const (
	ReasonInactive              Reason = "inactive"
	ReasonNotYetValid           Reason = "not_yet_valid"
	ReasonExpired               Reason = "expired"
	ReasonBelowMinimum          Reason = "below_minimum"
	ReasonUsageLimitReached     Reason = "usage_limit_reached"
	ReasonCustomerLimitReached  Reason = "customer_limit_reached"
	ReasonRestaurantNotEligible Reason = "restaurant_not_eligible"
	ReasonCustomerNotEligible   Reason = "customer_not_eligible"
	ReasonCategoryNotEligible   Reason = "category_not_eligible"
	ReasonRuleNotSatisfied      Reason = "rule_not_satisfied"
)

var reasonMessages = map[Reason]string{
	ReasonInactive:              "promo code is not active",
	ReasonNotYetValid:           "promo code is not yet valid",
	ReasonExpired:               "promo code has expired",
	ReasonBelowMinimum:          "minimum order amount not met",
	ReasonUsageLimitReached:     "promo code usage limit reached",
	ReasonCustomerLimitReached:  "you have already used this promo code",
	ReasonRestaurantNotEligible: "promo code not valid for this restaurant",
	ReasonCustomerNotEligible:   "this promo code is not available for you",
	ReasonCategoryNotEligible:   "promo code not valid for these items",
	ReasonRuleNotSatisfied:      "order does not satisfy the promo code conditions",
}

// RejectionError is returned when a code exists but cannot be applied to the request.
// It classifies as a validation error.
type RejectionError struct {
	Code   string
	Reason Reason
	Detail string
}

func NewRejectionError(code string, reason Reason) *RejectionError {
	return &RejectionError{Code: code, Reason: reason}
}

func newRejectionErrorWithDetail(code string, reason Reason, detail string) *RejectionError {
	return &RejectionError{Code: code, Reason: reason, Detail: detail}
}

func (e *RejectionError) Message() string {
	if msg, ok := reasonMessages[e.Reason]; ok {
		return msg
	}
	return string(e.Reason)
}

func (e *RejectionError) Error() string {
	msg := fmt.Sprintf("%s: promo code %s rejected: %s", errs.ErrValueIsInvalid, e.Code, e.Message())
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *RejectionError) Unwrap() error {
	return errs.ErrValueIsInvalid
}
