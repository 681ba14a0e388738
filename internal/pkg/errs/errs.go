package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValueIsRequired        = errors.New("value is required")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrObjectNotFound         = errors.New("object not found")
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInsufficientResource   = errors.New("insufficient resource")
	ErrExternalChannelFailure = errors.New("external channel failure")
)

func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %s)", msg, sanitize(cause.Error()))
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName)), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError reports a value that is present but unacceptable.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName)), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max)
	return withCause(sanitize(msg), e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError reports a lookup by identifier that matched nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause == nil {
		return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
	}
	return withCause(sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s", ErrObjectNotFound, e.ParamName, e.ID)), e.Cause)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ForbiddenError reports an authenticated caller acting outside its rights.
type ForbiddenError struct {
	Action string
	Reason string
	Cause  error
}

func NewForbiddenError(action, reason string) *ForbiddenError {
	return &ForbiddenError{Action: action, Reason: reason}
}

func NewForbiddenErrorWithCause(action, reason string, cause error) *ForbiddenError {
	return &ForbiddenError{Action: action, Reason: reason, Cause: cause}
}

func (e *ForbiddenError) Error() string {
	return withCause(sanitize(fmt.Sprintf("%s: %s: %s", ErrForbidden, e.Action, e.Reason)), e.Cause)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// ConflictError reports a state precondition that does not hold. CurrentStatus and
// Allowed are echoed to the caller so it can decide what to request next.
type ConflictError struct {
	Entity        string
	CurrentStatus string
	Allowed       []string
	Reason        string
	Cause         error
}

func NewConflictError(entity, currentStatus, reason string) *ConflictError {
	return &ConflictError{Entity: entity, CurrentStatus: currentStatus, Reason: reason}
}

func NewConflictErrorWithCause(entity, currentStatus, reason string, cause error) *ConflictError {
	return &ConflictError{Entity: entity, CurrentStatus: currentStatus, Reason: reason, Cause: cause}
}

// NewInvalidTransitionError builds the conflict reported when a requested status is
// not reachable from the current one.
func NewInvalidTransitionError(entity, from, to string, allowed []string) *ConflictError {
	return &ConflictError{
		Entity:        entity,
		CurrentStatus: from,
		Allowed:       allowed,
		Reason:        fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %s (current status: %s", ErrConflict, e.Entity, e.Reason, e.CurrentStatus)
	if e.Allowed != nil {
		msg += fmt.Sprintf(", allowed: [%s]", strings.Join(e.Allowed, ", "))
	}
	return withCause(sanitize(msg+")"), e.Cause)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// InsufficientResourceError reports a balance that cannot cover a request.
// Minimum is zero when the request failed on balance alone.
type InsufficientResourceError struct {
	Resource  string
	Requested int64
	Available int64
	Minimum   int64
	Cause     error
}

func NewInsufficientResourceError(resource string, requested, available, minimum int64) *InsufficientResourceError {
	return &InsufficientResourceError{Resource: resource, Requested: requested, Available: available, Minimum: minimum}
}

func NewInsufficientResourceErrorWithCause(
	resource string,
	requested, available, minimum int64,
	cause error,
) *InsufficientResourceError {
	return &InsufficientResourceError{
		Resource:  resource,
		Requested: requested,
		Available: available,
		Minimum:   minimum,
		Cause:     cause,
	}
}

func (e *InsufficientResourceError) Error() string {
	msg := fmt.Sprintf("%s: %s requested %d, available %d",
		ErrInsufficientResource, e.Resource, e.Requested, e.Available)
	if e.Minimum > 0 {
		msg += fmt.Sprintf(", minimum %d", e.Minimum)
	}
	return withCause(sanitize(msg), e.Cause)
}

func (e *InsufficientResourceError) Unwrap() error {
	return ErrInsufficientResource
}

// ExternalChannelError reports a failed outbound notification leg.
type ExternalChannelError struct {
	Channel string
	Cause   error
}

func NewExternalChannelError(channel string) *ExternalChannelError {
	return &ExternalChannelError{Channel: channel}
}

func NewExternalChannelErrorWithCause(channel string, cause error) *ExternalChannelError {
	return &ExternalChannelError{Channel: channel, Cause: cause}
}

func (e *ExternalChannelError) Error() string {
	return withCause(sanitize(fmt.Sprintf("%s: %s", ErrExternalChannelFailure, e.Channel)), e.Cause)
}

func (e *ExternalChannelError) Unwrap() error {
	return ErrExternalChannelFailure
}
