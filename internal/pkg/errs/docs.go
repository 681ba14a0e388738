// Package errs provides standardized error types for the marketplace application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes an error type for every failure class a use case can report:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed or missing input
//   - ObjectNotFoundError: a referenced entity does not exist
//   - ForbiddenError: the caller is authenticated but may not act on the entity
//   - ConflictError: a state precondition does not hold (invalid transition, claimed delivery)
//   - InsufficientResourceError: not enough loyalty points
//   - ExternalChannelError: an outbound notification leg failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies it
//
// Callers classify errors with errors.Is against the sentinels and extract details
// with errors.As against the struct types.
package errs
