// Package guard detects values that bypassed their constructor.
//
// Commands and queries embed a ConstructorGuard and expose Validate so handlers can
// reject zero-value requests before touching any repository:
//
//	type RedeemPointsCommand struct {
//	    points int64
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c RedeemPointsCommand) Validate() error {
//	    return c.guard.Validate(ErrRedeemPointsCommandIsNotConstructed)
//	}
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard, so its zero value marks a value
// that was built as a struct literal.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard was not produced by NewConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
