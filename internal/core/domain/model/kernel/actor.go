package kernel

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Role is the authorization role carried by the authenticated identity of a request.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleDriver     Role = "driver"
	RoleAdmin      Role = "admin"
	RoleRestaurant Role = "restaurant"
)

var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor")

// Validate rejects roles outside the known vocabulary.
func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleDriver, RoleAdmin, RoleRestaurant:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// Actor is the {userId, role} identity supplied by the authentication collaborator.
type Actor struct {
	userID UUID
	role   Role
	guard  guard.ConstructorGuard
}

func NewActor(userID UUID, role Role) (Actor, error) {
	if err := errors.Join(userID.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{userID: userID, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) UserID() UUID {
	return a.userID
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// Is reports whether the actor is the given user.
func (a Actor) Is(userID UUID) bool {
	return a.userID.IsEqual(userID)
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}
