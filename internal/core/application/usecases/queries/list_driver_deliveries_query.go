package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListDriverDeliveriesQueryIsNotConstructed = errors.New(
	"ListDriverDeliveriesQuery must be created via NewListDriverDeliveriesQuery constructor",
)

// ListDriverDeliveriesQuery lists the deliveries assigned to the requesting
// driver, active ones first.
type ListDriverDeliveriesQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListDriverDeliveriesQuery(actor kernel.Actor) (ListDriverDeliveriesQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListDriverDeliveriesQuery{}, err
	}
	if actor.Role() != kernel.RoleDriver {
		return ListDriverDeliveriesQuery{}, errs.NewForbiddenError("list driver deliveries", "only drivers have deliveries")
	}
	return ListDriverDeliveriesQuery{driverID: actor.UserID(), guard: guard.NewConstructorGuard()}, nil
}

func (q ListDriverDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDriverDeliveriesQueryIsNotConstructed)
}

func (q ListDriverDeliveriesQuery) DriverID() kernel.UUID {
	return q.driverID
}
