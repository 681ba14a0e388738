package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAddBonusPointsCommandIsNotConstructed = errors.New(
	"AddBonusPointsCommand must be created via NewAddBonusPointsCommand constructor",
)

const defaultBonusDescription = "Bonus points"

// AddBonusPointsCommand grants points to a customer. Issued by admins.
type AddBonusPointsCommand struct { //nolint:recvcheck //using for validation
	customerID  kernel.UUID
	points      int64
	description string

	guard guard.ConstructorGuard
}

func NewAddBonusPointsCommand(customerID kernel.UUID, points int64, description string) (AddBonusPointsCommand, error) {
	var pointsErr error
	if points <= 0 {
		pointsErr = ErrPointsMustBePositive
	}
	if err := errors.Join(customerID.Validate(), pointsErr); err != nil {
		return AddBonusPointsCommand{}, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = defaultBonusDescription
	}

	return AddBonusPointsCommand{
		customerID:  customerID,
		points:      points,
		description: description,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AddBonusPointsCommand) Validate() error {
	return c.guard.Validate(ErrAddBonusPointsCommandIsNotConstructed)
}

func (c AddBonusPointsCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c AddBonusPointsCommand) Points() int64 {
	return c.points
}

func (c AddBonusPointsCommand) Description() string {
	return c.description
}
