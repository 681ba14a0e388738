package commands

import (
	"errors"
	"time"

	"marketplace/internal/pkg/guard"
)

var ErrExpirePointsCommandIsNotConstructed = errors.New(
	"ExpirePointsCommand must be created via NewExpirePointsCommand constructor",
)

// DefaultExpiryBatchSize bounds the ledger rows loaded per listing.
const DefaultExpiryBatchSize = 500

// ExpirePointsCommand processes every earned and bonus row due at the given time.
type ExpirePointsCommand struct { //nolint:recvcheck //using for validation
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpirePointsCommand(now time.Time, batchSize int) (ExpirePointsCommand, error) {
	if batchSize <= 0 {
		batchSize = DefaultExpiryBatchSize
	}
	return ExpirePointsCommand{
		now:       now,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpirePointsCommand) Validate() error {
	return c.guard.Validate(ErrExpirePointsCommandIsNotConstructed)
}

func (c ExpirePointsCommand) Now() time.Time {
	return c.now
}

func (c ExpirePointsCommand) BatchSize() int {
	return c.batchSize
}
