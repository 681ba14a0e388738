package commands

import (
	"context"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
)

type AddBonusPointsCommandHandler struct {
	uowFactory LoyaltyUoWFactory
	loyalty    *ledgers.LoyaltyLedger
	notifier   ports.EventNotifier
}

func NewAddBonusPointsCommandHandler(
	uowFactory LoyaltyUoWFactory,
	loyalty *ledgers.LoyaltyLedger,
	notifier ports.EventNotifier,
) AddBonusPointsCommandHandler {
	return AddBonusPointsCommandHandler{
		uowFactory: uowFactory,
		loyalty:    loyalty,
		notifier:   notifier,
	}
}

// Handle credits the bonus and notifies a tier change after commit.
func (h AddBonusPointsCommandHandler) Handle(ctx context.Context, command AddBonusPointsCommand) (ledgers.EarnOutcome, error) {
	if err := command.Validate(); err != nil {
		return ledgers.EarnOutcome{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ledgers.EarnOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outcome, err := h.loyalty.AddBonus(ctx, uow.LoyaltyRepository(), command.CustomerID(), command.Points(), command.Description())
	if err != nil {
		return ledgers.EarnOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ledgers.EarnOutcome{}, err
	}

	metrics.Points.WithLabelValues("bonus").Add(float64(outcome.Points))
	h.notifier.Notify(ctx, outcome.Events...)

	return outcome, nil
}
