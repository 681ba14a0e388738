package commands

import (
	"context"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/pkg/metrics"
)

type RedeemPointsCommandHandler struct {
	uowFactory LoyaltyUoWFactory
	loyalty    *ledgers.LoyaltyLedger
}

func NewRedeemPointsCommandHandler(uowFactory LoyaltyUoWFactory, loyalty *ledgers.LoyaltyLedger) RedeemPointsCommandHandler {
	return RedeemPointsCommandHandler{
		uowFactory: uowFactory,
		loyalty:    loyalty,
	}
}

// Handle fails with errs.InsufficientResourceError when the balance does not
// cover the request or the request is under the minimum redemption.
func (h RedeemPointsCommandHandler) Handle(ctx context.Context, command RedeemPointsCommand) (ledgers.RedeemOutcome, error) {
	if err := command.Validate(); err != nil {
		return ledgers.RedeemOutcome{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ledgers.RedeemOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outcome, err := h.loyalty.Redeem(ctx, uow.LoyaltyRepository(), command.CustomerID(), command.Points(), command.OrderID())
	if err != nil {
		return ledgers.RedeemOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ledgers.RedeemOutcome{}, err
	}

	metrics.Points.WithLabelValues("redeemed").Add(float64(outcome.Points))
	return outcome, nil
}
