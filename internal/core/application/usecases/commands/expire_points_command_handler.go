package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/pkg/metrics"
)

// ExpiryResult summarizes one expiry run.
type ExpiryResult struct {
	Processed     int
	Failed        int
	PointsExpired int64
}

// ExpirePointsCommandHandler runs the expiry batch. Every due row is handled in
// its own transaction so a failing program does not hold back the others; the
// failing row stays unprocessed and is picked up by the next run.
type ExpirePointsCommandHandler struct {
	uowFactory LoyaltyUoWFactory
	loyalty    *ledgers.LoyaltyLedger
	logger     *slog.Logger
}

func NewExpirePointsCommandHandler(
	uowFactory LoyaltyUoWFactory,
	loyalty *ledgers.LoyaltyLedger,
	logger *slog.Logger,
) ExpirePointsCommandHandler {
	return ExpirePointsCommandHandler{
		uowFactory: uowFactory,
		loyalty:    loyalty,
		logger:     logger.With("component", "expire_points"),
	}
}

func (h ExpirePointsCommandHandler) Handle(ctx context.Context, command ExpirePointsCommand) (ExpiryResult, error) {
	if err := command.Validate(); err != nil {
		return ExpiryResult{}, err
	}

	var result ExpiryResult
	for {
		due, err := h.listDue(ctx, command)
		if err != nil {
			return result, err
		}

		failedBefore := result.Failed
		for _, tx := range due {
			expired, expireErr := h.expireOne(ctx, tx)
			if expireErr != nil {
				result.Failed++
				h.logger.ErrorContext(ctx, "failed to expire loyalty transaction",
					"transaction_id", tx.ID.String(), "program_id", tx.ProgramID.String(), "error", expireErr)
				continue
			}
			result.Processed++
			result.PointsExpired += expired
		}

		// A failed row would be listed again; stop instead of spinning on it.
		if len(due) < command.BatchSize() || result.Failed > failedBefore {
			break
		}
	}

	if result.PointsExpired > 0 {
		metrics.Points.WithLabelValues("expired").Add(float64(result.PointsExpired))
	}
	return result, nil
}

func (h ExpirePointsCommandHandler) listDue(ctx context.Context, command ExpirePointsCommand) ([]loyalty.Transaction, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.LoyaltyRepository().ListDueTransactions(ctx, command.Now(), command.BatchSize())
}

func (h ExpirePointsCommandHandler) expireOne(ctx context.Context, tx loyalty.Transaction) (int64, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expired, err := h.loyalty.ExpireTransaction(ctx, uow.LoyaltyRepository(), tx)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return expired, nil
}
