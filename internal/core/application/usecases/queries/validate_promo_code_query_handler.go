package queries

import (
	"context"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/ports"
)

// PromoReader hands out a promo repository outside of any transaction.
type PromoReader interface {
	PromoRepository() ports.PromoRepository
}

type PromoReaderFactory interface {
	Create() PromoReader
}

// ValidatePromoCodeQueryHandler runs the promo validation chain read-only.
// Rejections are returned as *promo.RejectionError, unknown codes as
// errs.ObjectNotFoundError.
type ValidatePromoCodeQueryHandler struct {
	readers PromoReaderFactory
	ledger  *ledgers.PromoLedger
	clock   kernel.Clock
}

func NewValidatePromoCodeQueryHandler(
	readers PromoReaderFactory,
	ledger *ledgers.PromoLedger,
	clock kernel.Clock,
) ValidatePromoCodeQueryHandler {
	if clock == nil {
		clock = kernel.SystemClock
	}
	return ValidatePromoCodeQueryHandler{readers: readers, ledger: ledger, clock: clock}
}

func (h ValidatePromoCodeQueryHandler) Handle(
	ctx context.Context,
	query ValidatePromoCodeQuery,
) (*ValidatePromoCodeQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	quote, err := h.ledger.Validate(ctx, h.readers.Create().PromoRepository(), query.Code(), promo.Request{
		OrderAmount:  query.OrderAmount(),
		DeliveryFee:  query.DeliveryFee(),
		CustomerID:   query.CustomerID(),
		RestaurantID: query.RestaurantID(),
		Now:          h.clock(),
	})
	if err != nil {
		return nil, err
	}

	return &ValidatePromoCodeQueryResponse{
		Valid:          true,
		Code:           quote.Code.Code(),
		Description:    quote.Code.Description(),
		DiscountType:   quote.Code.DiscountType().String(),
		DiscountAmount: quote.Discount,
	}, nil
}
