package queries

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrValidatePromoCodeQueryIsNotConstructed = errors.New(
	"ValidatePromoCodeQuery must be created via NewValidatePromoCodeQuery constructor",
)

// ValidatePromoCodeQuery previews the discount a code would grant a customer.
// Nothing is recorded.
type ValidatePromoCodeQuery struct {
	code         string
	orderAmount  kernel.Money
	deliveryFee  kernel.Money
	customerID   kernel.UUID
	restaurantID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewValidatePromoCodeQuery builds the preview request. A nil deliveryFee means
// the baseline fee.
func NewValidatePromoCodeQuery(
	code string,
	orderAmount kernel.Money,
	deliveryFee *kernel.Money,
	customerID kernel.UUID,
	restaurantID *kernel.UUID,
) (ValidatePromoCodeQuery, error) {
	var errList []error
	code = strings.TrimSpace(code)
	if code == "" {
		errList = append(errList, errs.NewValueIsRequiredError("code"))
	}
	if orderAmount.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("order amount"))
	}
	fee := services.DefaultDeliveryFee
	if deliveryFee != nil {
		if deliveryFee.IsNegative() {
			errList = append(errList, errs.NewValueIsInvalidError("delivery fee"))
		}
		fee = *deliveryFee
	}
	errList = append(errList, customerID.Validate())
	if restaurantID != nil {
		errList = append(errList, restaurantID.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return ValidatePromoCodeQuery{}, err
	}

	return ValidatePromoCodeQuery{
		code:         code,
		orderAmount:  orderAmount,
		deliveryFee:  fee,
		customerID:   customerID,
		restaurantID: restaurantID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q ValidatePromoCodeQuery) Validate() error {
	return q.guard.Validate(ErrValidatePromoCodeQueryIsNotConstructed)
}

func (q ValidatePromoCodeQuery) Code() string               { return q.code }
func (q ValidatePromoCodeQuery) OrderAmount() kernel.Money  { return q.orderAmount }
func (q ValidatePromoCodeQuery) DeliveryFee() kernel.Money  { return q.deliveryFee }
func (q ValidatePromoCodeQuery) CustomerID() kernel.UUID    { return q.customerID }
func (q ValidatePromoCodeQuery) RestaurantID() *kernel.UUID { return q.restaurantID }

type ValidatePromoCodeQueryResponse struct {
	Valid          bool
	Code           string
	Description    string
	DiscountType   string
	DiscountAmount kernel.Money
}
