package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"required", errs.NewValueIsRequiredError("items"), http.StatusBadRequest},
		{"invalid", errs.NewValueIsInvalidError("quantity"), http.StatusBadRequest},
		{"not found", errs.NewObjectNotFoundError("order", "42"), http.StatusNotFound},
		{"forbidden", errs.NewForbiddenError("cancel order", "not the owner"), http.StatusForbidden},
		{"conflict", errs.NewConflictError("delivery", "assigned", "is not available"), http.StatusConflict},
		{"insufficient", errs.NewInsufficientResourceError("loyalty points", 50, 20, 100), http.StatusUnprocessableEntity},
		{"wrapped not found", fmt.Errorf("load: %w", errs.NewObjectNotFoundError("delivery", "7")), http.StatusNotFound},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := errorResponse(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestErrorResponse_ConflictEchoesStatuses(t *testing.T) {
	err := errs.NewInvalidTransitionError("order", "pending", "delivered", []string{"confirmed", "cancelled"})

	code, body := errorResponse(err)

	assert.Equal(t, http.StatusConflict, code)
	if assert.NotNil(t, body.CurrentStatus) {
		assert.Equal(t, "pending", *body.CurrentStatus)
	}
	assert.Equal(t, []string{"confirmed", "cancelled"}, body.AllowedStatuses)
}

func TestErrorResponse_InsufficientPointsCarriesBalance(t *testing.T) {
	code, body := errorResponse(errs.NewInsufficientResourceError("loyalty points", 50, 20, 100))

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	if assert.NotNil(t, body.Available) && assert.NotNil(t, body.Minimum) {
		assert.Equal(t, int64(20), *body.Available)
		assert.Equal(t, int64(100), *body.Minimum)
	}
}

func TestErrorResponse_PromoRejectionUsesCustomerMessage(t *testing.T) {
	code, body := errorResponse(promo.NewRejectionError("SAVE10", promo.ReasonExpired))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "promo code has expired", body.Message)
}

func TestErrorResponse_InternalErrorHidesDetail(t *testing.T) {
	_, body := errorResponse(errors.New("pq: password authentication failed"))

	assert.Equal(t, "Internal Server Error", body.Message)
}
