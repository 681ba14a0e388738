package http

import (
	"errors"
	"log/slog"
	"net/http"

	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorResponse maps an application error to its status code and body.
//   - validation errors and promo rejections: 400
//   - not found: 404
//   - forbidden: 403
//   - conflict: 409 with the current and allowed statuses
//   - insufficient resource: 422 with the available balance and the minimum
//   - anything else: 500 without detail
func errorResponse(err error) (int, Error) {
	var rejection *promo.RejectionError
	if errors.As(err, &rejection) {
		return http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: rejection.Message()}
	}

	var conflict *errs.ConflictError
	if errors.As(err, &conflict) {
		body := Error{Code: http.StatusConflict, Message: err.Error(), AllowedStatuses: conflict.Allowed}
		if conflict.CurrentStatus != "" {
			current := conflict.CurrentStatus
			body.CurrentStatus = &current
		}
		return http.StatusConflict, body
	}

	var insufficient *errs.InsufficientResourceError
	if errors.As(err, &insufficient) {
		available, minimum := insufficient.Available, insufficient.Minimum
		return http.StatusUnprocessableEntity, Error{
			Code:      http.StatusUnprocessableEntity,
			Message:   err.Error(),
			Available: &available,
			Minimum:   &minimum,
		}
	}

	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, Error{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, Error{Code: http.StatusForbidden, Message: err.Error()}
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, Error{Code: http.StatusConflict, Message: err.Error()}
	default:
		return http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}
}

func (s *Server) fail(ctx echo.Context, operation string, err error) error {
	code, body := errorResponse(err)
	level := slog.LevelInfo
	if code == http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(ctx.Request().Context(), level, "request failed",
		"operation", operation, "status", code, "error", err)
	return ctx.JSON(code, body)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
