package http

import (
	"net/http"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	actorKey = "actor"
)

// Identity reads the caller set by the authenticating gateway. Requests without
// a valid user id and role are rejected with 401.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := actorFromHeaders(ctx.Request().Header)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: "missing or invalid caller identity",
				})
			}
			ctx.Set(actorKey, actor)
			return next(ctx)
		}
	}
}

func actorFromHeaders(h http.Header) (kernel.Actor, error) {
	id, err := kernel.UUIDFromString(h.Get(HeaderUserID))
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(id, kernel.Role(h.Get(HeaderUserRole)))
}

// actorFrom returns the caller stored by Identity.
func actorFrom(ctx echo.Context) kernel.Actor {
	actor, _ := ctx.Get(actorKey).(kernel.Actor)
	return actor
}
