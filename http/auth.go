package http

import (
	"net/http"
	"strings"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"ticketescrow/entities"
	"ticketescrow/signer"
)

const callerKey = "caller"

// signerAuth resolves the caller from a bearer token signed by the caller's own key.
func signerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		caller, err := signer.Verify(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return err
		}

		c.Set(callerKey, caller)

		ctx := c.Request().Context()
		ctx = log.ToContext(ctx, log.FromContext(ctx).WithField("caller", caller.String()))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

func callerFrom(c echo.Context) entities.Address {
	caller, _ := c.Get(callerKey).(entities.Address)
	return caller
}
