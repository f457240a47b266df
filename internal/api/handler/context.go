package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentport/accounts-api/internal/api/middleware"
	"github.com/rentport/accounts-api/internal/core/access"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: an unauthenticated identity here means
// the middleware did not run on this route, which is a wiring bug, but must
// still come back as 401 rather than a panic.
func ctxIdentity(c echo.Context) (access.Identity, error) {
	id, _ := c.Get(middleware.IdentityKey).(access.Identity)
	if !id.Authenticated() {
		return access.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
