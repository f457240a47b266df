package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rentport/accounts-api/internal/core/access"
	"github.com/rentport/accounts-api/internal/core/ports"
)

// IdentityKey is the echo context key under which the resolved identity is
// stored.
const IdentityKey = "identity"

// Auth resolves the bearer access token to a user identity and injects it
// into the context, or short-circuits with 401. Refresh tokens are rejected
// here: ParseAccess only accepts access-typed tokens. The user record is
// loaded on every request, so disabling an account locks it out immediately
// even while previously issued tokens are still unexpired.
func Auth(issuer ports.TokenIssuer, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := issuer.ParseAccess(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if !user.Active {
				return echo.NewHTTPError(http.StatusUnauthorized, "user account is disabled")
			}

			c.Set(IdentityKey, access.Identity{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			})

			return next(c)
		}
	}
}
