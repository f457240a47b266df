package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rentport/accounts-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Fields
// is populated only for validation failures, keyed by input field.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "fields": {...}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware 401s).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Field-level input violations keep their per-field reasons.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "Validation failed", Fields: ve.Fields}
	}

	// Known domain errors → deterministic HTTP codes. The invalid-credentials
	// message is deliberately identical for unknown-username and
	// wrong-password, and a duplicate identity renders as a validation error
	// on the username/email pair.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, errorResponse{Error: "Invalid username or password"}
	case errors.Is(err, domain.ErrCurrentPasswordMismatch):
		return http.StatusBadRequest, errorResponse{Error: "Current password is incorrect"}
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusBadRequest, errorResponse{Error: "User account is disabled"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, errorResponse{
			Error:  "Validation failed",
			Fields: map[string][]string{"username": {"A user with this username or email already exists"}},
		}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "Access forbidden"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "User not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "Internal server error"}
}
