package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rentport/accounts-api/internal/api/metrics"
	"github.com/rentport/accounts-api/internal/core/access"
	"github.com/rentport/accounts-api/internal/core/domain"
	"github.com/rentport/accounts-api/internal/core/ports"
)

// MeHandler serves the authenticated user's own profile. Every route here is
// self-targeting: the resource owner is always the caller, and the access
// policy is still consulted so future other-user resources inherit the gate.
type MeHandler struct {
	authService ports.AuthService
	policy      access.Policy
}

func NewMeHandler(authService ports.AuthService, policy access.Policy) *MeHandler {
	return &MeHandler{authService: authService, policy: policy}
}

// updateProfileRequest is the explicit allow-list for PATCH /me/. Pointer
// fields distinguish "absent" from "set to empty"; decoding with
// DisallowUnknownFields rejects any key outside this set, which is what
// keeps role, username, and password unreachable through this path.
type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Timezone  *string `json:"timezone"`
	Bio       *string `json:"bio"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// GetSelf returns the caller's public profile.
//
// @Summary      Get own profile
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /me/ [get]
func (h *MeHandler) GetSelf(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if !h.policy.CanActOn(actor, actor.UserID) {
		return domain.ErrForbidden
	}

	user, err := h.authService.GetSelf(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateSelf applies a partial update of the editable profile fields.
//
// @Summary      Update own profile
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Editable fields"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Router       /me/ [patch]
func (h *MeHandler) UpdateSelf(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if !h.policy.CanActOn(actor, actor.UserID) {
		return domain.ErrForbidden
	}

	req, err := decodeProfileUpdate(c.Request().Body)
	if err != nil {
		return err
	}

	user, err := h.authService.UpdateSelf(c.Request().Context(), actor.UserID, domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Timezone:  req.Timezone,
		Bio:       req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the caller's password. No new tokens are issued;
// outstanding ones remain valid until they expire.
//
// @Summary      Change own password
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /change-password/ [post]
func (h *MeHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if !h.policy.CanActOn(actor, actor.UserID) {
		return domain.ErrForbidden
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), actor.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		metrics.PasswordChangesTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.PasswordChangesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, map[string]string{"detail": "Password updated"})
}

// decodeProfileUpdate parses a PATCH /me/ body, turning unknown keys into a
// field-level validation error naming the offending key.
func decodeProfileUpdate(body io.Reader) (*updateProfileRequest, error) {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req updateProfileRequest
	if err := dec.Decode(&req); err != nil {
		if field, ok := unknownField(err); ok {
			return nil, domain.NewValidationError(field, "Unknown field")
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return &req, nil
}

// unknownField extracts the field name from encoding/json's unknown-field
// error, which is only exposed as formatted text. If the message format ever
// changes the match simply fails and the caller falls back to the generic
// 400; the unknown key is still rejected either way.
func unknownField(err error) (string, bool) {
	const marker = `json: unknown field `
	msg := err.Error()
	if !strings.HasPrefix(msg, marker) {
		return "", false
	}
	return strings.Trim(strings.TrimPrefix(msg, marker), `"`), true
}
