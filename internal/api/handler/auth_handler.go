package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentport/accounts-api/internal/api/metrics"
	"github.com/rentport/accounts-api/internal/core/domain"
	"github.com/rentport/accounts-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	tokens      ports.TokenIssuer
}

func NewAuthHandler(authService ports.AuthService, tokens ports.TokenIssuer) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Role      string `json:"role" validate:"omitempty,oneof=TENANT LANDLORD"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// authResponse mirrors the registration/login payload: the user's public
// fields plus the credential pair. User carries json:"-" on its hash, so the
// password can never leak through here.
type authResponse struct {
	User    *domain.User `json:"user"`
	Refresh string       `json:"refresh"`
	Access  string       `json:"access"`
}

// Register creates a new account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /register/ [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, pair, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(user.Role)).Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user, Refresh: pair.Refresh, Access: pair.Access})
}

// Login authenticates a user and returns a fresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{User: user, Refresh: pair.Refresh, Access: pair.Access})
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /refresh/ [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	acc, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, map[string]string{"access": acc})
}
