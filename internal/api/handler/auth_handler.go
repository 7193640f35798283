package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agendafacil/auth-service/internal/api/metrics"
	"github.com/agendafacil/auth-service/internal/core/domain"
	"github.com/agendafacil/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,min=2"`
	Role        string `json:"role" validate:"omitempty,oneof=admin professional client"`
	Phone       string `json:"phone" validate:"omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Phone:       req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			metrics.RegistrationsTotal.WithLabelValues("duplicate_email").Inc()
		case errors.Is(err, domain.ErrInvalidRole):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, result)
}

// Login authenticates a user and returns a signed access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrInactiveAccount):
			metrics.LoginsTotal.WithLabelValues("inactive_account").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, result)
}

// Logout acknowledges the request and, when a valid token was presented,
// revokes it until its natural expiry.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity := ctxIdentity(c)

	msg, err := h.authService.Logout(c.Request().Context(), identity.TokenID, identity.TokenExp)
	if err != nil {
		return err
	}

	if identity.TokenID != "" {
		metrics.TokenRevocationsTotal.Inc()
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Me reports whether the caller resolves to a live account. An absent or
// invalid token is a negative answer, not an error.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ports.MeResult
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity := ctxIdentity(c)

	result, err := h.authService.Me(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Health is the constant-time liveness probe for the auth surface.
//
// @Summary      Auth service health
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ports.HealthStatus
// @Router       /auth/health [get]
func (h *AuthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.authService.HealthCheck())
}
