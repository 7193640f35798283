package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agendafacil/auth-service/internal/core/domain"
	"github.com/agendafacil/auth-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=2"`
	Phone       *string `json:"phone"`
	Avatar      *string `json:"avatar"`
	Role        *string `json:"role" validate:"omitempty,oneof=admin professional client"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// List returns all users without password hashes.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Update mutates profile fields. Passwords are rejected here; use the
// dedicated password endpoint.
//
// @Summary      Update user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "User ID"
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), c.Param("id"), ports.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Avatar:      req.Avatar,
		Role:        req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword re-hashes and stores a new password. Admins may change any
// password; other callers only their own.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "User ID"
// @Param        body  body      changePasswordRequest  true  "New password"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := c.Param("id")
	identity := ctxIdentity(c)
	if identity.Role != string(domain.RoleAdmin) && identity.UserID != id {
		return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), id, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// Deactivate soft-deletes a user account.
//
// @Summary      Deactivate user
// @Tags         users
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Deactivate(c echo.Context) error {
	if err := h.userService.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
