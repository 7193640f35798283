package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agendafacil/auth-service/internal/api/middleware"
)

// Identity is the caller's resolved authentication state as injected by the
// auth middleware. Zero values mean "not authenticated".
type Identity struct {
	UserID   string
	Email    string
	Role     string
	TokenID  string
	TokenExp time.Time
}

func ctxIdentity(c echo.Context) Identity {
	id := Identity{}
	id.UserID, _ = c.Get(middleware.CtxUserID).(string)
	id.Email, _ = c.Get(middleware.CtxEmail).(string)
	id.Role, _ = c.Get(middleware.CtxRole).(string)
	id.TokenID, _ = c.Get(middleware.CtxTokenID).(string)
	id.TokenExp, _ = c.Get(middleware.CtxTokenExp).(time.Time)
	return id
}
