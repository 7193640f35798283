package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by the auth middleware.
const (
	CtxUserID   = "user_id"
	CtxEmail    = "email"
	CtxRole     = "role"
	CtxTokenID  = "jti"
	CtxTokenExp = "token_exp"
)

// RevocationChecker reports whether a token identifier has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the bearer token end to end: HS256 signature, expiry and
// the revocation list. On success the identity claims are injected into the
// echo context for the RBAC middleware and handlers downstream.
func Auth(jwtSecret string, revocations RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c, jwtSecret, revocations)
			if err != nil {
				return err
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// AuthOptional resolves the identity when a valid token is present and
// continues unauthenticated otherwise. Used for query-style endpoints such as
// /auth/me, which must report rather than assert authentication.
func AuthOptional(jwtSecret string, revocations RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c, jwtSecret, revocations)
			if err == nil {
				setClaims(c, claims)
			}
			return next(c)
		}
	}
}

func parseBearer(c echo.Context, jwtSecret string, revocations RevocationChecker) (jwt.MapClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	if jti, _ := claims["jti"].(string); jti != "" && revocations != nil {
		revoked, err := revocations.IsRevoked(c.Request().Context(), jti)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "authentication backend unavailable")
		}
		if revoked {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
		}
	}

	return claims, nil
}

func setClaims(c echo.Context, claims jwt.MapClaims) {
	c.Set(CtxUserID, claims["sub"])
	c.Set(CtxEmail, claims["email"])
	c.Set(CtxRole, claims["role"])
	c.Set(CtxTokenID, claims["jti"])

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.Set(CtxTokenExp, exp.Time)
	} else {
		c.Set(CtxTokenExp, time.Time{})
	}
}
