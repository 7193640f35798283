package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agendafacil/auth-service/internal/api/metrics"
	"github.com/agendafacil/auth-service/internal/core/domain"
)

// RBAC enforces role membership against the roles declared for a route.
// The required set is explicit per-route configuration supplied at
// registration time:
//
//   - no roles declared: allow unconditionally, authenticated or not;
//   - roles declared but no authenticated caller: 401;
//   - authenticated caller outside the set: 403, logged with the caller's
//     identity, role and the required set for audit.
func RBAC(log zerolog.Logger, requiredRoles ...domain.Role) echo.MiddlewareFunc {
	required := make(map[domain.Role]struct{}, len(requiredRoles))
	names := make([]string, 0, len(requiredRoles))
	for _, r := range requiredRoles {
		required[r] = struct{}{}
		names = append(names, string(r))
	}
	requiredList := strings.Join(names, ",")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Explicit no-requirement path, never a fallthrough.
			if len(required) == 0 {
				return next(c)
			}

			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				metrics.AuthzDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			}

			if _, ok := required[domain.Role(role)]; !ok {
				userID, _ := c.Get(CtxUserID).(string)
				log.Warn().
					Str("user_id", userID).
					Str("role", role).
					Str("required_roles", requiredList).
					Str("path", c.Path()).
					Msg("authorization denied")
				metrics.AuthzDecisionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}

			metrics.AuthzDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
