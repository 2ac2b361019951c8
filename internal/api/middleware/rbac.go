package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfoliotracker/backoffice-api/internal/api/metrics"
	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
)

// RequireAtLeast gates a route on the role hierarchy: the caller's role
// must rank at or above min. An absent or unparseable role claim is
// treated as no privilege at all.
func RequireAtLeast(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleClaim, _ := c.Get(CtxRole).(string)
			role, _ := domain.ParseRole(roleClaim)
			if !role.AtLeast(min) {
				metrics.AuthzDenialsTotal.WithLabelValues("role").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireCustomer admits customers and every higher role.
func RequireCustomer() echo.MiddlewareFunc { return RequireAtLeast(domain.RoleCustomer) }

// RequireAdmin admits admins and superadmins.
func RequireAdmin() echo.MiddlewareFunc { return RequireAtLeast(domain.RoleAdmin) }

// RequireSuperAdmin admits superadmins only.
func RequireSuperAdmin() echo.MiddlewareFunc { return RequireAtLeast(domain.RoleSuperAdmin) }

// RBAC enforces an exact-match role policy, for routes where a higher
// rank must not substitute for the named roles.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleClaim, _ := c.Get(CtxRole).(string)
			role, ok := domain.ParseRole(roleClaim)
			if !ok {
				metrics.AuthzDenialsTotal.WithLabelValues("role").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if _, member := allowed[role]; !member {
				metrics.AuthzDenialsTotal.WithLabelValues("role").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
