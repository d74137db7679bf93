package middleware

import (
	"net/http"
	"net/url"

	"reclamos-web/internal/domain"

	"github.com/labstack/echo/v4"
)

// RequireRoles is the declarative per-route enforcement shape: each route
// carries its own allow-list. Produces the same redirect/status behavior per
// (path, role) pair as the centralized roleRequirements table.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			gate := Gate(c)
			if gate == nil || !gate.IsAuthenticated(ctx) {
				if isAJAX(c) {
					return c.String(http.StatusUnauthorized, "Unauthorized")
				}
				return c.Redirect(http.StatusFound, LoginPath+"?returnUrl="+url.QueryEscape(c.Request().URL.Path))
			}

			role, ok := gate.CurrentRole(ctx)
			if !ok || !roleAllowed(role, roles) {
				return forbid(c)
			}

			return next(c)
		}
	}
}
