package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"reclamos-web/internal/domain"

	"github.com/labstack/echo/v4"
)

// pathRoles binds a path prefix to the roles allowed under it.
type pathRoles struct {
	prefix  string
	allowed []domain.Role
}

// roleRequirements is the centralized route-to-roles table, evaluated before
// routing reaches the handler. The union of all matching prefixes applies.
var roleRequirements = []pathRoles{
	{"/usuarios", []domain.Role{domain.RoleAdmin}},
	{"/dashboard/admin", []domain.Role{domain.RoleAdmin}},
	{"/reclamos/delete", []domain.Role{domain.RoleAdmin, domain.RoleSoporte}},
	{"/reclamos/edit", []domain.Role{domain.RoleAdmin, domain.RoleSoporte}},
}

// RoleAuthorization enforces the roleRequirements table. Runs after
// Authentication, which guarantees the per-request gate is in place.
func RoleAuthorization(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := strings.ToLower(c.Request().URL.Path)

			var required []domain.Role
			for _, rule := range roleRequirements {
				if strings.HasPrefix(path, rule.prefix) {
					required = append(required, rule.allowed...)
				}
			}
			if len(required) == 0 {
				return next(c)
			}

			ctx := c.Request().Context()
			gate := Gate(c)
			if gate == nil {
				return forbid(c)
			}

			role, ok := gate.CurrentRole(ctx)
			if !ok || !roleAllowed(role, required) {
				logger.InfoContext(ctx, "access denied", "path", path, "role_resolved", ok)
				return forbid(c)
			}

			return next(c)
		}
	}
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// forbid produces the unauthorized-role response shape: a bare 403 for AJAX
// callers, an access-denied redirect for browser navigation.
func forbid(c echo.Context) error {
	if isAJAX(c) {
		return c.String(http.StatusForbidden, "Forbidden")
	}
	return c.Redirect(http.StatusFound, AccessDeniedPath)
}
