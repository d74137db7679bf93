package middleware

import (
	"log/slog"
	"net/http"
	"testing"

	"reclamos-web/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequireRoles_AllowsListedRole(t *testing.T) {
	env := newTestEnv()
	env.e.GET("/dashboard", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, RequireRoles(domain.RoleAdmin, domain.RoleSoporte))

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSoporte} {
		cookie := env.loginAs(role)
		rec := do(env, http.MethodGet, "/dashboard", cookie, false)
		assert.Equal(t, http.StatusOK, rec.Code, "role %s", role)
	}
}

func TestRequireRoles_ForbidsUnlistedRole(t *testing.T) {
	env := newTestEnv()
	env.e.GET("/dashboard", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, RequireRoles(domain.RoleAdmin, domain.RoleSoporte))

	cookie := env.loginAs(domain.RoleUsuario)

	rec := do(env, http.MethodGet, "/dashboard", cookie, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, AccessDeniedPath, rec.Header().Get("Location"))

	rec = do(env, http.MethodGet, "/dashboard", cookie, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoles_UnauthenticatedRedirectsToLogin(t *testing.T) {
	env := newTestEnv()
	env.e.GET("/dashboard", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, RequireRoles(domain.RoleAdmin))

	rec := do(env, http.MethodGet, "/dashboard", nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), LoginPath)

	rec = do(env, http.MethodGet, "/dashboard", nil, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Both enforcement shapes must produce identical observable behavior for the
// same path and role: the route-table rules for the Admin-only prefixes
// against a declarative RequireRoles(Admin) on the same routes.
func TestRequireRoles_MatchesCentralizedTableBehavior(t *testing.T) {
	adminPaths := []string{"/usuarios", "/dashboard/admin"}

	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	tableEnv := newTestEnv()
	tableEnv.e.Use(RoleAuthorization(slog.Default()))
	declEnv := newTestEnv()
	for _, path := range adminPaths {
		tableEnv.e.GET(path, ok)
		declEnv.e.GET(path, ok, RequireRoles(domain.RoleAdmin))
	}

	cases := []struct {
		name string
		role domain.Role
		ajax bool
	}{
		{"admin browser", domain.RoleAdmin, false},
		{"admin ajax", domain.RoleAdmin, true},
		{"usuario browser", domain.RoleUsuario, false},
		{"usuario ajax", domain.RoleUsuario, true},
		{"soporte browser", domain.RoleSoporte, false},
	}

	for _, path := range adminPaths {
		for _, tc := range cases {
			t.Run(path+" "+tc.name, func(t *testing.T) {
				tableRec := do(tableEnv, http.MethodGet, path, tableEnv.loginAs(tc.role), tc.ajax)
				declRec := do(declEnv, http.MethodGet, path, declEnv.loginAs(tc.role), tc.ajax)

				assert.Equal(t, tableRec.Code, declRec.Code)
				assert.Equal(t, tableRec.Header().Get("Location"), declRec.Header().Get("Location"))
				assert.Equal(t, tableRec.Body.String(), declRec.Body.String())
			})
		}
	}
}
