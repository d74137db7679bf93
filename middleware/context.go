package middleware

import (
	"reclamos-web/internal/adapter/gateway"
	"reclamos-web/internal/infrastructure/session"
	"reclamos-web/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Context keys for the request-scoped auth objects. Everything stored under
// these keys lives for exactly one request; nothing is shared across
// requests or users.
const (
	gateContextKey    = "reclamos.gate"
	apiContextKey     = "reclamos.api"
	sessionContextKey = "reclamos.session"
)

// Gate returns the per-request auth gate, or nil outside the
// authentication middleware.
func Gate(c echo.Context) *usecase.AuthGate {
	gate, _ := c.Get(gateContextKey).(*usecase.AuthGate)
	return gate
}

// API returns the API client for this request. For authenticated requests
// it is a token-bound clone; otherwise the anonymous base client.
func API(c echo.Context) *gateway.Client {
	client, _ := c.Get(apiContextKey).(*gateway.Client)
	return client
}

// Session returns the request's session scope.
func Session(c echo.Context) *session.Scope {
	scope, _ := c.Get(sessionContextKey).(*session.Scope)
	return scope
}

// isAJAX reports whether the request follows the XMLHttpRequest convention.
// AJAX callers get bare status codes instead of navigation redirects.
func isAJAX(c echo.Context) bool {
	return c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}
