package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"reclamos-web/internal/adapter/gateway"
	"reclamos-web/internal/domain"
	"reclamos-web/internal/infrastructure/session"
	"reclamos-web/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Navigation targets for auth failures.
const (
	LoginPath        = "/auth/login"
	AccessDeniedPath = "/auth/accessdenied"
)

// publicExactPaths and publicPathPrefixes bypass the gate entirely,
// regardless of authentication state.
var publicExactPaths = []string{
	"/",
}

var publicPathPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/auth/accessdenied",
	"/auth/csrf",
	"/css/",
	"/js/",
	"/lib/",
	"/images/",
	"/favicon.ico",
	"/.well-known/",
	"/health",
}

func isPublicPath(path string) bool {
	for _, p := range publicExactPaths {
		if path == p {
			return true
		}
	}
	for _, p := range publicPathPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Authentication is the request-pipeline gate. For every request it opens
// the browser session, builds a fresh per-request AuthGate, and for
// non-public routes rejects unauthenticated callers and binds the session
// token to a request-scoped API client before any handler runs.
func Authentication(sessions *session.Store, decoder domain.ClaimDecoder, api *gateway.Client, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			previous := session.ReadCookie(c)
			id, scope := sessions.Open(previous)
			if id != previous {
				session.WriteCookie(c, id)
			}

			gate := usecase.NewAuthGate(scope, decoder, logger)
			c.Set(sessionContextKey, scope)
			c.Set(gateContextKey, gate)
			c.Set(apiContextKey, api)

			path := strings.ToLower(c.Request().URL.Path)
			if isPublicPath(path) {
				return next(c)
			}

			if !gate.IsAuthenticated(ctx) {
				logger.InfoContext(ctx, "unauthenticated request rejected", "path", path)
				if isAJAX(c) {
					return c.String(http.StatusUnauthorized, "Unauthorized")
				}
				returnURL := c.Request().URL.Path
				if q := c.Request().URL.RawQuery; q != "" {
					returnURL += "?" + q
				}
				return c.Redirect(http.StatusFound, LoginPath+"?returnUrl="+url.QueryEscape(returnURL))
			}

			// Attach the bearer credential to a request-scoped clone of the
			// API client. The shared base client never carries a token.
			if token, ok := gate.Token(); ok {
				c.Set(apiContextKey, api.WithToken(token))
			}

			return next(c)
		}
	}
}
