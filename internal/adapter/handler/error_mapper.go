package handler

import (
	"errors"
	"net/http"

	"reclamos-web/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError
// for programmatic (JSON) responses. Navigation-shaped failures are handled
// by the middleware before handlers run.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrLoginRejected):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrRoleNotAllowed),
		errors.Is(err, domain.ErrCSRFMismatch):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")

	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")

	case errors.Is(err, domain.ErrAPIUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "backend unavailable")

	case errors.Is(err, domain.ErrAPIStatus):
		return echo.NewHTTPError(http.StatusBadGateway, "backend rejected request")

	case errors.Is(err, domain.ErrCSRFSecretMissing):
		return echo.NewHTTPError(http.StatusInternalServerError, "internal configuration error")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
