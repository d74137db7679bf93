package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"reclamos-web/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not authenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized},
		{"token malformed", domain.ErrTokenMalformed, http.StatusUnauthorized},
		{"session not found", domain.ErrSessionNotFound, http.StatusUnauthorized},
		{"login rejected", domain.ErrLoginRejected, http.StatusUnauthorized},
		{"role not allowed", domain.ErrRoleNotAllowed, http.StatusForbidden},
		{"csrf mismatch", domain.ErrCSRFMismatch, http.StatusForbidden},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"api unavailable", domain.ErrAPIUnavailable, http.StatusBadGateway},
		{"api status", domain.ErrAPIStatus, http.StatusBadGateway},
		{"csrf secret missing", domain.ErrCSRFSecretMissing, http.StatusInternalServerError},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := mapDomainError(tt.err)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapDomainError_WrappedErrors(t *testing.T) {
	// Wrapped domain errors should still be detected
	wrapped := fmt.Errorf("context: %w", domain.ErrNotAuthenticated)
	httpErr := mapDomainError(wrapped)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

	// Double-wrapped
	doubleWrapped := fmt.Errorf("outer: %w", wrapped)
	httpErr2 := mapDomainError(doubleWrapped)
	assert.Equal(t, http.StatusUnauthorized, httpErr2.Code)
}

func TestMapDomainError_ReturnsEchoHTTPError(t *testing.T) {
	httpErr := mapDomainError(domain.ErrRateLimited)
	assert.NotNil(t, httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}
