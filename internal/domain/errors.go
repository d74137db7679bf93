package domain

import "errors"

// Authentication errors.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrNoSubject        = errors.New("token has no usable subject claim")
	ErrSessionNotFound  = errors.New("session not found")
)

// Authorization errors.
var (
	ErrRoleNotAllowed = errors.New("role not allowed for this route")
	ErrRoleUnknown    = errors.New("role claim missing or unknown")
)

// Login errors.
var (
	ErrLoginRejected = errors.New("login rejected by backend")
)

// Backend API errors.
var (
	ErrAPIUnavailable = errors.New("backend API unavailable")
	ErrAPIStatus      = errors.New("backend API returned failure status")
	ErrNotFound       = errors.New("resource not found")
)

// CSRF errors.
var (
	ErrCSRFSecretMissing = errors.New("CSRF secret not configured")
	ErrCSRFMismatch      = errors.New("CSRF token mismatch")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
