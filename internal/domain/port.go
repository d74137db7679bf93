package domain

import (
	"context"
	"time"
)

// TokenStore is session-scoped access to the auth state of one browser
// session: the bearer token and the cached-user JSON snapshot. The session
// is the only persistence for auth state.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string)
	UserJSON() ([]byte, bool)
	SetUserJSON(data []byte)
	Clear()
}

// ClaimDecoder reads claims out of a bearer token without re-verifying the
// signature. The backend checked the signature at issuance; the web tier
// trusts its own session-stored token.
type ClaimDecoder interface {
	Identity(token string) (*UserIdentity, error)
	Expiry(token string) (time.Time, error)
	Role(token string) (Role, error)
}

// AuthAPI is the slice of the backend API used by the login flows.
type AuthAPI interface {
	Login(ctx context.Context, creds LoginCredentials) (token string, user *Usuario, err error)
	Register(ctx context.Context, req RegisterRequest) error
}

// ReclamoLister is the slice of the backend API used by the dashboards and
// the CSV report export.
type ReclamoLister interface {
	Reclamos(ctx context.Context) ([]Reclamo, error)
}

// CSRFTokenGenerator derives CSRF tokens from session identifiers.
type CSRFTokenGenerator interface {
	Generate(sessionID string) (string, error)
}
