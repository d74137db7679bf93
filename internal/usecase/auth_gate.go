package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"reclamos-web/internal/domain"
)

// AuthGate answers "is this request authenticated" and "who is the caller"
// for one request. Identity resolution runs through three tiers: a
// request-local cache, the session's serialized snapshot, and finally the
// claims of the stored JWT.
//
// A gate instance is request-scoped. The resolved-identity field makes the
// second CurrentUser call within a request free, and a shared instance would
// leak one user's identity into another user's request, so the
// authentication middleware constructs a fresh gate per request.
type AuthGate struct {
	state  domain.TokenStore
	tokens domain.ClaimDecoder
	logger *slog.Logger
	now    func() time.Time

	current *domain.UserIdentity
}

// NewAuthGate creates a gate bound to one request's session scope.
func NewAuthGate(state domain.TokenStore, tokens domain.ClaimDecoder, logger *slog.Logger) *AuthGate {
	return &AuthGate{
		state:  state,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// IsAuthenticated reports whether the session holds a token whose expiry
// claim is strictly in the future. Decode failures fail closed. There is no
// revocation list: logout clears the session, nothing more.
func (g *AuthGate) IsAuthenticated(ctx context.Context) bool {
	raw, ok := g.state.Token()
	if !ok {
		return false
	}

	expiry, err := g.tokens.Expiry(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "token expiry check failed, treating as unauthenticated", "error", err)
		return false
	}
	return expiry.After(g.now())
}

// CurrentUser resolves the caller's identity, or reports false when the
// session is anonymous.
func (g *AuthGate) CurrentUser(ctx context.Context) (*domain.UserIdentity, bool) {
	if g.current != nil {
		return g.current, true
	}

	// Session snapshot tier. Corrupt JSON falls through to token decode
	// rather than failing the request.
	if data, ok := g.state.UserJSON(); ok {
		var user domain.UserIdentity
		if err := json.Unmarshal(data, &user); err != nil {
			g.logger.WarnContext(ctx, "corrupt user snapshot in session, falling back to token decode", "error", err)
		} else {
			g.current = &user
			return g.current, true
		}
	}

	// Token decode tier.
	raw, ok := g.state.Token()
	if !ok {
		return nil, false
	}

	user, err := g.tokens.Identity(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "could not decode identity from token", "error", err)
		return nil, false
	}

	// Write the derived identity back so future requests in this session
	// hit the snapshot tier directly.
	if data, err := json.Marshal(user); err == nil {
		g.state.SetUserJSON(data)
	}

	g.current = user
	return g.current, true
}

// CurrentRole returns the caller's role. It prefers the resolved identity;
// when identity resolution failed entirely but a raw token is still present,
// it falls back to scanning the token's claims directly.
func (g *AuthGate) CurrentRole(ctx context.Context) (domain.Role, bool) {
	if user, ok := g.CurrentUser(ctx); ok {
		return user.Rol, true
	}

	raw, ok := g.state.Token()
	if !ok {
		return 0, false
	}
	role, err := g.tokens.Role(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "could not resolve role from token", "error", err)
		return 0, false
	}
	return role, true
}

// Token exposes the stored bearer token for the outbound API client.
func (g *AuthGate) Token() (string, bool) {
	return g.state.Token()
}
