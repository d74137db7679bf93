package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"reclamos-web/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockState implements domain.TokenStore for testing.
type mockState struct {
	token    string
	userJSON []byte
}

func (m *mockState) Token() (string, bool) {
	return m.token, m.token != ""
}

func (m *mockState) SetToken(token string) {
	m.token = token
}

func (m *mockState) UserJSON() ([]byte, bool) {
	return m.userJSON, len(m.userJSON) > 0
}

func (m *mockState) SetUserJSON(data []byte) {
	m.userJSON = data
}

func (m *mockState) Clear() {
	m.token = ""
	m.userJSON = nil
}

// mockDecoder implements domain.ClaimDecoder for testing.
type mockDecoder struct {
	identity      *domain.UserIdentity
	identityErr   error
	expiry        time.Time
	expiryErr     error
	role          domain.Role
	roleErr       error
	identityCalls int
}

func (m *mockDecoder) Identity(string) (*domain.UserIdentity, error) {
	m.identityCalls++
	return m.identity, m.identityErr
}

func (m *mockDecoder) Expiry(string) (time.Time, error) {
	return m.expiry, m.expiryErr
}

func (m *mockDecoder) Role(string) (domain.Role, error) {
	return m.role, m.roleErr
}

func TestAuthGate_NoTokenIsUnauthenticated(t *testing.T) {
	gate := NewAuthGate(&mockState{}, &mockDecoder{}, slog.Default())

	assert.False(t, gate.IsAuthenticated(context.Background()))
}

func TestAuthGate_ExpiredTokenIsUnauthenticated(t *testing.T) {
	state := &mockState{token: "expired-token"}
	decoder := &mockDecoder{expiry: time.Now().Add(-1 * time.Minute)}
	gate := NewAuthGate(state, decoder, slog.Default())

	assert.False(t, gate.IsAuthenticated(context.Background()))
}

func TestAuthGate_ValidTokenIsAuthenticated(t *testing.T) {
	state := &mockState{token: "valid-token"}
	decoder := &mockDecoder{expiry: time.Now().Add(1 * time.Hour)}
	gate := NewAuthGate(state, decoder, slog.Default())

	assert.True(t, gate.IsAuthenticated(context.Background()))
}

func TestAuthGate_MalformedTokenFailsClosed(t *testing.T) {
	state := &mockState{token: "garbage"}
	decoder := &mockDecoder{
		expiryErr:   domain.ErrTokenMalformed,
		identityErr: domain.ErrTokenMalformed,
		roleErr:     domain.ErrTokenMalformed,
	}
	gate := NewAuthGate(state, decoder, slog.Default())

	assert.False(t, gate.IsAuthenticated(context.Background()))

	_, ok := gate.CurrentUser(context.Background())
	assert.False(t, ok)

	_, ok = gate.CurrentRole(context.Background())
	assert.False(t, ok)
}

func TestAuthGate_CurrentUserFromSnapshot(t *testing.T) {
	id := uuid.New()
	snapshot, _ := json.Marshal(domain.UserIdentity{
		ID: id, Nombre: "Ana", Email: "ana@example.com", Rol: domain.RoleSoporte,
	})
	state := &mockState{token: "valid-token", userJSON: snapshot}
	decoder := &mockDecoder{}
	gate := NewAuthGate(state, decoder, slog.Default())

	user, ok := gate.CurrentUser(context.Background())

	assert.True(t, ok)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Ana", user.Nombre)
	assert.Equal(t, domain.RoleSoporte, user.Rol)
	assert.Zero(t, decoder.identityCalls, "snapshot hit should skip token decode")
}

func TestAuthGate_CurrentUserFromTokenWritesBackSnapshot(t *testing.T) {
	id := uuid.New()
	state := &mockState{token: "valid-token"}
	decoder := &mockDecoder{
		identity: &domain.UserIdentity{ID: id, Nombre: "Luis", Rol: domain.RoleAdmin},
	}
	gate := NewAuthGate(state, decoder, slog.Default())

	user, ok := gate.CurrentUser(context.Background())

	assert.True(t, ok)
	assert.Equal(t, id, user.ID)

	// The derived identity is persisted so the next request hits the
	// snapshot tier.
	data, found := state.UserJSON()
	assert.True(t, found)
	var persisted domain.UserIdentity
	assert.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, id, persisted.ID)
	assert.Equal(t, domain.RoleAdmin, persisted.Rol)
}

func TestAuthGate_CurrentUserIsIdempotentWithinRequest(t *testing.T) {
	state := &mockState{token: "valid-token"}
	decoder := &mockDecoder{
		identity: &domain.UserIdentity{ID: uuid.New(), Rol: domain.RoleUsuario},
	}
	gate := NewAuthGate(state, decoder, slog.Default())

	first, ok := gate.CurrentUser(context.Background())
	assert.True(t, ok)
	second, ok := gate.CurrentUser(context.Background())
	assert.True(t, ok)

	assert.Same(t, first, second)
	assert.Equal(t, 1, decoder.identityCalls, "second call must use the request-local cache")
}

func TestAuthGate_CorruptSnapshotFallsThroughToToken(t *testing.T) {
	id := uuid.New()
	state := &mockState{token: "valid-token", userJSON: []byte("{not json")}
	decoder := &mockDecoder{
		identity: &domain.UserIdentity{ID: id, Rol: domain.RoleUsuario},
	}
	gate := NewAuthGate(state, decoder, slog.Default())

	user, ok := gate.CurrentUser(context.Background())

	assert.True(t, ok)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, 1, decoder.identityCalls)
}

func TestAuthGate_AnonymousSessionHasNoUser(t *testing.T) {
	gate := NewAuthGate(&mockState{}, &mockDecoder{}, slog.Default())

	user, ok := gate.CurrentUser(context.Background())
	assert.False(t, ok)
	assert.Nil(t, user)

	_, ok = gate.CurrentRole(context.Background())
	assert.False(t, ok)
}

func TestAuthGate_CurrentRolePrefersIdentity(t *testing.T) {
	snapshot, _ := json.Marshal(domain.UserIdentity{ID: uuid.New(), Rol: domain.RoleAdmin})
	state := &mockState{token: "valid-token", userJSON: snapshot}
	// The raw-token fallback would say Usuario; the identity must win.
	decoder := &mockDecoder{role: domain.RoleUsuario}
	gate := NewAuthGate(state, decoder, slog.Default())

	role, ok := gate.CurrentRole(context.Background())

	assert.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestAuthGate_CurrentRoleFallsBackToRawToken(t *testing.T) {
	// Identity decode fails (no subject claim) but the role claim is intact.
	state := &mockState{token: "valid-token"}
	decoder := &mockDecoder{
		identityErr: domain.ErrNoSubject,
		role:        domain.RoleSoporte,
	}
	gate := NewAuthGate(state, decoder, slog.Default())

	role, ok := gate.CurrentRole(context.Background())

	assert.True(t, ok)
	assert.Equal(t, domain.RoleSoporte, role)
}

func TestAuthGate_LogoutRevokesAccess(t *testing.T) {
	state := &mockState{token: "valid-token", userJSON: []byte(`{"rol":"Admin"}`)}
	decoder := &mockDecoder{expiry: time.Now().Add(1 * time.Hour)}
	gate := NewAuthGate(state, decoder, slog.Default())

	assert.True(t, gate.IsAuthenticated(context.Background()))

	Logout(context.Background(), state, slog.Default())

	// A fresh gate, as the next request would build, sees nothing.
	next := NewAuthGate(state, decoder, slog.Default())
	assert.False(t, next.IsAuthenticated(context.Background()))
	_, ok := next.CurrentUser(context.Background())
	assert.False(t, ok)
}
