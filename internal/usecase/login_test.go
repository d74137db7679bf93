package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"reclamos-web/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockAuthAPI implements domain.AuthAPI for testing.
type mockAuthAPI struct {
	token    string
	usuario  *domain.Usuario
	loginErr error

	registerErr error
	registered  *domain.RegisterRequest
}

func (m *mockAuthAPI) Login(_ context.Context, _ domain.LoginCredentials) (string, *domain.Usuario, error) {
	return m.token, m.usuario, m.loginErr
}

func (m *mockAuthAPI) Register(_ context.Context, req domain.RegisterRequest) error {
	m.registered = &req
	return m.registerErr
}

func TestLogin_SuccessStoresTokenAndSnapshot(t *testing.T) {
	id := uuid.New()
	api := &mockAuthAPI{
		token: "jwt-token",
		usuario: &domain.Usuario{
			ID: id, Nombre: "Ana", Email: "ana@example.com", Rol: "Admin",
		},
	}
	state := &mockState{}

	uc := NewLogin(api, slog.Default())
	user, err := uc.Execute(context.Background(), state, domain.LoginCredentials{
		CorreoElectronico: "ana@example.com",
		Contrasena:        "secret",
	})

	assert.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, domain.RoleAdmin, user.Rol)

	token, ok := state.Token()
	assert.True(t, ok)
	assert.Equal(t, "jwt-token", token)

	data, ok := state.UserJSON()
	assert.True(t, ok)
	var snapshot domain.UserIdentity
	assert.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Equal(t, id, snapshot.ID)
}

func TestLogin_RejectedLeavesSessionUntouched(t *testing.T) {
	api := &mockAuthAPI{loginErr: domain.ErrLoginRejected}
	state := &mockState{}

	uc := NewLogin(api, slog.Default())
	user, err := uc.Execute(context.Background(), state, domain.LoginCredentials{
		CorreoElectronico: "ana@example.com",
		Contrasena:        "wrong",
	})

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domain.ErrLoginRejected))

	_, ok := state.Token()
	assert.False(t, ok)
}

func TestLogin_EmptyTokenIsRejected(t *testing.T) {
	api := &mockAuthAPI{token: ""}
	state := &mockState{}

	uc := NewLogin(api, slog.Default())
	_, err := uc.Execute(context.Background(), state, domain.LoginCredentials{})

	assert.True(t, errors.Is(err, domain.ErrLoginRejected))
}

func TestLogin_UnknownRoleDegradesToUsuario(t *testing.T) {
	api := &mockAuthAPI{
		token: "jwt-token",
		usuario: &domain.Usuario{
			ID: uuid.New(), Nombre: "Ana", Rol: "Superusuario",
		},
	}
	state := &mockState{}

	uc := NewLogin(api, slog.Default())
	user, err := uc.Execute(context.Background(), state, domain.LoginCredentials{})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUsuario, user.Rol)
}

func TestRegister_DefaultsRoleToUsuario(t *testing.T) {
	api := &mockAuthAPI{}

	uc := NewRegister(api, slog.Default())
	err := uc.Execute(context.Background(), domain.RegisterRequest{
		Nombre:            "Ana",
		CorreoElectronico: "ana@example.com",
		Contrasena:        "secret",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Usuario", api.registered.Rol)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	api := &mockAuthAPI{}

	uc := NewRegister(api, slog.Default())
	err := uc.Execute(context.Background(), domain.RegisterRequest{
		Nombre:            "Ana",
		CorreoElectronico: "ana@example.com",
		Contrasena:        "secret",
		Rol:               "root",
	})

	assert.True(t, errors.Is(err, domain.ErrRoleUnknown))
	assert.Nil(t, api.registered)
}

func TestLogout_ClearsAuthState(t *testing.T) {
	state := &mockState{token: "jwt-token", userJSON: []byte(`{}`)}

	Logout(context.Background(), state, slog.Default())

	_, ok := state.Token()
	assert.False(t, ok)
	_, ok = state.UserJSON()
	assert.False(t, ok)
}
