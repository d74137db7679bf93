package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"reclamos-web/internal/domain"
)

// Login exchanges credentials for a bearer token at the backend and stores
// the auth state in the caller's session.
type Login struct {
	api    domain.AuthAPI
	logger *slog.Logger
}

// NewLogin creates a Login usecase.
func NewLogin(api domain.AuthAPI, logger *slog.Logger) *Login {
	return &Login{api: api, logger: logger}
}

// Execute performs the login and, on success, writes the token and the
// identity snapshot into the session scope. Returns the resolved identity
// for the post-login role redirect.
func (uc *Login) Execute(ctx context.Context, state domain.TokenStore, creds domain.LoginCredentials) (*domain.UserIdentity, error) {
	token, usuario, err := uc.api.Login(ctx, creds)
	if err != nil {
		uc.logger.WarnContext(ctx, "login failed", "email", creds.CorreoElectronico, "error", err)
		return nil, err
	}
	if token == "" {
		return nil, domain.ErrLoginRejected
	}

	state.SetToken(token)

	var user *domain.UserIdentity
	if usuario != nil {
		rol, ok := domain.ParseRole(usuario.Rol)
		if !ok {
			rol = domain.RoleUsuario
		}
		user = &domain.UserIdentity{
			ID:     usuario.ID,
			Nombre: usuario.Nombre,
			Email:  usuario.Email,
			Rol:    rol,
		}
		if data, err := json.Marshal(user); err == nil {
			state.SetUserJSON(data)
		}
	}

	uc.logger.InfoContext(ctx, "user logged in", "email", creds.CorreoElectronico)
	return user, nil
}

// Logout clears the session-held auth state. The JWT itself, if leaked,
// remains valid until its natural expiry; that is the accepted trust
// boundary of this tier.
func Logout(ctx context.Context, state domain.TokenStore, logger *slog.Logger) {
	state.Clear()
	logger.InfoContext(ctx, "user logged out")
}

// Register forwards a registration request to the backend.
type Register struct {
	api    domain.AuthAPI
	logger *slog.Logger
}

// NewRegister creates a Register usecase.
func NewRegister(api domain.AuthAPI, logger *slog.Logger) *Register {
	return &Register{api: api, logger: logger}
}

// Execute validates and forwards the registration.
func (uc *Register) Execute(ctx context.Context, req domain.RegisterRequest) error {
	if req.Rol == "" {
		req.Rol = domain.RoleUsuario.String()
	}
	if _, ok := domain.ParseRole(req.Rol); !ok {
		return fmt.Errorf("%w: %q", domain.ErrRoleUnknown, req.Rol)
	}

	if err := uc.api.Register(ctx, req); err != nil {
		uc.logger.WarnContext(ctx, "registration failed", "email", req.CorreoElectronico, "error", err)
		return err
	}

	uc.logger.InfoContext(ctx, "user registered", "email", req.CorreoElectronico)
	return nil
}
