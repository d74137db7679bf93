package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserIdentity is the resolved principal for one browser session, derived
// from the login response or decoded out of the stored JWT.
type UserIdentity struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Email  string    `json:"email"`
	Rol    Role      `json:"rol"`
}

// Usuario is the backend's user resource as returned by /api/usuarios.
type Usuario struct {
	ID            uuid.UUID `json:"id"`
	Nombre        string    `json:"nombre"`
	Email         string    `json:"email"`
	Rol           string    `json:"rol"`
	FechaCreacion time.Time `json:"fechaCreacion"`
	Activo        bool      `json:"activo"`
}

// UpdateUsuario carries an update to a user profile.
type UpdateUsuario struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Email  string    `json:"email"`
	Rol    string    `json:"rol,omitempty"`
}

// ChangePassword is the structured change-password request accepted from
// the client and forwarded to the backend.
type ChangePassword struct {
	UsuarioID       uuid.UUID `json:"usuarioId"`
	CurrentPassword string    `json:"currentPassword"`
	NewPassword     string    `json:"newPassword"`
}

// TwoFactorCode is the structured 2FA payload. The fields are validated at
// the handler boundary; no free-form objects are accepted.
type TwoFactorCode struct {
	UsuarioID uuid.UUID `json:"usuarioId"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
}
