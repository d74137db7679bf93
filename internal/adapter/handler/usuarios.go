package handler

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"reclamos-web/internal/domain"
	"reclamos-web/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UsuariosHandler proxies user administration to the backend. The whole
// /usuarios prefix is Admin-only via the role table.
type UsuariosHandler struct {
	logger *slog.Logger
}

// NewUsuariosHandler creates the usuarios handler.
func NewUsuariosHandler(logger *slog.Logger) *UsuariosHandler {
	return &UsuariosHandler{logger: logger}
}

// usuarioForm is the profile edit submission.
type usuarioForm struct {
	Nombre string `json:"nombre" form:"nombre"`
	Email  string `json:"email" form:"email"`
	Rol    string `json:"rol" form:"rol"`
}

// passwordForm is the structured change-password submission.
type passwordForm struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
}

// twoFactorForm is the 2FA activation submission. Free-form payloads are
// rejected at this boundary.
type twoFactorForm struct {
	Code string `json:"code" form:"code"`
}

// List serves the user administration index.
func (h *UsuariosHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	usuarios, err := middleware.API(c).Usuarios(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "listing usuarios degraded", "error", err)
		usuarios = []domain.Usuario{}
	}
	return c.JSON(http.StatusOK, map[string]any{"usuarios": usuarios})
}

// Detail serves one user.
func (h *UsuariosHandler) Detail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid usuario id")
	}

	usuario, err := middleware.API(c).Usuario(c.Request().Context(), id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"usuario": usuario})
}

// Update edits a user profile.
func (h *UsuariosHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid usuario id")
	}

	var form usuarioForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid usuario payload")
	}
	if form.Rol != "" {
		if _, ok := domain.ParseRole(form.Rol); !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
		}
	}

	usuario, err := middleware.API(c).UpdateUsuario(ctx, id, domain.UpdateUsuario{
		ID:     id,
		Nombre: form.Nombre,
		Email:  form.Email,
		Rol:    form.Rol,
	})
	if err != nil {
		return mapDomainError(err)
	}

	// A profile edit is reflected in the session only after the next full
	// re-derivation; the snapshot is not patched in place.
	return c.JSON(http.StatusOK, map[string]any{"usuario": usuario})
}

// Delete removes a user.
func (h *UsuariosHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid usuario id")
	}

	if err := middleware.API(c).DeleteUsuario(c.Request().Context(), id); err != nil {
		return mapDomainError(err)
	}

	if isAJAX(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusFound, "/usuarios")
}

// ChangePassword forwards the current user's password change.
func (h *UsuariosHandler) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()

	var form passwordForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid password payload")
	}
	if len(form.NewPassword) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	user, ok := middleware.Gate(c).CurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	err := middleware.API(c).ChangePassword(ctx, domain.ChangePassword{
		UsuarioID:       user.ID,
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SendTwoFactorCode generates a fresh 2FA code for the current user, stashes
// it in the session and asks the backend to mail it. The code never reaches
// the browser.
func (h *UsuariosHandler) SendTwoFactorCode(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := middleware.Gate(c).CurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	code, err := generateTwoFactorCode()
	if err != nil {
		h.logger.ErrorContext(ctx, "generating 2fa code", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	middleware.Session(c).SetTwoFactorCode(user.ID.String(), code)

	err = middleware.API(c).Send2FACode(ctx, domain.TwoFactorCode{
		UsuarioID: user.ID,
		Email:     user.Email,
		Code:      code,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ActivateTwoFactor enables 2FA for the current user. The submitted code must
// match the one stored by SendTwoFactorCode; a matching code is single-use.
func (h *UsuariosHandler) ActivateTwoFactor(c echo.Context) error {
	ctx := c.Request().Context()

	var form twoFactorForm
	if err := c.Bind(&form); err != nil || form.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	user, ok := middleware.Gate(c).CurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	scope := middleware.Session(c)
	stored, ok := scope.TwoFactorCode(user.ID.String())
	if !ok || stored != form.Code {
		return echo.NewHTTPError(http.StatusBadRequest, "código incorrecto")
	}
	scope.ClearTwoFactorCode(user.ID.String())

	if err := middleware.API(c).Activate2FA(ctx, user.ID); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// generateTwoFactorCode returns a random six-digit code.
func generateTwoFactorCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
