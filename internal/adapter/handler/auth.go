package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"reclamos-web/internal/domain"
	"reclamos-web/internal/usecase"
	"reclamos-web/middleware"

	"github.com/labstack/echo/v4"
)

// csrfService issues and checks the session-bound CSRF tokens embedded in
// the auth forms.
type csrfService interface {
	Generate(sessionID string) (string, error)
	Verify(sessionID, presented string) error
}

// AuthHandler serves the login, registration and logout flows.
type AuthHandler struct {
	login    *usecase.Login
	register *usecase.Register
	csrf     csrfService
	logger   *slog.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(login *usecase.Login, register *usecase.Register, csrf csrfService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{login: login, register: register, csrf: csrf, logger: logger}
}

// loginForm is the login page submission.
type loginForm struct {
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	ReturnURL string `json:"returnUrl" form:"returnUrl"`
	CSRFToken string `json:"csrfToken" form:"csrfToken"`
}

// registerForm is the registration page submission.
type registerForm struct {
	Nombre          string `json:"nombre" form:"nombre"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	Rol             string `json:"rol" form:"rol"`
	CSRFToken       string `json:"csrfToken" form:"csrfToken"`
}

// LoginPage serves the login view-model. Authenticated callers are sent
// straight to their role's dashboard.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	ctx := c.Request().Context()

	if gate := middleware.Gate(c); gate != nil && gate.IsAuthenticated(ctx) {
		role, _ := gate.CurrentRole(ctx)
		return c.Redirect(http.StatusFound, dashboardPathFor(role))
	}

	view := map[string]string{
		"returnUrl": c.QueryParam("returnUrl"),
	}
	if token, err := h.csrf.Generate(middleware.Session(c).ID()); err == nil {
		view["csrfToken"] = token
	}
	return c.JSON(http.StatusOK, view)
}

// Login processes the credential POST.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login payload")
	}
	if form.Email == "" || form.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	scope := middleware.Session(c)
	if err := h.verifyCSRF(scope.ID(), form.CSRFToken); err != nil {
		return mapDomainError(err)
	}

	user, err := h.login.Execute(ctx, scope, domain.LoginCredentials{
		CorreoElectronico: form.Email,
		Contrasena:        form.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoginRejected) {
			if isAJAX(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}
			return c.Redirect(http.StatusFound, middleware.LoginPath+"?error=credenciales")
		}
		return mapDomainError(err)
	}

	role := domain.RoleUsuario
	if user != nil {
		role = user.Rol
	}

	target := dashboardPathFor(role)
	if local := localReturnURL(form.ReturnURL); local != "" {
		target = local
	}

	if isAJAX(c) {
		return c.JSON(http.StatusOK, map[string]string{
			"rol":      role.String(),
			"redirect": target,
		})
	}
	return c.Redirect(http.StatusFound, target)
}

// RegisterPage serves the registration view-model.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	view := map[string]string{}
	if token, err := h.csrf.Generate(middleware.Session(c).ID()); err == nil {
		view["csrfToken"] = token
	}
	return c.JSON(http.StatusOK, view)
}

// Register processes the registration POST.
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration payload")
	}
	if form.Nombre == "" || form.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nombre and email are required")
	}
	if len(form.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}
	if form.Password != form.ConfirmPassword {
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	if err := h.verifyCSRF(middleware.Session(c).ID(), form.CSRFToken); err != nil {
		return mapDomainError(err)
	}

	err := h.register.Execute(ctx, domain.RegisterRequest{
		Nombre:            form.Nombre,
		CorreoElectronico: form.Email,
		Contrasena:        form.Password,
		Rol:               form.Rol,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRoleUnknown) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
		}
		return mapDomainError(err)
	}

	if isAJAX(c) {
		return c.JSON(http.StatusCreated, map[string]string{"email": form.Email})
	}
	return c.Redirect(http.StatusFound, middleware.LoginPath+"?registered=1")
}

// Logout clears the session auth state and returns to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	usecase.Logout(c.Request().Context(), middleware.Session(c), h.logger)

	if isAJAX(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// AccessDenied serves the access-denied view-model, the redirect target for
// authorized-but-forbidden navigation.
func (h *AuthHandler) AccessDenied(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"mensaje": "No tiene permisos para acceder a esta sección",
	})
}

// CSRFToken issues the CSRF token for the current session, for clients that
// render their own forms.
func (h *AuthHandler) CSRFToken(c echo.Context) error {
	token, err := h.csrf.Generate(middleware.Session(c).ID())
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"csrfToken": token})
}

// verifyCSRF checks the submitted form token against the session.
func (h *AuthHandler) verifyCSRF(sessionID, presented string) error {
	return h.csrf.Verify(sessionID, presented)
}

// dashboardPathFor maps a role to its post-login landing page.
func dashboardPathFor(role domain.Role) string {
	switch role {
	case domain.RoleUsuario:
		return "/usuario/dashboard"
	case domain.RoleSoporte, domain.RoleAdmin:
		return "/dashboard"
	}
	return "/dashboard"
}

// localReturnURL accepts only same-site relative return URLs. Echo has
// already percent-decoded the form value, so the raw string is checked as
// is. Backslashes are rejected outright: browsers treat them as slashes in
// redirect targets, so "/\evil.com" would leave the site.
func localReturnURL(raw string) string {
	if raw == "" || strings.Contains(raw, `\`) {
		return ""
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return ""
	}
	return raw
}

// isAJAX mirrors the middleware convention for handler-level responses.
func isAJAX(c echo.Context) bool {
	return c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}
