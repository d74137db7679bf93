package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"reclamos-web/internal/domain"

	"github.com/google/uuid"
)

const requestTimeout = 3 * time.Second

// Client talks to the reclamos backend REST API. The zero token value means
// unauthenticated; authenticated requests go through the request-scoped
// clone returned by WithToken. Implements domain.AuthAPI and
// domain.ReclamoLister.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a backend client with a tuned HTTP transport. The
// returned client carries no credential; handlers receive per-request
// token-bound clones from the authentication middleware.
func NewClient(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// WithToken returns a shallow clone carrying the bearer token. The clone
// shares the underlying transport but not the credential, so concurrent
// requests for different users never see each other's token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// do runs one JSON round trip against the backend. A nil out skips response
// decoding. Transport failures and non-2xx statuses come back as wrapped
// sentinel errors; callers degrade to empty results instead of failing the
// request.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAPIUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAPIUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: backend returned 401", domain.ErrNotAuthenticated)
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: status %d", domain.ErrAPIStatus, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %w", domain.ErrAPIStatus, err)
		}
	}
	return nil
}

// Login exchanges credentials for a bearer token and the user profile.
func (c *Client) Login(ctx context.Context, creds domain.LoginCredentials) (string, *domain.Usuario, error) {
	var result domain.LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &result); err != nil {
		// Any definitive backend refusal is a rejected login; only
		// transport-level failures surface as unavailability.
		if errors.Is(err, domain.ErrNotAuthenticated) || errors.Is(err, domain.ErrAPIStatus) || errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrLoginRejected
		}
		return "", nil, err
	}
	if result.Token == "" {
		return "", nil, domain.ErrLoginRejected
	}
	return result.Token, result.Usuario, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", req, nil)
}

// Reclamos lists all tickets visible to the caller.
func (c *Client) Reclamos(ctx context.Context) ([]domain.Reclamo, error) {
	var reclamos []domain.Reclamo
	if err := c.do(ctx, http.MethodGet, "/api/reclamos", nil, &reclamos); err != nil {
		return nil, err
	}
	return reclamos, nil
}

// Reclamo fetches one ticket.
func (c *Client) Reclamo(ctx context.Context, id uuid.UUID) (*domain.Reclamo, error) {
	var reclamo domain.Reclamo
	if err := c.do(ctx, http.MethodGet, "/api/reclamos/"+id.String(), nil, &reclamo); err != nil {
		return nil, err
	}
	return &reclamo, nil
}

// CreateReclamo opens a new ticket.
func (c *Client) CreateReclamo(ctx context.Context, req domain.CreateReclamo) (*domain.Reclamo, error) {
	var reclamo domain.Reclamo
	if err := c.do(ctx, http.MethodPost, "/api/reclamos", req, &reclamo); err != nil {
		return nil, err
	}
	return &reclamo, nil
}

// UpdateReclamo replaces a ticket.
func (c *Client) UpdateReclamo(ctx context.Context, id uuid.UUID, reclamo domain.Reclamo) error {
	return c.do(ctx, http.MethodPut, "/api/reclamos/"+id.String(), reclamo, nil)
}

// UpdateReclamoEstado patches only the estado field.
func (c *Client) UpdateReclamoEstado(ctx context.Context, id uuid.UUID, estado string) error {
	body := map[string]string{"estado": estado}
	return c.do(ctx, http.MethodPatch, "/api/reclamos/"+id.String()+"/estado", body, nil)
}

// DeleteReclamo removes a ticket.
func (c *Client) DeleteReclamo(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/reclamos/"+id.String(), nil, nil)
}

// RespuestasByReclamo lists the responses attached to a ticket.
func (c *Client) RespuestasByReclamo(ctx context.Context, reclamoID uuid.UUID) ([]domain.Respuesta, error) {
	var respuestas []domain.Respuesta
	path := "/api/respuestas?reclamoId=" + reclamoID.String()
	if err := c.do(ctx, http.MethodGet, path, nil, &respuestas); err != nil {
		return nil, err
	}
	return respuestas, nil
}

// CreateRespuesta posts a response to a ticket.
func (c *Client) CreateRespuesta(ctx context.Context, req domain.CreateRespuesta) (*domain.Respuesta, error) {
	var respuesta domain.Respuesta
	if err := c.do(ctx, http.MethodPost, "/api/respuestas", req, &respuesta); err != nil {
		return nil, err
	}
	return &respuesta, nil
}

// MarcarRespuestaVista marks a response as seen by the ticket owner.
func (c *Client) MarcarRespuestaVista(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPatch, "/api/respuestas/"+id.String()+"/visto", nil, nil)
}

// DeleteRespuesta removes a response.
func (c *Client) DeleteRespuesta(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/respuestas/"+id.String(), nil, nil)
}

// Usuarios lists all users. Admin only on the backend side.
func (c *Client) Usuarios(ctx context.Context) ([]domain.Usuario, error) {
	var usuarios []domain.Usuario
	if err := c.do(ctx, http.MethodGet, "/api/usuarios", nil, &usuarios); err != nil {
		return nil, err
	}
	return usuarios, nil
}

// Usuario fetches one user.
func (c *Client) Usuario(ctx context.Context, id uuid.UUID) (*domain.Usuario, error) {
	var usuario domain.Usuario
	if err := c.do(ctx, http.MethodGet, "/api/usuarios/"+id.String(), nil, &usuario); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// UpdateUsuario updates a user profile.
func (c *Client) UpdateUsuario(ctx context.Context, id uuid.UUID, req domain.UpdateUsuario) (*domain.Usuario, error) {
	var usuario domain.Usuario
	if err := c.do(ctx, http.MethodPut, "/api/usuarios/"+id.String(), req, &usuario); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// DeleteUsuario removes a user.
func (c *Client) DeleteUsuario(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/usuarios/"+id.String(), nil, nil)
}

// ChangePassword forwards a password change.
func (c *Client) ChangePassword(ctx context.Context, req domain.ChangePassword) error {
	return c.do(ctx, http.MethodPost, "/api/usuarios/cambiar-contrasena", req, nil)
}

// Send2FACode asks the backend to mail a 2FA code.
func (c *Client) Send2FACode(ctx context.Context, req domain.TwoFactorCode) error {
	return c.do(ctx, http.MethodPost, "/api/usuarios/enviar-codigo-2fa", req, nil)
}

// Activate2FA enables 2FA for a user.
func (c *Client) Activate2FA(ctx context.Context, usuarioID uuid.UUID) error {
	body := map[string]string{"usuarioId": usuarioID.String()}
	return c.do(ctx, http.MethodPost, "/api/usuarios/activar-2fa", body, nil)
}

// NotificacionesByUsuario lists a user's notifications.
func (c *Client) NotificacionesByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]domain.Notificacion, error) {
	var notificaciones []domain.Notificacion
	path := "/api/notificaciones/usuario/" + usuarioID.String()
	if err := c.do(ctx, http.MethodGet, path, nil, &notificaciones); err != nil {
		return nil, err
	}
	return notificaciones, nil
}

// NotificacionesSoporte lists the support-queue notifications.
func (c *Client) NotificacionesSoporte(ctx context.Context) ([]domain.Notificacion, error) {
	var notificaciones []domain.Notificacion
	if err := c.do(ctx, http.MethodGet, "/api/notificaciones/soporte", nil, &notificaciones); err != nil {
		return nil, err
	}
	return notificaciones, nil
}
