package handler

import (
	"log/slog"
	"net/http"

	"reclamos-web/internal/domain"
	"reclamos-web/internal/usecase"
	"reclamos-web/middleware"

	"github.com/labstack/echo/v4"
)

// DashboardHandler assembles the role dashboards from backend data. The
// stats usecase is built per request around the request-scoped API client,
// so the caller's own token backs every backend call.
type DashboardHandler struct {
	logger *slog.Logger
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{logger: logger}
}

// Index serves the staff dashboard (Soporte and Admin).
func (h *DashboardHandler) Index(c echo.Context) error {
	ctx := c.Request().Context()

	user, _ := middleware.Gate(c).CurrentUser(ctx)
	stats := usecase.NewDashboardStats(middleware.API(c), h.logger).Execute(ctx)

	return c.JSON(http.StatusOK, map[string]any{
		"usuario": user,
		"stats":   stats,
	})
}

// Admin serves the admin dashboard with the full stats plus the user list.
// The /dashboard/admin prefix is Admin-only through the role table.
func (h *DashboardHandler) Admin(c echo.Context) error {
	ctx := c.Request().Context()

	api := middleware.API(c)
	stats := usecase.NewDashboardStats(api, h.logger).Execute(ctx)

	usuarios, err := api.Usuarios(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "admin dashboard usuarios degraded", "error", err)
		usuarios = []domain.Usuario{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stats":    stats,
		"usuarios": usuarios,
	})
}

// Usuario serves the personal dashboard: the caller's own reclamos and
// unread notifications.
func (h *DashboardHandler) Usuario(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := middleware.Gate(c).CurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	api := middleware.API(c)

	reclamos, err := api.Reclamos(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "usuario dashboard reclamos degraded", "error", err)
		reclamos = []domain.Reclamo{}
	}
	propios := make([]domain.Reclamo, 0, len(reclamos))
	for _, r := range reclamos {
		if r.UsuarioID == user.ID {
			propios = append(propios, r)
		}
	}

	notificaciones, err := api.NotificacionesByUsuario(ctx, user.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "usuario dashboard notificaciones degraded", "error", err)
		notificaciones = []domain.Notificacion{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"usuario":        user,
		"reclamos":       propios,
		"notificaciones": notificaciones,
	})
}
