package handler

import (
	"log/slog"
	"net/http"

	"reclamos-web/internal/domain"
	"reclamos-web/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NotificacionesHandler proxies the notification feeds. There is no push
// channel; clients poll these endpoints.
type NotificacionesHandler struct {
	logger *slog.Logger
}

// NewNotificacionesHandler creates the notificaciones handler.
func NewNotificacionesHandler(logger *slog.Logger) *NotificacionesHandler {
	return &NotificacionesHandler{logger: logger}
}

// Propias lists the current user's notifications.
func (h *NotificacionesHandler) Propias(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := middleware.Gate(c).CurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	notificaciones, err := middleware.API(c).NotificacionesByUsuario(ctx, user.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "notificaciones degraded", "error", err)
		notificaciones = []domain.Notificacion{}
	}
	return c.JSON(http.StatusOK, map[string]any{"notificaciones": notificaciones})
}

// Soporte lists the support-queue notifications for staff.
func (h *NotificacionesHandler) Soporte(c echo.Context) error {
	ctx := c.Request().Context()

	notificaciones, err := middleware.API(c).NotificacionesSoporte(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "soporte notificaciones degraded", "error", err)
		notificaciones = []domain.Notificacion{}
	}
	return c.JSON(http.StatusOK, map[string]any{"notificaciones": notificaciones})
}

// MarcarLeida marks one notification as read. Notifications map to
// respuestas on the backend side.
func (h *NotificacionesHandler) MarcarLeida(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notificacion id")
	}

	if err := middleware.API(c).MarcarRespuestaVista(c.Request().Context(), id); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Eliminar removes one notification.
func (h *NotificacionesHandler) Eliminar(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notificacion id")
	}

	if err := middleware.API(c).DeleteRespuesta(c.Request().Context(), id); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
