package handler

import (
	"log/slog"
	"net/http"

	"reclamos-web/internal/domain"
	"reclamos-web/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReclamosHandler proxies ticket CRUD to the backend and assembles the
// ticket view-models. All routes run behind the authentication gate; the
// delete/edit routes additionally sit behind the role table.
type ReclamosHandler struct {
	logger *slog.Logger
}

// NewReclamosHandler creates the reclamos handler.
func NewReclamosHandler(logger *slog.Logger) *ReclamosHandler {
	return &ReclamosHandler{logger: logger}
}

// reclamoForm is the create/edit submission.
type reclamoForm struct {
	Titulo      string `json:"titulo" form:"titulo"`
	Descripcion string `json:"descripcion" form:"descripcion"`
	Prioridad   string `json:"prioridad" form:"prioridad"`
	Estado      string `json:"estado" form:"estado"`
}

// respuestaForm is the reply submission.
type respuestaForm struct {
	Mensaje string `json:"mensaje" form:"mensaje"`
}

// List serves the reclamos index. Backend failures degrade to an empty
// list so the page renders regardless.
func (h *ReclamosHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	reclamos, err := middleware.API(c).Reclamos(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "listing reclamos degraded", "error", err)
		reclamos = []domain.Reclamo{}
	}
	return c.JSON(http.StatusOK, map[string]any{"reclamos": reclamos})
}

// Detail serves one reclamo with its respuestas.
func (h *ReclamosHandler) Detail(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reclamo id")
	}

	api := middleware.API(c)
	reclamo, err := api.Reclamo(ctx, id)
	if err != nil {
		return mapDomainError(err)
	}

	respuestas, err := api.RespuestasByReclamo(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "loading respuestas degraded", "reclamo_id", id, "error", err)
		respuestas = []domain.Respuesta{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"reclamo":    reclamo,
		"respuestas": respuestas,
	})
}

// Create opens a new reclamo on behalf of the current user.
func (h *ReclamosHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var form reclamoForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reclamo payload")
	}
	if form.Titulo == "" || form.Descripcion == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "titulo and descripcion are required")
	}

	user, ok := middleware.Gate(c).CurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	reclamo, err := middleware.API(c).CreateReclamo(ctx, domain.CreateReclamo{
		Titulo:      form.Titulo,
		Descripcion: form.Descripcion,
		Prioridad:   form.Prioridad,
		UsuarioID:   user.ID,
	})
	if err != nil {
		return mapDomainError(err)
	}

	if isAJAX(c) {
		return c.JSON(http.StatusCreated, reclamo)
	}
	return c.Redirect(http.StatusFound, "/reclamos/"+reclamo.ID.String())
}

// EditPage serves the edit view-model. Admin or Soporte only.
func (h *ReclamosHandler) EditPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reclamo id")
	}

	reclamo, err := middleware.API(c).Reclamo(ctx, id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"reclamo": reclamo})
}

// Edit updates a reclamo. Admin or Soporte only.
func (h *ReclamosHandler) Edit(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reclamo id")
	}

	var form reclamoForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reclamo payload")
	}

	api := middleware.API(c)
	current, err := api.Reclamo(ctx, id)
	if err != nil {
		return mapDomainError(err)
	}

	current.Titulo = form.Titulo
	current.Descripcion = form.Descripcion
	current.Prioridad = form.Prioridad
	if form.Estado != "" {
		current.Estado = form.Estado
	}

	if err := api.UpdateReclamo(ctx, id, *current); err != nil {
		return mapDomainError(err)
	}

	if isAJAX(c) {
		return c.JSON(http.StatusOK, current)
	}
	return c.Redirect(http.StatusFound, "/reclamos/"+id.String())
}

// UpdateEstado patches just the estado of a reclamo.
func (h *ReclamosHandler) UpdateEstado(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reclamo id")
	}

	var body struct {
		Estado string `json:"estado" form:"estado"`
	}
	if err := c.Bind(&body); err != nil || body.Estado == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "estado is required")
	}

	if err := middleware.API(c).UpdateReclamoEstado(ctx, id, body.Estado); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a reclamo. Admin or Soporte only.
func (h *ReclamosHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reclamo id")
	}

	if err := middleware.API(c).DeleteReclamo(ctx, id); err != nil {
		return mapDomainError(err)
	}

	if isAJAX(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusFound, "/reclamos")
}

// CreateRespuesta posts a reply to a reclamo as the current user.
func (h *ReclamosHandler) CreateRespuesta(c echo.Context) error {
	ctx := c.Request().Context()

	reclamoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reclamo id")
	}

	var form respuestaForm
	if err := c.Bind(&form); err != nil || form.Mensaje == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "mensaje is required")
	}

	user, ok := middleware.Gate(c).CurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	respuesta, err := middleware.API(c).CreateRespuesta(ctx, domain.CreateRespuesta{
		ReclamoID: reclamoID,
		UsuarioID: user.ID,
		Mensaje:   form.Mensaje,
	})
	if err != nil {
		return mapDomainError(err)
	}

	if isAJAX(c) {
		return c.JSON(http.StatusCreated, respuesta)
	}
	return c.Redirect(http.StatusFound, "/reclamos/"+reclamoID.String())
}

// MarcarRespuestaVista marks a respuesta as seen.
func (h *ReclamosHandler) MarcarRespuestaVista(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid respuesta id")
	}

	if err := middleware.API(c).MarcarRespuestaVista(c.Request().Context(), id); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
