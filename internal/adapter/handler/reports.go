package handler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"

	"reclamos-web/middleware"

	"github.com/labstack/echo/v4"
)

// ReportsHandler exports the reclamos list as CSV for the admin reports
// page. Lives under /dashboard/admin, so Admin-only via the role table.
type ReportsHandler struct {
	logger *slog.Logger
}

// NewReportsHandler creates the reports handler.
func NewReportsHandler(logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{logger: logger}
}

var reportHeader = []string{"id", "titulo", "estado", "prioridad", "usuarioId", "fechaCreacion"}

// ReclamosCSV streams all reclamos as a CSV download.
func (h *ReportsHandler) ReclamosCSV(c echo.Context) error {
	ctx := c.Request().Context()

	reclamos, err := middleware.API(c).Reclamos(ctx)
	if err != nil {
		return mapDomainError(err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="reclamos.csv"`)
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range reclamos {
		record := []string{
			r.ID.String(),
			r.Titulo,
			r.Estado,
			r.Prioridad,
			r.UsuarioID.String(),
			strconv.FormatInt(r.FechaCreacion.Unix(), 10),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
