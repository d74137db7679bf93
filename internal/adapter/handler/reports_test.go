package handler

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reclamos-web/internal/adapter/gateway"
	"reclamos-web/internal/domain"
	"reclamos-web/internal/infrastructure/session"
	"reclamos-web/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestReclamosCSV_StreamsDownload(t *testing.T) {
	reclamo := domain.Reclamo{
		ID:            uuid.New(),
		Titulo:        "Sin agua, urgente",
		Estado:        domain.EstadoNuevo,
		Prioridad:     "Alta",
		UsuarioID:     uuid.New(),
		FechaCreacion: time.Now(),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]domain.Reclamo{reclamo})
	}))
	defer server.Close()

	sessions := session.NewStore(30 * time.Minute)
	apiClient := gateway.NewClient(server.URL, 2*time.Second)

	e := echo.New()
	e.Use(middleware.Authentication(sessions, stubClaims{}, apiClient, slog.Default()))
	e.GET("/dashboard/admin/reclamos.csv", NewReportsHandler(slog.Default()).ReclamosCSV)

	id, scope := sessions.Open("")
	scope.SetToken("session-token")

	req := httptest.NewRequest(http.MethodGet, "/dashboard/admin/reclamos.csv", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "reclamos.csv")

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "titulo", "estado", "prioridad", "usuarioId", "fechaCreacion"}, rows[0])
	assert.Equal(t, reclamo.ID.String(), rows[1][0])
	assert.Equal(t, "Sin agua, urgente", rows[1][1])
}
