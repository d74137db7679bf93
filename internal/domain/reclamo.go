package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reclamo estados as reported by the backend.
const (
	EstadoNuevo      = "Nuevo"
	EstadoEnProceso  = "EnProceso"
	EstadoRespondido = "Respondido"
	EstadoCerrado    = "Cerrado"
)

// Reclamo is a support ticket owned by the backend. The web tier passes it
// through for view-model assembly and never mutates it locally.
type Reclamo struct {
	ID            uuid.UUID `json:"id"`
	Titulo        string    `json:"titulo"`
	Descripcion   string    `json:"descripcion"`
	Estado        string    `json:"estado"`
	Prioridad     string    `json:"prioridad"`
	UsuarioID     uuid.UUID `json:"usuarioId"`
	UsuarioNombre string    `json:"usuarioNombre,omitempty"`
	FechaCreacion time.Time `json:"fechaCreacion"`
}

// CreateReclamo is the payload for opening a new ticket.
type CreateReclamo struct {
	Titulo      string    `json:"titulo"`
	Descripcion string    `json:"descripcion"`
	Prioridad   string    `json:"prioridad"`
	UsuarioID   uuid.UUID `json:"usuarioId"`
}

// Respuesta is a support response attached to a reclamo.
type Respuesta struct {
	ID            uuid.UUID `json:"id"`
	ReclamoID     uuid.UUID `json:"reclamoId"`
	UsuarioID     uuid.UUID `json:"usuarioId"`
	Mensaje       string    `json:"mensaje"`
	Visto         bool      `json:"visto"`
	FechaCreacion time.Time `json:"fechaCreacion"`
}

// CreateRespuesta is the payload for answering a reclamo.
type CreateRespuesta struct {
	ReclamoID uuid.UUID `json:"reclamoId"`
	UsuarioID uuid.UUID `json:"usuarioId"`
	Mensaje   string    `json:"mensaje"`
}

// Notificacion is an unread-response notification for a user.
type Notificacion struct {
	ID            uuid.UUID `json:"id"`
	UsuarioID     uuid.UUID `json:"usuarioId"`
	ReclamoID     uuid.UUID `json:"reclamoId"`
	Mensaje       string    `json:"mensaje"`
	Leida         bool      `json:"leida"`
	FechaCreacion time.Time `json:"fechaCreacion"`
}

// DashboardStats aggregates the reclamos list for the dashboard views.
type DashboardStats struct {
	TotalReclamos            int       `json:"totalReclamos"`
	ReclamosNuevos           int       `json:"reclamosNuevos"`
	ReclamosEnProceso        int       `json:"reclamosEnProceso"`
	ReclamosRespondidos      int       `json:"reclamosRespondidos"`
	ReclamosCerrados         int       `json:"reclamosCerrados"`
	TiempoPromedioResolucion float64   `json:"tiempoPromedioResolucion"`
	ReclamosRecientes        []Reclamo `json:"reclamosRecientes"`
}
