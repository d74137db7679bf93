package usecase

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"reclamos-web/internal/domain"
)

const recentReclamos = 5

// DashboardStats assembles the dashboard view-model from the backend's
// reclamos list. Backend unavailability degrades to empty stats; the
// dashboards render regardless.
type DashboardStats struct {
	api    domain.ReclamoLister
	logger *slog.Logger
	now    func() time.Time
}

// NewDashboardStats creates the stats usecase.
func NewDashboardStats(api domain.ReclamoLister, logger *slog.Logger) *DashboardStats {
	return &DashboardStats{api: api, logger: logger, now: time.Now}
}

// Execute fetches the reclamos list and aggregates counts per estado, the
// most recent entries, and the average resolution time in days.
func (uc *DashboardStats) Execute(ctx context.Context) domain.DashboardStats {
	reclamos, err := uc.api.Reclamos(ctx)
	if err != nil {
		uc.logger.WarnContext(ctx, "stats degraded, backend unavailable", "error", err)
		return domain.DashboardStats{ReclamosRecientes: []domain.Reclamo{}}
	}

	stats := domain.DashboardStats{
		TotalReclamos:     len(reclamos),
		ReclamosRecientes: []domain.Reclamo{},
	}

	var closedAgeDays float64
	var closed int
	for _, r := range reclamos {
		switch r.Estado {
		case domain.EstadoNuevo:
			stats.ReclamosNuevos++
		case domain.EstadoEnProceso:
			stats.ReclamosEnProceso++
		case domain.EstadoRespondido:
			stats.ReclamosRespondidos++
		case domain.EstadoCerrado:
			stats.ReclamosCerrados++
			closedAgeDays += uc.now().Sub(r.FechaCreacion).Hours() / 24
			closed++
		}
	}
	if closed > 0 {
		stats.TiempoPromedioResolucion = closedAgeDays / float64(closed)
	}

	sorted := make([]domain.Reclamo, len(reclamos))
	copy(sorted, reclamos)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FechaCreacion.After(sorted[j].FechaCreacion)
	})
	if len(sorted) > recentReclamos {
		sorted = sorted[:recentReclamos]
	}
	stats.ReclamosRecientes = sorted

	return stats
}
