// Package analytics contiene el resumen de reportes para el panel del administrador.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/domain/access"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen de reportes por estado, severidad y área.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// GetSummary construye el resumen. Solo administrador.
//
// Cinco consultas en paralelo; la primera que falla cancela el resto:
//  1. CountByState
//  2. CountBySeverity
//  3. CountByArea
//  4. CountCreatedBetween(hoy)
//  5. CountCreatedBetween(mes)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, admin *entity.Worker) (*dto.DashboardSummaryResponse, error) {
	if err := access.RequireAdmin(admin); err != nil {
		return nil, err
	}
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		byState, bySeverity, byArea []repository.CountResult
		today, month                int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byState, err = uc.repo.CountByState(gctx)
		return wrap("por estado", err)
	})
	g.Go(func() (err error) {
		bySeverity, err = uc.repo.CountBySeverity(gctx)
		return wrap("por severidad", err)
	})
	g.Go(func() (err error) {
		byArea, err = uc.repo.CountByArea(gctx)
		return wrap("por área", err)
	})
	g.Go(func() (err error) {
		today, err = uc.repo.CountCreatedBetween(gctx, todayStart, tomorrow)
		return wrap("hoy", err)
	})
	g.Go(func() (err error) {
		month, err = uc.repo.CountCreatedBetween(gctx, monthStart, tomorrow)
		return wrap("mes", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range byState {
		total += c.Count
	}
	return &dto.DashboardSummaryResponse{
		Total:        total,
		Hoy:          today,
		Mes:          month,
		PorEstado:    toCountItems(byState),
		PorSeveridad: toCountItems(bySeverity),
		PorArea:      toCountItems(byArea),
		Periodo:      monthLabel(now),
	}, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("dashboard: %s: %w", what, err)
	}
	return nil
}

func toCountItems(rows []repository.CountResult) []dto.CountItem {
	out := make([]dto.CountItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CountItem{ID: r.ID, Nombre: r.Name, Cantidad: r.Count})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
