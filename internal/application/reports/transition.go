package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/access"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
	"github.com/jhoicas/sigra-api/internal/domain/workflow"
	"github.com/jhoicas/sigra-api/pkg/metrics"
)

// TransitionUseCase motor de cambios de estado. El grafo de transiciones se lee de la base
// en cada cambio, dentro de la misma transacción que bloquea el reporte.
type TransitionUseCase struct {
	reportRepo  repository.ReportRepository
	catalogRepo repository.CatalogRepository
	txRunner    TxRunner
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewTransitionUseCase construye el caso de uso.
func NewTransitionUseCase(
	reportRepo repository.ReportRepository,
	catalogRepo repository.CatalogRepository,
	txRunner TxRunner,
	m *metrics.Metrics,
) *TransitionUseCase {
	if m == nil {
		m = metrics.Nop()
	}
	return &TransitionUseCase{
		reportRepo:  reportRepo,
		catalogRepo: catalogRepo,
		txRunner:    txRunner,
		metrics:     m,
		now:         time.Now,
	}
}

// Transition mueve el reporte al estado indicado y agrega la entrada de bitácora.
// Ambas escrituras ocurren en una transacción: o persisten las dos o ninguna.
//
// Retorna:
//   - domain.ErrForbidden         si admin no es administrador.
//   - domain.ErrReportNotFound    si el reporte no existe.
//   - domain.ErrInvalidInput      si el estado destino no existe.
//   - domain.ErrIllegalTransition si no hay arista actual -> destino en el grafo.
func (uc *TransitionUseCase) Transition(ctx context.Context, admin *entity.Worker, reportID int64, in dto.TransitionRequest) (*dto.TransitionResponse, error) {
	if err := access.RequireAdmin(admin); err != nil {
		return nil, err
	}
	detail := normalizeDetail(in.Detalle)

	var resp *dto.TransitionResponse
	err := uc.txRunner.RunReports(ctx, func(
		reportRepo repository.ReportRepository,
		auditRepo repository.AuditRepository,
		catalogRepo repository.CatalogRepository,
	) error {
		// ── 1. Bloquear el reporte ────────────────────────────────────────────
		rep, err := reportRepo.GetForUpdate(ctx, reportID)
		if err != nil {
			return fmt.Errorf("cambio de estado: obtener reporte: %w", err)
		}
		if rep == nil {
			return domain.ErrReportNotFound
		}

		// ── 2. Validar destino contra el catálogo y el grafo ─────────────────
		exists, err := catalogRepo.ReportStateExists(ctx, in.NuevoEstadoID)
		if err != nil {
			return fmt.Errorf("cambio de estado: validar estado: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: el estado %d no existe", domain.ErrInvalidInput, in.NuevoEstadoID)
		}
		edges, err := catalogRepo.ListTransitions(ctx)
		if err != nil {
			return fmt.Errorf("cambio de estado: leer grafo: %w", err)
		}
		if !workflow.NewGraph(edges).Allows(rep.StateID, in.NuevoEstadoID) {
			return fmt.Errorf("%w: de %d a %d", domain.ErrIllegalTransition, rep.StateID, in.NuevoEstadoID)
		}

		// ── 3. Aplicar estado + bitácora ──────────────────────────────────────
		now := uc.now()
		if err := reportRepo.UpdateState(ctx, rep.ID, in.NuevoEstadoID, now); err != nil {
			return err
		}
		entry := &entity.AuditEntry{
			ReportID:  rep.ID,
			StateID:   in.NuevoEstadoID,
			AdminRUT:  admin.RUT,
			AdminName: admin.FullName(),
			Detail:    detail,
			CreatedAt: now,
		}
		if err := auditRepo.Append(ctx, entry); err != nil {
			return err
		}

		resp = &dto.TransitionResponse{
			IDReporte:      rep.ID,
			EstadoAnterior: rep.StateID,
			IDEstadoActual: in.NuevoEstadoID,
			IDBitacora:     entry.ID,
			Actualizado:    now,
			Mensaje:        "Estado actualizado exitosamente",
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrIllegalTransition) {
			uc.metrics.TransitionRejected()
		}
		return nil, err
	}
	uc.metrics.TransitionApplied(resp.IDEstadoActual)
	return resp, nil
}

// AllowedTransitions estados alcanzables desde el estado actual del reporte. Solo administrador.
func (uc *TransitionUseCase) AllowedTransitions(ctx context.Context, admin *entity.Worker, reportID int64) (*dto.AllowedTransitionsResponse, error) {
	if err := access.RequireAdmin(admin); err != nil {
		return nil, err
	}
	rep, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("obtener reporte: %w", err)
	}
	if rep == nil {
		return nil, domain.ErrReportNotFound
	}
	edges, err := uc.catalogRepo.ListTransitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer grafo: %w", err)
	}
	states, err := uc.catalogRepo.ListReportStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar estados: %w", err)
	}
	names := make(map[int]string, len(states))
	for _, s := range states {
		names[s.ID] = s.Name
	}

	next := workflow.NewGraph(edges).Next(rep.StateID)
	items := make([]dto.CatalogItem, 0, len(next))
	for _, id := range next {
		items = append(items, dto.CatalogItem{ID: id, Nombre: names[id]})
	}
	return &dto.AllowedTransitionsResponse{
		IDReporte:      rep.ID,
		IDEstadoActual: rep.StateID,
		Siguientes:     items,
	}, nil
}

// normalizeDetail descarta detalles vacíos o solo con espacios.
func normalizeDetail(detail *string) *string {
	if detail == nil {
		return nil
	}
	d := strings.TrimSpace(*detail)
	if d == "" {
		return nil
	}
	return &d
}
