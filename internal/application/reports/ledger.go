// Package reports contiene el registro de reportes de incidentes y el motor de
// cambios de estado con su bitácora.
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
	"github.com/jhoicas/sigra-api/pkg/metrics"
)

// LedgerUseCase envío y lectura de reportes.
type LedgerUseCase struct {
	reportRepo repository.ReportRepository
	auditRepo  repository.AuditRepository
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(reportRepo repository.ReportRepository, auditRepo repository.AuditRepository, m *metrics.Metrics) *LedgerUseCase {
	if m == nil {
		m = metrics.Nop()
	}
	return &LedgerUseCase{reportRepo: reportRepo, auditRepo: auditRepo, metrics: m, now: time.Now}
}

// Submit crea el reporte. El dueño es el RUT indicado o, si no viene, el del trabajador que envía;
// solo un administrador puede reportar a nombre de otro o abrirlo en un estado distinto de Abierto. Un UUID de cliente repetido devuelve
// domain.ErrDuplicateClientUUID: la app debe tratarlo como "ya sincronizado".
func (uc *LedgerUseCase) Submit(ctx context.Context, actor *entity.Worker, in dto.CreateReportRequest) (*dto.CreateReportResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	title := strings.TrimSpace(in.Titulo)
	clientUUID := strings.TrimSpace(in.UUIDCliente)
	if title == "" || clientUUID == "" {
		return nil, fmt.Errorf("%w: título y uuid_cliente son obligatorios", domain.ErrInvalidInput)
	}
	reportDate, err := time.Parse(dateLayout, in.FechaReporte)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha_reporte debe tener formato AAAA-MM-DD", domain.ErrInvalidInput)
	}

	owner := actor.RUT
	if in.RUT != nil && *in.RUT != actor.RUT {
		if !access.CanAdminister(actor) {
			return nil, fmt.Errorf("%w: solo un administrador puede reportar a nombre de otro trabajador", domain.ErrForbidden)
		}
		owner = *in.RUT
	}
	state := entity.ReportStateOpen
	if in.IDEstadoActual != nil && *in.IDEstadoActual != state {
		// Un estado inicial distinto de Abierto no deja bitácora: se reserva al administrador.
		if !access.CanAdminister(actor) {
			return nil, fmt.Errorf("%w: solo un administrador puede crear un reporte en otro estado", domain.ErrForbidden)
		}
		state = *in.IDEstadoActual
	}

	now := uc.now()
	rep := &entity.Report{
		Title:          title,
		Description:    in.Descripcion,
		ReportDate:     reportDate,
		ClientUUID:     clientUUID,
		CreatedAt:      now,
		SyncedAt:       &now,
		UpdatedAt:      now,
		IdempotencyKey: in.PeticionIdempotencia,
		OwnerRUT:       &owner,
		SeverityID:     in.IDSeveridad,
		AreaID:         in.IDArea,
		StateID:        state,
	}
	if err := uc.reportRepo.Create(ctx, rep); err != nil {
		if errors.Is(err, domain.ErrDuplicateClientUUID) {
			uc.metrics.DuplicateSubmission()
		}
		return nil, err
	}
	uc.metrics.ReportSubmitted()
	return &dto.CreateReportResponse{IDReporte: rep.ID, Mensaje: "Reporte creado exitosamente"}, nil
}

// Get devuelve el reporte con nombres resueltos. Solo el administrador o el dueño.
func (uc *LedgerUseCase) Get(ctx context.Context, actor *entity.Worker, id int64) (*dto.ReportResponse, error) {
	v, err := uc.reportRepo.GetViewByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener reporte: %w", err)
	}
	if v == nil {
		return nil, domain.ErrReportNotFound
	}
	if !access.CanView(actor, &v.Report) {
		return nil, domain.ErrForbidden
	}
	resp := toReportResponse(v)
	return &resp, nil
}

// ListAll todos los reportes, más recientes primero. Solo administrador.
func (uc *LedgerUseCase) ListAll(ctx context.Context, actor *entity.Worker) (*dto.ReportListResponse, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	views, err := uc.reportRepo.ListViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar reportes: %w", err)
	}
	return toReportList(views), nil
}

// ListMine reportes propios del trabajador, más recientes primero.
func (uc *LedgerUseCase) ListMine(ctx context.Context, actor *entity.Worker) (*dto.ReportListResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	views, err := uc.reportRepo.ListViewsByOwner(ctx, actor.RUT)
	if err != nil {
		return nil, fmt.Errorf("listar reportes propios: %w", err)
	}
	return toReportList(views), nil
}

// History bitácora del reporte en orden cronológico. Solo el administrador o el dueño.
func (uc *LedgerUseCase) History(ctx context.Context, actor *entity.Worker, id int64) ([]dto.AuditEntryResponse, error) {
	rep, err := uc.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener reporte: %w", err)
	}
	if rep == nil {
		return nil, domain.ErrReportNotFound
	}
	if !access.CanView(actor, rep) {
		return nil, domain.ErrForbidden
	}
	entries, err := uc.auditRepo.ListByReport(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listar bitácora: %w", err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAuditEntryResponse(e))
	}
	return out, nil
}
