package reports

import (
	"context"
	"fmt"

	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/access"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

// SheetUseCase genera la ficha PDF de un reporte con su bitácora.
type SheetUseCase struct {
	reportRepo repository.ReportRepository
	auditRepo  repository.AuditRepository
	generator  SheetGenerator
}

// NewSheetUseCase construye el caso de uso inyectando todas sus dependencias.
func NewSheetUseCase(reportRepo repository.ReportRepository, auditRepo repository.AuditRepository, generator SheetGenerator) *SheetUseCase {
	return &SheetUseCase{reportRepo: reportRepo, auditRepo: auditRepo, generator: generator}
}

// Download devuelve (pdfBytes, filename). Solo el administrador o el dueño del reporte.
func (uc *SheetUseCase) Download(ctx context.Context, actor *entity.Worker, reportID int64) ([]byte, string, error) {
	v, err := uc.reportRepo.GetViewByID(ctx, reportID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener reporte: %w", err)
	}
	if v == nil {
		return nil, "", domain.ErrReportNotFound
	}
	if !access.CanView(actor, &v.Report) {
		return nil, "", domain.ErrForbidden
	}
	trail, err := uc.auditRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener bitácora: %w", err)
	}
	pdfBytes, err := uc.generator.GenerateReportSheet(ctx, v, trail)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("reporte_%d.pdf", v.ID), nil
}
