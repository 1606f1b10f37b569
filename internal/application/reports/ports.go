package reports

import (
	"context"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos de reportes, bitácora
// y catálogos atados a ella. Si fn devuelve error no persiste nada.
type TxRunner interface {
	RunReports(ctx context.Context, fn func(
		reportRepo repository.ReportRepository,
		auditRepo repository.AuditRepository,
		catalogRepo repository.CatalogRepository,
	) error) error
}

// SheetGenerator genera la ficha imprimible (PDF) de un reporte con su bitácora.
type SheetGenerator interface {
	GenerateReportSheet(ctx context.Context, report *entity.ReportView, trail []*entity.AuditEntry) ([]byte, error)
}
