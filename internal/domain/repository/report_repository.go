package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

// ReportRepository define el puerto de persistencia para Report.
type ReportRepository interface {
	// Create inserta el reporte y completa ID. Devuelve domain.ErrDuplicateClientUUID si el UUID ya existe.
	Create(ctx context.Context, r *entity.Report) error
	GetByID(ctx context.Context, id int64) (*entity.Report, error)
	// GetForUpdate bloquea la fila del reporte hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Report, error)
	GetViewByID(ctx context.Context, id int64) (*entity.ReportView, error)
	ListViews(ctx context.Context) ([]*entity.ReportView, error)
	ListViewsByOwner(ctx context.Context, rut int64) ([]*entity.ReportView, error)
	UpdateState(ctx context.Context, id int64, stateID int, updatedAt time.Time) error
}

// AuditRepository bitácora append-only de cambios de estado. No hay Update ni Delete.
type AuditRepository interface {
	Append(ctx context.Context, e *entity.AuditEntry) error
	ListByReport(ctx context.Context, reportID int64) ([]*entity.AuditEntry, error)
}
