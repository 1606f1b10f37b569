package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de reportes sobre PostgreSQL. Solo INSERT y SELECT.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta una entrada y completa su ID.
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	query := `
		INSERT INTO report_audit_log (report_id, state_id, admin_rut, admin_name, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		e.ReportID, e.StateID, e.AdminRUT, e.AdminName, e.Detail, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: reporte, estado o administrador", domain.ErrInvalidReference)
		}
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByReport devuelve la bitácora de un reporte en orden cronológico.
func (r *AuditRepo) ListByReport(ctx context.Context, reportID int64) ([]*entity.AuditEntry, error) {
	query := `
		SELECT l.id, l.report_id, l.state_id, st.name, l.admin_rut, l.admin_name, l.detail, l.created_at
		FROM report_audit_log l
		JOIN report_states st ON st.id = l.state_id
		WHERE l.report_id = $1
		ORDER BY l.created_at, l.id`
	rows, err := r.q.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.ReportID, &e.StateID, &e.StateName, &e.AdminRUT,
			&e.AdminName, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
