package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo conteos de reportes para el resumen del administrador.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) CountByState(ctx context.Context) ([]repository.CountResult, error) {
	return r.countBy(ctx, "report_states", "state_id")
}

func (r *DashboardRepo) CountBySeverity(ctx context.Context) ([]repository.CountResult, error) {
	return r.countBy(ctx, "severities", "severity_id")
}

func (r *DashboardRepo) CountByArea(ctx context.Context) ([]repository.CountResult, error) {
	return r.countBy(ctx, "areas", "area_id")
}

func (r *DashboardRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM reports WHERE created_at >= $1 AND created_at < $2`, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("dashboard.CountCreatedBetween: %w", err)
	}
	return n, nil
}

// countBy table y column nunca vienen del cliente: solo los literales de arriba.
// LEFT JOIN para que los elementos sin reportes aparezcan con cero.
func (r *DashboardRepo) countBy(ctx context.Context, table, column string) ([]repository.CountResult, error) {
	query := `
	SELECT c.id, c.name, COUNT(rep.id)
	FROM ` + table + ` c
	LEFT JOIN reports rep ON rep.` + column + ` = c.id
	GROUP BY c.id, c.name
	ORDER BY c.id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dashboard.countBy %s: %w", table, err)
	}
	defer rows.Close()

	results := make([]repository.CountResult, 0)
	for rows.Next() {
		var row repository.CountResult
		if err := rows.Scan(&row.ID, &row.Name, &row.Count); err != nil {
			return nil, fmt.Errorf("dashboard.countBy %s scan: %w", table, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
