package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de catálogos y del grafo de transiciones.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) ListAreas(ctx context.Context) ([]entity.CatalogItem, error) {
	return r.listItems(ctx, "areas")
}

func (r *CatalogRepo) ListSeverities(ctx context.Context) ([]entity.CatalogItem, error) {
	return r.listItems(ctx, "severities")
}

func (r *CatalogRepo) ListReportStates(ctx context.Context) ([]entity.CatalogItem, error) {
	return r.listItems(ctx, "report_states")
}

func (r *CatalogRepo) ListRoles(ctx context.Context) ([]entity.CatalogItem, error) {
	return r.listItems(ctx, "roles")
}

func (r *CatalogRepo) ListEmploymentStatuses(ctx context.Context) ([]entity.CatalogItem, error) {
	return r.listItems(ctx, "employment_statuses")
}

// listItems table nunca viene del cliente: solo los literales de arriba.
func (r *CatalogRepo) listItems(ctx context.Context, table string) ([]entity.CatalogItem, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	items := make([]entity.CatalogItem, 0)
	for rows.Next() {
		var it entity.CatalogItem
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ReportStateExists informa si el estado existe en el catálogo.
func (r *CatalogRepo) ReportStateExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM report_states WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("report state exists: %w", err)
	}
	return exists, nil
}

// ListTransitions devuelve todas las aristas del grafo de estados.
func (r *CatalogRepo) ListTransitions(ctx context.Context) ([]entity.StateTransition, error) {
	rows, err := r.q.Query(ctx, `SELECT id, from_state_id, to_state_id FROM state_transitions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()
	var list []entity.StateTransition
	for rows.Next() {
		var t entity.StateTransition
		if err := rows.Scan(&t.ID, &t.FromState, &t.ToState); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
