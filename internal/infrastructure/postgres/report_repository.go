package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

const reportColumns = `r.id, r.title, r.description, r.report_date, r.client_uuid, r.created_at, r.synced_at,
	r.updated_at, r.idempotency_key, r.owner_rut, r.severity_id, r.area_id, r.state_id`

// Los nombres de catálogo y del autor se resuelven con joins al leer; las entidades no se referencian entre sí.
const reportViewQuery = `
	SELECT ` + reportColumns + `,
		a.name, s.name, st.name,
		COALESCE(TRIM(CONCAT_WS(' ', w.first_name, w.last_name_1, w.last_name_2)), '')
	FROM reports r
	JOIN areas a ON a.id = r.area_id
	JOIN severities s ON s.id = r.severity_id
	JOIN report_states st ON st.id = r.state_id
	LEFT JOIN workers w ON w.rut = r.owner_rut`

// ReportRepo implementación del puerto ReportRepository sobre PostgreSQL (usable con pool o tx).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Create inserta el reporte. La unicidad de client_uuid la garantiza el constraint de la tabla,
// de modo que dos envíos concurrentes del mismo UUID dejan exactamente una fila.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	query := `
		INSERT INTO reports (title, description, report_date, client_uuid, created_at, synced_at,
			updated_at, idempotency_key, owner_rut, severity_id, area_id, state_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rep.Title, rep.Description, rep.ReportDate, rep.ClientUUID, rep.CreatedAt, rep.SyncedAt,
		rep.UpdatedAt, rep.IdempotencyKey, rep.OwnerRUT, rep.SeverityID, rep.AreaID, rep.StateID,
	).Scan(&rep.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateClientUUID
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: área, severidad, estado o RUT", domain.ErrInvalidReference)
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetByID obtiene un reporte por ID; (nil, nil) si no existe.
func (r *ReportRepo) GetByID(ctx context.Context, id int64) (*entity.Report, error) {
	return r.getOne(ctx, `SELECT `+reportColumns+` FROM reports r WHERE r.id = $1`, id)
}

// GetForUpdate obtiene el reporte bloqueando su fila (SELECT ... FOR UPDATE).
// Serializa cambios de estado concurrentes sobre el mismo reporte.
func (r *ReportRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Report, error) {
	return r.getOne(ctx, `SELECT `+reportColumns+` FROM reports r WHERE r.id = $1 FOR UPDATE`, id)
}

func (r *ReportRepo) getOne(ctx context.Context, query string, id int64) (*entity.Report, error) {
	var rep entity.Report
	if err := r.q.QueryRow(ctx, query, id).Scan(reportDest(&rep)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &rep, nil
}

// GetViewByID obtiene el reporte con nombres de catálogo y autor.
func (r *ReportRepo) GetViewByID(ctx context.Context, id int64) (*entity.ReportView, error) {
	var v entity.ReportView
	err := r.q.QueryRow(ctx, reportViewQuery+` WHERE r.id = $1`, id).Scan(viewDest(&v)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report view: %w", err)
	}
	return &v, nil
}

// ListViews lista todos los reportes, más recientes primero.
func (r *ReportRepo) ListViews(ctx context.Context) ([]*entity.ReportView, error) {
	return r.listViews(ctx, reportViewQuery+` ORDER BY r.created_at DESC, r.id DESC`)
}

// ListViewsByOwner lista los reportes de un trabajador, más recientes primero.
func (r *ReportRepo) ListViewsByOwner(ctx context.Context, rut int64) ([]*entity.ReportView, error) {
	return r.listViews(ctx, reportViewQuery+` WHERE r.owner_rut = $1 ORDER BY r.created_at DESC, r.id DESC`, rut)
}

func (r *ReportRepo) listViews(ctx context.Context, query string, args ...any) ([]*entity.ReportView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReportView
	for rows.Next() {
		var v entity.ReportView
		if err := rows.Scan(viewDest(&v)...); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// UpdateState cambia el estado actual y la hora de actualización.
func (r *ReportRepo) UpdateState(ctx context.Context, id int64, stateID int, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE reports SET state_id = $2, updated_at = $3 WHERE id = $1`,
		id, stateID, updatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: estado %d", domain.ErrInvalidReference, stateID)
		}
		return fmt.Errorf("update report state: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func reportDest(rep *entity.Report) []any {
	return []any{
		&rep.ID, &rep.Title, &rep.Description, &rep.ReportDate, &rep.ClientUUID, &rep.CreatedAt,
		&rep.SyncedAt, &rep.UpdatedAt, &rep.IdempotencyKey, &rep.OwnerRUT, &rep.SeverityID,
		&rep.AreaID, &rep.StateID,
	}
}

func viewDest(v *entity.ReportView) []any {
	return append(reportDest(&v.Report), &v.AreaName, &v.SeverityName, &v.StateName, &v.OwnerName)
}
