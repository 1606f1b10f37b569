package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

var _ repository.WorkerRepository = (*WorkerRepo)(nil)

const workerColumns = `rut, first_name, last_name_1, last_name_2, password_hash, role_id, employment_status_id, must_change_password`

// WorkerRepo implementación del puerto WorkerRepository sobre PostgreSQL (usable con pool o tx).
type WorkerRepo struct {
	q Querier
}

// NewWorkerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkerRepository(q Querier) *WorkerRepo {
	return &WorkerRepo{q: q}
}

// Create persiste un nuevo trabajador. RUT repetido -> domain.ErrDuplicateRUT.
func (r *WorkerRepo) Create(ctx context.Context, w *entity.Worker) error {
	query := `
		INSERT INTO workers (` + workerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		w.RUT, w.FirstName, w.LastName1, nullableString(w.LastName2), w.PasswordHash,
		int(w.RoleID), int(w.EmploymentStatusID), w.MustChangePassword,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRUT
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cargo o estado de trabajador", domain.ErrInvalidReference)
		}
		return fmt.Errorf("insert worker: %w", err)
	}
	return nil
}

// GetByRUT obtiene un trabajador por RUT; (nil, nil) si no existe.
func (r *WorkerRepo) GetByRUT(ctx context.Context, rut int64) (*entity.Worker, error) {
	return r.getOne(ctx, `SELECT `+workerColumns+` FROM workers WHERE rut = $1`, rut)
}

// GetByRUTForUpdate igual que GetByRUT pero bloquea la fila hasta el fin de la transacción.
func (r *WorkerRepo) GetByRUTForUpdate(ctx context.Context, rut int64) (*entity.Worker, error) {
	return r.getOne(ctx, `SELECT `+workerColumns+` FROM workers WHERE rut = $1 FOR UPDATE`, rut)
}

func (r *WorkerRepo) getOne(ctx context.Context, query string, rut int64) (*entity.Worker, error) {
	w, err := scanWorker(r.q.QueryRow(ctx, query, rut))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get worker: %w", err)
	}
	return w, nil
}

// List lista todos los trabajadores ordenados por apellido.
func (r *WorkerRepo) List(ctx context.Context) ([]*entity.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers ORDER BY last_name_1, first_name, rut`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// UpdateCredentials reemplaza el hash y el flag de cambio obligatorio.
func (r *WorkerRepo) UpdateCredentials(ctx context.Context, rut int64, passwordHash string, mustChangePassword bool) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE workers SET password_hash = $2, must_change_password = $3 WHERE rut = $1`,
		rut, passwordHash, mustChangePassword,
	)
	if err != nil {
		return fmt.Errorf("update worker credentials: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrWorkerNotFound
	}
	return nil
}

// UpdateEmploymentStatus cambia el estado laboral. Estado inexistente -> domain.ErrInvalidReference.
func (r *WorkerRepo) UpdateEmploymentStatus(ctx context.Context, rut int64, status entity.EmploymentStatusID) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE workers SET employment_status_id = $2 WHERE rut = $1`,
		rut, int(status),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: estado de trabajador %d", domain.ErrInvalidReference, status)
		}
		return fmt.Errorf("update worker status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrWorkerNotFound
	}
	return nil
}

func scanWorker(row pgx.Row) (*entity.Worker, error) {
	var (
		w         entity.Worker
		lastName2 *string
		roleID    int
		statusID  int
	)
	if err := row.Scan(&w.RUT, &w.FirstName, &w.LastName1, &lastName2, &w.PasswordHash,
		&roleID, &statusID, &w.MustChangePassword); err != nil {
		return nil, err
	}
	w.LastName2 = stringOrEmpty(lastName2)
	w.RoleID = entity.RoleID(roleID)
	w.EmploymentStatusID = entity.EmploymentStatusID(statusID)
	return &w, nil
}
