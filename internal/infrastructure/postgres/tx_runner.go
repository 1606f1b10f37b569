package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/sigra-api/internal/application/auth"
	"github.com/jhoicas/sigra-api/internal/application/reports"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
)

// Ensure TxRunner implements reports.TxRunner and auth.TxRunner.
var _ reports.TxRunner = (*TxRunner)(nil)
var _ auth.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Una operación lógica (enviar reporte, cambiar estado, cambiar contraseña) = una transacción.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunReports inicia una transacción con los repos de reportes, bitácora y catálogos atados a ella.
func (r *TxRunner) RunReports(ctx context.Context, fn func(
	reportRepo repository.ReportRepository,
	auditRepo repository.AuditRepository,
	catalogRepo repository.CatalogRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewReportRepository(tx), NewAuditRepository(tx), NewCatalogRepository(tx))
	})
}

// RunWorkers inicia una transacción con el repo de trabajadores atado a ella.
func (r *TxRunner) RunWorkers(ctx context.Context, fn func(workerRepo repository.WorkerRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewWorkerRepository(tx))
	})
}

// inTx hace Commit si fn no falla y Rollback en cualquier otro caso (incluido panic).
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
