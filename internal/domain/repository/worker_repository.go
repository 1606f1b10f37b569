package repository

import (
	"context"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

// WorkerRepository define el puerto de persistencia para Worker (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el trabajador no existe.
type WorkerRepository interface {
	Create(ctx context.Context, w *entity.Worker) error
	GetByRUT(ctx context.Context, rut int64) (*entity.Worker, error)
	// GetByRUTForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una tx.
	GetByRUTForUpdate(ctx context.Context, rut int64) (*entity.Worker, error)
	List(ctx context.Context) ([]*entity.Worker, error)
	UpdateCredentials(ctx context.Context, rut int64, passwordHash string, mustChangePassword bool) error
	UpdateEmploymentStatus(ctx context.Context, rut int64, status entity.EmploymentStatusID) error
}
