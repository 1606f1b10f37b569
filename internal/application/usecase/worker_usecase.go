package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/access"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// WorkerUseCase gestión de trabajadores. Todas las operaciones exigen administrador.
type WorkerUseCase struct {
	repo repository.WorkerRepository
}

// NewWorkerUseCase construye el caso de uso con el puerto de persistencia.
func NewWorkerUseCase(repo repository.WorkerRepository) *WorkerUseCase {
	return &WorkerUseCase{repo: repo}
}

// CreateWorker registra un trabajador con contraseña inicial = últimos 4 dígitos del RUT
// y cambio obligatorio en el primer inicio de sesión.
func (uc *WorkerUseCase) CreateWorker(ctx context.Context, admin *entity.Worker, in dto.CreateWorkerRequest) (*dto.WorkerResponse, error) {
	if err := access.RequireAdmin(admin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Apellido1) == "" {
		return nil, fmt.Errorf("%w: nombre y primer apellido son obligatorios", domain.ErrInvalidInput)
	}
	status := entity.EmploymentStatusID(in.IDEstadoTrabajador)
	if status == 0 {
		status = entity.EmploymentStatusActive
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(entity.InitialPassword(in.RUT)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("crear trabajador: hash: %w", err)
	}
	w := &entity.Worker{
		RUT:                in.RUT,
		FirstName:          strings.TrimSpace(in.Nombre),
		LastName1:          strings.TrimSpace(in.Apellido1),
		LastName2:          strings.TrimSpace(in.Apellido2),
		PasswordHash:       string(hash),
		RoleID:             entity.RoleID(in.IDCargo),
		EmploymentStatusID: status,
		MustChangePassword: true,
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return toWorkerResponse(w), nil
}

// ListWorkers lista todos los trabajadores ordenados por apellido.
func (uc *WorkerUseCase) ListWorkers(ctx context.Context, admin *entity.Worker) ([]dto.WorkerResponse, error) {
	if err := access.RequireAdmin(admin); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar trabajadores: %w", err)
	}
	out := make([]dto.WorkerResponse, 0, len(list))
	for _, w := range list {
		out = append(out, *toWorkerResponse(w))
	}
	return out, nil
}

// UpdateWorkerStatus cambia el estado laboral y devuelve el trabajador actualizado.
func (uc *WorkerUseCase) UpdateWorkerStatus(ctx context.Context, admin *entity.Worker, rut int64, in dto.UpdateWorkerStatusRequest) (*dto.WorkerResponse, error) {
	if err := access.RequireAdmin(admin); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateEmploymentStatus(ctx, rut, entity.EmploymentStatusID(in.IDEstadoTrabajador)); err != nil {
		return nil, err
	}
	w, err := uc.repo.GetByRUT(ctx, rut)
	if err != nil {
		return nil, fmt.Errorf("obtener trabajador: %w", err)
	}
	if w == nil {
		return nil, domain.ErrWorkerNotFound
	}
	return toWorkerResponse(w), nil
}

func toWorkerResponse(w *entity.Worker) *dto.WorkerResponse {
	return &dto.WorkerResponse{
		RUT:                w.RUT,
		Nombre:             w.FirstName,
		Apellido1:          w.LastName1,
		Apellido2:          w.LastName2,
		IDCargo:            int(w.RoleID),
		IDEstadoTrabajador: int(w.EmploymentStatusID),
		PrimerInicioSesion: w.MustChangePassword,
	}
}
