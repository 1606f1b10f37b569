package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/application/usecase"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/testutil/memstore"
)

func setup(t *testing.T) (*usecase.WorkerUseCase, *memstore.Store, *entity.Worker, *entity.Worker) {
	t.Helper()
	store := memstore.New()
	admin := store.SeedWorker(1, "admin-pass", entity.RoleAdministrator, false)
	worker := store.SeedWorker(2, "worker-pass", entity.RoleWorker, false)
	return usecase.NewWorkerUseCase(store.Workers()), store, &admin, &worker
}

func TestCreateWorker_ContraseñaInicialYPrimerInicio(t *testing.T) {
	uc, store, admin, _ := setup(t)

	resp, err := uc.CreateWorker(context.Background(), admin, dto.CreateWorkerRequest{
		RUT: 123456789, Nombre: "Ana", Apellido1: "Rojas", IDCargo: int(entity.RoleWorker),
	})
	require.NoError(t, err)
	assert.True(t, resp.PrimerInicioSesion)
	assert.Equal(t, int(entity.EmploymentStatusActive), resp.IDEstadoTrabajador)

	w, ok := store.Worker(123456789)
	require.True(t, ok)
	assert.True(t, w.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(w.PasswordHash), []byte("6789")),
		"la contraseña inicial son los últimos 4 dígitos del RUT")
}

func TestCreateWorker_RUTDuplicado(t *testing.T) {
	uc, _, admin, _ := setup(t)
	in := dto.CreateWorkerRequest{RUT: 555, Nombre: "Luis", Apellido1: "Soto", IDCargo: 2}

	_, err := uc.CreateWorker(context.Background(), admin, in)
	require.NoError(t, err)
	_, err = uc.CreateWorker(context.Background(), admin, in)
	assert.ErrorIs(t, err, domain.ErrDuplicateRUT)
	assert.True(t, domain.IsConflict(err))
}

func TestCreateWorker_CargoInexistente(t *testing.T) {
	uc, _, admin, _ := setup(t)

	_, err := uc.CreateWorker(context.Background(), admin, dto.CreateWorkerRequest{
		RUT: 777, Nombre: "Luis", Apellido1: "Soto", IDCargo: 99,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestWorkerUseCase_NoAdminRecibeForbidden(t *testing.T) {
	uc, _, _, worker := setup(t)
	ctx := context.Background()

	_, err := uc.CreateWorker(ctx, worker, dto.CreateWorkerRequest{RUT: 9, Nombre: "x", Apellido1: "y", IDCargo: 2})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.ListWorkers(ctx, worker)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.UpdateWorkerStatus(ctx, worker, 1, dto.UpdateWorkerStatusRequest{IDEstadoTrabajador: 2})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListWorkers_OrdenadosPorApellido(t *testing.T) {
	uc, store, admin, _ := setup(t)
	store.PutWorker(entity.Worker{RUT: 10, FirstName: "Zoe", LastName1: "Abarca", RoleID: 2, EmploymentStatusID: 1})

	list, err := uc.ListWorkers(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Abarca", list[0].Apellido1)
}

func TestUpdateWorkerStatus(t *testing.T) {
	uc, _, admin, worker := setup(t)
	ctx := context.Background()

	resp, err := uc.UpdateWorkerStatus(ctx, admin, worker.RUT, dto.UpdateWorkerStatusRequest{IDEstadoTrabajador: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.IDEstadoTrabajador)

	_, err = uc.UpdateWorkerStatus(ctx, admin, 404, dto.UpdateWorkerStatusRequest{IDEstadoTrabajador: 2})
	assert.ErrorIs(t, err, domain.ErrWorkerNotFound)

	_, err = uc.UpdateWorkerStatus(ctx, admin, worker.RUT, dto.UpdateWorkerStatusRequest{IDEstadoTrabajador: 42})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}
