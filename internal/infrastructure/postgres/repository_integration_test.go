//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/application/reports"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
	"github.com/jhoicas/sigra-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sigra-api/internal/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	pg         *containers.PostgresContainer
	workers    *postgres.WorkerRepo
	reports    *postgres.ReportRepo
	audit      *postgres.AuditRepo
	catalogs   *postgres.CatalogRepo
	tx         *postgres.TxRunner
	ledger     *reports.LedgerUseCase
	transition *reports.TransitionUseCase
	admin      *entity.Worker
	worker     *entity.Worker
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	pool := s.pg.Pool
	s.workers = postgres.NewWorkerRepository(pool)
	s.reports = postgres.NewReportRepository(pool)
	s.audit = postgres.NewAuditRepository(pool)
	s.catalogs = postgres.NewCatalogRepository(pool)
	s.tx = postgres.NewTxRunner(pool)
	s.ledger = reports.NewLedgerUseCase(s.reports, s.audit, nil)
	s.transition = reports.NewTransitionUseCase(s.reports, s.catalogs, s.tx, nil)

	ctx := context.Background()
	s.admin = &entity.Worker{
		RUT: 11111111, FirstName: "Carla", LastName1: "Muñoz", LastName2: "Pérez",
		PasswordHash: "x", RoleID: entity.RoleAdministrator, EmploymentStatusID: entity.EmploymentStatusActive,
	}
	s.worker = &entity.Worker{
		RUT: 22222222, FirstName: "Luis", LastName1: "Soto",
		PasswordHash: "x", RoleID: entity.RoleWorker, EmploymentStatusID: entity.EmploymentStatusActive,
		MustChangePassword: true,
	}
	s.Require().NoError(s.workers.Create(ctx, s.admin))
	s.Require().NoError(s.workers.Create(ctx, s.worker))
}

func (s *PostgresSuite) submit(clientUUID string) (*dto.CreateReportResponse, error) {
	return s.ledger.Submit(context.Background(), s.worker, dto.CreateReportRequest{
		Titulo:       "Caída de material en rampa",
		FechaReporte: "2026-09-30",
		UUIDCliente:  clientUUID,
		IDSeveridad:  3,
		IDArea:       1,
	})
}

func (s *PostgresSuite) TestWorkers_RUTDuplicadoYSinSegundoApellido() {
	ctx := context.Background()
	err := s.workers.Create(ctx, &entity.Worker{
		RUT: s.worker.RUT, FirstName: "Otro", LastName1: "X", PasswordHash: "x",
		RoleID: entity.RoleWorker, EmploymentStatusID: entity.EmploymentStatusActive,
	})
	s.ErrorIs(err, domain.ErrDuplicateRUT)

	got, err := s.workers.GetByRUT(ctx, s.worker.RUT)
	s.Require().NoError(err)
	s.Equal("", got.LastName2)
	s.True(got.MustChangePassword)

	missing, err := s.workers.GetByRUT(ctx, 1)
	s.NoError(err)
	s.Nil(missing)
}

func (s *PostgresSuite) TestWorkers_EstadoInexistenteEsReferenciaInvalida() {
	err := s.workers.UpdateEmploymentStatus(context.Background(), s.worker.RUT, 99)
	s.ErrorIs(err, domain.ErrInvalidReference)
	err = s.workers.UpdateEmploymentStatus(context.Background(), 1, entity.EmploymentStatusActive)
	s.ErrorIs(err, domain.ErrWorkerNotFound)
}

func (s *PostgresSuite) TestReports_UUIDDuplicadoConcurrente() {
	clientUUID := uuid.NewString()
	const attempts = 6

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.submit(clientUUID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.True(errors.Is(err, domain.ErrDuplicateClientUUID), "error inesperado: %v", err)
	}
	s.Equal(1, ok, "el constraint UNIQUE debe dejar exactamente una fila")
}

func (s *PostgresSuite) TestReports_CatalogoInexistente() {
	_, err := s.ledger.Submit(context.Background(), s.worker, dto.CreateReportRequest{
		Titulo: "x", FechaReporte: "2026-09-30", UUIDCliente: uuid.NewString(), IDSeveridad: 99, IDArea: 1,
	})
	s.ErrorIs(err, domain.ErrInvalidReference)
}

func (s *PostgresSuite) TestReports_VistaConNombres() {
	resp, err := s.submit(uuid.NewString())
	s.Require().NoError(err)

	v, err := s.reports.GetViewByID(context.Background(), resp.IDReporte)
	s.Require().NoError(err)
	s.Equal("Abierto", v.StateName)
	s.Equal("Alta", v.SeverityName)
	s.Equal("Mina rajo", v.AreaName)
	s.Equal("Luis Soto", v.OwnerName)
	s.Equal("2026-09-30", v.ReportDate.Format("2006-01-02"))

	mine, err := s.reports.ListViewsByOwner(context.Background(), s.worker.RUT)
	s.Require().NoError(err)
	s.NotEmpty(mine)
}

func (s *PostgresSuite) TestTransition_AtomicaConBitacora() {
	ctx := context.Background()
	resp, err := s.submit(uuid.NewString())
	s.Require().NoError(err)
	detail := "reviewed by ops"

	ack, err := s.transition.Transition(ctx, s.admin, resp.IDReporte, dto.TransitionRequest{NuevoEstadoID: 2, Detalle: &detail})
	s.Require().NoError(err)

	rep, err := s.reports.GetByID(ctx, resp.IDReporte)
	s.Require().NoError(err)
	s.Equal(2, rep.StateID)

	trail, err := s.audit.ListByReport(ctx, resp.IDReporte)
	s.Require().NoError(err)
	s.Require().Len(trail, 1)
	s.Equal(ack.IDBitacora, trail[0].ID)
	s.Equal("En revisión", trail[0].StateName)
	s.Equal("Carla Muñoz Pérez", trail[0].AdminName)
	s.Equal(detail, *trail[0].Detail)

	_, err = s.transition.Transition(ctx, s.admin, resp.IDReporte, dto.TransitionRequest{NuevoEstadoID: 4})
	s.ErrorIs(err, domain.ErrIllegalTransition)
	rep, _ = s.reports.GetByID(ctx, resp.IDReporte)
	s.Equal(2, rep.StateID)
}

// Si la bitácora falla, el UPDATE del reporte se revierte.
func (s *PostgresSuite) TestTxRunner_RollbackDejaEstadoIntacto() {
	ctx := context.Background()
	resp, err := s.submit(uuid.NewString())
	s.Require().NoError(err)

	err = s.tx.RunReports(ctx, func(r repository.ReportRepository, a repository.AuditRepository, _ repository.CatalogRepository) error {
		if err := r.UpdateState(ctx, resp.IDReporte, 2, time.Now()); err != nil {
			return err
		}
		return a.Append(ctx, &entity.AuditEntry{
			ReportID: resp.IDReporte, StateID: 2, AdminRUT: 1, AdminName: "nadie", CreatedAt: time.Now(),
		})
	})
	s.ErrorIs(err, domain.ErrInvalidReference)

	rep, err := s.reports.GetByID(ctx, resp.IDReporte)
	s.Require().NoError(err)
	s.Equal(entity.ReportStateOpen, rep.StateID)
}

func (s *PostgresSuite) TestCatalogs_SeedYGrafo() {
	ctx := context.Background()
	states, err := s.catalogs.ListReportStates(ctx)
	s.Require().NoError(err)
	s.Len(states, 4)

	edges, err := s.catalogs.ListTransitions(ctx)
	s.Require().NoError(err)
	s.Len(edges, 6)

	ok, err := s.catalogs.ReportStateExists(ctx, 99)
	s.NoError(err)
	s.False(ok)
}

func (s *PostgresSuite) TestDashboard_ConteosIncluyenCatalogosVacios() {
	ctx := context.Background()
	_, err := s.submit(uuid.NewString())
	s.Require().NoError(err)

	dash := postgres.NewDashboardRepository(s.pg.Pool)
	bySeverity, err := dash.CountBySeverity(ctx)
	s.Require().NoError(err)
	s.Require().Len(bySeverity, 4)
	s.Equal("Baja", bySeverity[0].Name)
	s.Positive(bySeverity[2].Count, "los envíos del suite usan severidad Alta")

	byState, err := dash.CountByState(ctx)
	s.Require().NoError(err)
	s.Len(byState, 4)

	now := time.Now()
	n, err := dash.CountCreatedBetween(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	s.Require().NoError(err)
	s.Positive(n)
	n, err = dash.CountCreatedBetween(ctx, now.AddDate(-10, 0, 0), now.AddDate(-9, 0, 0))
	s.Require().NoError(err)
	s.Zero(n)
}
