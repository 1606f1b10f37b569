package reports_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/application/reports"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/testutil/memstore"
	"github.com/jhoicas/sigra-api/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store      *memstore.Store
	metrics    *metrics.Metrics
	ledger     *reports.LedgerUseCase
	transition *reports.TransitionUseCase
	admin      *entity.Worker
	worker     *entity.Worker
	other      *entity.Worker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	m := metrics.New(prometheus.NewRegistry())
	admin := store.SeedWorker(1, "x", entity.RoleAdministrator, false)
	admin.FirstName, admin.LastName1, admin.LastName2 = "Carla", "Muñoz", "Pérez"
	store.PutWorker(admin)
	worker := store.SeedWorker(2, "x", entity.RoleWorker, false)
	other := store.SeedWorker(3, "x", entity.RoleWorker, false)
	return &fixture{
		store:      store,
		metrics:    m,
		ledger:     reports.NewLedgerUseCase(store.Reports(), store.Audit(), m),
		transition: reports.NewTransitionUseCase(store.Reports(), store.Catalogs(), store, m),
		admin:      &admin,
		worker:     &worker,
		other:      &other,
	}
}

func newRequest(clientUUID string) dto.CreateReportRequest {
	return dto.CreateReportRequest{
		Titulo:       "Derrame de aceite en correa 3",
		FechaReporte: "2026-10-01",
		UUIDCliente:  clientUUID,
		IDSeveridad:  2,
		IDArea:       3,
	}
}

func (f *fixture) putReport(t *testing.T, id int64, owner int64, state int) {
	t.Helper()
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	f.store.PutReport(entity.Report{
		ID: id, Title: "Reporte", ReportDate: created, ClientUUID: uuid.NewString(),
		CreatedAt: created, UpdatedAt: created, OwnerRUT: &owner,
		SeverityID: 1, AreaID: 1, StateID: state,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_EstadoInicialYDueño(t *testing.T) {
	f := newFixture(t)

	resp, err := f.ledger.Submit(context.Background(), f.worker, newRequest(uuid.NewString()))
	require.NoError(t, err)

	rep, ok := f.store.Report(resp.IDReporte)
	require.True(t, ok)
	assert.Equal(t, entity.ReportStateOpen, rep.StateID)
	require.NotNil(t, rep.OwnerRUT)
	assert.Equal(t, f.worker.RUT, *rep.OwnerRUT)
	assert.NotNil(t, rep.SyncedAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReportsSubmitted))
}

func TestSubmit_UUIDDuplicadoEsConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Submit(ctx, f.worker, newRequest("abc-123"))
	require.NoError(t, err)
	_, err = f.ledger.Submit(ctx, f.worker, newRequest("abc-123"))

	assert.ErrorIs(t, err, domain.ErrDuplicateClientUUID)
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, 1, f.store.CountByClientUUID("abc-123"))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DuplicateSubmissions))
}

// Dos envíos concurrentes del mismo UUID: exactamente uno se inserta.
func TestSubmit_UUIDDuplicadoConcurrente(t *testing.T) {
	f := newFixture(t)
	const attempts = 8

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Submit(context.Background(), f.worker, newRequest("abc-123"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicateClientUUID):
			conflicts++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, f.store.CountByClientUUID("abc-123"))
}

func TestSubmit_ANombreDeOtro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := newRequest(uuid.NewString())
	in.RUT = &f.other.RUT
	_, err := f.ledger.Submit(ctx, f.worker, in)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un trabajador no puede reportar a nombre de otro")

	resp, err := f.ledger.Submit(ctx, f.admin, in)
	require.NoError(t, err)
	rep, _ := f.store.Report(resp.IDReporte)
	assert.Equal(t, f.other.RUT, *rep.OwnerRUT)

	own := newRequest(uuid.NewString())
	own.RUT = &f.worker.RUT
	_, err = f.ledger.Submit(ctx, f.worker, own)
	assert.NoError(t, err, "indicar el propio RUT no requiere privilegios")
}

func TestSubmit_EstadoInicialDistintoSoloAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	closed := 4

	in := newRequest(uuid.NewString())
	in.IDEstadoActual = &closed
	_, err := f.ledger.Submit(ctx, f.worker, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, f.store.CountByClientUUID(in.UUIDCliente), "no debe quedar fila")

	resp, err := f.ledger.Submit(ctx, f.admin, in)
	require.NoError(t, err)
	rep, _ := f.store.Report(resp.IDReporte)
	assert.Equal(t, closed, rep.StateID)

	open := entity.ReportStateOpen
	explicit := newRequest(uuid.NewString())
	explicit.IDEstadoActual = &open
	_, err = f.ledger.Submit(ctx, f.worker, explicit)
	assert.NoError(t, err, "indicar Abierto explícitamente no requiere privilegios")
}

func TestSubmit_ValidacionesDeEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := newRequest(uuid.NewString())
	bad.FechaReporte = "01/10/2026"
	_, err := f.ledger.Submit(ctx, f.worker, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	unknownArea := newRequest(uuid.NewString())
	unknownArea.IDArea = 99
	_, err = f.ledger.Submit(ctx, f.worker, unknownArea)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_DueñoYAdminPuedenLeer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putReport(t, 7, f.worker.RUT, 1)

	got, err := f.ledger.Get(ctx, f.worker, 7)
	require.NoError(t, err)
	assert.Equal(t, "Abierto", got.Estado)
	assert.Equal(t, "Mina rajo", got.Area)

	_, err = f.ledger.Get(ctx, f.admin, 7)
	assert.NoError(t, err)

	_, err = f.ledger.Get(ctx, f.other, 7)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.ledger.Get(ctx, f.admin, 404)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestListAll_SoloAdminMasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, owner := range []int64{f.worker.RUT, f.other.RUT, f.worker.RUT} {
		owner := owner
		f.store.PutReport(entity.Report{
			ID: int64(i + 1), Title: "r", ReportDate: base, ClientUUID: uuid.NewString(),
			CreatedAt: base.Add(time.Duration(i) * time.Hour), OwnerRUT: &owner,
			SeverityID: 1, AreaID: 1, StateID: 1,
		})
	}

	_, err := f.ledger.ListAll(ctx, f.worker)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := f.ledger.ListAll(ctx, f.admin)
	require.NoError(t, err)
	require.Equal(t, 3, all.Total)
	assert.Equal(t, int64(3), all.Items[0].IDReporte)
	assert.Equal(t, int64(1), all.Items[2].IDReporte)

	mine, err := f.ledger.ListMine(ctx, f.worker)
	require.NoError(t, err)
	require.Equal(t, 2, mine.Total)
	assert.Equal(t, int64(3), mine.Items[0].IDReporte)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transition
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_AbiertoAEnRevisionConBitacora(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putReport(t, 42, f.worker.RUT, 1)
	before, _ := f.store.Report(42)
	detail := "reviewed by ops"

	resp, err := f.transition.Transition(ctx, f.admin, 42, dto.TransitionRequest{NuevoEstadoID: 2, Detalle: &detail})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.EstadoAnterior)
	assert.Equal(t, 2, resp.IDEstadoActual)

	after, _ := f.store.Report(42)
	assert.Equal(t, 2, after.StateID)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "la hora de actualización debe avanzar")

	entries := f.store.AuditEntries(42)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].StateID)
	require.NotNil(t, entries[0].Detail)
	assert.Equal(t, "reviewed by ops", *entries[0].Detail)
	assert.Equal(t, f.admin.RUT, entries[0].AdminRUT)
	assert.Equal(t, "Carla Muñoz Pérez", entries[0].AdminName)
	assert.Equal(t, resp.IDBitacora, entries[0].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("2")))
}

func TestTransition_AristaInexistenteNoModifica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putReport(t, 42, f.worker.RUT, 1)

	_, err := f.transition.Transition(ctx, f.admin, 42, dto.TransitionRequest{NuevoEstadoID: 4})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	rep, _ := f.store.Report(42)
	assert.Equal(t, 1, rep.StateID)
	assert.Empty(t, f.store.AuditEntries(42))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RejectedTransitions))
}

func TestTransition_EstadoDestinoInexistente(t *testing.T) {
	f := newFixture(t)
	f.putReport(t, 42, f.worker.RUT, 1)

	_, err := f.transition.Transition(context.Background(), f.admin, 42, dto.TransitionRequest{NuevoEstadoID: 99})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_NoAdminRecibeForbidden(t *testing.T) {
	f := newFixture(t)
	f.putReport(t, 42, f.worker.RUT, 1)

	_, err := f.transition.Transition(context.Background(), f.worker, 42, dto.TransitionRequest{NuevoEstadoID: 2})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	rep, _ := f.store.Report(42)
	assert.Equal(t, 1, rep.StateID)
}

func TestTransition_ReporteInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.transition.Transition(context.Background(), f.admin, 404, dto.TransitionRequest{NuevoEstadoID: 2})
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

// Sin estado terminal: un reporte cerrado puede reabrirse y recorrer el ciclo de nuevo.
func TestTransition_CicloCompletoConReapertura(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putReport(t, 5, f.worker.RUT, 1)

	for _, to := range []int{2, 3, 4, 1, 2} {
		_, err := f.transition.Transition(ctx, f.admin, 5, dto.TransitionRequest{NuevoEstadoID: to})
		require.NoError(t, err, "transición a %d", to)
	}
	rep, _ := f.store.Report(5)
	assert.Equal(t, 2, rep.StateID)

	history, err := f.ledger.History(ctx, f.worker, 5)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, "En revisión", history[0].Estado)
	assert.Equal(t, 2, history[4].IDEstadoActual)

	_, err = f.ledger.History(ctx, f.other, 5)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransition_DetalleVacioSeGuardaComoNulo(t *testing.T) {
	f := newFixture(t)
	f.putReport(t, 8, f.worker.RUT, 1)
	blank := "   "

	_, err := f.transition.Transition(context.Background(), f.admin, 8, dto.TransitionRequest{NuevoEstadoID: 2, Detalle: &blank})
	require.NoError(t, err)
	entries := f.store.AuditEntries(8)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Detail)
}

func TestAllowedTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putReport(t, 9, f.worker.RUT, 2)

	resp, err := f.transition.AllowedTransitions(ctx, f.admin, 9)
	require.NoError(t, err)
	require.Len(t, resp.Siguientes, 2)
	assert.Equal(t, dto.CatalogItem{ID: 1, Nombre: "Abierto"}, resp.Siguientes[0])
	assert.Equal(t, dto.CatalogItem{ID: 3, Nombre: "Resuelto"}, resp.Siguientes[1])

	_, err = f.transition.AllowedTransitions(ctx, f.worker, 9)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sheet
// ──────────────────────────────────────────────────────────────────────────────

type stubSheet struct {
	report *entity.ReportView
	trail  []*entity.AuditEntry
}

func (s *stubSheet) GenerateReportSheet(_ context.Context, r *entity.ReportView, trail []*entity.AuditEntry) ([]byte, error) {
	s.report, s.trail = r, trail
	return []byte("%PDF-stub"), nil
}

func TestSheet_DescargaConBitacora(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putReport(t, 11, f.worker.RUT, 1)
	_, err := f.transition.Transition(ctx, f.admin, 11, dto.TransitionRequest{NuevoEstadoID: 2})
	require.NoError(t, err)

	gen := &stubSheet{}
	uc := reports.NewSheetUseCase(f.store.Reports(), f.store.Audit(), gen)

	pdf, name, err := uc.Download(ctx, f.worker, 11)
	require.NoError(t, err)
	assert.Equal(t, "reporte_11.pdf", name)
	assert.Equal(t, []byte("%PDF-stub"), pdf)
	assert.Equal(t, "En revisión", gen.report.StateName)
	assert.Len(t, gen.trail, 1)

	_, _, err = uc.Download(ctx, f.other, 11)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
