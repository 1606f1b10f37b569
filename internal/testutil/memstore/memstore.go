// Package memstore implementa los puertos de persistencia en memoria para tests.
// Las transacciones toman el lock global y restauran una copia del estado si fn falla,
// así los tests pueden verificar atomicidad y unicidad igual que contra PostgreSQL.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

type tables struct {
	workers     map[int64]entity.Worker
	reports     map[int64]entity.Report
	audit       []entity.AuditEntry
	areas       []entity.CatalogItem
	severities  []entity.CatalogItem
	states      []entity.CatalogItem
	roles       []entity.CatalogItem
	empStatuses []entity.CatalogItem
	transitions []entity.StateTransition
	nextReport  int64
	nextAudit   int64
}

func (t *tables) clone() *tables {
	c := *t
	c.workers = make(map[int64]entity.Worker, len(t.workers))
	for k, v := range t.workers {
		c.workers[k] = v
	}
	c.reports = make(map[int64]entity.Report, len(t.reports))
	for k, v := range t.reports {
		c.reports[k] = v
	}
	c.audit = append([]entity.AuditEntry(nil), t.audit...)
	c.transitions = append([]entity.StateTransition(nil), t.transitions...)
	return &c
}

// Store estado en memoria compartido por todos los repos.
type Store struct {
	mu sync.Mutex
	t  *tables

	// CatalogCalls cuenta las operaciones de lectura de catálogos (para tests de caché).
	CatalogCalls int
}

// New crea un store con los catálogos y el grafo por defecto.
func New() *Store {
	return &Store{t: &tables{
		workers: make(map[int64]entity.Worker),
		reports: make(map[int64]entity.Report),
		areas: []entity.CatalogItem{
			{ID: 1, Name: "Mina rajo"}, {ID: 2, Name: "Mina subterránea"}, {ID: 3, Name: "Planta concentradora"},
		},
		severities: []entity.CatalogItem{
			{ID: 1, Name: "Baja"}, {ID: 2, Name: "Media"}, {ID: 3, Name: "Alta"}, {ID: 4, Name: "Crítica"},
		},
		states: []entity.CatalogItem{
			{ID: 1, Name: "Abierto"}, {ID: 2, Name: "En revisión"}, {ID: 3, Name: "Resuelto"}, {ID: 4, Name: "Cerrado"},
		},
		roles:       []entity.CatalogItem{{ID: 1, Name: "Administrador"}, {ID: 2, Name: "Trabajador"}},
		empStatuses: []entity.CatalogItem{{ID: 1, Name: "Activo"}, {ID: 2, Name: "Inactivo"}},
		transitions: []entity.StateTransition{
			{ID: 1, FromState: 1, ToState: 2}, {ID: 2, FromState: 2, ToState: 1},
			{ID: 3, FromState: 2, ToState: 3}, {ID: 4, FromState: 3, ToState: 2},
			{ID: 5, FromState: 3, ToState: 4}, {ID: 6, FromState: 4, ToState: 1},
		},
		nextReport: 1,
		nextAudit:  1,
	}}
}

func (s *Store) locked() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

func noLock() func() { return func() {} }

// Workers repo fuera de transacción.
func (s *Store) Workers() repository.WorkerRepository { return workerRepo{s: s, lock: s.locked} }

// Reports repo fuera de transacción.
func (s *Store) Reports() repository.ReportRepository { return reportRepo{s: s, lock: s.locked} }

// Audit repo fuera de transacción.
func (s *Store) Audit() repository.AuditRepository { return auditRepo{s: s, lock: s.locked} }

// Catalogs repo fuera de transacción.
func (s *Store) Catalogs() repository.CatalogRepository { return catalogRepo{s: s, lock: s.locked} }

// Dashboard conteos de solo lectura.
func (s *Store) Dashboard() repository.DashboardRepository { return dashboardRepo{s: s} }

// RunWorkers implementa auth.TxRunner.
func (s *Store) RunWorkers(_ context.Context, fn func(repository.WorkerRepository) error) error {
	return s.inTx(func() error { return fn(workerRepo{s: s, lock: noLock}) })
}

// RunReports implementa reports.TxRunner.
func (s *Store) RunReports(_ context.Context, fn func(repository.ReportRepository, repository.AuditRepository, repository.CatalogRepository) error) error {
	return s.inTx(func() error {
		return fn(reportRepo{s: s, lock: noLock}, auditRepo{s: s, lock: noLock}, catalogRepo{s: s, lock: noLock})
	})
}

func (s *Store) inTx(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.t.clone()
	if err := fn(); err != nil {
		s.t = snapshot
		return err
	}
	return nil
}

// SeedWorker crea un trabajador activo con la contraseña indicada (bcrypt.MinCost).
func (s *Store) SeedWorker(rut int64, password string, role entity.RoleID, mustChange bool) entity.Worker {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	w := entity.Worker{
		RUT:                rut,
		FirstName:          "Nombre",
		LastName1:          "Apellido",
		PasswordHash:       string(hash),
		RoleID:             role,
		EmploymentStatusID: entity.EmploymentStatusActive,
		MustChangePassword: mustChange,
	}
	s.PutWorker(w)
	return w
}

// PutWorker inserta o reemplaza un trabajador (setup de tests).
func (s *Store) PutWorker(w entity.Worker) {
	defer s.locked()()
	s.t.workers[w.RUT] = w
}

// PutReport inserta un reporte con su ID tal cual (setup de tests).
func (s *Store) PutReport(r entity.Report) {
	defer s.locked()()
	s.t.reports[r.ID] = r
	if r.ID >= s.t.nextReport {
		s.t.nextReport = r.ID + 1
	}
}

// Report devuelve una copia del reporte guardado.
func (s *Store) Report(id int64) (entity.Report, bool) {
	defer s.locked()()
	r, ok := s.t.reports[id]
	return r, ok
}

// Worker devuelve una copia del trabajador guardado.
func (s *Store) Worker(rut int64) (entity.Worker, bool) {
	defer s.locked()()
	w, ok := s.t.workers[rut]
	return w, ok
}

// AuditEntries devuelve todas las entradas de bitácora del reporte.
func (s *Store) AuditEntries(reportID int64) []entity.AuditEntry {
	defer s.locked()()
	var out []entity.AuditEntry
	for _, e := range s.t.audit {
		if e.ReportID == reportID {
			out = append(out, e)
		}
	}
	return out
}

// CountByClientUUID cuenta reportes con el UUID de cliente indicado.
func (s *Store) CountByClientUUID(uuid string) int {
	defer s.locked()()
	n := 0
	for _, r := range s.t.reports {
		if r.ClientUUID == uuid {
			n++
		}
	}
	return n
}

func hasItem(items []entity.CatalogItem, id int) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func itemName(items []entity.CatalogItem, id int) string {
	for _, it := range items {
		if it.ID == id {
			return it.Name
		}
	}
	return ""
}

// ── Workers ───────────────────────────────────────────────────────────────────

type workerRepo struct {
	s    *Store
	lock func() func()
}

func (r workerRepo) Create(_ context.Context, w *entity.Worker) error {
	defer r.lock()()
	t := r.s.t
	if _, ok := t.workers[w.RUT]; ok {
		return domain.ErrDuplicateRUT
	}
	if !hasItem(t.roles, int(w.RoleID)) || !hasItem(t.empStatuses, int(w.EmploymentStatusID)) {
		return domain.ErrInvalidReference
	}
	t.workers[w.RUT] = *w
	return nil
}

func (r workerRepo) GetByRUT(_ context.Context, rut int64) (*entity.Worker, error) {
	defer r.lock()()
	w, ok := r.s.t.workers[rut]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r workerRepo) GetByRUTForUpdate(ctx context.Context, rut int64) (*entity.Worker, error) {
	return r.GetByRUT(ctx, rut)
}

func (r workerRepo) List(_ context.Context) ([]*entity.Worker, error) {
	defer r.lock()()
	out := make([]*entity.Worker, 0, len(r.s.t.workers))
	for _, w := range r.s.t.workers {
		w := w
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName1 != out[j].LastName1 {
			return out[i].LastName1 < out[j].LastName1
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].RUT < out[j].RUT
	})
	return out, nil
}

func (r workerRepo) UpdateCredentials(_ context.Context, rut int64, hash string, mustChange bool) error {
	defer r.lock()()
	w, ok := r.s.t.workers[rut]
	if !ok {
		return domain.ErrWorkerNotFound
	}
	w.PasswordHash = hash
	w.MustChangePassword = mustChange
	r.s.t.workers[rut] = w
	return nil
}

func (r workerRepo) UpdateEmploymentStatus(_ context.Context, rut int64, status entity.EmploymentStatusID) error {
	defer r.lock()()
	w, ok := r.s.t.workers[rut]
	if !ok {
		return domain.ErrWorkerNotFound
	}
	if !hasItem(r.s.t.empStatuses, int(status)) {
		return domain.ErrInvalidReference
	}
	w.EmploymentStatusID = status
	r.s.t.workers[rut] = w
	return nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

type reportRepo struct {
	s    *Store
	lock func() func()
}

func (r reportRepo) Create(_ context.Context, rep *entity.Report) error {
	defer r.lock()()
	t := r.s.t
	for _, existing := range t.reports {
		if existing.ClientUUID == rep.ClientUUID {
			return domain.ErrDuplicateClientUUID
		}
	}
	if !hasItem(t.areas, rep.AreaID) || !hasItem(t.severities, rep.SeverityID) || !hasItem(t.states, rep.StateID) {
		return domain.ErrInvalidReference
	}
	if rep.OwnerRUT != nil {
		if _, ok := t.workers[*rep.OwnerRUT]; !ok {
			return domain.ErrInvalidReference
		}
	}
	rep.ID = t.nextReport
	t.nextReport++
	t.reports[rep.ID] = *rep
	return nil
}

func (r reportRepo) GetByID(_ context.Context, id int64) (*entity.Report, error) {
	defer r.lock()()
	rep, ok := r.s.t.reports[id]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

func (r reportRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Report, error) {
	return r.GetByID(ctx, id)
}

func (r reportRepo) GetViewByID(_ context.Context, id int64) (*entity.ReportView, error) {
	defer r.lock()()
	rep, ok := r.s.t.reports[id]
	if !ok {
		return nil, nil
	}
	return r.view(rep), nil
}

func (r reportRepo) ListViews(_ context.Context) ([]*entity.ReportView, error) {
	defer r.lock()()
	return r.list(func(entity.Report) bool { return true }), nil
}

func (r reportRepo) ListViewsByOwner(_ context.Context, rut int64) ([]*entity.ReportView, error) {
	defer r.lock()()
	return r.list(func(rep entity.Report) bool { return rep.IsOwnedBy(rut) }), nil
}

func (r reportRepo) UpdateState(_ context.Context, id int64, stateID int, updatedAt time.Time) error {
	defer r.lock()()
	rep, ok := r.s.t.reports[id]
	if !ok {
		return domain.ErrReportNotFound
	}
	if !hasItem(r.s.t.states, stateID) {
		return domain.ErrInvalidReference
	}
	rep.StateID = stateID
	rep.UpdatedAt = updatedAt
	r.s.t.reports[id] = rep
	return nil
}

func (r reportRepo) list(keep func(entity.Report) bool) []*entity.ReportView {
	var out []*entity.ReportView
	for _, rep := range r.s.t.reports {
		if keep(rep) {
			out = append(out, r.view(rep))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r reportRepo) view(rep entity.Report) *entity.ReportView {
	t := r.s.t
	v := &entity.ReportView{
		Report:       rep,
		AreaName:     itemName(t.areas, rep.AreaID),
		SeverityName: itemName(t.severities, rep.SeverityID),
		StateName:    itemName(t.states, rep.StateID),
	}
	if rep.OwnerRUT != nil {
		if w, ok := t.workers[*rep.OwnerRUT]; ok {
			v.OwnerName = w.FullName()
		}
	}
	return v
}

// ── Audit ─────────────────────────────────────────────────────────────────────

type auditRepo struct {
	s    *Store
	lock func() func()
}

func (r auditRepo) Append(_ context.Context, e *entity.AuditEntry) error {
	defer r.lock()()
	t := r.s.t
	if _, ok := t.reports[e.ReportID]; !ok {
		return domain.ErrInvalidReference
	}
	e.ID = t.nextAudit
	t.nextAudit++
	t.audit = append(t.audit, *e)
	return nil
}

func (r auditRepo) ListByReport(_ context.Context, reportID int64) ([]*entity.AuditEntry, error) {
	defer r.lock()()
	var out []*entity.AuditEntry
	for _, e := range r.s.t.audit {
		if e.ReportID == reportID {
			e := e
			e.StateName = itemName(r.s.t.states, e.StateID)
			out = append(out, &e)
		}
	}
	return out, nil
}

// ── Catalogs ──────────────────────────────────────────────────────────────────

type catalogRepo struct {
	s    *Store
	lock func() func()
}

func (r catalogRepo) items(pick func(*tables) []entity.CatalogItem) ([]entity.CatalogItem, error) {
	defer r.lock()()
	r.s.CatalogCalls++
	return append([]entity.CatalogItem{}, pick(r.s.t)...), nil
}

func (r catalogRepo) ListAreas(context.Context) ([]entity.CatalogItem, error) {
	return r.items(func(t *tables) []entity.CatalogItem { return t.areas })
}

func (r catalogRepo) ListSeverities(context.Context) ([]entity.CatalogItem, error) {
	return r.items(func(t *tables) []entity.CatalogItem { return t.severities })
}

func (r catalogRepo) ListReportStates(context.Context) ([]entity.CatalogItem, error) {
	return r.items(func(t *tables) []entity.CatalogItem { return t.states })
}

func (r catalogRepo) ListRoles(context.Context) ([]entity.CatalogItem, error) {
	return r.items(func(t *tables) []entity.CatalogItem { return t.roles })
}

func (r catalogRepo) ListEmploymentStatuses(context.Context) ([]entity.CatalogItem, error) {
	return r.items(func(t *tables) []entity.CatalogItem { return t.empStatuses })
}

func (r catalogRepo) ReportStateExists(_ context.Context, id int) (bool, error) {
	defer r.lock()()
	return hasItem(r.s.t.states, id), nil
}

func (r catalogRepo) ListTransitions(context.Context) ([]entity.StateTransition, error) {
	defer r.lock()()
	return append([]entity.StateTransition(nil), r.s.t.transitions...), nil
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

type dashboardRepo struct {
	s *Store
}

func (r dashboardRepo) CountByState(context.Context) ([]repository.CountResult, error) {
	return r.countBy(func(t *tables) []entity.CatalogItem { return t.states }, func(rep entity.Report) int { return rep.StateID })
}

func (r dashboardRepo) CountBySeverity(context.Context) ([]repository.CountResult, error) {
	return r.countBy(func(t *tables) []entity.CatalogItem { return t.severities }, func(rep entity.Report) int { return rep.SeverityID })
}

func (r dashboardRepo) CountByArea(context.Context) ([]repository.CountResult, error) {
	return r.countBy(func(t *tables) []entity.CatalogItem { return t.areas }, func(rep entity.Report) int { return rep.AreaID })
}

func (r dashboardRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	defer r.s.locked()()
	n := 0
	for _, rep := range r.s.t.reports {
		if !rep.CreatedAt.Before(from) && rep.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r dashboardRepo) countBy(items func(*tables) []entity.CatalogItem, key func(entity.Report) int) ([]repository.CountResult, error) {
	defer r.s.locked()()
	counts := make(map[int]int)
	for _, rep := range r.s.t.reports {
		counts[key(rep)]++
	}
	out := make([]repository.CountResult, 0)
	for _, it := range items(r.s.t) {
		out = append(out, repository.CountResult{ID: it.ID, Name: it.Name, Count: counts[it.ID]})
	}
	return out, nil
}
