// Package metrics agrupa los contadores Prometheus de la API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contiene todos los colectores registrados por la aplicación.
type Metrics struct {
	Logins               *prometheus.CounterVec
	ReportsSubmitted     prometheus.Counter
	DuplicateSubmissions prometheus.Counter
	Transitions          *prometheus.CounterVec
	RejectedTransitions  prometheus.Counter
	CatalogCache         *prometheus.CounterVec
}

// New registra los colectores en reg. En producción se pasa prometheus.DefaultRegisterer;
// en tests un prometheus.NewRegistry() para evitar registros duplicados.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sigra_logins_total",
			Help: "Intentos de login por resultado",
		}, []string{"result"}),
		ReportsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "sigra_reports_submitted_total",
			Help: "Reportes creados",
		}),
		DuplicateSubmissions: f.NewCounter(prometheus.CounterOpts{
			Name: "sigra_reports_duplicate_uuid_total",
			Help: "Envíos rechazados por UUID de cliente repetido (reintentos de sincronización)",
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sigra_report_transitions_total",
			Help: "Cambios de estado aplicados por estado destino",
		}, []string{"to"}),
		RejectedTransitions: f.NewCounter(prometheus.CounterOpts{
			Name: "sigra_report_transitions_rejected_total",
			Help: "Cambios de estado rechazados por no existir la arista en el grafo",
		}),
		CatalogCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sigra_catalog_cache_total",
			Help: "Lecturas del caché de catálogos (hit|miss|error)",
		}, []string{"result"}),
	}
}

// Nop devuelve métricas registradas en un registry privado, útil cuando no se exponen.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) LoginResult(result string) { m.Logins.WithLabelValues(result).Inc() }

func (m *Metrics) ReportSubmitted() { m.ReportsSubmitted.Inc() }

func (m *Metrics) DuplicateSubmission() { m.DuplicateSubmissions.Inc() }

func (m *Metrics) TransitionApplied(toStateID int) {
	m.Transitions.WithLabelValues(strconv.Itoa(toStateID)).Inc()
}

func (m *Metrics) TransitionRejected() { m.RejectedTransitions.Inc() }

func (m *Metrics) CacheResult(result string) { m.CatalogCache.WithLabelValues(result).Inc() }
