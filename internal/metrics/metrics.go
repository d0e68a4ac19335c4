package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds every collector the service exports. All methods are safe on a
// nil receiver so tests and tools can run without a registry.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	PaymentsRecorded    *prometheus.CounterVec
	AllocatedAmount     *prometheus.CounterVec
	ContractsOriginated *prometheus.CounterVec
	StatusTransitions   *prometheus.CounterVec
	ImportRows          *prometheus.CounterVec
	DashboardCache      *prometheus.CounterVec
}

// New registers the collectors on the default Prometheus registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loans_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loans_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		PaymentsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loans_payments_recorded_total",
			Help: "Payment recording attempts by outcome (active, overdue, paid, rejected)",
		}, []string{"outcome"}),

		AllocatedAmount: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loans_allocated_amount_total",
			Help: "Sum of allocated payment amounts by portion (interest, principal)",
		}, []string{"portion"}),

		ContractsOriginated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loans_contracts_originated_total",
			Help: "Contracts created by source (api, import)",
		}, []string{"source"}),

		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loans_contract_status_transitions_total",
			Help: "Contract status changes by target status and actor kind",
		}, []string{"to", "actor"}),

		ImportRows: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loans_import_rows_total",
			Help: "Imported spreadsheet rows by kind and result",
		}, []string{"kind", "result"}),

		DashboardCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loans_dashboard_cache_total",
			Help: "Dashboard metrics cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) PaymentRecorded(outcome string, interest, principal decimal.Decimal) {
	if m == nil {
		return
	}
	m.PaymentsRecorded.WithLabelValues(outcome).Inc()
	m.AllocatedAmount.WithLabelValues("interest").Add(interest.InexactFloat64())
	m.AllocatedAmount.WithLabelValues("principal").Add(principal.InexactFloat64())
}

func (m *Metrics) PaymentRejected() {
	if m == nil {
		return
	}
	m.PaymentsRecorded.WithLabelValues("rejected").Inc()
}

func (m *Metrics) ContractOriginated(source string) {
	if m == nil {
		return
	}
	m.ContractsOriginated.WithLabelValues(source).Inc()
}

func (m *Metrics) StatusTransition(to, actor string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(to, actor).Inc()
}

func (m *Metrics) ImportRow(kind string, ok bool) {
	if m == nil {
		return
	}
	result := "failed"
	if ok {
		result = "succeeded"
	}
	m.ImportRows.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) DashboardCacheLookup(result string) {
	if m == nil {
		return
	}
	m.DashboardCache.WithLabelValues(result).Inc()
}
