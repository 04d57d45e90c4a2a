package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "caixa"

const (
	familyReports      = "reports_total"
	familyOrders       = "orders_total"
	familyOrderNumbers = "order_numbers_total"
)

// Event is one labeled series of a counter family.
type Event struct {
	family string
	label  string
}

var (
	ReportsGenerated    = Event{familyReports, "generated"}
	ReportCacheHits     = Event{familyReports, "cache_hit"}
	ReportFetchFailures = Event{familyReports, "fetch_failure"}
	ReportExports       = Event{familyReports, "export"}
	OrderNumbersIssued  = Event{familyOrderNumbers, "issued"}
	OrderNumberFailures = Event{familyOrderNumbers, "failed"}
	OrdersCheckedOut    = Event{familyOrders, "checked_out"}
	OrdersCanceled      = Event{familyOrders, "canceled"}
)

var events = []Event{
	ReportsGenerated, ReportCacheHits, ReportFetchFailures, ReportExports,
	OrderNumbersIssued, OrderNumberFailures,
	OrdersCheckedOut, OrdersCanceled,
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry owns a private prometheus registry with the service's counters
// and the report build histogram.
type Registry struct {
	reg         *prometheus.Registry
	counters    map[string]*prometheus.CounterVec
	reportBuild *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		counters: map[string]*prometheus.CounterVec{
			familyReports: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      familyReports,
				Help:      "Report pipeline events by kind.",
			}, []string{"event"}),
			familyOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      familyOrders,
				Help:      "Order lifecycle events by kind.",
			}, []string{"event"}),
			familyOrderNumbers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      familyOrderNumbers,
				Help:      "Order number allocations by result.",
			}, []string{"result"}),
		},
		reportBuild: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_build_duration_seconds",
			Help:      "Time to load inputs and build a report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	r.reg.MustRegister(
		r.counters[familyReports],
		r.counters[familyOrders],
		r.counters[familyOrderNumbers],
		r.reportBuild,
		collectors.NewGoCollector(),
	)

	// Known series start at zero so dashboards see them before the first event.
	for _, e := range events {
		r.counters[e.family].WithLabelValues(e.label)
	}
	return r
}

var Default = NewRegistry()

func (r *Registry) Inc(e Event) {
	r.counters[e.family].WithLabelValues(e.label).Inc()
}

// ObserveReportBuild records a report build; outcome is "ok" or "error".
func (r *Registry) ObserveReportBuild(outcome string, d time.Duration) {
	r.reportBuild.WithLabelValues(outcome).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func Inc(e Event) {
	Default.Inc(e)
}

func ObserveReportBuild(outcome string, d time.Duration) {
	Default.ObserveReportBuild(outcome, d)
}
