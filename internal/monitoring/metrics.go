package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AnalysesTotal       *prometheus.CounterVec
	DeepScansTotal      *prometheus.CounterVec
	CompetitorsAnalyzed prometheus.Counter
}

// NewMetrics registers the application metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscope_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brandscope_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscope_analyses_total",
			Help: "Brand analyses served, by outcome.",
		}, []string{"outcome"}), // cache_hit, fresh, error
		DeepScansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscope_deep_scans_total",
			Help: "Deep scans run, by outcome.",
		}, []string{"outcome"}), // success, no_competitors, exhausted, error
		CompetitorsAnalyzed: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandscope_competitors_analyzed_total",
			Help: "Competitor pages analyzed successfully.",
		}),
	}
}

// IncAnalysis counts one brand analysis. A nil Metrics is a no-op.
func (m *Metrics) IncAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
}

// IncDeepScan counts one deep scan by outcome
func (m *Metrics) IncDeepScan(outcome string) {
	if m == nil {
		return
	}
	m.DeepScansTotal.WithLabelValues(outcome).Inc()
}

// AddCompetitors adds n successfully analyzed competitor pages
func (m *Metrics) AddCompetitors(n int) {
	if m == nil {
		return
	}
	m.CompetitorsAnalyzed.Add(float64(n))
}
