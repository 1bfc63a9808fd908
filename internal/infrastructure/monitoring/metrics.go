package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/codejudge/internal/evaluator"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Evaluation metrics
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	TestCasesTotal     *prometheus.CounterVec
	SafetyFindings     *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for JSON responses.
type Snapshot struct {
	TotalRequests    int64   `json:"totalRequests"`
	TotalErrors      int64   `json:"totalErrors"`
	Evaluations      int64   `json:"evaluations"`
	AllPassed        int64   `json:"allPassed"`
	Aborted          int64   `json:"aborted"`
	AverageLatencyMs float64 `json:"averageLatencyMs"`
	UptimeSeconds    float64 `json:"uptimeSeconds"`

	evaluationMs float64
}

// NewMetrics creates a metrics collector on its own registry, so several
// collectors can coexist in one process.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	m := &Metrics{
		registry:  registry,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_evaluations_total",
				Help: "Evaluations by outcome: passed, failed, or the stage that aborted the run",
			},
			[]string{"outcome"},
		),
		EvaluationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "judge_evaluation_duration_seconds",
				Help:    "Wall time of whole evaluations in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
			},
		),
		TestCasesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_test_cases_total",
				Help: "Executed test cases by result: passed, failed or error",
			},
			[]string{"result"},
		),
		SafetyFindings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_safety_findings_total",
				Help: "Safety scanner findings by pattern and severity",
			},
			[]string{"pattern", "severity"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "judge_uptime_seconds",
			Help: "Seconds since the metrics collector was created",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// ObserveEvaluation records a finished evaluation. It satisfies
// evaluator.Observer.
func (m *Metrics) ObserveEvaluation(report *evaluator.Report, findings []evaluator.SafetyFinding) {
	m.EvaluationsTotal.WithLabelValues(Outcome(report)).Inc()
	m.EvaluationDuration.Observe(report.DurationMs / 1000)

	for _, res := range report.Results {
		switch {
		case res.Passed:
			m.TestCasesTotal.WithLabelValues("passed").Inc()
		case res.Error != "":
			m.TestCasesTotal.WithLabelValues("error").Inc()
		default:
			m.TestCasesTotal.WithLabelValues("failed").Inc()
		}
	}
	for _, f := range findings {
		m.SafetyFindings.WithLabelValues(f.Pattern, string(f.Severity)).Inc()
	}

	m.mu.Lock()
	m.snapshot.Evaluations++
	m.snapshot.evaluationMs += report.DurationMs
	if report.AllPassed {
		m.snapshot.AllPassed++
	}
	if report.Aborted() {
		m.snapshot.Aborted++
	}
	m.mu.Unlock()
}

// Outcome is the evaluations_total label for a report.
func Outcome(report *evaluator.Report) string {
	switch {
	case report.Aborted():
		return string(report.Stage)
	case report.AllPassed:
		return "passed"
	default:
		return "failed"
	}
}

// Snapshot returns the running totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.Evaluations > 0 {
		s.AverageLatencyMs = s.evaluationMs / float64(s.Evaluations)
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
