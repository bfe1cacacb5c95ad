package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for HomeForge runs. A disabled
// instance is a no-op so call sites never need nil checks beyond the
// scheduler's optional wiring.
type Metrics struct {
	config MetricsConfig

	// Task metrics
	tasksCompleted *prometheus.CounterVec
	taskDuration   *prometheus.HistogramVec

	// Resource metrics
	resourceOutcomes *prometheus.CounterVec

	// Run metrics
	runsCompleted *prometheus.CounterVec
	runDuration   prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,
		tasksCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks completed, by terminal status",
			},
			[]string{"task", "status"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "task_duration_seconds",
				Help:      "Task body execution time in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"task"},
		),
		resourceOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resource_outcomes_total",
				Help:      "Total number of resource reconciliations, by verb and outcome",
			},
			[]string{"verb", "outcome"},
		),
		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of runs completed, by result",
			},
			[]string{"result"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Total run wall-clock time in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			},
		),
	}

	registry.MustRegister(
		m.tasksCompleted,
		m.taskDuration,
		m.resourceOutcomes,
		m.runsCompleted,
		m.runDuration,
	)

	return m, nil
}

// TaskCompleted records a task's terminal status and duration.
func (m *Metrics) TaskCompleted(task, status string, duration time.Duration) {
	if m.registry == nil {
		return
	}
	m.tasksCompleted.WithLabelValues(task, status).Inc()
	m.taskDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// ResourceOutcome records one reconciled resource.
func (m *Metrics) ResourceOutcome(verb, outcome string) {
	if m.registry == nil {
		return
	}
	m.resourceOutcomes.WithLabelValues(verb, outcome).Inc()
}

// RunCompleted records a whole run's result and duration.
func (m *Metrics) RunCompleted(result string, duration time.Duration) {
	if m.registry == nil {
		return
	}
	m.runsCompleted.WithLabelValues(result).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// Handler returns the HTTP handler exposing the registry, or nil when
// metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics endpoint when a listen address is
// configured. It returns the server so the caller owns shutdown.
func (m *Metrics) StartServer() *http.Server {
	if m.registry == nil || m.config.ListenAddress == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
