package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config labels every series of the service.
type Config struct {
	ServiceName string
	Environment string
}

// PrintMetrics records print jobs and printer connections. A nil
// *PrintMetrics is valid and records nothing.
type PrintMetrics struct {
	jobs            *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	connectAttempts *prometheus.CounterVec
	cachedHandles   prometheus.Gauge
}

// NewPrintMetrics creates the collectors and registers them with registerer.
func NewPrintMetrics(registerer prometheus.Registerer, cfg Config) *PrintMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "pos-print-server"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	jobs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "print_jobs_total",
			Help:        "Print jobs handled, by document and outcome.",
			ConstLabels: constLabels,
		},
		[]string{"document", "outcome"}, // success | connection | flush | data
	)

	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "print_job_duration_seconds",
			Help:        "Time from request to printer acknowledgement, including connection.",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			ConstLabels: constLabels,
		},
		[]string{"document"},
	)

	connectAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "printer_connect_attempts_total",
			Help:        "Printer liveness probes made while connecting.",
			ConstLabels: constLabels,
		},
		[]string{"outcome"}, // up | down
	)

	cachedHandles := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "printer_cached_handles",
			Help:        "Printers with a cached live handle.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(jobs, jobDuration, connectAttempts, cachedHandles)

	return &PrintMetrics{
		jobs:            jobs,
		jobDuration:     jobDuration,
		connectAttempts: connectAttempts,
		cachedHandles:   cachedHandles,
	}
}

func (m *PrintMetrics) ObserveJob(document, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(document, outcome).Inc()
	m.jobDuration.WithLabelValues(document).Observe(elapsed.Seconds())
}

func (m *PrintMetrics) IncConnectAttempt(ok bool) {
	if m == nil {
		return
	}
	outcome := "down"
	if ok {
		outcome = "up"
	}
	m.connectAttempts.WithLabelValues(outcome).Inc()
}

func (m *PrintMetrics) SetCachedHandles(n int) {
	if m == nil {
		return
	}
	m.cachedHandles.Set(float64(n))
}
