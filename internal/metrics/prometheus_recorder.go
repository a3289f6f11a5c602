package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "texbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry  *prom.Registry
	passes    *prom.CounterVec
	durations *prom.HistogramVec
	runs      *prom.CounterVec
	lastRun   prom.Gauge
}

// NewPrometheusRecorder constructs and registers the collectors on reg, or on
// a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &PrometheusRecorder{
		registry: reg,
		passes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "External tool invocations by step and result.",
		}, []string{"step", "result"}),
		durations: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall time of external tool invocations.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"step"}),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Compile runs by final status and toolchain.",
		}, []string{"status", "toolchain"}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last compile run finished.",
		}),
	}
	r.registry.MustRegister(r.passes, r.durations, r.runs, r.lastRun)
	return r
}

// ObservePass records one external invocation.
func (r *PrometheusRecorder) ObservePass(step, result string, d time.Duration) {
	r.passes.WithLabelValues(step, result).Inc()
	r.durations.WithLabelValues(step).Observe(d.Seconds())
}

// ObserveRun records the end of a compile run.
func (r *PrometheusRecorder) ObserveRun(status, toolchain string, finished time.Time) {
	r.runs.WithLabelValues(status, toolchain).Inc()
	r.lastRun.Set(float64(finished.Unix()))
}

// Gatherer exposes the registry, mainly for tests.
func (r *PrometheusRecorder) Gatherer() prom.Gatherer { return r.registry }

// WriteTextfile atomically writes all metrics in text exposition format.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
