// Package metrics collects run statistics in a Prometheus registry.
//
// tgr is a short-lived process, so metrics are not served. They are written to
// a file in the Prometheus text format, suitable for the node exporter's
// textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "tgr"

// Prometheus implements ports.Metrics.
type Prometheus struct {
	registry *prometheus.Registry

	tasks        *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	lockWait     prometheus.Histogram
}

var _ ports.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the collectors on a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Tasks processed, by task and outcome.",
		}, []string{"task", "outcome"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Run time of executed tasks.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"task"}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent acquiring task locks.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 10, 6),
		}),
	}
	p.registry.MustRegister(p.tasks, p.taskDuration, p.lockWait)
	return p
}

// Registry returns the registry holding every collector.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// TaskExecuted counts an executed task and observes its duration.
func (p *Prometheus) TaskExecuted(task string, d time.Duration) {
	p.tasks.WithLabelValues(task, "executed").Inc()
	p.taskDuration.WithLabelValues(task).Observe(d.Seconds())
}

// TaskCached counts a task satisfied from the cache.
func (p *Prometheus) TaskCached(task string) {
	p.tasks.WithLabelValues(task, "cached").Inc()
}

// TaskFailed counts a failed task.
func (p *Prometheus) TaskFailed(task string) {
	p.tasks.WithLabelValues(task, "failed").Inc()
}

// LockWaited observes the time a lock acquisition took.
func (p *Prometheus) LockWaited(d time.Duration) {
	p.lockWait.Observe(d.Seconds())
}

// WriteTo writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (p *Prometheus) WriteTo(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}
