// Package metrics exposes audit results as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "secrets_auditor"

// Recorder implements audit.Recorder on top of a Prometheus registry.
type Recorder struct {
	unused   *prometheus.GaugeVec
	duration prometheus.Histogram
	errors   *prometheus.CounterVec
}

// NewRecorder creates the audit metrics and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		unused: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unused_secrets",
			Help:      "Number of unused secrets found in a namespace by the last audit.",
		}, []string{"namespace"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "audit_duration_seconds",
			Help:      "Time spent auditing a single namespace.",
			Buckets:   prometheus.DefBuckets,
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_errors_total",
			Help:      "Number of failed namespace audits.",
		}, []string{"namespace"}),
	}

	for _, c := range []prometheus.Collector{r.unused, r.duration, r.errors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveAudit records the outcome of a successful namespace audit.
func (r *Recorder) ObserveAudit(ns string, unused int, elapsed time.Duration) {
	r.unused.WithLabelValues(ns).Set(float64(unused))
	r.duration.Observe(elapsed.Seconds())
}

// ObserveError records a failed namespace audit.
func (r *Recorder) ObserveError(ns string) {
	r.errors.WithLabelValues(ns).Inc()
}
