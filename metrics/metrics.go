// Package metrics exports parse outcomes to Prometheus through valigo.Config.Observer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	valigo "github.com/reoring/valigo"
)

// Collector implements valigo.Observer.
type Collector struct {
	parses   *prometheus.CounterVec
	issues   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the valigo metrics on reg (prometheus.DefaultRegisterer when nil).
// Metric names are prefixed with namespace when it is not empty.
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		parses: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "valigo_parses_total",
				Help:      "Top-level parses by schema type and outcome",
			},
			[]string{"schema", "outcome"},
		),
		issues: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "valigo_issues_total",
				Help:      "Issues reported by top-level parses, by kind and issue type",
			},
			[]string{"kind", "type"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "valigo_parse_duration_seconds",
				Help:      "Duration of top-level parses",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"schema"},
		),
	}
}

// ParseDone implements valigo.Observer.
func (c *Collector) ParseDone(schemaType string, issues valigo.Issues, elapsed time.Duration) {
	outcome := "success"
	if len(issues) > 0 {
		outcome = "failure"
	}
	c.parses.WithLabelValues(schemaType, outcome).Inc()
	c.duration.WithLabelValues(schemaType).Observe(elapsed.Seconds())
	for _, it := range issues {
		c.issues.WithLabelValues(string(it.Kind), it.Type).Inc()
	}
}
