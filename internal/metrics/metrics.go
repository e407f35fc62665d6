// Package metrics exposes prometheus instrumentation for the bootstrap
// engine. The collector doubles as a progress observer, so wiring it in never
// touches engine logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"graphboot/domain/core"
	"graphboot/ports"
)

// Collector implements ports.ProgressObserver and records run/replicate
// counters. Advisory only.
type Collector struct {
	replicates *prometheus.CounterVec
	groups     *prometheus.CounterVec
	runs       prometheus.Counter
	failures   prometheus.Counter
	duration   prometheus.Histogram
}

var _ ports.ProgressObserver = (*Collector)(nil)

// NewCollector creates and registers the engine collectors on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		replicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphboot",
			Name:      "replicates_completed_total",
			Help:      "Bootstrap replicates completed, by group.",
		}, []string{"group"}),
		groups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphboot",
			Name:      "groups_completed_total",
			Help:      "Group bootstraps completed, by group.",
		}, []string{"group"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphboot",
			Name:      "runs_total",
			Help:      "Bootstrap runs completed successfully.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphboot",
			Name:      "run_failures_total",
			Help:      "Bootstrap runs aborted by an error.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graphboot",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of complete bootstrap runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
	reg.MustRegister(c.replicates, c.groups, c.runs, c.failures, c.duration)
	return c
}

// ReplicateDone implements ports.ProgressObserver.
func (c *Collector) ReplicateDone(group core.GroupID, _, _ int) {
	c.replicates.WithLabelValues(group.String()).Inc()
}

// GroupDone implements ports.ProgressObserver.
func (c *Collector) GroupDone(group core.GroupID) {
	c.groups.WithLabelValues(group.String()).Inc()
}

// RunFinished records one finished run.
func (c *Collector) RunFinished(seconds float64, err error) {
	if err != nil {
		c.failures.Inc()
		return
	}
	c.runs.Inc()
	c.duration.Observe(seconds)
}
