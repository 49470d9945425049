// Package metrics counts batch runs and commits. Counters live in a
// private registry and are written to a node-exporter textfile at the end
// of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/command"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/store"
)

// Recorder collects the batchedit metrics.
type Recorder struct {
	registry *prometheus.Registry

	commands       *prometheus.CounterVec
	transactions   *prometheus.CounterVec
	updated        *prometheus.CounterVec
	added          *prometheus.CounterVec
	committed      *prometheus.CounterVec
	commitDuration prometheus.Histogram
}

// New returns a recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "batchedit_commands_total",
			Help: "Batch runs by action and final state",
		}, []string{"action", "state"}),
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "batchedit_transactions_built_total",
			Help: "Transactions built by action",
		}, []string{"action"}),
		updated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "batchedit_things_updated_total",
			Help: "Nodes recorded as updated, by kind",
		}, []string{"kind"}),
		added: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "batchedit_things_added_total",
			Help: "Nodes recorded as added, by kind",
		}, []string{"kind"}),
		committed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "batchedit_commit_transactions_total",
			Help: "Transactions handled by the commit gateway, by status",
		}, []string{"status"}),
		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "batchedit_commit_duration_seconds",
			Help:    "Duration of commits",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Registry returns the registry holding the batchedit metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveOutcome implements command.Observer.
func (r *Recorder) ObserveOutcome(o command.Outcome) {
	action := string(o.Action)
	r.commands.WithLabelValues(action, o.State.String()).Inc()
	if o.Log == nil {
		return
	}
	r.transactions.WithLabelValues(action).Add(float64(o.Log.Len()))
	for _, tx := range o.Log.Transactions() {
		for _, th := range tx.Updated() {
			r.updated.WithLabelValues(string(th.ThingKind())).Inc()
		}
		for _, th := range tx.Added() {
			r.added.WithLabelValues(string(th.ThingKind())).Inc()
		}
	}
}

// ObserveCommit records the result of one commit.
func (r *Recorder) ObserveCommit(report store.Report, d time.Duration) {
	r.committed.WithLabelValues(string(store.StatusCommitted)).Add(float64(report.Committed))
	r.committed.WithLabelValues(string(store.StatusFailed)).Add(float64(report.Failed))
	r.committed.WithLabelValues(string(store.StatusSkipped)).Add(float64(report.Skipped))
	r.commitDuration.Observe(d.Seconds())
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
