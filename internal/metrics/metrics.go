// Package metrics collects Prometheus metrics for thesaurus runs:
//   - thesaurus_interactions_total: interaction records extracted
//   - thesaurus_class_memberships_total: class memberships, by source
//   - thesaurus_pairs_dropped_total: interaction pairs left without a level
//   - thesaurus_tables_skipped_total: tables lacking the required columns
//   - thesaurus_runs_total: runs by operation and status
//   - thesaurus_run_duration_seconds: run latency by operation
//   - thesaurus_last_run_timestamp_seconds: end of the last successful run
//
// The CLI is short lived, so metrics are exported by writing a
// node-exporter textfile rather than serving /metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"nephila/thesaurus/internal/fileutils"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/thesaurus"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the collectors of one process on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Interactions     prometheus.Counter
	ClassMemberships *prometheus.CounterVec
	PairsDropped     prometheus.Counter
	TablesSkipped    prometheus.Counter
	Runs             *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	LastRun          prometheus.Gauge
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Interactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "thesaurus_interactions_total",
			Help: "Interaction records extracted from the thesaurus",
		}),
		ClassMemberships: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thesaurus_class_memberships_total",
				Help: "Class membership records extracted from the thesaurus",
			},
			[]string{"source"},
		),
		PairsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "thesaurus_pairs_dropped_total",
			Help: "Interaction pairs dropped because no constraint level was found",
		}),
		TablesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "thesaurus_tables_skipped_total",
			Help: "Tables skipped because the required columns were missing",
		}),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thesaurus_runs_total",
				Help: "Runs by operation and status",
			},
			[]string{"operation", "status"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "thesaurus_run_duration_seconds",
				Help:    "Run latency",
				Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"operation"},
		),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thesaurus_last_run_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}

	m.registry.MustRegister(
		m.Interactions,
		m.ClassMemberships,
		m.PairsDropped,
		m.TablesSkipped,
		m.Runs,
		m.RunDuration,
		m.LastRun,
	)
	// both sources are exported even when zero
	for _, src := range []models.MembershipSource{models.SourceParenthetical, models.SourceVoirAussi} {
		m.ClassMemberships.WithLabelValues(string(src))
	}
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveParse records the outcome of one parse.
func (m *Metrics) ObserveParse(res thesaurus.Result) {
	m.Interactions.Add(float64(len(res.Interactions)))
	for _, c := range res.Classes {
		m.ClassMemberships.WithLabelValues(string(c.Source)).Inc()
	}
	m.PairsDropped.Add(float64(res.Stats.DroppedPairs))
	m.TablesSkipped.Add(float64(res.Stats.TablesSkipped))
}

// ObserveRun records a finished run of operation that started at start.
func (m *Metrics) ObserveRun(operation string, start time.Time, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.Runs.WithLabelValues(operation, status).Inc()
	m.RunDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err == nil {
		m.LastRun.SetToCurrentTime()
	}
}

// WriteTextfile writes the registry in the text exposition format to path.
// An empty path disables the export.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := fileutils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
