// Package metrics exposes pipeline counters and stage timings in the
// Prometheus format, either scraped from the API server or written to a
// textfile after a CLI run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "socmetrics"

// Pipeline stage names.
const (
	StageLoad       = "load"
	StagePreprocess = "preprocess"
	StageKPI        = "kpi"
	StageTableRead  = "table_read"
	StageTableWrite = "table_write"
	StageStore      = "store"
)

// Recorder holds the pipeline metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	events        prometheus.Counter
	skippedRows   prometheus.Counter
	matches       prometheus.Counter
	tableRows     *prometheus.GaugeVec
	runs          *prometheus.CounterVec
}

// New registers the pipeline metrics on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)
	return &Recorder{
		registry: reg,
		stageDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"stage"}),
		events: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "events_total",
			Help:      "Events loaded from the provider",
		}),
		skippedRows: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "skipped_rows_total",
			Help:      "Malformed provider rows skipped while loading",
		}),
		matches: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "matches_total",
			Help:      "Matches loaded from the provider",
		}),
		tableRows: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "table_rows",
			Help:      "Rows of each result table of the last run",
		}, []string{"table"}),
		runs: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by source of the results",
		}, []string{"source"}),
	}
}

// Registry returns the registry for HTTP exposition.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveStage records how long a stage took since start.
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	r.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// AddLoad counts loaded matches, events and skipped rows.
func (r *Recorder) AddLoad(matches, events, skipped int) {
	r.matches.Add(float64(matches))
	r.events.Add(float64(events))
	r.skippedRows.Add(float64(skipped))
}

// SetTableRows records the size of a result table.
func (r *Recorder) SetTableRows(table string, n int) {
	r.tableRows.WithLabelValues(table).Set(float64(n))
}

// IncRun counts a finished run by where its tables came from.
func (r *Recorder) IncRun(source string) {
	r.runs.WithLabelValues(source).Inc()
}

// WriteToTextfile writes the current values in the node-exporter textfile format.
func (r *Recorder) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
