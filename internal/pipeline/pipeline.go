// Package pipeline runs load, preprocessing and KPI computation for one
// tournament selection and keeps the result tables on disk between runs.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-soccer-metrics/internal/config"
	"github.com/pable/go-soccer-metrics/internal/kpi"
	"github.com/pable/go-soccer-metrics/internal/loader"
	"github.com/pable/go-soccer-metrics/internal/memo"
	"github.com/pable/go-soccer-metrics/internal/metrics"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/preprocess"
	"github.com/pable/go-soccer-metrics/internal/tablefile"
)

// Result sources.
const (
	SourceComputed = "computed"
	SourceTables   = "tables"
)

// Output is one finished run.
type Output struct {
	Summary model.RunSummary
	Results *model.Results
	Source  string
}

// Runner wires the loader to the preprocessing and KPI stages.
type Runner struct {
	loader  *loader.Loader
	cache   *memo.Cache
	metrics *metrics.Recorder
	log     logrus.FieldLogger
}

// New returns a Runner. Runs are memoized in cache for the process lifetime.
func New(l *loader.Loader, cache *memo.Cache, rec *metrics.Recorder, log logrus.FieldLogger) *Runner {
	if cache == nil {
		cache = memo.New()
	}
	if rec == nil {
		rec = metrics.New()
	}
	return &Runner{loader: l, cache: cache, metrics: rec, log: log.WithField("component", "pipeline")}
}

// RunKey identifies a tournament selection and tolerance.
func RunKey(cfg *config.Config) (string, error) {
	return memo.Key("pipeline.Run", cfg.CompetitionName, cfg.SeasonName, cfg.DateOfAnalysis, cfg.GoalKickTolerance)
}

// Run returns the result tables for cfg. Table files from an earlier run are
// reused when present; otherwise the tables are computed and written.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	args := []any{cfg.CompetitionName, cfg.SeasonName, cfg.DateOfAnalysis, cfg.GoalKickTolerance, cfg.TableDirFor()}
	return memo.Do(r.cache, "pipeline.Run", args, func() (*Output, error) {
		return r.run(ctx, cfg, false)
	})
}

// Refresh recomputes the result tables for cfg, ignoring the memo and any
// table files on disk, and overwrites the table files.
func (r *Runner) Refresh(ctx context.Context, cfg *config.Config) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return r.run(ctx, cfg, true)
}

func (r *Runner) run(ctx context.Context, cfg *config.Config, refresh bool) (*Output, error) {
	key, err := RunKey(cfg)
	if err != nil {
		return nil, err
	}
	summary := model.RunSummary{
		RunKey:      key,
		RunID:       uuid.NewString(),
		Competition: cfg.CompetitionName,
		Season:      cfg.SeasonName,
		Cutoff:      cfg.DateOfAnalysis,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	log := r.log.WithFields(logrus.Fields{
		"run_id":      summary.RunID,
		"competition": cfg.CompetitionName,
		"season":      cfg.SeasonName,
		"cutoff":      cfg.DateOfAnalysis,
	})

	dir := cfg.TableDirFor()
	exists := false
	if !refresh {
		if exists, err = tablefile.Exists(dir); err != nil {
			return nil, err
		}
	}
	if exists {
		start := time.Now()
		res, err := tablefile.Read(dir)
		if err != nil {
			return nil, fmt.Errorf("read table files: %w", err)
		}
		r.metrics.ObserveStage(metrics.StageTableRead, start)
		summary.Matches = countMatches(res.Events)
		summary.Events = len(res.Events)
		log.WithField("dir", dir).Info("reusing table files")
		r.finish(res, SourceTables)
		return &Output{Summary: summary, Results: res, Source: SourceTables}, nil
	}

	start := time.Now()
	ds, err := r.loader.Load(ctx, cfg.CompetitionName, cfg.SeasonName, cfg.DateOfAnalysis)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	r.metrics.ObserveStage(metrics.StageLoad, start)
	r.metrics.AddLoad(ds.Stats.Matches, ds.Stats.Events, ds.Stats.Skipped)
	summary.Matches = ds.Stats.Matches
	summary.Events = ds.Stats.Events
	summary.SkippedRows = ds.Stats.Skipped
	log.WithFields(logrus.Fields{"matches": ds.Stats.Matches, "events": ds.Stats.Events, "skipped": ds.Stats.Skipped}).Info("loaded events")

	start = time.Now()
	events, err := preprocess.Run(ds.Events)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	r.metrics.ObserveStage(metrics.StagePreprocess, start)

	start = time.Now()
	res, err := kpi.Run(events, cfg.GoalKickTolerance)
	if err != nil {
		return nil, err
	}
	r.metrics.ObserveStage(metrics.StageKPI, start)

	start = time.Now()
	if err := tablefile.Write(dir, res); err != nil {
		return nil, fmt.Errorf("write table files: %w", err)
	}
	r.metrics.ObserveStage(metrics.StageTableWrite, start)
	log.WithField("dir", dir).Info("wrote table files")

	r.finish(res, SourceComputed)
	return &Output{Summary: summary, Results: res, Source: SourceComputed}, nil
}

func (r *Runner) finish(res *model.Results, source string) {
	r.metrics.SetTableRows("events", len(res.Events))
	r.metrics.SetTableRows("high_level_kpis", len(res.KPIs))
	r.metrics.SetTableRows("center_events", len(res.CenterEvents))
	r.metrics.SetTableRows("goals_xg", len(res.GoalsXG))
	r.metrics.SetTableRows("assists_xg", len(res.AssistsXG))
	r.metrics.SetTableRows("passed_opponents", len(res.PassedOpponents))
	r.metrics.IncRun(source)
}

func countMatches(events []model.Event) int {
	seen := make(map[int]struct{})
	for i := range events {
		seen[events[i].MatchID] = struct{}{}
	}
	return len(seen)
}
