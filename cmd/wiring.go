package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pable/go-soccer-metrics/internal/loader"
	"github.com/pable/go-soccer-metrics/internal/memo"
	"github.com/pable/go-soccer-metrics/internal/metrics"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/pipeline"
	"github.com/pable/go-soccer-metrics/internal/statsbomb"
	"github.com/pable/go-soccer-metrics/internal/storage"
)

// newLoader builds the open-data loader for the current config.
func newLoader(cache *memo.Cache) *loader.Loader {
	client := statsbomb.NewClient(cfg.BaseURL, cfg.HTTPTimeout)
	return loader.New(client, cfg.OpenDataPath, cache, logger)
}

// newRunner builds a pipeline runner and the recorder its stages report to.
func newRunner() (*pipeline.Runner, *metrics.Recorder) {
	cache := memo.New()
	rec := metrics.New()
	return pipeline.New(newLoader(cache), cache, rec, logger), rec
}

func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// findRun resolves a run-key prefix. An empty prefix selects the newest run.
func findRun(db *storage.DB, prefix string) (*model.RunSummary, error) {
	if prefix == "" {
		runs, err := db.ListRuns()
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			return nil, fmt.Errorf("no runs stored yet, run 'socmetrics run' first")
		}
		return &runs[0], nil
	}
	run, err := db.GetRunByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("no run found with prefix %q", prefix)
	}
	return run, nil
}

// loadRun resolves a run and reads back all of its tables.
func loadRun(db *storage.DB, prefix string) (*model.RunSummary, *model.Results, error) {
	run, err := findRun(db, prefix)
	if err != nil {
		return nil, nil, err
	}
	res, err := db.LoadResults(run.RunKey)
	if err != nil {
		return nil, nil, fmt.Errorf("load run %s: %w", run.RunKey, err)
	}
	return run, res, nil
}

// storeRun saves a pipeline output unless the run key is already stored.
func storeRun(db *storage.DB, out *pipeline.Output, tolerance int) (bool, error) {
	exists, err := db.RunExists(out.Summary.RunKey)
	if err != nil {
		return false, fmt.Errorf("check run: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := db.InsertRun(out.Summary, tolerance); err != nil {
		return false, fmt.Errorf("insert run: %w", err)
	}
	if err := db.SaveResults(out.Summary.RunKey, out.Results); err != nil {
		return false, fmt.Errorf("save results: %w", err)
	}
	return true, nil
}
