package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/metrics"
	"github.com/pable/go-soccer-metrics/internal/report"
)

var (
	runForce       bool
	runMetricsFile string
	runAll         bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the KPI tables for a tournament and store them",
	Long: `Loads every match of the selected competition season played before the cutoff,
computes the KPI tables and writes them as table files and to the database.
Existing table files for the same selection and tolerance are reused instead of
reloading unless --force is given.

Examples:
  socmetrics run
  socmetrics run --competition "FIFA World Cup" --season 2022 --cutoff 2022-12-01
  socmetrics run --tolerance 10 --metrics-file /var/lib/node_exporter/socmetrics.prom`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runForce, "force", false, "recompute the table files and replace the stored run for this selection")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "write pipeline metrics in textfile format (overrides metrics_file)")
	runCmd.Flags().BoolVar(&runAll, "all", false, "also print the per-match KPI table and player tables")
}

func runRun(cmd *cobra.Command, args []string) error {
	runner, rec := newRunner()
	run := runner.Run
	if runForce {
		run = runner.Refresh
	}
	out, err := run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if runForce {
		if err := db.DeleteRun(out.Summary.RunKey); err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
	}
	start := time.Now()
	stored, err := storeRun(db, out, cfg.GoalKickTolerance)
	if err != nil {
		return err
	}
	rec.ObserveStage(metrics.StageStore, start)
	logger.WithFields(logrus.Fields{"run": out.Summary.RunKey[:12], "stored": stored}).Debug("store run")

	report.PrintRunSummary(os.Stdout, out.Summary, out.Source)
	sums, err := db.TeamSummaries(out.Summary.RunKey)
	if err != nil {
		return fmt.Errorf("team summaries: %w", err)
	}
	report.PrintTeamSummaries(os.Stdout, sums)

	if runAll {
		fmt.Fprintln(os.Stdout)
		report.PrintKPITable(os.Stdout, out.Results.KPIs)
		fmt.Fprintln(os.Stdout)
		report.PrintGoalsXG(os.Stdout, out.Results.GoalsXG)
		fmt.Fprintln(os.Stdout)
		report.PrintAssistsXG(os.Stdout, out.Results.AssistsXG)
		fmt.Fprintln(os.Stdout)
		report.PrintPassedOpponents(os.Stdout, out.Results.PassedOpponents)
	}

	path := cfg.MetricsFile
	if runMetricsFile != "" {
		path = runMetricsFile
	}
	if path != "" {
		if err := rec.WriteToTextfile(path); err != nil {
			return err
		}
		logger.WithField("path", path).Info("wrote metrics textfile")
	}
	return nil
}
