package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/kpi"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/report"
	"github.com/pable/go-soccer-metrics/internal/storage"
)

var profileRun string

var profileCmd = &cobra.Command{
	Use:   "profile <team>",
	Short: "Rate a team against the tournament average",
	Long: `Compares a team's per-match averages with the tournament mean of every KPI,
shows how high its center backs stand after opponent goal kicks, lists its
matches and the contributions of its players.

Examples:
  socmetrics profile England
  socmetrics profile "Germany Women's" --run 3f9a`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileRun, "run", "", "run-key prefix (default: newest run)")
}

func runProfile(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, res, err := loadRun(db, profileRun)
	if err != nil {
		return err
	}
	return printProfile(os.Stdout, db, run, res, args[0])
}

func printProfile(w io.Writer, db *storage.DB, run *model.RunSummary, res *model.Results, team string) error {
	rows := kpi.TeamProfile(res.KPIs, team)
	if rows == nil {
		return fmt.Errorf("team %q not in run %s; teams: %s",
			team, run.RunKey[:12], strings.Join(kpi.Teams(res.Events), ", "))
	}

	report.PrintRunSummary(w, *run, "stored")
	report.PrintProfile(w, team, rows)
	fmt.Fprintln(w)

	h, ok := kpi.CenterHeightOf(res.CenterEvents, team)
	report.PrintCenterHeight(w, h, ok, cfg.GoalKickTolerance)
	fmt.Fprintln(w)

	results, err := db.TeamMatchResults(run.RunKey, team)
	if err != nil {
		return fmt.Errorf("match results: %w", err)
	}
	report.PrintMatchResults(w, team, results)
	fmt.Fprintln(w)

	players, err := db.PlayerContributions(run.RunKey, team)
	if err != nil {
		return fmt.Errorf("player contributions: %w", err)
	}
	report.PrintPlayerContributions(w, players)
	return nil
}
