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
)

var (
	passesRun      string
	passesOpponent string
	passesPlayer   string
)

var passesCmd = &cobra.Command{
	Use:   "passes <team>",
	Short: "List a team's passes by outcome",
	Long: `Lists the passes of a team, classified as incomplete, complete, shot assist
or goal assist. Narrow the list with --opponent and --player; "all" or an empty
value keeps every opponent or player.

Examples:
  socmetrics passes England
  socmetrics passes England --opponent Sweden --player "Lucy Bronze"`,
	Args: cobra.ExactArgs(1),
	RunE: runPasses,
}

func init() {
	passesCmd.Flags().StringVar(&passesRun, "run", "", "run-key prefix (default: newest run)")
	passesCmd.Flags().StringVar(&passesOpponent, "opponent", "all", "only passes against this opponent")
	passesCmd.Flags().StringVar(&passesPlayer, "player", "all", "only passes by this player")
}

func runPasses(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	_, res, err := loadRun(db, passesRun)
	if err != nil {
		return err
	}

	return printPasses(os.Stdout, res, args[0], passesOpponent, passesPlayer)
}

// printPasses lists the selection choices of team followed by its filtered passes.
func printPasses(w io.Writer, res *model.Results, team, opponent, player string) error {
	opponents := kpi.Opponents(res.Events, team)
	if len(opponents) == 0 {
		return fmt.Errorf("team %q has no events in this run", team)
	}
	fmt.Fprintf(w, "Opponents: %s\n", strings.Join(opponents, ", "))
	fmt.Fprintf(w, "Players:   %s\n\n", strings.Join(kpi.Players(res.Events, team, opponent), ", "))

	passes := kpi.FilterPasses(res.Events, kpi.PassFilter{
		Team:     team,
		Opponent: opponent,
		Player:   player,
	})
	report.PrintPassList(w, passes)
	return nil
}
