package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/report"
	"github.com/pable/go-soccer-metrics/internal/storage"
)

var showTeam string

var showCmd = &cobra.Command{
	Use:   "show [run-prefix]",
	Short: "Show the KPI tables of a stored run",
	Long: `Prints the per-match KPIs, center-back events, goals and xG, assisted xG and
passed opponents of a stored run. Without a prefix the newest run is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showTeam, "team", "", "only rows of this team")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	run, res, err := loadRun(db, prefix)
	if err != nil {
		return err
	}
	printRun(os.Stdout, db, run, res, showTeam)
	return nil
}

// printRun renders every table of a stored run, optionally narrowed to one team.
func printRun(w io.Writer, db *storage.DB, run *model.RunSummary, res *model.Results, team string) {
	report.PrintRunSummary(w, *run, "stored")
	if team != "" {
		res = onlyTeam(res, team)
	} else if sums, err := db.TeamSummaries(run.RunKey); err == nil {
		report.PrintTeamSummaries(w, sums)
		fmt.Fprintln(w)
	}

	section := func(title string) { fmt.Fprintf(w, "\n%s\n", title) }
	section("High-level KPIs")
	report.PrintKPITable(w, res.KPIs)
	section("Center-back events after opponent goal kicks")
	report.PrintCenterEvents(w, res.CenterEvents)
	section("Goals and xG")
	report.PrintGoalsXG(w, res.GoalsXG)
	section("Assisted xG")
	report.PrintAssistsXG(w, res.AssistsXG)
	section("Passed opponents")
	report.PrintPassedOpponents(w, res.PassedOpponents)
}

// onlyTeam narrows the summary tables of res to one team. Events are dropped.
func onlyTeam(res *model.Results, team string) *model.Results {
	out := &model.Results{}
	for _, k := range res.KPIs {
		if k.Team == team {
			out.KPIs = append(out.KPIs, k)
		}
	}
	for _, c := range res.CenterEvents {
		if c.Team == team {
			out.CenterEvents = append(out.CenterEvents, c)
		}
	}
	for _, g := range res.GoalsXG {
		if g.Team == team {
			out.GoalsXG = append(out.GoalsXG, g)
		}
	}
	for _, a := range res.AssistsXG {
		if a.Team == team {
			out.AssistsXG = append(out.AssistsXG, a)
		}
	}
	for _, p := range res.PassedOpponents {
		if p.Team == team {
			out.PassedOpponents = append(out.PassedOpponents, p)
		}
	}
	return out
}
