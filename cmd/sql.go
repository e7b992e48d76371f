package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  runs(run_key, run_id, competition, season, cutoff, tolerance, created_at,
    matches, events, skipped_rows)
  events(run_key, event_id, match_id, idx, period, minute, second, type,
    play_pattern, team, opponent, player_id, player, position, x, y, end_x, end_y,
    pass_outcome, pass_shot_assist, pass_goal_assist, shot_xg, shot_outcome,
    event_time, goal_kick_time, delta_goal_kick, ...)
  high_level_kpis(run_key, match_id, team, goals_scored, goals_conceded, xg_scored,
    xg_conceded, shots, passes, pass_accuracy, interceptions, clearances, possession)
  center_events(run_key, match_id, idx, team, player_id, player, center_ids,
    delta_goal_kick, x, y)
  goals_xg(run_key, team, player, xg, goals)
  assists_xg(run_key, team, player, xg)
  passed_opponents(run_key, team, player, passed_opponents)

Undefined values (a pass accuracy without passes) are NULL.
Example: SELECT team, AVG(xg_scored) FROM high_level_kpis GROUP BY team ORDER BY 2 DESC`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
