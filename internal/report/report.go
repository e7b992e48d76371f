// Package report renders result tables for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-soccer-metrics/internal/kpi"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/storage"
)

// NoData is printed instead of an empty table.
const NoData = "no data for this selection"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func noData(w io.Writer, n int) bool {
	if n == 0 {
		fmt.Fprintln(w, NoData)
		return true
	}
	return false
}

// num formats v with format, or "—" when v is undefined.
func num(format string, v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf(format, v)
}

// PrintRunSummary prints a one-line summary header for a run.
func PrintRunSummary(w io.Writer, s model.RunSummary, source string) {
	fmt.Fprintf(w, "\n%s %s  |  before %s  |  %d matches, %d events, %d skipped  |  %s  |  Run: %s\n\n",
		s.Competition, s.Season, s.Cutoff, s.Matches, s.Events, s.SkippedRows, source, shortKey(s.RunKey))
}

func shortKey(k string) string {
	if len(k) > 12 {
		return k[:12]
	}
	return k
}

// PrintRunList prints stored runs, newest first.
func PrintRunList(w io.Writer, runs []model.RunSummary) {
	if noData(w, len(runs)) {
		return
	}
	table := newTable(w)
	table.Header("RUN", "COMPETITION", "SEASON", "CUTOFF", "MATCHES", "EVENTS", "SKIPPED", "CREATED")
	for _, r := range runs {
		table.Append(
			shortKey(r.RunKey), r.Competition, r.Season, r.Cutoff,
			strconv.Itoa(r.Matches), strconv.Itoa(r.Events), strconv.Itoa(r.SkippedRows), r.CreatedAt,
		)
	}
	table.Render()
}

// PrintKPITable prints the per-team match KPIs.
func PrintKPITable(w io.Writer, kpis []model.TeamMatchKPIs) {
	if noData(w, len(kpis)) {
		return
	}
	table := newTable(w)
	table.Header("MATCH", "TEAM", "GF", "GA", "XG", "XGA", "SHOTS", "PASSES", "PASS%", "INT", "CLR", "POSS%")
	for _, k := range kpis {
		table.Append(
			strconv.Itoa(k.MatchID),
			k.Team,
			strconv.Itoa(k.GoalsScored),
			strconv.Itoa(k.GoalsConceded),
			fmt.Sprintf("%.2f", k.XGScored),
			fmt.Sprintf("%.2f", k.XGConceded),
			strconv.Itoa(k.Shots),
			strconv.Itoa(k.Passes),
			num("%.1f%%", k.PassAccuracy),
			strconv.Itoa(k.Interceptions),
			strconv.Itoa(k.Clearances),
			num("%.1f%%", k.Possession*100),
		)
	}
	table.Render()
}

// PrintTeamSummaries prints per-team totals over a run.
func PrintTeamSummaries(w io.Writer, sums []storage.TeamSummary) {
	if noData(w, len(sums)) {
		return
	}
	table := newTable(w)
	table.Header("TEAM", "MATCHES", "GF", "GA", "XG", "XGA", "PASS%", "POSS%")
	for _, s := range sums {
		table.Append(
			s.Team,
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.GoalsScored),
			strconv.Itoa(s.GoalsConceded),
			fmt.Sprintf("%.2f", s.XGScored),
			fmt.Sprintf("%.2f", s.XGConceded),
			num("%.1f%%", s.AvgPassAccuracy),
			num("%.1f%%", s.AvgPossession*100),
		)
	}
	table.Render()
}

// PrintMatchResults prints one team's matches of a run.
func PrintMatchResults(w io.Writer, team string, results []storage.MatchResult) {
	if noData(w, len(results)) {
		return
	}
	table := newTable(w)
	table.Header("MATCH", "OPPONENT", "SCORE", "XG", "XGA", "POSS%", "PASS%")
	for _, m := range results {
		table.Append(
			strconv.Itoa(m.MatchID),
			m.Opponent,
			fmt.Sprintf("%d-%d", m.GoalsFor, m.GoalsAgainst),
			fmt.Sprintf("%.2f", m.XGFor),
			fmt.Sprintf("%.2f", m.XGAgainst),
			num("%.1f%%", m.Possession*100),
			num("%.1f%%", m.PassAccuracy),
		)
	}
	table.Render()
	fmt.Fprintf(w, "%s: %d matches\n", team, len(results))
}

// PrintCenterEvents prints center-back events after opponent goal kicks.
func PrintCenterEvents(w io.Writer, events []model.CenterEvent) {
	if noData(w, len(events)) {
		return
	}
	table := newTable(w)
	table.Header("MATCH", "IDX", "TEAM", "PLAYER", "DELTA", "X", "Y")
	for _, c := range events {
		table.Append(
			strconv.Itoa(c.MatchID),
			strconv.Itoa(c.Index),
			c.Team,
			c.Player,
			fmt.Sprintf("%ds", c.DeltaGoalKick),
			fmt.Sprintf("%.1f", c.X),
			fmt.Sprintf("%.1f", c.Y),
		)
	}
	table.Render()
}

// PrintGoalsXG prints goals against expected goals per player.
func PrintGoalsXG(w io.Writer, stats []model.PlayerGoalsXG) {
	if noData(w, len(stats)) {
		return
	}
	table := newTable(w)
	table.Header("TEAM", "PLAYER", "GOALS", "XG", "G-XG")
	for _, s := range stats {
		table.Append(
			s.Team,
			s.Player,
			strconv.Itoa(s.Goals),
			fmt.Sprintf("%.2f", s.XG),
			fmt.Sprintf("%+.2f", float64(s.Goals)-s.XG),
		)
	}
	table.Render()
}

// PrintAssistsXG prints the xG of shots assisted per player.
func PrintAssistsXG(w io.Writer, stats []model.PlayerAssistXG) {
	if noData(w, len(stats)) {
		return
	}
	table := newTable(w)
	table.Header("TEAM", "PLAYER", "ASSISTED XG")
	for _, s := range stats {
		table.Append(s.Team, s.Player, fmt.Sprintf("%.2f", s.XG))
	}
	table.Render()
}

// PrintPassedOpponents prints the opponents bypassed by completed passes per player.
func PrintPassedOpponents(w io.Writer, stats []model.PlayerPassedOpponents) {
	if noData(w, len(stats)) {
		return
	}
	table := newTable(w)
	table.Header("TEAM", "PLAYER", "PASSED OPP")
	for _, s := range stats {
		table.Append(s.Team, s.Player, strconv.Itoa(s.PassedOpponents))
	}
	table.Render()
}

var ratingColors = map[kpi.Rating]*color.Color{
	kpi.RatingBelow:   color.New(color.FgRed),
	kpi.RatingAverage: color.New(color.FgYellow),
	kpi.RatingAbove:   color.New(color.FgGreen),
}

// PrintProfile prints a team's KPI means against the tournament, coloured by rating.
func PrintProfile(w io.Writer, team string, rows []kpi.ProfileRow) {
	if noData(w, len(rows)) {
		return
	}
	fmt.Fprintf(w, "\nProfile: %s\n\n", team)
	table := newTable(w)
	table.Header("KPI", "TEAM", "AVERAGE", "STD", "RATING")
	for _, r := range rows {
		c := ratingColors[r.Rating]
		table.Append(
			r.Metric,
			c.Sprint(num("%.2f", r.Team)),
			num("%.2f", r.Average),
			num("%.2f", r.Std),
			c.Sprint(string(r.Rating)),
		)
	}
	table.Render()
}

func sampleFlag(n int) string {
	switch {
	case n >= 20:
		return "OK"
	case n >= 8:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// PrintCenterHeight prints the mean x of a team's center backs after opponent
// goal kicks against the tournament mean.
func PrintCenterHeight(w io.Writer, h kpi.CenterHeight, ok bool, tolerance int) {
	if !ok {
		fmt.Fprintln(w, NoData)
		return
	}
	fmt.Fprintf(w, "Center backs of %s within %ds of an opponent goal kick: mean x %.1f yards (tournament %.1f) over %d events [%s]\n",
		h.Team, tolerance, h.TeamX, h.Tournament, h.Events, sampleFlag(h.Events))
}

var passColors = map[kpi.PassClass]*color.Color{
	kpi.PassIncomplete: color.New(color.FgRed),
	kpi.PassShotAssist: color.New(color.FgWhite, color.Faint),
	kpi.PassGoalAssist: color.New(color.FgYellow, color.Bold),
	kpi.PassComplete:   color.New(color.FgBlue),
}

// PrintPassList prints a filtered pass list with one colour per pass class.
func PrintPassList(w io.Writer, passes []kpi.PassRow) {
	if noData(w, len(passes)) {
		return
	}
	table := newTable(w)
	table.Header("MATCH", "PLAYER", "OPPONENT", "FROM", "TO", "CLASS")
	counts := make(map[kpi.PassClass]int)
	for _, p := range passes {
		counts[p.Class]++
		table.Append(
			strconv.Itoa(p.MatchID),
			p.Player,
			p.Opponent,
			fmt.Sprintf("(%.1f, %.1f)", p.Start.X, p.Start.Y),
			fmt.Sprintf("(%.1f, %.1f)", p.End.X, p.End.Y),
			passColors[p.Class].Sprint(string(p.Class)),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\n%d passes: %d complete, %d incomplete, %d shot assists, %d goal assists\n",
		len(passes), counts[kpi.PassComplete], counts[kpi.PassIncomplete],
		counts[kpi.PassShotAssist], counts[kpi.PassGoalAssist])
}

// PrintPlayerContributions prints the merged per-player tables of one team.
func PrintPlayerContributions(w io.Writer, rows []storage.PlayerContribution) {
	if noData(w, len(rows)) {
		return
	}
	table := newTable(w)
	table.Header("PLAYER", "GOALS", "XG", "ASSISTED XG", "PASSED OPP")
	for _, c := range rows {
		table.Append(
			c.Player,
			strconv.Itoa(c.Goals),
			fmt.Sprintf("%.2f", c.XG),
			fmt.Sprintf("%.2f", c.AssistXG),
			strconv.Itoa(c.PassedOpponents),
		)
	}
	table.Render()
}
