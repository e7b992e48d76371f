package cmd

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"

	"github.com/pable/go-soccer-metrics/internal/kpi"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// buildTeamDoc collects everything known about one team in a run into a
// JSON-ready document. Undefined values become null.
func buildTeamDoc(db *storage.DB, run *model.RunSummary, res *model.Results, team string) (map[string]any, error) {
	rows := kpi.TeamProfile(res.KPIs, team)
	if rows == nil {
		return nil, fmt.Errorf("team %q not in run %s", team, run.RunKey[:12])
	}

	profile := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		profile = append(profile, map[string]any{
			"metric":       r.Metric,
			"high_is_good": r.HighIsGood,
			"team":         round2(r.Team),
			"average":      round2(r.Average),
			"std":          round2(r.Std),
			"rating":       r.Rating,
		})
	}

	matches, err := db.TeamMatchResults(run.RunKey, team)
	if err != nil {
		return nil, fmt.Errorf("match results: %w", err)
	}
	matchRows := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		matchRows = append(matchRows, map[string]any{
			"match_id":      m.MatchID,
			"opponent":      m.Opponent,
			"goals_for":     m.GoalsFor,
			"goals_against": m.GoalsAgainst,
			"xg_for":        round2(m.XGFor),
			"xg_against":    round2(m.XGAgainst),
			"possession":    round2(m.Possession),
			"pass_accuracy": round2(m.PassAccuracy),
		})
	}

	players, err := db.PlayerContributions(run.RunKey, team)
	if err != nil {
		return nil, fmt.Errorf("player contributions: %w", err)
	}
	playerRows := make([]map[string]any, 0, len(players))
	for _, p := range players {
		playerRows = append(playerRows, map[string]any{
			"player":           p.Player,
			"goals":            p.Goals,
			"xg":               round2(p.XG),
			"assisted_xg":      round2(p.AssistXG),
			"passed_opponents": p.PassedOpponents,
		})
	}

	center := map[string]any{"events": 0}
	if h, ok := kpi.CenterHeightOf(res.CenterEvents, team); ok {
		center = map[string]any{
			"team_mean_x":       round2(h.TeamX),
			"tournament_mean_x": round2(h.Tournament),
			"events":            h.Events,
			"tolerance_seconds": cfg.GoalKickTolerance,
		}
	}

	return map[string]any{
		"subject":     "team",
		"team":        team,
		"competition": run.Competition,
		"season":      run.Season,
		"cutoff":      run.Cutoff,
		"run":         run.RunKey[:12],
		"profile":     profile,
		"matches":     matchRows,
		"players":     playerRows,

		"center_backs_after_opponent_goal_kick": center,
	}, nil
}

// round2 rounds to 2 decimal places. NaN becomes nil so it encodes as null.
func round2(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return math.Round(v*100) / 100
}
