package storage

import (
	"database/sql"
)

// TeamSummary aggregates a team's match KPIs over a run.
type TeamSummary struct {
	Team            string
	Matches         int
	GoalsScored     int
	GoalsConceded   int
	XGScored        float64
	XGConceded      float64
	AvgPassAccuracy float64 // NaN if no match had passes
	AvgPossession   float64 // NaN if undefined in every match
}

// MatchResult is one match of a team seen from that team's side.
type MatchResult struct {
	MatchID      int
	Opponent     string
	GoalsFor     int
	GoalsAgainst int
	XGFor        float64
	XGAgainst    float64
	Possession   float64
	PassAccuracy float64
}

// PlayerContribution joins the per-player tables of a run for one team.
type PlayerContribution struct {
	Player          string
	Goals           int
	XG              float64
	AssistXG        float64
	PassedOpponents int
}

// TeamSummaries returns one row per team ordered by goal difference, then xG difference.
func (db *DB) TeamSummaries(runKey string) ([]TeamSummary, error) {
	rows, err := db.conn.Query(`
		SELECT team, COUNT(*), SUM(goals_scored), SUM(goals_conceded),
		       SUM(xg_scored), SUM(xg_conceded), AVG(pass_accuracy), AVG(possession)
		FROM high_level_kpis WHERE run_key = ?
		GROUP BY team
		ORDER BY SUM(goals_scored) - SUM(goals_conceded) DESC,
		         SUM(xg_scored) - SUM(xg_conceded) DESC, team`, runKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamSummary
	for rows.Next() {
		var s TeamSummary
		var acc, poss sql.NullFloat64
		if err := rows.Scan(&s.Team, &s.Matches, &s.GoalsScored, &s.GoalsConceded,
			&s.XGScored, &s.XGConceded, &acc, &poss); err != nil {
			return nil, err
		}
		s.AvgPassAccuracy = floatOrNaN(acc)
		s.AvgPossession = floatOrNaN(poss)
		out = append(out, s)
	}
	return out, rows.Err()
}

// TeamMatchResults returns every match of team in the run ordered by match id.
func (db *DB) TeamMatchResults(runKey, team string) ([]MatchResult, error) {
	rows, err := db.conn.Query(`
		SELECT k.match_id, o.team, k.goals_scored, k.goals_conceded,
		       k.xg_scored, k.xg_conceded, k.possession, k.pass_accuracy
		FROM high_level_kpis k
		JOIN high_level_kpis o
		  ON o.run_key = k.run_key AND o.match_id = k.match_id AND o.team <> k.team
		WHERE k.run_key = ? AND k.team = ?
		ORDER BY k.match_id`, runKey, team)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchResult
	for rows.Next() {
		var m MatchResult
		var poss, acc sql.NullFloat64
		if err := rows.Scan(&m.MatchID, &m.Opponent, &m.GoalsFor, &m.GoalsAgainst,
			&m.XGFor, &m.XGAgainst, &poss, &acc); err != nil {
			return nil, err
		}
		m.Possession = floatOrNaN(poss)
		m.PassAccuracy = floatOrNaN(acc)
		out = append(out, m)
	}
	return out, rows.Err()
}

// PlayerContributions merges goals/xG, assisted xG and passed opponents of a
// team's players. Players missing from a table get zero for its columns.
func (db *DB) PlayerContributions(runKey, team string) ([]PlayerContribution, error) {
	rows, err := db.conn.Query(`
		WITH players AS (
			SELECT player FROM goals_xg WHERE run_key = ?1 AND team = ?2
			UNION SELECT player FROM assists_xg WHERE run_key = ?1 AND team = ?2
			UNION SELECT player FROM passed_opponents WHERE run_key = ?1 AND team = ?2
		)
		SELECT p.player,
		       COALESCE(g.goals, 0), COALESCE(g.xg, 0),
		       COALESCE(a.xg, 0), COALESCE(po.passed_opponents, 0)
		FROM players p
		LEFT JOIN goals_xg g ON g.run_key = ?1 AND g.team = ?2 AND g.player = p.player
		LEFT JOIN assists_xg a ON a.run_key = ?1 AND a.team = ?2 AND a.player = p.player
		LEFT JOIN passed_opponents po ON po.run_key = ?1 AND po.team = ?2 AND po.player = p.player
		ORDER BY COALESCE(g.xg, 0) + COALESCE(a.xg, 0) DESC, p.player`, runKey, team)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerContribution
	for rows.Next() {
		var c PlayerContribution
		if err := rows.Scan(&c.Player, &c.Goals, &c.XG, &c.AssistXG, &c.PassedOpponents); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
