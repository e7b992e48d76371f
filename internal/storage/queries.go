package storage

import (
	"database/sql"
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"

	"github.com/pable/go-soccer-metrics/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RunExists returns true if a run with the given key is already stored.
func (db *DB) RunExists(runKey string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM runs WHERE run_key = ?", runKey).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertRun inserts a run record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertRun(s model.RunSummary, tolerance int) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO runs(run_key, run_id, competition, season, cutoff, tolerance, created_at, matches, events, skipped_rows)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunKey, s.RunID, s.Competition, s.Season, s.Cutoff, tolerance,
		s.CreatedAt, s.Matches, s.Events, s.SkippedRows,
	)
	return err
}

// SaveResults replaces every stored table of the run with res.
func (db *DB) SaveResults(runKey string, res *model.Results) error {
	if err := db.deleteTables(runKey); err != nil {
		return err
	}
	if err := db.InsertEvents(runKey, res.Events); err != nil {
		return err
	}
	if err := db.InsertKPIs(runKey, res.KPIs); err != nil {
		return err
	}
	if err := db.InsertCenterEvents(runKey, res.CenterEvents); err != nil {
		return err
	}
	if err := db.InsertGoalsXG(runKey, res.GoalsXG); err != nil {
		return err
	}
	if err := db.InsertAssistsXG(runKey, res.AssistsXG); err != nil {
		return err
	}
	return db.InsertPassedOpponents(runKey, res.PassedOpponents)
}

var resultTables = []string{"events", "high_level_kpis", "center_events", "goals_xg", "assists_xg", "passed_opponents"}

func (db *DB) deleteTables(runKey string) error {
	for _, t := range resultTables {
		if _, err := db.conn.Exec("DELETE FROM "+t+" WHERE run_key = ?", runKey); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return nil
}

// DeleteRun removes a run and all of its tables.
func (db *DB) DeleteRun(runKey string) error {
	if err := db.deleteTables(runKey); err != nil {
		return err
	}
	_, err := db.conn.Exec("DELETE FROM runs WHERE run_key = ?", runKey)
	return err
}

// InsertEvents bulk-inserts the flat event columns in a transaction. Tactics
// snapshots and freeze frames are not stored.
func (db *DB) InsertEvents(runKey string, events []model.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO events(
			run_key, event_id, match_id, idx, period, minute, second,
			type, play_pattern, team, opponent, player_id, player, position,
			x, y, end_x, end_y, duration,
			pass_outcome, pass_recipient, pass_assisted_shot_id, pass_shot_assist, pass_goal_assist,
			shot_xg, shot_outcome, has_frame, center_ids,
			event_time, goal_kick_time, delta_goal_kick
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range events {
		e := &events[i]
		x, y := locArgs(e.Location)
		ex, ey := locArgs(e.PassEndLocation)
		var centers any
		if e.HasCenterIDs {
			b, err := json.Marshal(e.CenterIDs)
			if err != nil {
				return err
			}
			centers = string(b)
		}
		_, err = stmt.Exec(
			runKey, e.ID, e.MatchID, e.Index, e.Period, e.Minute, e.Second,
			e.Type, e.PlayPattern, e.Team, e.Opponent, e.PlayerID, e.Player, e.Position,
			x, y, ex, ey, e.Duration,
			e.PassOutcome, e.PassRecipient, e.PassAssistedShotID, boolInt(e.PassShotAssist), boolInt(e.PassGoalAssist),
			e.ShotXG, e.ShotOutcome, boolInt(e.HasFrame), centers,
			e.EventTime, optInt(e.GoalKickTime), optInt(e.DeltaGoalKick),
		)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// GetEvents returns the stored events of a run ordered by (match, index).
func (db *DB) GetEvents(runKey string) ([]model.Event, error) {
	rows, err := db.conn.Query(`
		SELECT event_id, match_id, idx, period, minute, second,
		       type, play_pattern, team, opponent, player_id, player, position,
		       x, y, end_x, end_y, duration,
		       pass_outcome, pass_recipient, pass_assisted_shot_id, pass_shot_assist, pass_goal_assist,
		       shot_xg, shot_outcome, has_frame, center_ids,
		       event_time, goal_kick_time, delta_goal_kick
		FROM events WHERE run_key = ?
		ORDER BY match_id, idx`, runKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		var x, y, ex, ey sql.NullFloat64
		var shotAssist, goalAssist, hasFrame int
		var centers sql.NullString
		var kick, delta sql.NullInt64
		if err := rows.Scan(
			&e.ID, &e.MatchID, &e.Index, &e.Period, &e.Minute, &e.Second,
			&e.Type, &e.PlayPattern, &e.Team, &e.Opponent, &e.PlayerID, &e.Player, &e.Position,
			&x, &y, &ex, &ey, &e.Duration,
			&e.PassOutcome, &e.PassRecipient, &e.PassAssistedShotID, &shotAssist, &goalAssist,
			&e.ShotXG, &e.ShotOutcome, &hasFrame, &centers,
			&e.EventTime, &kick, &delta,
		); err != nil {
			return nil, err
		}
		e.Location = scanLoc(x, y)
		e.PassEndLocation = scanLoc(ex, ey)
		e.PassShotAssist = shotAssist != 0
		e.PassGoalAssist = goalAssist != 0
		e.HasFrame = hasFrame != 0
		if centers.Valid {
			e.HasCenterIDs = true
			if err := json.UnmarshalFromString(centers.String, &e.CenterIDs); err != nil {
				return nil, fmt.Errorf("decode center ids of %s: %w", e.ID, err)
			}
		}
		e.GoalKickTime = scanInt(kick)
		e.DeltaGoalKick = scanInt(delta)
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertKPIs bulk-inserts per-team match KPIs. NaN ratios are stored as NULL.
func (db *DB) InsertKPIs(runKey string, kpis []model.TeamMatchKPIs) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO high_level_kpis(
			run_key, match_id, team, goals_scored, goals_conceded, xg_scored, xg_conceded,
			shots, passes, pass_accuracy, interceptions, clearances, possession
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, k := range kpis {
		_, err = stmt.Exec(
			runKey, k.MatchID, k.Team, k.GoalsScored, k.GoalsConceded, k.XGScored, k.XGConceded,
			k.Shots, k.Passes, nullFloat(k.PassAccuracy), k.Interceptions, k.Clearances, nullFloat(k.Possession),
		)
		if err != nil {
			return fmt.Errorf("insert high_level_kpis for %d/%s: %w", k.MatchID, k.Team, err)
		}
	}
	return tx.Commit()
}

// GetKPIs returns the per-team match KPIs of a run ordered by match id.
func (db *DB) GetKPIs(runKey string) ([]model.TeamMatchKPIs, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, team, goals_scored, goals_conceded, xg_scored, xg_conceded,
		       shots, passes, pass_accuracy, interceptions, clearances, possession
		FROM high_level_kpis WHERE run_key = ?
		ORDER BY match_id, rowid`, runKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamMatchKPIs
	for rows.Next() {
		var k model.TeamMatchKPIs
		var acc, poss sql.NullFloat64
		if err := rows.Scan(&k.MatchID, &k.Team, &k.GoalsScored, &k.GoalsConceded, &k.XGScored, &k.XGConceded,
			&k.Shots, &k.Passes, &acc, &k.Interceptions, &k.Clearances, &poss); err != nil {
			return nil, err
		}
		k.PassAccuracy = floatOrNaN(acc)
		k.Possession = floatOrNaN(poss)
		out = append(out, k)
	}
	return out, rows.Err()
}

// InsertCenterEvents bulk-inserts center-back events after opponent goal kicks.
func (db *DB) InsertCenterEvents(runKey string, events []model.CenterEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO center_events(run_key, match_id, idx, team, player_id, player, center_ids, delta_goal_kick, x, y)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range events {
		ids, err := json.MarshalToString(c.CenterIDs)
		if err != nil {
			return err
		}
		if _, err = stmt.Exec(runKey, c.MatchID, c.Index, c.Team, c.PlayerID, c.Player, ids, c.DeltaGoalKick, c.X, c.Y); err != nil {
			return fmt.Errorf("insert center_events: %w", err)
		}
	}
	return tx.Commit()
}

// GetCenterEvents returns the center events of a run ordered by (match, index).
func (db *DB) GetCenterEvents(runKey string) ([]model.CenterEvent, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, idx, team, player_id, player, center_ids, delta_goal_kick, x, y
		FROM center_events WHERE run_key = ?
		ORDER BY match_id, idx`, runKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CenterEvent
	for rows.Next() {
		var c model.CenterEvent
		var ids string
		if err := rows.Scan(&c.MatchID, &c.Index, &c.Team, &c.PlayerID, &c.Player, &ids, &c.DeltaGoalKick, &c.X, &c.Y); err != nil {
			return nil, err
		}
		if err := json.UnmarshalFromString(ids, &c.CenterIDs); err != nil {
			return nil, fmt.Errorf("decode center ids: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertGoalsXG bulk-inserts per-player goals and xG.
func (db *DB) InsertGoalsXG(runKey string, stats []model.PlayerGoalsXG) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO goals_xg(run_key, team, player, xg, goals) VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		if _, err = stmt.Exec(runKey, s.Team, s.Player, s.XG, s.Goals); err != nil {
			return fmt.Errorf("insert goals_xg for %s: %w", s.Player, err)
		}
	}
	return tx.Commit()
}

// GetGoalsXG returns goals and xG per player sorted by team, goals and xG descending.
func (db *DB) GetGoalsXG(runKey string) ([]model.PlayerGoalsXG, error) {
	rows, err := db.conn.Query(`
		SELECT team, player, xg, goals FROM goals_xg WHERE run_key = ?
		ORDER BY team DESC, goals DESC, xg DESC, player`, runKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerGoalsXG
	for rows.Next() {
		var s model.PlayerGoalsXG
		if err := rows.Scan(&s.Team, &s.Player, &s.XG, &s.Goals); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertAssistsXG bulk-inserts per-player assisted xG.
func (db *DB) InsertAssistsXG(runKey string, stats []model.PlayerAssistXG) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO assists_xg(run_key, team, player, xg) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		if _, err = stmt.Exec(runKey, s.Team, s.Player, s.XG); err != nil {
			return fmt.Errorf("insert assists_xg for %s: %w", s.Player, err)
		}
	}
	return tx.Commit()
}

// GetAssistsXG returns assisted xG per player sorted by team and xG descending.
func (db *DB) GetAssistsXG(runKey string) ([]model.PlayerAssistXG, error) {
	rows, err := db.conn.Query(`
		SELECT team, player, xg FROM assists_xg WHERE run_key = ?
		ORDER BY team DESC, xg DESC, player`, runKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerAssistXG
	for rows.Next() {
		var s model.PlayerAssistXG
		if err := rows.Scan(&s.Team, &s.Player, &s.XG); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertPassedOpponents bulk-inserts per-player passed opponents.
func (db *DB) InsertPassedOpponents(runKey string, stats []model.PlayerPassedOpponents) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO passed_opponents(run_key, team, player, passed_opponents) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		if _, err = stmt.Exec(runKey, s.Team, s.Player, s.PassedOpponents); err != nil {
			return fmt.Errorf("insert passed_opponents for %s: %w", s.Player, err)
		}
	}
	return tx.Commit()
}

// GetPassedOpponents returns passed opponents per player, highest first.
func (db *DB) GetPassedOpponents(runKey string) ([]model.PlayerPassedOpponents, error) {
	rows, err := db.conn.Query(`
		SELECT team, player, passed_opponents FROM passed_opponents WHERE run_key = ?
		ORDER BY passed_opponents DESC, team, player`, runKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerPassedOpponents
	for rows.Next() {
		var s model.PlayerPassedOpponents
		if err := rows.Scan(&s.Team, &s.Player, &s.PassedOpponents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadResults reads every stored table of a run.
func (db *DB) LoadResults(runKey string) (*model.Results, error) {
	var res model.Results
	var err error
	if res.Events, err = db.GetEvents(runKey); err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	if res.KPIs, err = db.GetKPIs(runKey); err != nil {
		return nil, fmt.Errorf("high level kpis: %w", err)
	}
	if res.CenterEvents, err = db.GetCenterEvents(runKey); err != nil {
		return nil, fmt.Errorf("center events: %w", err)
	}
	if res.GoalsXG, err = db.GetGoalsXG(runKey); err != nil {
		return nil, fmt.Errorf("goals xg: %w", err)
	}
	if res.AssistsXG, err = db.GetAssistsXG(runKey); err != nil {
		return nil, fmt.Errorf("assists xg: %w", err)
	}
	if res.PassedOpponents, err = db.GetPassedOpponents(runKey); err != nil {
		return nil, fmt.Errorf("passed opponents: %w", err)
	}
	return &res, nil
}

const runColumns = `run_key, run_id, competition, season, cutoff, created_at, matches, events, skipped_rows`

func scanRun(sc interface{ Scan(...any) error }) (model.RunSummary, error) {
	var s model.RunSummary
	err := sc.Scan(&s.RunKey, &s.RunID, &s.Competition, &s.Season, &s.Cutoff,
		&s.CreatedAt, &s.Matches, &s.Events, &s.SkippedRows)
	return s, err
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		s, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRunByPrefix finds the newest run whose key starts with the given prefix.
// It returns nil when no run matches.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunSummary, error) {
	row := db.conn.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_key LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%")
	s, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				rec[i] = "NULL"
			case []byte:
				rec[i] = string(v)
			default:
				rec[i] = fmt.Sprint(v)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func scanInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func locArgs(l *model.Location) (x, y any) {
	if l == nil {
		return nil, nil
	}
	return l.X, l.Y
}

func scanLoc(x, y sql.NullFloat64) *model.Location {
	if !x.Valid || !y.Valid {
		return nil
	}
	return &model.Location{X: x.Float64, Y: y.Float64}
}

func nullFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func floatOrNaN(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}
