package tablefile

import "github.com/pable/go-soccer-metrics/internal/model"

var eventColumns = []column[model.Event]{
	strCol("id", func(e *model.Event) *string { return &e.ID }),
	intCol("match_id", func(e *model.Event) *int { return &e.MatchID }),
	intCol("index", func(e *model.Event) *int { return &e.Index }),
	intCol("period", func(e *model.Event) *int { return &e.Period }),
	strCol("timestamp", func(e *model.Event) *string { return &e.Timestamp }),
	intCol("minute", func(e *model.Event) *int { return &e.Minute }),
	intCol("second", func(e *model.Event) *int { return &e.Second }),
	strCol("type", func(e *model.Event) *string { return &e.Type }),
	strCol("play_pattern", func(e *model.Event) *string { return &e.PlayPattern }),
	intCol("team_id", func(e *model.Event) *int { return &e.TeamID }),
	strCol("team", func(e *model.Event) *string { return &e.Team }),
	intCol("player_id", func(e *model.Event) *int { return &e.PlayerID }),
	strCol("player", func(e *model.Event) *string { return &e.Player }),
	strCol("position", func(e *model.Event) *string { return &e.Position }),
	locCol("location", func(e *model.Event) **model.Location { return &e.Location }),
	floatCol("duration", func(e *model.Event) *float64 { return &e.Duration }),
	jsonCol("tactics", func(e *model.Event) **model.Tactics { return &e.Tactics }),
	locCol("pass_end_location", func(e *model.Event) **model.Location { return &e.PassEndLocation }),
	strCol("pass_outcome", func(e *model.Event) *string { return &e.PassOutcome }),
	strCol("pass_recipient", func(e *model.Event) *string { return &e.PassRecipient }),
	strCol("pass_assisted_shot_id", func(e *model.Event) *string { return &e.PassAssistedShotID }),
	boolCol("pass_shot_assist", func(e *model.Event) *bool { return &e.PassShotAssist }),
	boolCol("pass_goal_assist", func(e *model.Event) *bool { return &e.PassGoalAssist }),
	floatCol("shot_statsbomb_xg", func(e *model.Event) *float64 { return &e.ShotXG }),
	strCol("shot_outcome", func(e *model.Event) *string { return &e.ShotOutcome }),
	boolCol("has_frame", func(e *model.Event) *bool { return &e.HasFrame }),
	jsonCol("freeze_frame", func(e *model.Event) *[]model.FramePlayer { return &e.FreezeFrame }),
	boolCol("has_center_ids", func(e *model.Event) *bool { return &e.HasCenterIDs }),
	jsonCol("center_ids", func(e *model.Event) *[]int { return &e.CenterIDs }),
	strCol("opponent", func(e *model.Event) *string { return &e.Opponent }),
	intCol("event_time", func(e *model.Event) *int { return &e.EventTime }),
	optIntCol("goal_kick_time", func(e *model.Event) **int { return &e.GoalKickTime }),
	optIntCol("delta_goal_kick", func(e *model.Event) **int { return &e.DeltaGoalKick }),
}

var kpiColumns = []column[model.TeamMatchKPIs]{
	intCol("match_id", func(k *model.TeamMatchKPIs) *int { return &k.MatchID }),
	strCol("team", func(k *model.TeamMatchKPIs) *string { return &k.Team }),
	intCol("goals_scored", func(k *model.TeamMatchKPIs) *int { return &k.GoalsScored }),
	intCol("goals_conceded", func(k *model.TeamMatchKPIs) *int { return &k.GoalsConceded }),
	floatCol("xg_scored", func(k *model.TeamMatchKPIs) *float64 { return &k.XGScored }),
	floatCol("xg_conceded", func(k *model.TeamMatchKPIs) *float64 { return &k.XGConceded }),
	intCol("shots", func(k *model.TeamMatchKPIs) *int { return &k.Shots }),
	intCol("passes", func(k *model.TeamMatchKPIs) *int { return &k.Passes }),
	floatCol("pass_accuracy", func(k *model.TeamMatchKPIs) *float64 { return &k.PassAccuracy }),
	intCol("interceptions", func(k *model.TeamMatchKPIs) *int { return &k.Interceptions }),
	intCol("clearances", func(k *model.TeamMatchKPIs) *int { return &k.Clearances }),
	floatCol("possession", func(k *model.TeamMatchKPIs) *float64 { return &k.Possession }),
}

var centerColumns = []column[model.CenterEvent]{
	intCol("match_id", func(c *model.CenterEvent) *int { return &c.MatchID }),
	intCol("index", func(c *model.CenterEvent) *int { return &c.Index }),
	strCol("team", func(c *model.CenterEvent) *string { return &c.Team }),
	intCol("player_id", func(c *model.CenterEvent) *int { return &c.PlayerID }),
	strCol("player", func(c *model.CenterEvent) *string { return &c.Player }),
	jsonCol("center_ids", func(c *model.CenterEvent) *[]int { return &c.CenterIDs }),
	intCol("delta_goal_kick", func(c *model.CenterEvent) *int { return &c.DeltaGoalKick }),
	floatCol("x", func(c *model.CenterEvent) *float64 { return &c.X }),
	floatCol("y", func(c *model.CenterEvent) *float64 { return &c.Y }),
}

var goalsColumns = []column[model.PlayerGoalsXG]{
	strCol("team", func(g *model.PlayerGoalsXG) *string { return &g.Team }),
	strCol("player", func(g *model.PlayerGoalsXG) *string { return &g.Player }),
	floatCol("xg", func(g *model.PlayerGoalsXG) *float64 { return &g.XG }),
	intCol("goals", func(g *model.PlayerGoalsXG) *int { return &g.Goals }),
}

var assistColumns = []column[model.PlayerAssistXG]{
	strCol("team", func(a *model.PlayerAssistXG) *string { return &a.Team }),
	strCol("player", func(a *model.PlayerAssistXG) *string { return &a.Player }),
	floatCol("xg", func(a *model.PlayerAssistXG) *float64 { return &a.XG }),
}

var passedColumns = []column[model.PlayerPassedOpponents]{
	strCol("team", func(p *model.PlayerPassedOpponents) *string { return &p.Team }),
	strCol("player", func(p *model.PlayerPassedOpponents) *string { return &p.Player }),
	intCol("passed_opponents", func(p *model.PlayerPassedOpponents) *int { return &p.PassedOpponents }),
}
