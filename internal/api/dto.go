package api

import (
	"math"

	"github.com/pable/go-soccer-metrics/internal/kpi"
	"github.com/pable/go-soccer-metrics/internal/model"
)

// JSON has no NaN; undefined ratios are sent as null.
func optFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

type kpiRow struct {
	MatchID       int      `json:"match_id"`
	Team          string   `json:"team"`
	GoalsScored   int      `json:"goals_scored"`
	GoalsConceded int      `json:"goals_conceded"`
	XGScored      float64  `json:"xg_scored"`
	XGConceded    float64  `json:"xg_conceded"`
	Shots         int      `json:"shots"`
	Passes        int      `json:"passes"`
	PassAccuracy  *float64 `json:"pass_accuracy"`
	Interceptions int      `json:"interceptions"`
	Clearances    int      `json:"clearances"`
	Possession    *float64 `json:"possession"`
}

func toKPIRow(k model.TeamMatchKPIs) kpiRow {
	return kpiRow{
		MatchID:       k.MatchID,
		Team:          k.Team,
		GoalsScored:   k.GoalsScored,
		GoalsConceded: k.GoalsConceded,
		XGScored:      k.XGScored,
		XGConceded:    k.XGConceded,
		Shots:         k.Shots,
		Passes:        k.Passes,
		PassAccuracy:  optFloat(k.PassAccuracy),
		Interceptions: k.Interceptions,
		Clearances:    k.Clearances,
		Possession:    optFloat(k.Possession),
	}
}

type centerEventRow struct {
	MatchID       int     `json:"match_id"`
	Index         int     `json:"index"`
	Team          string  `json:"team"`
	PlayerID      int     `json:"player_id"`
	Player        string  `json:"player"`
	CenterIDs     []int   `json:"center_ids"`
	DeltaGoalKick int     `json:"delta_goal_kick"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

type goalsRow struct {
	Team   string  `json:"team"`
	Player string  `json:"player"`
	XG     float64 `json:"xg"`
	Goals  int     `json:"goals"`
}

type assistRow struct {
	Team   string  `json:"team"`
	Player string  `json:"player"`
	XG     float64 `json:"xg"`
}

type passedRow struct {
	Team            string `json:"team"`
	Player          string `json:"player"`
	PassedOpponents int    `json:"passed_opponents"`
}

type profileRow struct {
	Metric     string     `json:"metric"`
	HighIsGood bool       `json:"high_is_good"`
	Team       *float64   `json:"team"`
	Average    *float64   `json:"average"`
	Std        *float64   `json:"std"`
	Rating     kpi.Rating `json:"rating"`
}

type centerHeight struct {
	TeamX      float64 `json:"team_x"`
	Tournament float64 `json:"tournament_x"`
	Events     int     `json:"events"`
}

type passRow struct {
	MatchID  int           `json:"match_id"`
	Team     string        `json:"team"`
	Opponent string        `json:"opponent"`
	Player   string        `json:"player"`
	Start    [2]float64    `json:"start"`
	End      [2]float64    `json:"end"`
	Class    kpi.PassClass `json:"class"`
}
