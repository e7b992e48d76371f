package kpi

import (
	"fmt"

	"github.com/pable/go-soccer-metrics/internal/model"
)

// teamTotals accumulates one team's raw counts within a match.
type teamTotals struct {
	goals, shots      int
	xg                float64
	passes, completed int
	interceptions     int
	clearances        int
	possessionSeconds float64
}

func (t *teamTotals) add(e *model.Event) {
	switch e.Type {
	case model.TypeShot:
		t.shots++
	case model.TypePass:
		t.passes++
		if e.PassOutcome == "" {
			t.completed++
		}
	case model.TypeInterception:
		t.interceptions++
	case model.TypeClearance:
		t.clearances++
	}
	if e.ShotOutcome == model.OutcomeGoal {
		t.goals++
	}
	t.xg += e.ShotXG
	if e.Type != model.TypePressure {
		t.possessionSeconds += e.Duration
	}
}

// HighLevelKPIs computes the per-team summary of one match. The match must
// contain events of exactly two teams. Pass accuracy is NaN for a team without
// passes and possession is NaN when neither team has any non-pressure duration.
func HighLevelKPIs(matchEvents []model.Event) ([]model.TeamMatchKPIs, error) {
	if len(matchEvents) == 0 {
		return nil, fmt.Errorf("high level kpis: %w: match without events", model.ErrEmptyAggregationGroup)
	}
	matchID := matchEvents[0].MatchID

	var teams []string
	totals := make(map[string]*teamTotals)
	for i := range matchEvents {
		e := &matchEvents[i]
		t, ok := totals[e.Team]
		if !ok {
			t = &teamTotals{}
			totals[e.Team] = t
			teams = append(teams, e.Team)
		}
		t.add(e)
	}
	if len(teams) != 2 {
		return nil, fmt.Errorf("high level kpis for match %d: %w: %d team(s)", matchID, model.ErrEmptyAggregationGroup, len(teams))
	}

	out := make([]model.TeamMatchKPIs, 0, 2)
	for i, team := range teams {
		own, other := totals[team], totals[teams[1-i]]
		out = append(out, model.TeamMatchKPIs{
			MatchID:       matchID,
			Team:          team,
			GoalsScored:   own.goals,
			GoalsConceded: other.goals,
			XGScored:      own.xg,
			XGConceded:    other.xg,
			Shots:         own.shots,
			Passes:        own.passes,
			PassAccuracy:  model.Ratio(float64(own.completed), float64(own.passes)) * 100,
			Interceptions: own.interceptions,
			Clearances:    own.clearances,
			Possession:    model.Ratio(own.possessionSeconds, own.possessionSeconds+other.possessionSeconds),
		})
	}
	return out, nil
}
