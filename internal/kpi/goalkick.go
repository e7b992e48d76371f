package kpi

import (
	"sort"

	"github.com/pable/go-soccer-metrics/internal/model"
)

// Restart is the onset of a goal-kick possession.
type Restart struct {
	MatchID int
	Team    string // team taking the goal kick
	Index   int
	Time    int // elapsed seconds
}

type teamKey struct {
	matchID int
	team    string
}

// matchOrder returns row positions sorted by (match, index), stable for ties.
func matchOrder(events []model.Event) []int {
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := &events[order[a]], &events[order[b]]
		if ea.MatchID != eb.MatchID {
			return ea.MatchID < eb.MatchID
		}
		return ea.Index < eb.Index
	})
	return order
}

// GoalKickRestarts returns the rows where the play pattern switches into
// "From Goal Kick". The first row of a match has no predecessor and counts
// as a switch when it carries the pattern.
func GoalKickRestarts(events []model.Event) []Restart {
	var out []Restart
	prevMatch, prevPattern := 0, ""
	for n, i := range matchOrder(events) {
		e := &events[i]
		newMatch := n == 0 || e.MatchID != prevMatch
		if e.PlayPattern == model.PatternGoalKick && (newMatch || prevPattern != model.PatternGoalKick) {
			out = append(out, Restart{MatchID: e.MatchID, Team: e.Team, Index: e.Index, Time: e.EventTime})
		}
		prevMatch, prevPattern = e.MatchID, e.PlayPattern
	}
	return out
}

// TimeDeltaFromOpponentGoalKick attaches to every event the time of the latest
// goal-kick restart taken by its opponent at or before the event, and the
// delta in seconds. Events with no earlier restart keep both fields nil.
// The returned slice keeps the input order.
func TimeDeltaFromOpponentGoalKick(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
		out[i].GoalKickTime = nil
		out[i].DeltaGoalKick = nil
	}

	restarts := make(map[teamKey][]int)
	for _, r := range GoalKickRestarts(out) {
		k := teamKey{r.MatchID, r.Team}
		restarts[k] = append(restarts[k], r.Time)
	}
	for _, times := range restarts {
		sort.Ints(times)
	}

	// Rows grouped by (match, opponent), each group in time order.
	groups := make(map[teamKey][]int)
	for i := range out {
		k := teamKey{out[i].MatchID, out[i].Opponent}
		groups[k] = append(groups[k], i)
	}
	for k, rows := range groups {
		times := restarts[k]
		if len(times) == 0 {
			continue
		}
		sort.SliceStable(rows, func(a, b int) bool {
			return out[rows[a]].EventTime < out[rows[b]].EventTime
		})
		p := 0
		for _, i := range rows {
			t := out[i].EventTime
			for p < len(times) && times[p] <= t {
				p++
			}
			if p == 0 {
				continue
			}
			kick := times[p-1]
			delta := t - kick
			out[i].GoalKickTime = &kick
			out[i].DeltaGoalKick = &delta
		}
	}
	return out
}

// CenterEventsAfterOpponentGoalKick returns events by a player of the current
// center-back roster that happened less than tolerance seconds after an
// opponent goal kick. Events without a location are skipped.
func CenterEventsAfterOpponentGoalKick(events []model.Event, tolerance int) []model.CenterEvent {
	var out []model.CenterEvent
	for i := range events {
		e := &events[i]
		if !e.InCenterRoster() || e.DeltaGoalKick == nil || *e.DeltaGoalKick >= tolerance || e.Location == nil {
			continue
		}
		out = append(out, model.CenterEvent{
			MatchID:       e.MatchID,
			Index:         e.Index,
			Team:          e.Team,
			PlayerID:      e.PlayerID,
			Player:        e.Player,
			CenterIDs:     append([]int(nil), e.CenterIDs...),
			DeltaGoalKick: *e.DeltaGoalKick,
			X:             e.Location.X,
			Y:             e.Location.Y,
		})
	}
	return out
}
