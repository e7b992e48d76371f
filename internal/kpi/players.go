package kpi

import (
	"cmp"
	"slices"

	"github.com/pable/go-soccer-metrics/internal/model"
)

type playerKey struct {
	team   string
	player string
}

// GoalsXG sums expected goals and counts goals per (team, player) over shot
// events. Shooters without a goal get zero goals. Sorted descending by team,
// goals and xG.
func GoalsXG(events []model.Event) []model.PlayerGoalsXG {
	idx := make(map[playerKey]int)
	var out []model.PlayerGoalsXG
	for i := range events {
		e := &events[i]
		if e.Type != model.TypeShot {
			continue
		}
		k := playerKey{e.Team, e.Player}
		n, ok := idx[k]
		if !ok {
			n = len(out)
			idx[k] = n
			out = append(out, model.PlayerGoalsXG{Team: e.Team, Player: e.Player})
		}
		out[n].XG += e.ShotXG
		if e.ShotOutcome == model.OutcomeGoal {
			out[n].Goals++
		}
	}
	slices.SortStableFunc(out, func(a, b model.PlayerGoalsXG) int {
		return cmp.Or(
			cmp.Compare(b.Team, a.Team),
			cmp.Compare(b.Goals, a.Goals),
			cmp.Compare(b.XG, a.XG),
			cmp.Compare(a.Player, b.Player),
		)
	})
	return out
}

// PassedOpponents counts the opponents in the pass's freeze frame whose x lies
// strictly between the pass start and end x. Backward passes are counted the
// same way as forward ones.
func PassedOpponents(e *model.Event) int {
	if e.Location == nil || e.PassEndLocation == nil {
		return 0
	}
	lo, hi := e.Location.X, e.PassEndLocation.X
	if lo > hi {
		lo, hi = hi, lo
	}
	n := 0
	for _, p := range e.FreezeFrame {
		if p.Teammate {
			continue
		}
		if lo < p.Location.X && p.Location.X < hi {
			n++
		}
	}
	return n
}

// PassedOpponentsByPlayer sums PassedOpponents over completed passes that have
// start and end locations and a 360 frame. Sorted descending by count.
func PassedOpponentsByPlayer(events []model.Event) []model.PlayerPassedOpponents {
	idx := make(map[playerKey]int)
	var out []model.PlayerPassedOpponents
	for i := range events {
		e := &events[i]
		if e.Location == nil || e.PassEndLocation == nil || !e.HasFrame || e.PassOutcome != "" {
			continue
		}
		k := playerKey{e.Team, e.Player}
		n, ok := idx[k]
		if !ok {
			n = len(out)
			idx[k] = n
			out = append(out, model.PlayerPassedOpponents{Team: e.Team, Player: e.Player})
		}
		out[n].PassedOpponents += PassedOpponents(e)
	}
	slices.SortStableFunc(out, func(a, b model.PlayerPassedOpponents) int {
		return cmp.Or(
			cmp.Compare(b.PassedOpponents, a.PassedOpponents),
			cmp.Compare(a.Team, b.Team),
			cmp.Compare(a.Player, b.Player),
		)
	})
	return out
}

// AssistsToXG credits each shot's xG to the player whose pass assisted it and
// sums per (shot team, assisting player). Sorted descending by team and xG.
func AssistsToXG(events []model.Event) []model.PlayerAssistXG {
	shots := make(map[string]*model.Event)
	for i := range events {
		if events[i].Type == model.TypeShot {
			shots[events[i].ID] = &events[i]
		}
	}

	idx := make(map[playerKey]int)
	var out []model.PlayerAssistXG
	for i := range events {
		e := &events[i]
		if e.PassAssistedShotID == "" {
			continue
		}
		shot, ok := shots[e.PassAssistedShotID]
		if !ok {
			continue
		}
		k := playerKey{shot.Team, e.Player}
		n, ok := idx[k]
		if !ok {
			n = len(out)
			idx[k] = n
			out = append(out, model.PlayerAssistXG{Team: shot.Team, Player: e.Player})
		}
		out[n].XG += shot.ShotXG
	}
	slices.SortStableFunc(out, func(a, b model.PlayerAssistXG) int {
		return cmp.Or(
			cmp.Compare(b.Team, a.Team),
			cmp.Compare(b.XG, a.XG),
			cmp.Compare(a.Player, b.Player),
		)
	})
	return out
}
