// Package preprocess enriches the flat event table with center-back rosters,
// opponent teams and elapsed match time.
package preprocess

import (
	"fmt"
	"slices"
	"sort"

	"github.com/pable/go-soccer-metrics/internal/model"
)

func cloneAll(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

type groupKey struct {
	matchID int
	team    string
}

// CenterIDs attaches the current center-back roster to every event. Rows with
// a tactics snapshot start a new roster; other rows carry the last roster seen
// in their (match, team) group in index order. Rows before the first snapshot
// of their group keep no roster. The returned slice keeps the input order.
func CenterIDs(events []model.Event) []model.Event {
	out := cloneAll(events)

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := &out[order[a]], &out[order[b]]
		if ea.MatchID != eb.MatchID {
			return ea.MatchID < eb.MatchID
		}
		if ea.Team != eb.Team {
			return ea.Team < eb.Team
		}
		return ea.Index < eb.Index
	})

	var (
		current groupKey
		last    []int
		seen    bool
	)
	for n, i := range order {
		e := &out[i]
		k := groupKey{e.MatchID, e.Team}
		if n == 0 || k != current {
			current, last, seen = k, nil, false
		}
		if e.Tactics != nil {
			last = e.Tactics.CenterIDs()
			seen = true
		}
		if seen {
			e.CenterIDs = slices.Clone(last)
			e.HasCenterIDs = true
		} else {
			e.CenterIDs = nil
			e.HasCenterIDs = false
		}
	}
	return out
}

// MatchTeams returns the distinct teams of every match in order of first appearance.
func MatchTeams(events []model.Event) map[int][]string {
	teams := make(map[int][]string)
	for _, e := range events {
		if !slices.Contains(teams[e.MatchID], e.Team) {
			teams[e.MatchID] = append(teams[e.MatchID], e.Team)
		}
	}
	return teams
}

// AddOpponentTeam sets every event's opponent to the other team of its match.
// A match without exactly two distinct teams is an error.
func AddOpponentTeam(events []model.Event) ([]model.Event, error) {
	opponent := make(map[groupKey]string)
	for matchID, teams := range MatchTeams(events) {
		if len(teams) != 2 {
			return nil, fmt.Errorf("match %d has teams %v: %w", matchID, teams, model.ErrInvalidMatch)
		}
		opponent[groupKey{matchID, teams[0]}] = teams[1]
		opponent[groupKey{matchID, teams[1]}] = teams[0]
	}

	out := cloneAll(events)
	for i := range out {
		out[i].Opponent = opponent[groupKey{out[i].MatchID, out[i].Team}]
	}
	return out, nil
}

// Run applies the center-back and opponent enrichment, sorts by (match, index)
// and computes the elapsed match time in seconds.
func Run(events []model.Event) ([]model.Event, error) {
	withCenters := CenterIDs(events)
	out, err := AddOpponentTeam(withCenters)
	if err != nil {
		return nil, fmt.Errorf("add opponent team: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].Index < out[j].Index
	})
	for i := range out {
		out[i].EventTime = out[i].Minute*60 + out[i].Second
	}
	return out, nil
}
