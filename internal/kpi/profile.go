package kpi

import (
	"math"
	"slices"

	"github.com/pable/go-soccer-metrics/internal/model"
)

// Rating classifies a team value against the tournament distribution.
type Rating string

const (
	RatingBelow   Rating = "below"
	RatingAverage Rating = "average"
	RatingAbove   Rating = "above"
)

// ratingBand is the half-width of the average band in standard deviations.
const ratingBand = 0.25

// Metric names one column of TeamMatchKPIs for profiling.
type Metric struct {
	Name       string
	HighIsGood bool
	value      func(*model.TeamMatchKPIs) float64
}

// Metrics lists the profiled KPIs in report order.
var Metrics = []Metric{
	{"goals_scored", true, func(k *model.TeamMatchKPIs) float64 { return float64(k.GoalsScored) }},
	{"goals_conceded", false, func(k *model.TeamMatchKPIs) float64 { return float64(k.GoalsConceded) }},
	{"xg_scored", true, func(k *model.TeamMatchKPIs) float64 { return k.XGScored }},
	{"xg_conceded", false, func(k *model.TeamMatchKPIs) float64 { return k.XGConceded }},
	{"shots", true, func(k *model.TeamMatchKPIs) float64 { return float64(k.Shots) }},
	{"passes", true, func(k *model.TeamMatchKPIs) float64 { return float64(k.Passes) }},
	{"pass_accuracy", true, func(k *model.TeamMatchKPIs) float64 { return k.PassAccuracy }},
	{"interceptions", true, func(k *model.TeamMatchKPIs) float64 { return float64(k.Interceptions) }},
	{"clearances", true, func(k *model.TeamMatchKPIs) float64 { return float64(k.Clearances) }},
	{"possession", true, func(k *model.TeamMatchKPIs) float64 { return k.Possession }},
}

// ProfileRow compares one KPI of a team with the tournament.
type ProfileRow struct {
	Metric     string
	HighIsGood bool
	Team       float64
	Average    float64
	Std        float64
	Rating     Rating
}

// meanStd returns the mean and sample standard deviation of the non-NaN
// values. Std is NaN with fewer than two values.
func meanStd(vals []float64) (mean, std float64) {
	var sum float64
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	mean = sum / float64(n)
	if n < 2 {
		return mean, math.NaN()
	}
	var sq float64
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(n-1))
}

func rate(team, avg, std float64, highIsGood bool) Rating {
	if math.IsNaN(team) || math.IsNaN(avg) {
		return RatingAverage
	}
	band := 0.0
	if !math.IsNaN(std) {
		band = ratingBand * std
	}
	diff := team - avg
	if !highIsGood {
		diff = -diff
	}
	switch {
	case diff < -band:
		return RatingBelow
	case diff > band:
		return RatingAbove
	}
	return RatingAverage
}

// TeamProfile compares the team's mean per KPI with the mean and standard
// deviation over every team-match row. It returns nil when the team has no
// rows.
func TeamProfile(kpis []model.TeamMatchKPIs, team string) []ProfileRow {
	var own []*model.TeamMatchKPIs
	for i := range kpis {
		if kpis[i].Team == team {
			own = append(own, &kpis[i])
		}
	}
	if len(own) == 0 {
		return nil
	}

	out := make([]ProfileRow, 0, len(Metrics))
	for _, m := range Metrics {
		all := make([]float64, len(kpis))
		for i := range kpis {
			all[i] = m.value(&kpis[i])
		}
		teamVals := make([]float64, len(own))
		for i, k := range own {
			teamVals[i] = m.value(k)
		}
		avg, std := meanStd(all)
		teamMean, _ := meanStd(teamVals)
		out = append(out, ProfileRow{
			Metric:     m.Name,
			HighIsGood: m.HighIsGood,
			Team:       teamMean,
			Average:    avg,
			Std:        std,
			Rating:     rate(teamMean, avg, std, m.HighIsGood),
		})
	}
	return out
}

// CenterHeight is the mean x of a team's center-back events after opponent
// goal kicks against the tournament mean.
type CenterHeight struct {
	Team       string
	TeamX      float64
	Tournament float64
	Events     int
}

// CenterHeightOf reports false when the team has no center events.
func CenterHeightOf(centerEvents []model.CenterEvent, team string) (CenterHeight, bool) {
	var teamSum, allSum float64
	n := 0
	for _, c := range centerEvents {
		allSum += c.X
		if c.Team == team {
			teamSum += c.X
			n++
		}
	}
	if n == 0 {
		return CenterHeight{Team: team}, false
	}
	return CenterHeight{
		Team:       team,
		TeamX:      teamSum / float64(n),
		Tournament: allSum / float64(len(centerEvents)),
		Events:     n,
	}, true
}

// PassClass buckets a pass for display.
type PassClass string

const (
	PassIncomplete PassClass = "incomplete"
	PassShotAssist PassClass = "shot-assist"
	PassGoalAssist PassClass = "goal-assist"
	PassComplete   PassClass = "complete"
)

// Classify returns the display class of a pass. A failed pass is incomplete
// regardless of its assist flags.
func Classify(e *model.Event) PassClass {
	switch {
	case e.PassOutcome != "":
		return PassIncomplete
	case e.PassShotAssist:
		return PassShotAssist
	case e.PassGoalAssist:
		return PassGoalAssist
	}
	return PassComplete
}

// PassRow is one entry of a filtered pass list.
type PassRow struct {
	MatchID  int
	Team     string
	Opponent string
	Player   string
	Start    model.Location
	End      model.Location
	Class    PassClass
}

// PassFilter selects passes. Empty or "all" fields match everything.
type PassFilter struct {
	Team     string
	Opponent string
	Player   string
}

func matches(want, got string) bool {
	return want == "" || want == "all" || want == got
}

// FilterPasses lists passes with start and end locations matching f, in
// input order.
func FilterPasses(events []model.Event, f PassFilter) []PassRow {
	var out []PassRow
	for i := range events {
		e := &events[i]
		if e.Location == nil || e.PassEndLocation == nil {
			continue
		}
		if !matches(f.Team, e.Team) || !matches(f.Opponent, e.Opponent) || !matches(f.Player, e.Player) {
			continue
		}
		out = append(out, PassRow{
			MatchID:  e.MatchID,
			Team:     e.Team,
			Opponent: e.Opponent,
			Player:   e.Player,
			Start:    *e.Location,
			End:      *e.PassEndLocation,
			Class:    Classify(e),
		})
	}
	return out
}

// Teams returns the distinct teams in order of first appearance.
func Teams(events []model.Event) []string {
	return distinct(events, func(e *model.Event) (string, bool) { return e.Team, e.Team != "" })
}

// Opponents returns the distinct opponents the team faced.
func Opponents(events []model.Event, team string) []string {
	return distinct(events, func(e *model.Event) (string, bool) {
		return e.Opponent, e.Team == team && e.Opponent != ""
	})
}

// Players returns the distinct players of a team, optionally restricted to
// matches against one opponent.
func Players(events []model.Event, team, opponent string) []string {
	return distinct(events, func(e *model.Event) (string, bool) {
		return e.Player, e.Team == team && matches(opponent, e.Opponent) && e.Player != ""
	})
}

func distinct(events []model.Event, pick func(*model.Event) (string, bool)) []string {
	var out []string
	for i := range events {
		v, ok := pick(&events[i])
		if ok && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
