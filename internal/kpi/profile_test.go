package kpi

import (
	"math"
	"slices"
	"testing"

	"github.com/pable/go-soccer-metrics/internal/model"
)

func TestTeamProfile(t *testing.T) {
	kpis := []model.TeamMatchKPIs{
		{Team: "A", GoalsScored: 3, GoalsConceded: 0, PassAccuracy: 90, Possession: 0.6},
		{Team: "B", GoalsScored: 0, GoalsConceded: 3, PassAccuracy: math.NaN(), Possession: 0.4},
		{Team: "A", GoalsScored: 1, GoalsConceded: 1, PassAccuracy: 80, Possession: 0.5},
		{Team: "C", GoalsScored: 1, GoalsConceded: 1, PassAccuracy: 70, Possession: 0.5},
	}
	rows := TeamProfile(kpis, "A")
	if len(rows) != len(Metrics) {
		t.Fatalf("expected %d rows, got %d", len(Metrics), len(rows))
	}
	byName := map[string]ProfileRow{}
	for _, r := range rows {
		byName[r.Metric] = r
	}

	gs := byName["goals_scored"]
	if gs.Team != 2 || gs.Average != 1.25 || gs.Rating != RatingAbove {
		t.Errorf("goals_scored: %+v", gs)
	}
	// Fewer goals conceded than average is good.
	gc := byName["goals_conceded"]
	if gc.Team != 0.5 || gc.Rating != RatingAbove {
		t.Errorf("goals_conceded: %+v", gc)
	}
	pa := byName["pass_accuracy"]
	if pa.Average != 80 || pa.Team != 85 {
		t.Errorf("pass_accuracy should skip NaN rows: %+v", pa)
	}
	if sh := byName["shots"]; sh.Rating != RatingAverage || sh.Std != 0 {
		t.Errorf("constant column should rate average: %+v", sh)
	}

	if TeamProfile(kpis, "Z") != nil {
		t.Error("unknown team should yield nil")
	}
}

func TestRate(t *testing.T) {
	cases := []struct {
		team, avg, std float64
		high           bool
		want           Rating
	}{
		{10, 5, 4, true, RatingAbove},
		{10, 5, 4, false, RatingBelow},
		{5.5, 5, 4, true, RatingAverage},
		{0, 5, 4, true, RatingBelow},
		{0, 5, 4, false, RatingAbove},
		{math.NaN(), 5, 4, true, RatingAverage},
	}
	for _, c := range cases {
		if got := rate(c.team, c.avg, c.std, c.high); got != c.want {
			t.Errorf("rate(%v, %v, %v, %v) = %s, want %s", c.team, c.avg, c.std, c.high, got, c.want)
		}
	}
}

func TestCenterHeightOf(t *testing.T) {
	ce := []model.CenterEvent{{Team: "A", X: 20}, {Team: "A", X: 30}, {Team: "B", X: 40}}
	h, ok := CenterHeightOf(ce, "A")
	if !ok || h.TeamX != 25 || h.Tournament != 30 || h.Events != 2 {
		t.Errorf("unexpected height %+v ok=%v", h, ok)
	}
	if _, ok := CenterHeightOf(ce, "C"); ok {
		t.Error("team without center events should report false")
	}
}

func TestFilterPasses(t *testing.T) {
	p := func(team, opp, player string) model.Event {
		return model.Event{Type: model.TypePass, Team: team, Opponent: opp, Player: player,
			Location: loc(1, 1), PassEndLocation: loc(2, 2)}
	}
	failed := p("A", "B", "x")
	failed.PassOutcome = "Incomplete"
	failed.PassShotAssist = true
	shotAssist := p("A", "C", "y")
	shotAssist.PassShotAssist = true
	goalAssist := p("A", "B", "y")
	goalAssist.PassGoalAssist = true
	noEnd := p("A", "B", "x")
	noEnd.PassEndLocation = nil

	events := []model.Event{failed, shotAssist, goalAssist, p("A", "B", "x"), p("B", "A", "z"), noEnd}

	all := FilterPasses(events, PassFilter{Team: "A", Opponent: "all", Player: ""})
	if len(all) != 4 {
		t.Fatalf("expected 4 passes for A, got %d", len(all))
	}
	classes := []PassClass{all[0].Class, all[1].Class, all[2].Class, all[3].Class}
	want := []PassClass{PassIncomplete, PassShotAssist, PassGoalAssist, PassComplete}
	if !slices.Equal(classes, want) {
		t.Errorf("classes: got %v, want %v", classes, want)
	}

	vsB := FilterPasses(events, PassFilter{Team: "A", Opponent: "B", Player: "y"})
	if len(vsB) != 1 || vsB[0].Class != PassGoalAssist {
		t.Errorf("expected y's goal assist against B, got %+v", vsB)
	}
}

func TestSelectionHelpers(t *testing.T) {
	events := []model.Event{
		{Team: "A", Opponent: "B", Player: "x"},
		{Team: "B", Opponent: "A", Player: "z"},
		{Team: "A", Opponent: "C", Player: "y"},
		{Team: "A", Opponent: "B", Player: ""},
		{Team: "C", Opponent: "A", Player: "w"},
	}
	if got := Teams(events); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("Teams: %v", got)
	}
	if got := Opponents(events, "A"); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("Opponents: %v", got)
	}
	if got := Players(events, "A", "B"); !slices.Equal(got, []string{"x"}) {
		t.Errorf("Players vs B: %v", got)
	}
	if got := Players(events, "A", "all"); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("Players all: %v", got)
	}
}
