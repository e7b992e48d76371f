package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/pable/go-soccer-metrics/internal/kpi"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/storage"
)

func init() {
	color.NoColor = true
}

func TestPrintKPITable_UndefinedAsDash(t *testing.T) {
	var buf bytes.Buffer
	PrintKPITable(&buf, []model.TeamMatchKPIs{
		{MatchID: 1, Team: "Spain", Passes: 0, PassAccuracy: math.NaN(), Possession: 0.55},
	})
	out := buf.String()
	if !strings.Contains(out, "Spain") || !strings.Contains(out, "—") {
		t.Errorf("expected team row with a dash for undefined accuracy:\n%s", out)
	}
	if !strings.Contains(out, "55.0%") {
		t.Errorf("expected possession as percent:\n%s", out)
	}
}

func TestEmptyTablesPrintNoData(t *testing.T) {
	var buf bytes.Buffer
	PrintGoalsXG(&buf, nil)
	PrintPassList(&buf, nil)
	PrintCenterHeight(&buf, kpi.CenterHeight{}, false, 15)
	if got := strings.Count(buf.String(), NoData); got != 3 {
		t.Errorf("expected 3 no-data lines, got %d:\n%s", got, buf.String())
	}
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	PrintProfile(&buf, "England", []kpi.ProfileRow{
		{Metric: "goals_scored", HighIsGood: true, Team: 3, Average: 1.2, Std: 0.9, Rating: kpi.RatingAbove},
		{Metric: "possession", HighIsGood: true, Team: math.NaN(), Average: 0.5, Std: math.NaN(), Rating: kpi.RatingAverage},
	})
	out := buf.String()
	for _, want := range []string{"England", "goals_scored", "above", "average", "—"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrintPassList_Counts(t *testing.T) {
	var buf bytes.Buffer
	PrintPassList(&buf, []kpi.PassRow{
		{MatchID: 1, Player: "x", Opponent: "B", Class: kpi.PassComplete},
		{MatchID: 1, Player: "x", Opponent: "B", Class: kpi.PassGoalAssist},
		{MatchID: 1, Player: "x", Opponent: "B", Class: kpi.PassIncomplete},
	})
	if !strings.Contains(buf.String(), "3 passes: 1 complete, 1 incomplete, 0 shot assists, 1 goal assists") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}

func TestSampleFlag(t *testing.T) {
	cases := map[int]string{0: "VERY_LOW", 7: "VERY_LOW", 8: "LOW", 19: "LOW", 20: "OK"}
	for n, want := range cases {
		if got := sampleFlag(n); got != want {
			t.Errorf("sampleFlag(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestPrintMatchResults(t *testing.T) {
	var buf bytes.Buffer
	PrintMatchResults(&buf, "Spain", []storage.MatchResult{
		{MatchID: 3, Opponent: "Finland", GoalsFor: 4, GoalsAgainst: 1, XGFor: 2.5, XGAgainst: 0.4, Possession: 0.7, PassAccuracy: math.NaN()},
	})
	out := buf.String()
	for _, want := range []string{"Finland", "4-1", "70.0%", "—", "Spain: 1 matches"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
