package tablefile

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-soccer-metrics/internal/model"
)

func intp(v int) *int { return &v }

func sampleResults() *model.Results {
	events := []model.Event{
		{
			ID: "a1", MatchID: 1, Index: 1, Period: 1, Timestamp: "00:00:00.000", Type: model.TypeStartingXI,
			TeamID: 10, Team: "A", Opponent: "B", Duration: 0,
			Tactics: &model.Tactics{Formation: 433, Lineup: []model.LineupEntry{{PlayerID: 5, PlayerName: "Five", PositionID: 3, PositionName: "Right Center Back", JerseyNumber: 4}}},
			HasCenterIDs: true, CenterIDs: []int{5},
		},
		{
			ID: "a2", MatchID: 1, Index: 2, Period: 1, Minute: 5, Second: 10, Type: model.TypePass,
			PlayPattern: model.PatternGoalKick, TeamID: 10, Team: "A", PlayerID: 5, Player: "Five, \"the\" back",
			Location: &model.Location{X: 10.5, Y: 40}, Duration: 1.25, PassEndLocation: &model.Location{X: 60, Y: 20},
			PassRecipient: "Nine", PassAssistedShotID: "b1", PassShotAssist: true,
			HasFrame: true, FreezeFrame: []model.FramePlayer{{Teammate: false, Keeper: true, Location: model.Location{X: 118, Y: 40}}},
			HasCenterIDs: true, CenterIDs: []int{5}, Opponent: "B", EventTime: 310,
		},
		{
			ID: "b1", MatchID: 1, Index: 3, Type: model.TypeShot, TeamID: 11, Team: "B", PlayerID: 9, Player: "Nine",
			ShotXG: 0.123, ShotOutcome: model.OutcomeGoal, Opponent: "A", EventTime: 320,
			GoalKickTime: intp(300), DeltaGoalKick: intp(20), CenterIDs: nil,
		},
	}
	return &model.Results{
		Events: events,
		KPIs: []model.TeamMatchKPIs{
			{MatchID: 1, Team: "A", Passes: 1, PassAccuracy: 100, Possession: 0.6, XGConceded: 0.123},
			{MatchID: 1, Team: "B", GoalsScored: 1, XGScored: 0.123, Shots: 1, PassAccuracy: math.NaN(), Possession: 0.4},
		},
		CenterEvents:    []model.CenterEvent{{MatchID: 1, Index: 2, Team: "A", PlayerID: 5, Player: "Five", CenterIDs: []int{5}, DeltaGoalKick: 10, X: 10.5, Y: 40}},
		GoalsXG:         []model.PlayerGoalsXG{{Team: "B", Player: "Nine", XG: 0.123, Goals: 1}},
		AssistsXG:       []model.PlayerAssistXG{{Team: "B", Player: "Five", XG: 0.123}},
		PassedOpponents: []model.PlayerPassedOpponents{{Team: "A", Player: "Five", PassedOpponents: 0}},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tables")
	want := sampleResults()

	ok, err := Exists(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Write(dir, want))

	ok, err = Exists(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := Read(dir)
	require.NoError(t, err)

	assert.Equal(t, want.Events, got.Events)
	assert.Equal(t, want.CenterEvents, got.CenterEvents)
	assert.Equal(t, want.GoalsXG, got.GoalsXG)
	assert.Equal(t, want.AssistsXG, got.AssistsXG)
	assert.Equal(t, want.PassedOpponents, got.PassedOpponents)

	require.Len(t, got.KPIs, 2)
	assert.Equal(t, want.KPIs[0], got.KPIs[0])
	assert.True(t, math.IsNaN(got.KPIs[1].PassAccuracy), "NaN should round-trip through an empty cell")
	got.KPIs[1].PassAccuracy, want.KPIs[1].PassAccuracy = 0, 0
	assert.Equal(t, want.KPIs[1], got.KPIs[1])
}

func TestEventsSplitInHalves(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, sampleResults()))

	first, err := readFile(dir, EventsFirstHalf, eventColumns)
	require.NoError(t, err)
	second, err := readFile(dir, EventsSecondHalf, eventColumns)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Len(t, second, 2)
}

func TestExistsOnlyChecksFirstFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EventsFirstHalf), []byte("id\n"), 0o644))
	ok, err := Exists(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Read(dir)
	assert.Error(t, err)
}

func TestReadTable_MissingColumn(t *testing.T) {
	in := "team,player\nA,x\n"
	_, err := readTable(strings.NewReader(in), goalsColumns)
	assert.ErrorIs(t, err, model.ErrMissingRequiredColumn)
	assert.Contains(t, err.Error(), "xg")
}

func TestReadTable_ColumnOrderAndExtras(t *testing.T) {
	in := "goals,extra,xg,player,team\n2,zzz,0.5,x,A\n"
	rows, err := readTable(strings.NewReader(in), goalsColumns)
	require.NoError(t, err)
	assert.Equal(t, []model.PlayerGoalsXG{{Team: "A", Player: "x", XG: 0.5, Goals: 2}}, rows)
}

func TestReadTable_BadCell(t *testing.T) {
	in := "team,player,passed_opponents\nA,x,many\n"
	_, err := readTable(strings.NewReader(in), passedColumns)
	assert.ErrorContains(t, err, "passed_opponents")
}
