package cmd

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-soccer-metrics/internal/config"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/pipeline"
	"github.com/pable/go-soccer-metrics/internal/storage"
)

const testRunKey = "3f9a0c11d2e4b5a6978812ab34cd56ef7890a1b2c3d4e5f60718293a4b5c6d7e"

func init() {
	color.NoColor = true
}

func loc(x, y float64) *model.Location { return &model.Location{X: x, Y: y} }

func sampleOutput() *pipeline.Output {
	return &pipeline.Output{
		Source: pipeline.SourceComputed,
		Summary: model.RunSummary{
			RunKey:      testRunKey,
			RunID:       "run-1",
			Competition: "UEFA Women's Euro",
			Season:      "2022",
			Cutoff:      "2022-08-01",
			CreatedAt:   "2022-08-02T10:00:00Z",
			Matches:     2,
			Events:      5,
		},
		Results: &model.Results{
			Events: []model.Event{
				{ID: "e1", MatchID: 1, Index: 1, Type: model.TypePass, Team: "Team A", Opponent: "Team B",
					PlayerID: 10, Player: "Ana", Location: loc(30, 40), PassEndLocation: loc(60, 40)},
				{ID: "e2", MatchID: 1, Index: 2, Type: model.TypePass, Team: "Team A", Opponent: "Team B",
					PlayerID: 11, Player: "Bea", Location: loc(60, 40), PassEndLocation: loc(90, 20), PassOutcome: "Incomplete"},
				{ID: "e4", MatchID: 1, Index: 3, Type: model.TypePressure, Team: "Team B", Opponent: "Team A",
					PlayerID: 20, Player: "Cleo"},
				{ID: "e3", MatchID: 2, Index: 1, Type: model.TypePass, Team: "Team A", Opponent: "Team C",
					PlayerID: 10, Player: "Ana", Location: loc(50, 30), PassEndLocation: loc(100, 35), PassGoalAssist: true},
				{ID: "e5", MatchID: 2, Index: 2, Type: model.TypeClearance, Team: "Team C", Opponent: "Team A",
					PlayerID: 30, Player: "Dora", Location: loc(10, 40)},
			},
			KPIs: []model.TeamMatchKPIs{
				{MatchID: 1, Team: "Team A", GoalsScored: 2, GoalsConceded: 0, XGScored: 1.8, XGConceded: 0.3, Passes: 2, PassAccuracy: 50, Possession: 0.6},
				{MatchID: 1, Team: "Team B", GoalsScored: 0, GoalsConceded: 2, XGScored: 0.3, XGConceded: 1.8, Passes: 0, PassAccuracy: math.NaN(), Possession: 0.4},
				{MatchID: 2, Team: "Team A", GoalsScored: 1, GoalsConceded: 1, XGScored: 1.1, XGConceded: 0.9, Passes: 1, PassAccuracy: 100, Possession: 0.55},
				{MatchID: 2, Team: "Team C", GoalsScored: 1, GoalsConceded: 1, XGScored: 0.9, XGConceded: 1.1, Passes: 4, PassAccuracy: 75, Possession: 0.45},
			},
			GoalsXG: []model.PlayerGoalsXG{
				{Team: "Team A", Player: "Ana", XG: 1.5, Goals: 2},
			},
			AssistsXG: []model.PlayerAssistXG{
				{Team: "Team A", Player: "Ana", XG: 0.7},
			},
			PassedOpponents: []model.PlayerPassedOpponents{
				{Team: "Team A", Player: "Ana", PassedOpponents: 4},
			},
		},
	}
}

func openMemDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seededSession(t *testing.T) (*shellSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg = config.New()
	db := openMemDB(t)
	stored, err := storeRun(db, sampleOutput(), cfg.GoalKickTolerance)
	require.NoError(t, err)
	require.True(t, stored)

	var out, errw bytes.Buffer
	s := &shellSession{db: db, out: &out, errw: &errw}
	require.NoError(t, s.use(""))
	return s, &out, &errw
}

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"  list  ", []string{"list"}},
		{`profile "Germany Women's"`, []string{"profile", "Germany Women's"}},
		{`passes "Team A" all "Lucy Bronze"`, []string{"passes", "Team A", "all", "Lucy Bronze"}},
		{`use ""`, []string{"use", ""}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, splitArgs(c.line), "line %q", c.line)
	}
}

func TestStoreRun_SkipsExisting(t *testing.T) {
	db := openMemDB(t)
	out := sampleOutput()

	stored, err := storeRun(db, out, 15)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = storeRun(db, out, 15)
	require.NoError(t, err)
	assert.False(t, stored, "second store of the same run key should be skipped")

	runs, err := db.ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestFindRun(t *testing.T) {
	db := openMemDB(t)
	_, err := findRun(db, "")
	assert.ErrorContains(t, err, "no runs stored")

	_, err = storeRun(db, sampleOutput(), 15)
	require.NoError(t, err)

	run, err := findRun(db, "3f9a")
	require.NoError(t, err)
	assert.Equal(t, testRunKey, run.RunKey)

	_, err = findRun(db, "ffff")
	assert.ErrorContains(t, err, `no run found with prefix "ffff"`)
}

func TestShellSession(t *testing.T) {
	s, out, errw := seededSession(t)
	assert.Contains(t, out.String(), "using run 3f9a0c11d2e4")

	out.Reset()
	assert.False(t, s.exec("teams"))
	assert.Equal(t, "Team A\nTeam B\nTeam C\n", out.String())

	out.Reset()
	assert.False(t, s.exec(`opponents "Team A"`))
	assert.Equal(t, "Team B\nTeam C\n", out.String())

	out.Reset()
	assert.False(t, s.exec(`profile "Team A"`))
	assert.Contains(t, out.String(), "goals_scored")
	assert.Contains(t, out.String(), "Ana")

	out.Reset()
	assert.False(t, s.exec(`passes "Team A" "Team B"`))
	assert.Contains(t, out.String(), "2 passes: 1 complete, 1 incomplete, 0 shot assists, 0 goal assists")

	out.Reset()
	assert.False(t, s.exec(`passes "Team A" all Ana`))
	assert.Contains(t, out.String(), "2 passes: 1 complete, 0 incomplete, 0 shot assists, 1 goal assists")

	assert.False(t, s.exec("profile Nobody"))
	assert.Contains(t, errw.String(), `team "Nobody" not in run`)

	errw.Reset()
	assert.False(t, s.exec("bogus"))
	assert.Contains(t, errw.String(), `unknown command "bogus"`)

	assert.True(t, s.exec("exit"))
}

func TestShellSession_NoRunSelected(t *testing.T) {
	var out, errw bytes.Buffer
	s := &shellSession{db: openMemDB(t), out: &out, errw: &errw}
	assert.False(t, s.exec("teams"))
	assert.Contains(t, errw.String(), "no run selected")
}

func TestBuildTeamDoc(t *testing.T) {
	s, _, _ := seededSession(t)

	doc, err := buildTeamDoc(s.db, s.run, s.res, "Team B")
	require.NoError(t, err)
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	got := string(b)
	assert.Contains(t, got, `"team":"Team B"`)
	assert.Contains(t, got, `"pass_accuracy":null`, "undefined accuracy encodes as null")
	assert.Contains(t, got, `"run":"3f9a0c11d2e4"`)

	_, err = buildTeamDoc(s.db, s.run, s.res, "Nobody")
	assert.Error(t, err)
}

func TestBuildTournamentContext(t *testing.T) {
	got, err := buildTournamentContext("UEFA Women's Euro", "2022", "2022-08-01", []storage.TeamSummary{
		{Team: "Team A", Matches: 2, GoalsScored: 3, XGScored: 2.9049, AvgPassAccuracy: math.NaN()},
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(got, `"xg_scored":2.9`), got)
	assert.True(t, strings.Contains(got, `"avg_pass_accuracy":null`), got)
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("**England** press high after goal kicks")
	require.NoError(t, err)
	assert.Contains(t, out, "England")
	assert.Contains(t, out, "goal kicks")
}
