package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-soccer-metrics/internal/config"
	"github.com/pable/go-soccer-metrics/internal/loader"
	"github.com/pable/go-soccer-metrics/internal/memo"
	"github.com/pable/go-soccer-metrics/internal/metrics"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/statsbomb"
)

type fakeProvider struct {
	events      map[int][]statsbomb.Event
	eventsCalls int
}

func (f *fakeProvider) Competitions(ctx context.Context) ([]statsbomb.Competition, error) {
	return []statsbomb.Competition{{CompetitionID: 53, SeasonID: 106, CompetitionName: "UEFA Women's Euro", SeasonName: "2022"}}, nil
}

func (f *fakeProvider) Matches(ctx context.Context, competitionID, seasonID int) ([]statsbomb.Match, error) {
	return []statsbomb.Match{{MatchID: 1, MatchDate: "2022-07-06"}}, nil
}

func (f *fakeProvider) Events(ctx context.Context, matchID int) ([]statsbomb.Event, error) {
	f.eventsCalls++
	return f.events[matchID], nil
}

func raw(id string, index, minute, second int, typ, team, pattern string) statsbomb.Event {
	return statsbomb.Event{
		ID: id, Index: index, Period: 1, Minute: minute, Second: second,
		Type:        statsbomb.Named{Name: typ},
		PlayPattern: statsbomb.Named{Name: pattern},
		Team:        statsbomb.Named{Name: team},
		Duration:    1,
	}
}

func matchEvents() []statsbomb.Event {
	xiB := raw("e2", 2, 0, 0, model.TypeStartingXI, "B", "Regular Play")
	xiB.Tactics = &statsbomb.Tactics{Formation: 442, Lineup: []statsbomb.LineupPlayer{
		{Player: statsbomb.Named{ID: 4, Name: "Four"}, Position: statsbomb.Named{ID: 3, Name: "Right Center Back"}},
	}}
	kick := raw("e3", 3, 5, 0, model.TypePass, "A", model.PatternGoalKick)
	kick.Player = &statsbomb.Named{ID: 1, Name: "Keeper"}
	kick.Location = []any{6.0, 40.0}
	kick.Pass = &statsbomb.Pass{EndLocation: []any{60.0, 40.0}}
	clear := raw("e4", 4, 5, 8, model.TypeClearance, "B", model.PatternGoalKick)
	clear.Player = &statsbomb.Named{ID: 4, Name: "Four"}
	clear.Location = []any{35.0, 30.0}
	shot := raw("e5", 5, 20, 0, model.TypeShot, "B", "Regular Play")
	shot.Player = &statsbomb.Named{ID: 9, Name: "Nine"}
	shot.Location = []any{110.0, 40.0}
	shot.Shot = &statsbomb.Shot{StatsbombXG: 0.4, Outcome: &statsbomb.Named{Name: model.OutcomeGoal}}
	return []statsbomb.Event{
		raw("e1", 1, 0, 0, model.TypeStartingXI, "A", "Regular Play"),
		xiB, kick, clear, shot,
	}
}

func setup(t *testing.T) (*fakeProvider, *config.Config) {
	t.Helper()
	frames := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(frames, "1.json"), []byte("[]"), 0o644))
	cfg := config.New()
	cfg.OpenDataPath = frames + string(os.PathSeparator)
	cfg.TableDir = t.TempDir()
	return &fakeProvider{events: map[int][]statsbomb.Event{1: matchEvents()}}, cfg
}

func newRunner(p loader.Provider, cfg *config.Config) *Runner {
	log, _ := test.NewNullLogger()
	cache := memo.New()
	l := loader.New(p, cfg.OpenDataPath, cache, log)
	return New(l, cache, metrics.New(), log)
}

func TestRun_ComputesAndWritesTables(t *testing.T) {
	p, cfg := setup(t)
	r := newRunner(p, cfg)

	out, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, SourceComputed, out.Source)
	assert.Equal(t, 1, out.Summary.Matches)
	assert.Equal(t, 5, out.Summary.Events)
	assert.NotEmpty(t, out.Summary.RunID)

	res := out.Results
	require.Len(t, res.KPIs, 2)
	assert.Equal(t, "A", res.KPIs[0].Team)
	assert.Equal(t, 1, res.KPIs[1].GoalsScored)

	require.Len(t, res.CenterEvents, 1)
	assert.Equal(t, "Four", res.CenterEvents[0].Player)
	assert.Equal(t, 8, res.CenterEvents[0].DeltaGoalKick)
	assert.Equal(t, 35.0, res.CenterEvents[0].X)

	require.Len(t, res.GoalsXG, 1)
	assert.Equal(t, "Nine", res.GoalsXG[0].Player)

	_, err = os.Stat(filepath.Join(cfg.TableDirFor(), "events_1.csv"))
	assert.NoError(t, err)

	// Same selection in the same process is served from the memo.
	again, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Same(t, out, again)
	assert.Equal(t, 1, p.eventsCalls)
}

func TestRun_ReusesTableFiles(t *testing.T) {
	p, cfg := setup(t)
	first, err := newRunner(p, cfg).Run(context.Background(), cfg)
	require.NoError(t, err)

	out, err := newRunner(p, cfg).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, SourceTables, out.Source)
	assert.Equal(t, 1, p.eventsCalls, "table files must short-circuit loading")
	assert.Equal(t, first.Summary.RunKey, out.Summary.RunKey)
	assert.Equal(t, len(first.Results.Events), len(out.Results.Events))
	assert.Equal(t, first.Results.GoalsXG, out.Results.GoalsXG)
}

func TestRun_ToleranceGetsItsOwnTableFiles(t *testing.T) {
	p, cfg := setup(t)
	wide, err := newRunner(p, cfg).Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, wide.Results.CenterEvents, 1)
	require.Equal(t, 8, wide.Results.CenterEvents[0].DeltaGoalKick)
	wideDir := cfg.TableDirFor()

	// The only center-back action is 8 seconds after the goal kick.
	cfg.GoalKickTolerance = 5
	narrow, err := newRunner(p, cfg).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, wideDir, cfg.TableDirFor())
	assert.Equal(t, SourceComputed, narrow.Source, "tables of another tolerance must not be reused")
	assert.Empty(t, narrow.Results.CenterEvents)
	assert.Equal(t, 2, p.eventsCalls)
	assert.NotEqual(t, wide.Summary.RunKey, narrow.Summary.RunKey)
}

func TestRefresh_IgnoresTableFiles(t *testing.T) {
	p, cfg := setup(t)
	_, err := newRunner(p, cfg).Run(context.Background(), cfg)
	require.NoError(t, err)

	p.events[1] = p.events[1][:4] // drop the goal
	out, err := newRunner(p, cfg).Refresh(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, SourceComputed, out.Source)
	assert.Equal(t, 2, p.eventsCalls)
	assert.Empty(t, out.Results.GoalsXG)

	// The rewritten table files hold the recomputed tables.
	again, err := newRunner(p, cfg).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, SourceTables, again.Source)
	assert.Len(t, again.Results.Events, 4)
	assert.Empty(t, again.Results.GoalsXG)
}

func TestRun_InvalidMatchFailsRun(t *testing.T) {
	p, cfg := setup(t)
	p.events[1] = []statsbomb.Event{raw("e1", 1, 0, 0, model.TypePass, "A", "Regular Play")}

	_, err := newRunner(p, cfg).Run(context.Background(), cfg)
	assert.ErrorIs(t, err, model.ErrInvalidMatch)

	_, statErr := os.Stat(filepath.Join(cfg.TableDirFor(), "events_1.csv"))
	assert.True(t, os.IsNotExist(statErr), "no table files after a failed run")
}

func TestRunKeyDependsOnSelection(t *testing.T) {
	cfg := config.New()
	k1, err := RunKey(cfg)
	require.NoError(t, err)
	cfg.GoalKickTolerance = 10
	k2, err := RunKey(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}
