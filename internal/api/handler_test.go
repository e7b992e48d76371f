package api

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-soccer-metrics/internal/metrics"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fixture() *pipeline.Output {
	return &pipeline.Output{
		Summary: model.RunSummary{RunKey: "abc", Competition: "UEFA Women's Euro", Season: "2022", Matches: 1},
		Source:  pipeline.SourceComputed,
		Results: &model.Results{
			Events: []model.Event{
				{MatchID: 1, Team: "A", Opponent: "B", Player: "x", Type: model.TypePass,
					Location: &model.Location{X: 10, Y: 10}, PassEndLocation: &model.Location{X: 50, Y: 20}},
				{MatchID: 1, Team: "B", Opponent: "A", Player: "z", Type: model.TypePass,
					Location: &model.Location{X: 30, Y: 10}, PassEndLocation: &model.Location{X: 40, Y: 20}, PassOutcome: "Incomplete"},
			},
			KPIs: []model.TeamMatchKPIs{
				{MatchID: 1, Team: "A", GoalsScored: 2, Passes: 1, PassAccuracy: 100, Possession: 0.6},
				{MatchID: 1, Team: "B", GoalsConceded: 2, Passes: 0, PassAccuracy: math.NaN(), Possession: 0.4},
			},
			CenterEvents: []model.CenterEvent{{MatchID: 1, Team: "B", Player: "z", X: 30, Y: 10}},
			GoalsXG:      []model.PlayerGoalsXG{{Team: "A", Player: "x", XG: 1.1, Goals: 2}},
		},
	}
}

func newTestRouter(load LoadFunc) *gin.Engine {
	log, _ := test.NewNullLogger()
	return NewRouter(NewHandler(load, 15, log), metrics.New().Registry())
}

func get(t *testing.T, r http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func okLoad(ctx context.Context) (*pipeline.Output, error) { return fixture(), nil }

func TestKPIs_NaNAsNull(t *testing.T) {
	r := newTestRouter(okLoad)
	w, body := get(t, r, "/api/kpis?team=B")
	require.Equal(t, http.StatusOK, w.Code)
	rs := body["rows"].([]any)
	require.Len(t, rs, 1)
	row := rs[0].(map[string]any)
	assert.Equal(t, "B", row["team"])
	assert.Nil(t, row["pass_accuracy"])
	assert.Equal(t, 0.4, row["possession"])
}

func TestEmptySelectionMessage(t *testing.T) {
	r := newTestRouter(okLoad)
	w, body := get(t, r, "/api/goals-xg?team=B")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, NoData, body["message"])
	assert.Empty(t, body["rows"])
}

func TestProfile(t *testing.T) {
	r := newTestRouter(okLoad)
	w, body := get(t, r, "/api/teams/A/profile")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", body["team"])
	assert.Len(t, body["kpis"], 10)
	assert.NotContains(t, body, "center_height")

	w, body = get(t, r, "/api/teams/B/profile")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "center_height")

	w, _ = get(t, r, "/api/teams/Nobody/profile")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPassesAndSelections(t *testing.T) {
	r := newTestRouter(okLoad)
	_, body := get(t, r, "/api/teams/B/passes?opponent=all")
	rs := body["rows"].([]any)
	require.Len(t, rs, 1)
	assert.Equal(t, "incomplete", rs[0].(map[string]any)["class"])

	_, body = get(t, r, "/api/teams")
	assert.Equal(t, []any{"A", "B"}, body["rows"])

	_, body = get(t, r, "/api/teams/A/players?opponent=B")
	assert.Equal(t, []any{"x"}, body["rows"])
}

func TestLoadErrorIs500(t *testing.T) {
	r := newTestRouter(func(ctx context.Context) (*pipeline.Output, error) {
		return nil, model.ErrUpstreamUnavailable
	})
	w, body := get(t, r, "/api/summary")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, body["error"], model.ErrUpstreamUnavailable.Error())
}

func TestMetricsAndHealth(t *testing.T) {
	r := newTestRouter(okLoad)
	w, _ := get(t, r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = get(t, r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "socmetrics_loader_events_total")
}

func TestCORS(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := NewRouter(NewHandler(okLoad, 15, log), nil, CORS([]string{"http://localhost:3000"}))

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
