// Package api serves the result tables of the configured tournament
// selection as read-only JSON.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-soccer-metrics/internal/kpi"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/pipeline"
)

// NoData is the message for an empty selection.
const NoData = "no data for this selection"

// LoadFunc returns the current run. It is called on every request and is
// expected to be memoized.
type LoadFunc func(ctx context.Context) (*pipeline.Output, error)

// Handler serves the result tables.
type Handler struct {
	load      LoadFunc
	tolerance int
	logger    logrus.FieldLogger
}

// NewHandler returns a Handler over load.
func NewHandler(load LoadFunc, tolerance int, logger logrus.FieldLogger) *Handler {
	return &Handler{load: load, tolerance: tolerance, logger: logger.WithField("component", "api")}
}

// NewRouter registers every route behind the given middleware. reg may be nil
// to skip /metrics.
func NewRouter(h *Handler, reg prometheus.Gatherer, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw...)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	g := r.Group("/api")
	g.GET("/summary", h.Summary)
	g.GET("/kpis", h.KPIs)
	g.GET("/center-events", h.CenterEvents)
	g.GET("/goals-xg", h.GoalsXG)
	g.GET("/assists-xg", h.AssistsXG)
	g.GET("/passed-opponents", h.PassedOpponents)
	g.GET("/teams", h.Teams)
	g.GET("/teams/:team/profile", h.Profile)
	g.GET("/teams/:team/opponents", h.Opponents)
	g.GET("/teams/:team/players", h.Players)
	g.GET("/teams/:team/passes", h.Passes)
	return r
}

// results loads the run or writes an error response and returns nil.
func (h *Handler) results(c *gin.Context) *pipeline.Output {
	out, err := h.load(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("load results failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil
	}
	return out
}

func rows[T any](c *gin.Context, rs []T) {
	if len(rs) == 0 {
		c.JSON(http.StatusOK, gin.H{"rows": []T{}, "message": NoData})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rs})
}

// keep returns the items whose team matches the ?team= query, all when it is empty or "all".
func keep[T any](c *gin.Context, items []T, team func(*T) string) []T {
	want := c.Query("team")
	if want == "" || want == "all" {
		return items
	}
	var out []T
	for i := range items {
		if team(&items[i]) == want {
			out = append(out, items[i])
		}
	}
	return out
}

// Summary GET /api/summary
func (h *Handler) Summary(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_key":      out.Summary.RunKey,
		"run_id":       out.Summary.RunID,
		"competition":  out.Summary.Competition,
		"season":       out.Summary.Season,
		"cutoff":       out.Summary.Cutoff,
		"matches":      out.Summary.Matches,
		"events":       out.Summary.Events,
		"skipped_rows": out.Summary.SkippedRows,
		"source":       out.Source,
	})
}

// KPIs GET /api/kpis?team=
func (h *Handler) KPIs(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	sel := keep(c, out.Results.KPIs, func(k *model.TeamMatchKPIs) string { return k.Team })
	res := make([]kpiRow, len(sel))
	for i, k := range sel {
		res[i] = toKPIRow(k)
	}
	rows(c, res)
}

// CenterEvents GET /api/center-events?team=
func (h *Handler) CenterEvents(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	sel := keep(c, out.Results.CenterEvents, func(e *model.CenterEvent) string { return e.Team })
	res := make([]centerEventRow, len(sel))
	for i, e := range sel {
		res[i] = centerEventRow(e)
	}
	rows(c, res)
}

// GoalsXG GET /api/goals-xg?team=
func (h *Handler) GoalsXG(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	sel := keep(c, out.Results.GoalsXG, func(g *model.PlayerGoalsXG) string { return g.Team })
	res := make([]goalsRow, len(sel))
	for i, g := range sel {
		res[i] = goalsRow(g)
	}
	rows(c, res)
}

// AssistsXG GET /api/assists-xg?team=
func (h *Handler) AssistsXG(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	sel := keep(c, out.Results.AssistsXG, func(a *model.PlayerAssistXG) string { return a.Team })
	res := make([]assistRow, len(sel))
	for i, a := range sel {
		res[i] = assistRow(a)
	}
	rows(c, res)
}

// PassedOpponents GET /api/passed-opponents?team=
func (h *Handler) PassedOpponents(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	sel := keep(c, out.Results.PassedOpponents, func(p *model.PlayerPassedOpponents) string { return p.Team })
	res := make([]passedRow, len(sel))
	for i, p := range sel {
		res[i] = passedRow(p)
	}
	rows(c, res)
}

// Teams GET /api/teams
func (h *Handler) Teams(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	rows(c, kpi.Teams(out.Results.Events))
}

// Profile GET /api/teams/:team/profile
func (h *Handler) Profile(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	team := c.Param("team")
	prof := kpi.TeamProfile(out.Results.KPIs, team)
	if prof == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": NoData})
		return
	}
	res := make([]profileRow, len(prof))
	for i, p := range prof {
		res[i] = profileRow{
			Metric:     p.Metric,
			HighIsGood: p.HighIsGood,
			Team:       optFloat(p.Team),
			Average:    optFloat(p.Average),
			Std:        optFloat(p.Std),
			Rating:     p.Rating,
		}
	}
	body := gin.H{"team": team, "kpis": res, "goal_kick_tolerance": h.tolerance}
	if ch, ok := kpi.CenterHeightOf(out.Results.CenterEvents, team); ok {
		body["center_height"] = centerHeight{TeamX: ch.TeamX, Tournament: ch.Tournament, Events: ch.Events}
	}
	c.JSON(http.StatusOK, body)
}

// Opponents GET /api/teams/:team/opponents
func (h *Handler) Opponents(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	rows(c, kpi.Opponents(out.Results.Events, c.Param("team")))
}

// Players GET /api/teams/:team/players?opponent=
func (h *Handler) Players(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	rows(c, kpi.Players(out.Results.Events, c.Param("team"), c.Query("opponent")))
}

// Passes GET /api/teams/:team/passes?opponent=&player=
func (h *Handler) Passes(c *gin.Context) {
	out := h.results(c)
	if out == nil {
		return
	}
	passes := kpi.FilterPasses(out.Results.Events, kpi.PassFilter{
		Team:     c.Param("team"),
		Opponent: c.Query("opponent"),
		Player:   c.Query("player"),
	})
	res := make([]passRow, len(passes))
	for i, p := range passes {
		res[i] = passRow{
			MatchID:  p.MatchID,
			Team:     p.Team,
			Opponent: p.Opponent,
			Player:   p.Player,
			Start:    [2]float64{p.Start.X, p.Start.Y},
			End:      [2]float64{p.End.X, p.End.Y},
			Class:    p.Class,
		}
	}
	rows(c, res)
}
