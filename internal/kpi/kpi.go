// Package kpi derives the opponent-analysis tables from a preprocessed event
// table: goal-kick timing, center-back positions after opponent restarts,
// per-player shooting, assisting and passing stats and per-match team KPIs.
package kpi

import (
	"fmt"

	"github.com/pable/go-soccer-metrics/internal/model"
)

// DefaultGoalKickTolerance is the window in seconds after an opponent goal
// kick in which center-back events are collected.
const DefaultGoalKickTolerance = 15

// Run computes every KPI table from preprocessed events. The returned
// Results.Events carries the goal-kick time and delta fields.
func Run(events []model.Event, tolerance int) (*model.Results, error) {
	enriched := TimeDeltaFromOpponentGoalKick(events)

	res := &model.Results{
		Events:       enriched,
		CenterEvents: CenterEventsAfterOpponentGoalKick(enriched, tolerance),
	}

	byMatch := make(map[int][]model.Event)
	var ids []int
	for _, i := range matchOrder(enriched) {
		id := enriched[i].MatchID
		if _, ok := byMatch[id]; !ok {
			ids = append(ids, id)
		}
		byMatch[id] = append(byMatch[id], enriched[i])
	}
	for _, id := range ids {
		rows, err := HighLevelKPIs(byMatch[id])
		if err != nil {
			return nil, fmt.Errorf("kpis: %w", err)
		}
		res.KPIs = append(res.KPIs, rows...)
	}

	res.GoalsXG = GoalsXG(enriched)
	res.AssistsXG = AssistsToXG(enriched)
	res.PassedOpponents = PassedOpponentsByPlayer(enriched)
	return res, nil
}
