package loader

import (
	"fmt"

	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/statsbomb"
)

// parseLocation converts a provider coordinate array ([x, y] or [x, y, z]).
// A nil array is a missing location, not an error.
func parseLocation(raw []any) (*model.Location, error) {
	if raw == nil {
		return nil, nil
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: location has %d coordinates", model.ErrMalformedRecord, len(raw))
	}
	x, okX := raw[0].(float64)
	y, okY := raw[1].(float64)
	if !okX || !okY {
		return nil, fmt.Errorf("%w: non-numeric location %v", model.ErrMalformedRecord, raw)
	}
	return &model.Location{X: x, Y: y}, nil
}

// convertEvent flattens one provider event into a model.Event of matchID.
func convertEvent(matchID int, raw statsbomb.Event) (model.Event, error) {
	if raw.ID == "" {
		return model.Event{}, fmt.Errorf("%w: event without id", model.ErrMalformedRecord)
	}
	if raw.Team.Name == "" {
		return model.Event{}, fmt.Errorf("%w: event %s without team", model.ErrMalformedRecord, raw.ID)
	}

	loc, err := parseLocation(raw.Location)
	if err != nil {
		return model.Event{}, fmt.Errorf("event %s: %w", raw.ID, err)
	}

	e := model.Event{
		ID:          raw.ID,
		MatchID:     matchID,
		Index:       raw.Index,
		Period:      raw.Period,
		Timestamp:   raw.Timestamp,
		Minute:      raw.Minute,
		Second:      raw.Second,
		Type:        raw.Type.Name,
		PlayPattern: raw.PlayPattern.Name,
		TeamID:      raw.Team.ID,
		Team:        raw.Team.Name,
		Location:    loc,
		Duration:    raw.Duration,
	}
	if raw.Player != nil {
		e.PlayerID = raw.Player.ID
		e.Player = raw.Player.Name
	}
	if raw.Position != nil {
		e.Position = raw.Position.Name
	}

	if raw.Tactics != nil {
		t := &model.Tactics{Formation: raw.Tactics.Formation}
		for _, p := range raw.Tactics.Lineup {
			t.Lineup = append(t.Lineup, model.LineupEntry{
				PlayerID:     p.Player.ID,
				PlayerName:   p.Player.Name,
				PositionID:   p.Position.ID,
				PositionName: p.Position.Name,
				JerseyNumber: p.JerseyNumber,
			})
		}
		e.Tactics = t
	}

	if p := raw.Pass; p != nil {
		end, err := parseLocation(p.EndLocation)
		if err != nil {
			return model.Event{}, fmt.Errorf("event %s pass end: %w", raw.ID, err)
		}
		e.PassEndLocation = end
		if p.Outcome != nil {
			e.PassOutcome = p.Outcome.Name
		}
		if p.Recipient != nil {
			e.PassRecipient = p.Recipient.Name
		}
		e.PassAssistedShotID = p.AssistedShotID
		e.PassShotAssist = p.ShotAssist
		e.PassGoalAssist = p.GoalAssist
	}

	if s := raw.Shot; s != nil {
		e.ShotXG = s.StatsbombXG
		if s.Outcome != nil {
			e.ShotOutcome = s.Outcome.Name
		}
	}
	return e, nil
}

// convertFrame converts a 360 freeze frame.
func convertFrame(raw statsbomb.Frame) ([]model.FramePlayer, error) {
	out := make([]model.FramePlayer, 0, len(raw.FreezeFrame))
	for _, p := range raw.FreezeFrame {
		loc, err := parseLocation(p.Location)
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", raw.EventUUID, err)
		}
		if loc == nil {
			return nil, fmt.Errorf("frame %s: %w: player without location", raw.EventUUID, model.ErrMalformedRecord)
		}
		out = append(out, model.FramePlayer{
			Teammate: p.Teammate,
			Actor:    p.Actor,
			Keeper:   p.Keeper,
			Location: *loc,
		})
	}
	return out, nil
}
