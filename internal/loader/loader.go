// Package loader fetches match ids and per-match event logs with their 360
// context from the data provider and merges them into one flat event table.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-soccer-metrics/internal/memo"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/statsbomb"
)

const dateLayout = "2006-01-02"

// Provider is the subset of the upstream client the loader needs.
type Provider interface {
	Competitions(ctx context.Context) ([]statsbomb.Competition, error)
	Matches(ctx context.Context, competitionID, seasonID int) ([]statsbomb.Match, error)
	Events(ctx context.Context, matchID int) ([]statsbomb.Event, error)
}

// Stats counts what a load produced.
type Stats struct {
	Matches int
	Events  int
	Skipped int // rows dropped as malformed
}

// Dataset is the concatenated event table of all loaded matches.
type Dataset struct {
	Events []model.Event
	Stats  Stats
}

// Loader loads and merges provider data. Results are memoized in cache.
type Loader struct {
	provider    Provider
	framePrefix string
	cache       *memo.Cache
	log         logrus.FieldLogger
}

// New returns a Loader reading 360 files from framePrefix + "<match_id>.json".
func New(provider Provider, framePrefix string, cache *memo.Cache, log logrus.FieldLogger) *Loader {
	if cache == nil {
		cache = memo.New()
	}
	return &Loader{
		provider:    provider,
		framePrefix: framePrefix,
		cache:       cache,
		log:         log.WithField("component", "loader"),
	}
}

// MatchIDs returns the ids of matches of the competition season played strictly
// before cutoff ("YYYY-MM-DD"), in ascending order.
func (l *Loader) MatchIDs(ctx context.Context, competition, season, cutoff string) ([]int, error) {
	return memo.Do(l.cache, "loader.MatchIDs", []any{competition, season, cutoff}, func() ([]int, error) {
		return l.matchIDs(ctx, competition, season, cutoff)
	})
}

func (l *Loader) matchIDs(ctx context.Context, competition, season, cutoff string) ([]int, error) {
	cut, err := time.Parse(dateLayout, cutoff)
	if err != nil {
		return nil, fmt.Errorf("parse cutoff %q: %w", cutoff, err)
	}

	comps, err := l.provider.Competitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("competitions: %w", err)
	}
	entry, ok := statsbomb.FindSeason(comps, competition, season)
	if !ok {
		return nil, fmt.Errorf("competition %q season %q not found", competition, season)
	}

	matches, err := l.provider.Matches(ctx, entry.CompetitionID, entry.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}

	var ids []int
	for _, m := range matches {
		d, err := time.Parse(dateLayout, m.MatchDate)
		if err != nil {
			l.log.WithError(err).WithField("match_id", m.MatchID).Warn("skipping match with unparseable date")
			continue
		}
		if d.Before(cut) {
			ids = append(ids, m.MatchID)
		}
	}
	sort.Ints(ids)
	l.log.WithFields(logrus.Fields{
		"competition": competition,
		"season":      season,
		"cutoff":      cutoff,
		"matches":     len(ids),
	}).Info("resolved match ids")
	return ids, nil
}

// LoadEvents fetches and merges the events and 360 frames of every match.
// Any upstream or 360 file failure aborts the whole load.
func (l *Loader) LoadEvents(ctx context.Context, ids []int) (*Dataset, error) {
	return memo.Do(l.cache, "loader.LoadEvents", []any{ids}, func() (*Dataset, error) {
		return l.loadEvents(ctx, ids)
	})
}

func (l *Loader) loadEvents(ctx context.Context, ids []int) (*Dataset, error) {
	ds := &Dataset{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		events, skipped, err := l.loadMatch(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", id, err)
		}
		ds.Events = append(ds.Events, events...)
		ds.Stats.Matches++
		ds.Stats.Events += len(events)
		ds.Stats.Skipped += skipped
	}
	l.log.WithFields(logrus.Fields{
		"matches": ds.Stats.Matches,
		"events":  ds.Stats.Events,
		"skipped": ds.Stats.Skipped,
	}).Info("loaded events")
	return ds, nil
}

// loadMatch left-joins the match's events with its 360 frames on event id.
func (l *Loader) loadMatch(ctx context.Context, id int) ([]model.Event, int, error) {
	raw, err := l.provider.Events(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("events: %w", err)
	}
	frames, err := statsbomb.ReadFrames(l.framePrefix, id)
	if err != nil {
		return nil, 0, fmt.Errorf("360 frames: %w", err)
	}

	byEvent := make(map[string]statsbomb.Frame, len(frames))
	for _, f := range frames {
		byEvent[f.EventUUID] = f
	}

	out := make([]model.Event, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		e, err := convertEvent(id, r)
		if err == nil {
			if f, ok := byEvent[e.ID]; ok {
				e.FreezeFrame, err = convertFrame(f)
				e.HasFrame = err == nil
				if errors.Is(err, model.ErrMalformedRecord) {
					// A broken frame only loses the frame, the event row stays.
					e.FreezeFrame = nil
					l.log.WithError(err).WithField("match_id", id).Debug("dropping malformed freeze frame")
					err = nil
				}
			}
		}
		if err != nil {
			if !errors.Is(err, model.ErrMalformedRecord) {
				return nil, 0, err
			}
			skipped++
			l.log.WithError(err).WithField("match_id", id).Debug("skipping malformed event")
			continue
		}
		out = append(out, e)
	}
	return out, skipped, nil
}

// Load resolves match ids and loads their merged events.
func (l *Loader) Load(ctx context.Context, competition, season, cutoff string) (*Dataset, error) {
	ids, err := l.MatchIDs(ctx, competition, season, cutoff)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no matches of %s %s before %s", competition, season, cutoff)
	}
	return l.LoadEvents(ctx, ids)
}
