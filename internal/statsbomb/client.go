// Package statsbomb provides a minimal client for the StatsBomb open-data layout:
// competitions, matches and events over HTTP, 360 frames from local files.
package statsbomb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/pable/go-soccer-metrics/internal/model"
)

// DefaultBaseURL is the raw-content root of the public open-data repository.
const DefaultBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is a minimal open-data client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client rooted at baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// open performs a GET request against the data root and returns the body.
// Transport failures and non-200 responses are reported as model.ErrUpstreamUnavailable.
func (c *Client) open(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %v", path, model.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %w: HTTP %d", path, model.ErrUpstreamUnavailable, resp.StatusCode)
	}
	return resp.Body, nil
}

// get JSON-decodes the body of path into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	body, err := c.open(ctx, path)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// Competitions returns every competition/season pair.
func (c *Client) Competitions(ctx context.Context) ([]Competition, error) {
	var out []Competition
	if err := c.get(ctx, "/competitions.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Matches returns the matches of one competition season.
func (c *Client) Matches(ctx context.Context, competitionID, seasonID int) ([]Match, error) {
	var out []Match
	path := fmt.Sprintf("/matches/%d/%d.json", competitionID, seasonID)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Events returns the raw event log of one match.
func (c *Client) Events(ctx context.Context, matchID int) ([]Event, error) {
	var out []Event
	if err := c.get(ctx, fmt.Sprintf("/events/%d.json", matchID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ThreeSixty opens the raw 360 file of one match. The caller closes it.
func (c *Client) ThreeSixty(ctx context.Context, matchID int) (io.ReadCloser, error) {
	return c.open(ctx, fmt.Sprintf("/three-sixty/%d.json", matchID))
}

// FindSeason returns the competition entry matching both names exactly.
func FindSeason(comps []Competition, competition, season string) (Competition, bool) {
	for _, c := range comps {
		if c.CompetitionName == competition && c.SeasonName == season {
			return c, true
		}
	}
	return Competition{}, false
}
