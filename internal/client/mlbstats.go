// Package client fetches the MLB Stats API schedule and standings payloads
// and classifies transport failures for the reconciliation driver.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/metrics"
)

const (
	// DefaultBaseURL is the public MLB Stats API root.
	DefaultBaseURL = "https://statsapi.mlb.com/api/v1"

	// LogoURLFormat renders a club's SVG logo URL from its feed team id.
	LogoURLFormat = "https://www.mlbstatic.com/team-logos/%d.svg"

	schedulePath  = "schedule"
	standingsPath = "standings"
)

// Client is the MLB Stats API client. The API is public and unauthenticated;
// the only transport policy it needs is a bounded timeout so a hung fetch
// cannot eat a whole scheduling slot.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a feed client. An empty baseURL falls back to the public
// API root.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request and returns the body for 200 responses. Non-200
// responses come back as a *StatusError classified client/server/unexpected.
// No retries here: a pass either completes against one coherent fetch or
// aborts and waits for the next trigger.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	log.Debug().Str("url", req.URL.String()).Msg("Fetching from feed")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.FeedRequestsTotal.WithLabelValues(path, "transport_error").Inc()
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.FeedRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.FeedRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := classifyStatus(resp.StatusCode, req.URL.String())
		log.Warn().
			Int("status", resp.StatusCode).
			Str("kind", string(statusErr.Kind)).
			Str("url", req.URL.String()).
			Msg("Feed returned non-OK status")
		return nil, statusErr
	}

	log.Debug().
		Str("url", req.URL.String()).
		Int("size", len(body)).
		Msg("Feed request successful")
	return body, nil
}

// ScheduleQuery parameterizes the schedule endpoint.
type ScheduleQuery struct {
	Season    int
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	TeamID    int
}

// FetchSchedule fetches the regular-season schedule, hydrated with team info
// and game promotions, and shape-validates the payload.
func (c *Client) FetchSchedule(ctx context.Context, q ScheduleQuery) (*ScheduleResponse, error) {
	params := url.Values{
		"lang":          {"en"},
		"sportId":       {"1"},
		"hydrate":       {"team,game(promotions)"},
		"season":        {strconv.Itoa(q.Season)},
		"startDate":     {q.StartDate},
		"endDate":       {q.EndDate},
		"teamId":        {strconv.Itoa(q.TeamID)},
		"gameType":      {"R"},
		"scheduleTypes": {"games"},
	}

	body, err := c.get(ctx, schedulePath, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	var schedule ScheduleResponse
	if err := json.Unmarshal(body, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}
	if schedule.TotalGames == nil || schedule.Dates == nil {
		return nil, ErrInvalidShape
	}

	log.Info().
		Int("total_games", *schedule.TotalGames).
		Int("dates", len(schedule.Dates)).
		Msg("Schedule fetched")
	return &schedule, nil
}

// FetchStandings fetches division standings for both leagues.
func (c *Client) FetchStandings(ctx context.Context) (*StandingsResponse, error) {
	params := url.Values{"leagueId": {"103", "104"}}

	body, err := c.get(ctx, standingsPath, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standings: %w", err)
	}

	var standings StandingsResponse
	if err := json.Unmarshal(body, &standings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal standings: %w", err)
	}

	log.Info().Int("divisions", len(standings.Records)).Msg("Standings fetched")
	return &standings, nil
}
