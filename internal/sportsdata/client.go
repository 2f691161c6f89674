package sportsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"fbw-backend/internal/models"
	"fbw-backend/internal/pipeline"
	"fbw-backend/internal/utils"
)

const DefaultBaseURL = "https://v3.football.api-sports.io"

// FixtureFilter narrows a fetched fixture list. A nil Predicate keeps
// everything; MaxCount 0 means no cap.
type FixtureFilter struct {
	Predicate func(models.Fixture) bool
	MaxCount  int
}

// Client fetches and flattens fixtures from the API-Football v3 endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	retry      utils.RetryConfig
}

// apiFixture mirrors the nested upstream response shape; the client
// flattens it into models.Fixture.
type apiFixture struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type fixturesResponse struct {
	Response []apiFixture `json:"response"`
}

// NewClient creates an API-Football client. The key is validated lazily so
// read-only code paths can construct a client without credentials.
func NewClient(apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		retry: utils.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// FixturesByDate returns the normalized fixtures scheduled for a calendar
// date (YYYY-MM-DD), optionally filtered. An empty result is not an error.
func (c *Client) FixturesByDate(ctx context.Context, date string, filter FixtureFilter) ([]models.Fixture, error) {
	if c.apiKey == "" {
		return nil, &pipeline.ConfigurationError{Setting: "FOOTBALL_API_KEY"}
	}

	url := fmt.Sprintf("%s/fixtures?date=%s", c.baseURL, date)

	var raw fixturesResponse
	err := c.retry.Do("fetch fixtures", func() error {
		return c.getJSON(ctx, url, &raw)
	})
	if err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(raw.Response))
	for _, af := range raw.Response {
		fixture := flatten(af)
		if filter.Predicate != nil && !filter.Predicate(fixture) {
			continue
		}
		fixtures = append(fixtures, fixture)
		if filter.MaxCount > 0 && len(fixtures) >= filter.MaxCount {
			break
		}
	}

	return fixtures, nil
}

// getJSON performs one authenticated GET and decodes the response body.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &pipeline.UpstreamError{
			Service:    "fixture API",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// flatten extracts the fields the pipeline cares about from the nested
// upstream objects.
func flatten(af apiFixture) models.Fixture {
	kickoff, _ := time.Parse(time.RFC3339, af.Fixture.Date)

	return models.Fixture{
		ID:       af.Fixture.ID,
		HomeTeam: af.Teams.Home.Name,
		AwayTeam: af.Teams.Away.Name,
		League:   af.League.Name,
		Country:  af.League.Country,
		Kickoff:  kickoff,
		Venue:    af.Fixture.Venue.Name,
		Status:   af.Fixture.Status.Short,
		HomeGoal: af.Goals.Home,
		AwayGoal: af.Goals.Away,
	}
}

// SetBaseURL overrides the upstream endpoint; used by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}
