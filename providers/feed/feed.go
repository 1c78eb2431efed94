// Package feed talks to the external odds/results provider. The provider is
// optional; an unconfigured client reports that instead of erroring blindly.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("odds feed unavailable")

const StatusCompleted = "COMPLETED"

// Externally supplied odds are marked down before they are offered, to build
// in the house edge.
var marginFactor = decimal.RequireFromString("0.95")

var minOdds = decimal.RequireFromString("1.01")

// MarginOdds applies the house markdown to a feed price. The result is
// floored so a margined outcome stays offerable.
func MarginOdds(odds decimal.Decimal) decimal.Decimal {
	margined := odds.Mul(marginFactor).Round(2)
	if margined.LessThan(minOdds) {
		return minOdds
	}
	return margined
}

type Event struct {
	ID           string    `json:"id"`
	Sport        string    `json:"sport"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	Markets      []Market  `json:"markets"`
}

type Market struct {
	Name     string    `json:"name"`
	Outcomes []Outcome `json:"outcomes"`
}

type Outcome struct {
	Name string          `json:"name"`
	Odds decimal.Decimal `json:"odds"`
}

type MatchResult struct {
	Status   string          `json:"status"`
	Outcomes []ResultOutcome `json:"outcomes"`
}

type ResultOutcome struct {
	MarketName         string `json:"market_name"`
	WinningOutcomeName string `json:"winning_outcome_name"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   *redis.Client
}

// NewClient builds a feed client. cache may be nil; result caching is then
// skipped.
func NewClient(baseURL, apiKey string, cache *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// GetEvents lists upcoming fixtures for a sport, with nested markets and raw
// (unmargined) odds.
func (c *Client) GetEvents(ctx context.Context, sport string) ([]Event, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: no feed configured", ErrUnavailable)
	}

	q := url.Values{}
	q.Set("sport", sport)
	q.Set("apiKey", c.apiKey)

	var out []Event
	if err := c.getJSON(ctx, "/v1/events?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMatchResult returns the authoritative result for a fixture, or nil when
// the feed does not know the match or it has not finished.
func (c *Client) GetMatchResult(ctx context.Context, home, away, sport string) (*MatchResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: no feed configured", ErrUnavailable)
	}

	cacheKey := fmt.Sprintf("feed:result:%s:%s:%s", sport, home, away)
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached MatchResult
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	q := url.Values{}
	q.Set("home", home)
	q.Set("away", away)
	q.Set("sport", sport)
	q.Set("apiKey", c.apiKey)

	var out MatchResult
	err := c.getJSON(ctx, "/v1/results?"+q.Encode(), &out)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if c.cache != nil && out.Status == StatusCompleted {
		if raw, err := json.Marshal(out); err == nil {
			if err := c.cache.Set(ctx, cacheKey, raw, time.Minute).Err(); err != nil {
				zap.L().Warn("feed result cache write failed", zap.Error(err))
			}
		}
	}
	return &out, nil
}

var errNotFound = errors.New("feed: not found")

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode feed response: %w", err)
	}
	return nil
}
