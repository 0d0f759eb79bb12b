// Package wsdot fetches per-(pass, year) monthly snowfall history from the
// WSDOT mountain pass endpoint and normalizes it into MonthlySnowfall
// records.
package wsdot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

// Client fetches snowfall history for one (site, year) at a time. Requests
// run behind a circuit breaker so a dead source trips after a few failures
// instead of timing out once per remaining (pass, year) pair. The breaker
// never re-issues a request; failed pairs are the caller's problem.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a snowfall history client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "wsdot-snowfall",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: cb,
		logger:  logger,
	}
}

// FetchMonthly requests one pass-year of history and returns its monthly
// aggregates. An empty response yields zero records and no error. Failures
// are classified so the caller can decide between skipping the pair
// (ErrSourceUnavailable, ErrParseFailure) and aborting outright.
func (c *Client) FetchMonthly(ctx context.Context, pass domain.PassDefinition, year int) ([]domain.MonthlySnowfall, error) {
	params := url.Values{
		"siteid": {strconv.Itoa(pass.SiteID)},
		"year":   {strconv.Itoa(year)},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch snowfall for %s/%d: %v", domain.ErrSourceUnavailable, pass.Name, year, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: snowfall endpoint returned status %d for %s/%d", domain.ErrSourceUnavailable, resp.StatusCode, pass.Name, year)
		}
		return ParseSnowfallResponse(resp.Body, pass, year)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: snowfall source circuit open for %s/%d: %v", domain.ErrSourceUnavailable, pass.Name, year, err)
		}
		return nil, err
	}

	records := result.([]domain.MonthlySnowfall)
	c.logger.Debug("fetched snowfall", "pass", pass.Name, "year", year, "months", len(records))
	return records, nil
}
