// Package noaa fetches the Oceanic Niño Index table from its public HTML
// page and normalizes it into per-(year, month) records.
package noaa

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

// Client scrapes the ONI page.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an ONI page client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchONITable downloads the ONI page and extracts all monthly records.
// Any failure aborts the whole dataset; there is no per-row recovery
// because a single bad cell means the page no longer looks like the page
// this parser was written for.
func (c *Client) FetchONITable(ctx context.Context) ([]domain.ONIRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch ONI page: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ONI page returned status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	records, err := ParseONIPage(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("parsed ONI page", "url", c.baseURL, "records", len(records))
	return records, nil
}
