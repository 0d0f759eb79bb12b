package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

// Default pass roster: the four WSDOT Cascade passes with snowfall
// stations, keyed by the site IDs their history endpoint uses.
var defaultPasses = []domain.PassDefinition{
	{Name: "Snoqualmie", SiteID: 1},
	{Name: "Stevens", SiteID: 2},
	{Name: "White", SiteID: 3},
	{Name: "Blewett", SiteID: 4},
}

// Config holds all pipeline settings, populated from environment variables
// (with optional .env support). The cache and report directories are
// threaded through constructors explicitly; nothing reads them globally.
type Config struct {
	DataDir   string
	ReportDir string

	ONIBaseURL      string
	SnowfallBaseURL string
	HTTPTimeout     time.Duration

	StartYear int
	EndYear   int
	Passes    []domain.PassDefinition

	LogLevel  string
	LogFormat string

	PushgatewayURL string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	httpTimeoutStr := envOrDefault("HTTP_TIMEOUT", "30s")
	httpTimeout, err := time.ParseDuration(httpTimeoutStr)
	if err != nil || httpTimeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}

	startYear, err := envInt("START_YEAR", 2000)
	if err != nil {
		return nil, err
	}
	endYear, err := envInt("END_YEAR", 2019)
	if err != nil {
		return nil, err
	}

	passes, err := parsePasses(os.Getenv("PASSES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:         envOrDefault("DATA_DIR", "data"),
		ReportDir:       envOrDefault("REPORT_DIR", "figures"),
		ONIBaseURL:      envOrDefault("ONI_URL", "https://ggweather.com/enso/oni.htm"),
		SnowfallBaseURL: envOrDefault("SNOWFALL_URL", "https://wsdot.com/travel/real-time/mountainpasses/snowfall"),
		HTTPTimeout:     httpTimeout,
		StartYear:       startYear,
		EndYear:         endYear,
		Passes:          passes,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.ONIBaseURL == "" {
		return nil, errors.New("ONI_URL is required")
	}
	if cfg.SnowfallBaseURL == "" {
		return nil, errors.New("SNOWFALL_URL is required")
	}
	if cfg.StartYear > cfg.EndYear {
		return nil, fmt.Errorf("START_YEAR %d is after END_YEAR %d", cfg.StartYear, cfg.EndYear)
	}
	if len(cfg.Passes) == 0 {
		return nil, errors.New("PASSES must define at least one pass")
	}

	return cfg, nil
}

// Years expands the configured inclusive year range.
func (c *Config) Years() []int {
	years := make([]int, 0, c.EndYear-c.StartYear+1)
	for y := c.StartYear; y <= c.EndYear; y++ {
		years = append(years, y)
	}
	return years
}

// parsePasses reads a "Name:siteID,Name:siteID" override, falling back to
// the default roster when unset.
func parsePasses(raw string) ([]domain.PassDefinition, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultPasses, nil
	}

	var passes []domain.PassDefinition
	for _, part := range strings.Split(raw, ",") {
		name, idStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid PASSES entry %q, want Name:siteID", part)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid site ID in PASSES entry %q", part)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty pass name in PASSES entry %q", part)
		}
		passes = append(passes, domain.PassDefinition{Name: name, SiteID: id})
	}
	return passes, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
