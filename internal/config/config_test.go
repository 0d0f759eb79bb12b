package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "figures", cfg.ReportDir)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2000, cfg.StartYear)
	assert.Equal(t, 2019, cfg.EndYear)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.PushgatewayURL)
	assert.NotEmpty(t, cfg.ONIBaseURL)
	assert.NotEmpty(t, cfg.SnowfallBaseURL)

	require.Len(t, cfg.Passes, 4)
	assert.Equal(t, domain.PassDefinition{Name: "Snoqualmie", SiteID: 1}, cfg.Passes[0])
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/cache")
	t.Setenv("REPORT_DIR", "/tmp/figs")
	t.Setenv("ONI_URL", "http://localhost:8081/oni")
	t.Setenv("SNOWFALL_URL", "http://localhost:8081/snow")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("START_YEAR", "2010")
	t.Setenv("END_YEAR", "2012")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("PUSHGATEWAY_URL", "http://localhost:9091")
	t.Setenv("PASSES", "Stevens:2, White:3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cache", cfg.DataDir)
	assert.Equal(t, "/tmp/figs", cfg.ReportDir)
	assert.Equal(t, "http://localhost:8081/oni", cfg.ONIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []int{2010, 2011, 2012}, cfg.Years())
	assert.Equal(t, "http://localhost:9091", cfg.PushgatewayURL)
	assert.Equal(t, []domain.PassDefinition{
		{Name: "Stevens", SiteID: 2},
		{Name: "White", SiteID: 3},
	}, cfg.Passes)
}

func TestLoad_InvalidHTTPTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestLoad_NegativeHTTPTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestLoad_YearRangeInverted(t *testing.T) {
	t.Setenv("START_YEAR", "2015")
	t.Setenv("END_YEAR", "2010")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "START_YEAR")
}

func TestLoad_InvalidYear(t *testing.T) {
	t.Setenv("START_YEAR", "twenty-ten")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "START_YEAR")
}

func TestLoad_InvalidPasses(t *testing.T) {
	tests := []struct {
		name   string
		passes string
	}{
		{"missing site id", "Stevens"},
		{"bad site id", "Stevens:two"},
		{"zero site id", "Stevens:0"},
		{"empty name", ":2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PASSES", tt.passes)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "PASSES")
		})
	}
}

func TestYears_SingleYear(t *testing.T) {
	t.Setenv("START_YEAR", "2014")
	t.Setenv("END_YEAR", "2014")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int{2014}, cfg.Years())
}
