package wsdot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

var stevens = domain.PassDefinition{Name: "Stevens", SiteID: 2}

func fragment(payload string) string {
	return fmt.Sprintf(
		`<html><body><div id="snowfall-history"><script type="application/json">%s</script></div></body></html>`,
		payload,
	)
}

func TestParseSnowfallResponse(t *testing.T) {
	t.Run("monthly aggregates with daily detail discarded", func(t *testing.T) {
		payload := `{"siteId":2,"year":2014,"months":[
			{"monthNumber":11,"monthName":"November","avgNewSnowInches":32.5,"avgTotalSnowInches":71,
			 "days":[{"day":1,"newSnowInches":4.5},{"day":2,"newSnowInches":0}]},
			{"monthNumber":12,"monthName":"December","avgNewSnowInches":48,"avgTotalSnowInches":102,"days":[]}
		]}`
		records, err := ParseSnowfallResponse(strings.NewReader(fragment(payload)), stevens, 2014)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "Stevens", records[0].Pass)
		assert.Equal(t, 2014, records[0].Year)
		assert.Equal(t, 11, records[0].Month)
		assert.Equal(t, time.Date(2014, time.November, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
		assert.Equal(t, 32.5, records[0].AvgNewSnowIn)
		assert.Equal(t, 71.0, records[0].AvgTotalSnowIn)
	})

	t.Run("empty months list yields zero records", func(t *testing.T) {
		records, err := ParseSnowfallResponse(strings.NewReader(fragment(`{"siteId":2,"year":2010,"months":[]}`)), stevens, 2010)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("no payload in fragment", func(t *testing.T) {
		_, err := ParseSnowfallResponse(strings.NewReader(`<html><body><p>maintenance</p></body></html>`), stevens, 2014)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrSourceSchemaChanged))
	})

	t.Run("payload for the wrong site", func(t *testing.T) {
		_, err := ParseSnowfallResponse(strings.NewReader(fragment(`{"siteId":7,"year":2014,"months":[]}`)), stevens, 2014)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrSourceSchemaChanged))
	})

	t.Run("missing aggregates", func(t *testing.T) {
		payload := `{"siteId":2,"year":2014,"months":[{"monthNumber":11,"monthName":"November"}]}`
		_, err := ParseSnowfallResponse(strings.NewReader(fragment(payload)), stevens, 2014)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrParseFailure))
	})

	t.Run("month out of range", func(t *testing.T) {
		payload := `{"siteId":2,"year":2014,"months":[{"monthNumber":13,"avgNewSnowInches":1,"avgTotalSnowInches":2}]}`
		_, err := ParseSnowfallResponse(strings.NewReader(fragment(payload)), stevens, 2014)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrParseFailure))
	})

	t.Run("month name disagrees with month number", func(t *testing.T) {
		payload := `{"siteId":2,"year":2014,"months":[{"monthNumber":11,"monthName":"July","avgNewSnowInches":1,"avgTotalSnowInches":2}]}`
		_, err := ParseSnowfallResponse(strings.NewReader(fragment(payload)), stevens, 2014)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrParseFailure))
	})

	t.Run("payload in plain body text", func(t *testing.T) {
		page := `<html><body>{"siteId":2,"year":2014,"months":[]}</body></html>`
		records, err := ParseSnowfallResponse(strings.NewReader(page), stevens, 2014)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
