package noaa

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

// oniPage wraps table rows in a page that also carries a navigation table,
// so tests exercise the header predicate rather than table position.
func oniPage(rows string) string {
	return `<html><body>
<table><tr><td>Home</td><td>About</td><td>Data</td></tr></table>
<table>
<tr><th>Season</th><th>Jan</th><th>Feb</th><th>Mar</th><th>Apr</th><th>May</th><th>Jun</th><th>Jul</th><th>Aug</th><th>Sep</th><th>Oct</th><th>Nov</th><th>Dec</th></tr>
` + rows + `
</table></body></html>`
}

func TestParseONIPage(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		page := oniPage(`<tr><td>2015-16</td><td>2.5</td><td>2.2</td><td>1.7</td><td>1.0</td><td>0.9</td><td>1.0</td><td>1.2</td><td>1.5</td><td>1.8</td><td>2.1</td><td>2.4</td><td>2.6</td></tr>`)
		records, err := ParseONIPage(strings.NewReader(page))
		require.NoError(t, err)
		require.Len(t, records, 12)
		assert.Equal(t, domain.ONIRecord{Year: 2015, Month: 1, Value: 2.5}, records[0])
		assert.Equal(t, domain.ONIRecord{Year: 2015, Month: 12, Value: 2.6}, records[11])
	})

	t.Run("empty cells are skipped", func(t *testing.T) {
		page := oniPage(`<tr><td>2019-20</td><td>0.8</td><td></td><td>0.6</td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>`)
		records, err := ParseONIPage(strings.NewReader(page))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 1, records[0].Month)
		assert.Equal(t, 3, records[1].Month)
	})

	t.Run("rows without a label are skipped", func(t *testing.T) {
		page := oniPage(`<tr><td></td><td>0.1</td></tr>
<tr><td>2001-02</td><td>-0.3</td><td>-0.2</td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>`)
		records, err := ParseONIPage(strings.NewReader(page))
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("no month table on page", func(t *testing.T) {
		page := `<html><body><table><tr><td>Home</td><td>About</td></tr></table></body></html>`
		_, err := ParseONIPage(strings.NewReader(page))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrSourceSchemaChanged))
	})

	t.Run("unparseable cell fails the dataset", func(t *testing.T) {
		page := oniPage(`<tr><td>2010-11</td><td>huh</td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>`)
		_, err := ParseONIPage(strings.NewReader(page))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrParseFailure))
	})

	t.Run("label without a year fails the dataset", func(t *testing.T) {
		page := oniPage(`<tr><td>DJF</td><td>0.5</td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>`)
		_, err := ParseONIPage(strings.NewReader(page))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrParseFailure))
	})

	t.Run("matched table with no values", func(t *testing.T) {
		page := oniPage(``)
		_, err := ParseONIPage(strings.NewReader(page))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrSourceSchemaChanged))
	})
}
