package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

func combined(t *testing.T, pass string, year, month int, avgNew float64, phase string, meanONI float64) domain.CombinedRecord {
	t.Helper()
	snow, err := domain.NewMonthlySnowfall(pass, year, month, avgNew, avgNew*2)
	require.NoError(t, err)
	rec := domain.CombinedRecord{MonthlySnowfall: snow}
	if phase != "" {
		rec.Phase = &phase
		rec.MeanONI = &meanONI
	}
	return rec
}

func TestSummarizeByPhaseMonth(t *testing.T) {
	records := []domain.CombinedRecord{
		combined(t, "Stevens", 2015, 1, 40, domain.PhaseElNino, 1.2),
		combined(t, "Snoqualmie", 2015, 1, 60, domain.PhaseElNino, 1.2),
		combined(t, "Stevens", 2011, 1, 80, domain.PhaseLaNina, -1.0),
		// July falls outside the snow season and must be excluded.
		combined(t, "Stevens", 2015, 7, 5, domain.PhaseElNino, 1.2),
		// Unclassified year must be excluded.
		combined(t, "Stevens", 1948, 1, 70, "", 0),
	}

	got := SummarizeByPhaseMonth(records)
	require.Len(t, got, 2)

	// El Niño sorts ahead of La Niña.
	assert.Equal(t, domain.PhaseElNino, got[0].Phase)
	assert.Equal(t, 1, got[0].Month)
	assert.Equal(t, "January", got[0].MonthName)
	assert.Equal(t, 4, got[0].SeasonOrder)
	assert.Equal(t, 2, got[0].Count)
	assert.InDelta(t, 50.0, got[0].MeanNewSnowIn, 1e-9)
	assert.Greater(t, got[0].StdDevNewIn, 0.0)

	assert.Equal(t, domain.PhaseLaNina, got[1].Phase)
	assert.Equal(t, 1, got[1].Count)
	assert.InDelta(t, 80.0, got[1].MeanNewSnowIn, 1e-9)
	assert.Zero(t, got[1].StdDevNewIn, "single sample has no spread")
}

func TestSummarizeByPhaseMonth_SeasonOrdering(t *testing.T) {
	records := []domain.CombinedRecord{
		combined(t, "Stevens", 2015, 1, 40, domain.PhaseElNino, 1.2),
		combined(t, "Stevens", 2015, 10, 10, domain.PhaseElNino, 1.2),
		combined(t, "Stevens", 2015, 12, 30, domain.PhaseElNino, 1.2),
	}

	got := SummarizeByPhaseMonth(records)
	require.Len(t, got, 3)
	// October leads the water year, December next, January after.
	assert.Equal(t, []int{10, 12, 1}, []int{got[0].Month, got[1].Month, got[2].Month})
}

func TestSummarizeByPass(t *testing.T) {
	records := []domain.CombinedRecord{
		combined(t, "Stevens", 2015, 1, 40, domain.PhaseElNino, 1.2),
		combined(t, "Stevens", 2015, 2, 60, domain.PhaseElNino, 1.2),
		combined(t, "Blewett", 2015, 1, 10, "", 0),
	}

	got := SummarizeByPass(records)
	require.Len(t, got, 2)

	assert.Equal(t, "Blewett", got[0].Pass)
	assert.Equal(t, 1, got[0].Count)
	assert.InDelta(t, 10.0, got[0].MeanNewSnowIn, 1e-9)
	assert.InDelta(t, 20.0, got[0].MeanTotalSnowIn, 1e-9)

	assert.Equal(t, "Stevens", got[1].Pass)
	assert.Equal(t, 2, got[1].Count)
	assert.InDelta(t, 50.0, got[1].MeanNewSnowIn, 1e-9)
}

func TestSummarizeByPhaseMonth_Empty(t *testing.T) {
	assert.Empty(t, SummarizeByPhaseMonth(nil))
}
