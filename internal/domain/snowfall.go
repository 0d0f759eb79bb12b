package domain

import (
	"fmt"
	"time"
)

// waterYearOrder maps calendar months to their display position in the
// snow season: October first, the following May last.
var waterYearOrder = map[time.Month]int{
	time.October:  1,
	time.November: 2,
	time.December: 3,
	time.January:  4,
	time.February: 5,
	time.March:    6,
	time.April:    7,
	time.May:      8,
}

// NewMonthlySnowfall validates a normalized monthly aggregate and derives
// its calendar date (first day of the month). A month outside 1-12 is an
// ErrParseFailure; the caller decides whether that fails the whole
// (pass, year) response or just this record.
func NewMonthlySnowfall(pass string, year, month int, avgNew, avgTotal float64) (MonthlySnowfall, error) {
	if month < 1 || month > 12 {
		return MonthlySnowfall{}, fmt.Errorf("%w: month %d out of range for pass %q year %d", ErrParseFailure, month, pass, year)
	}
	return MonthlySnowfall{
		Pass:           pass,
		Year:           year,
		Month:          month,
		Date:           time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		AvgNewSnowIn:   avgNew,
		AvgTotalSnowIn: avgTotal,
	}, nil
}

// WaterYearPosition returns a month's position in the October→May display
// sequence. ok is false for June through September, which are excluded
// from display ordering (but not from the dataset).
func WaterYearPosition(month time.Month) (pos int, ok bool) {
	pos, ok = waterYearOrder[month]
	return pos, ok
}

// DedupeSnowfall enforces the (pass, year, month) uniqueness invariant,
// keeping the first occurrence. The sources should never violate it; a
// duplicate indicates a double-fetched pair.
func DedupeSnowfall(records []MonthlySnowfall) []MonthlySnowfall {
	type key struct {
		pass        string
		year, month int
	}
	seen := make(map[key]bool, len(records))
	out := make([]MonthlySnowfall, 0, len(records))
	for _, r := range records {
		k := key{r.Pass, r.Year, r.Month}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
