package domain

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// seasonYearRe pulls the starting calendar year out of a season label,
// e.g. "2015-16" -> 2015. The first four-digit numeral wins.
var seasonYearRe = regexp.MustCompile(`\d{4}`)

// ClassifyONI maps a yearly mean ONI to an ENSO phase. Both thresholds are
// inclusive on the Niño/Niña side: exactly +0.5 is El Niño, exactly -0.5 is
// La Niña.
func ClassifyONI(meanONI float64) string {
	switch {
	case meanONI >= 0.5:
		return PhaseElNino
	case meanONI <= -0.5:
		return PhaseLaNina
	default:
		return PhaseNeutral
	}
}

// SeasonStartYear extracts the starting calendar year from a season label
// such as "2015-16" or "DJF 2015/2016".
func SeasonStartYear(label string) (int, error) {
	m := seasonYearRe.FindString(label)
	if m == "" {
		return 0, fmt.Errorf("%w: season label %q has no year", ErrParseFailure, label)
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: season label %q: %v", ErrParseFailure, label, err)
	}
	return year, nil
}

// ParseONICell coerces a table cell to an ONI value. Empty cells report
// ok=false and are excluded from averaging; anything else must parse as a
// float.
func ParseONICell(cell string) (value float64, ok bool, err error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: ONI value %q: %v", ErrParseFailure, cell, err)
	}
	return v, true, nil
}

// BuildYearlyClassifications groups monthly ONI records by year, averages
// the available months, and classifies each year. Years with no records at
// all never appear in the input, and NaN values (used by callers to mark
// missing months) are skipped; a year left with zero usable months is
// dropped from the output. Results are sorted by year for stable caching.
func BuildYearlyClassifications(records []ONIRecord) []YearlyClassification {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range records {
		if math.IsNaN(r.Value) {
			continue
		}
		sums[r.Year] += r.Value
		counts[r.Year]++
	}

	out := make([]YearlyClassification, 0, len(sums))
	for year, n := range counts {
		if n == 0 {
			continue
		}
		mean := sums[year] / float64(n)
		out = append(out, YearlyClassification{
			Year:    year,
			MeanONI: mean,
			Phase:   ClassifyONI(mean),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
