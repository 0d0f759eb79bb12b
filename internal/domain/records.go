package domain

import "time"

// ENSO phase labels produced by the classifier.
const (
	PhaseElNino  = "El Niño"
	PhaseLaNina  = "La Niña"
	PhaseNeutral = "Neutral"
)

// PassDefinition identifies a mountain pass and the numeric site ID the
// snowfall source uses for it. Static configuration; never mutated.
type PassDefinition struct {
	Name   string
	SiteID int
}

// ONIRecord is a single (year, month, value) reading scraped from the ONI
// table. Transient; consumed only by BuildYearlyClassifications.
type ONIRecord struct {
	Year  int
	Month int
	Value float64
}

// YearlyClassification is the per-year ENSO verdict derived from the mean
// of that year's available ONI months.
type YearlyClassification struct {
	Year    int
	MeanONI float64
	Phase   string
}

// MonthlySnowfall is one normalized monthly aggregate for a pass.
// Uniqueness invariant: no two records share (Pass, Year, Month).
type MonthlySnowfall struct {
	Pass           string
	Year           int
	Month          int
	Date           time.Time // first day of (Year, Month)
	AvgNewSnowIn   float64
	AvgTotalSnowIn float64
}

// CombinedRecord is a MonthlySnowfall left-joined with the ENSO
// classification for its year. MeanONI and Phase are nil when the year has
// no classification.
type CombinedRecord struct {
	MonthlySnowfall
	MeanONI *float64
	Phase   *string
}
