// Package report aggregates the combined dataset into the summary tables
// the charting step consumes: mean new snowfall by ENSO phase and
// snow-season month, and per-pass totals. Figure rendering itself happens
// downstream; this package owns the numbers.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

// phaseOrder fixes the presentation order of ENSO phases.
var phaseOrder = map[string]int{
	domain.PhaseElNino:  0,
	domain.PhaseNeutral: 1,
	domain.PhaseLaNina:  2,
}

// PhaseMonthSummary is the mean new snowfall for one (ENSO phase, month)
// cell, across all passes and years. Months outside the October–May snow
// season are excluded, as are records whose year has no classification.
type PhaseMonthSummary struct {
	Phase         string
	Month         int
	MonthName     string
	SeasonOrder   int // position in the October-first display sequence
	Count         int
	MeanNewSnowIn float64
	StdDevNewIn   float64
}

// PassSummary is the all-years mean snowfall for one pass.
type PassSummary struct {
	Pass            string
	Count           int
	MeanNewSnowIn   float64
	MeanTotalSnowIn float64
}

// SummarizeByPhaseMonth buckets combined records by (phase, month) and
// computes the mean and sample standard deviation of monthly new snowfall.
// Output is ordered El Niño, Neutral, La Niña, then by snow-season month.
func SummarizeByPhaseMonth(records []domain.CombinedRecord) []PhaseMonthSummary {
	type key struct {
		phase string
		month int
	}
	buckets := make(map[key][]float64)

	for _, r := range records {
		if r.Phase == nil {
			continue
		}
		if _, ok := domain.WaterYearPosition(time.Month(r.Month)); !ok {
			continue
		}
		k := key{phase: *r.Phase, month: r.Month}
		buckets[k] = append(buckets[k], r.AvgNewSnowIn)
	}

	out := make([]PhaseMonthSummary, 0, len(buckets))
	for k, values := range buckets {
		pos, _ := domain.WaterYearPosition(time.Month(k.month))
		s := PhaseMonthSummary{
			Phase:         k.phase,
			Month:         k.month,
			MonthName:     time.Month(k.month).String(),
			SeasonOrder:   pos,
			Count:         len(values),
			MeanNewSnowIn: stat.Mean(values, nil),
		}
		if len(values) > 1 {
			s.StdDevNewIn = stat.StdDev(values, nil)
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if phaseOrder[out[i].Phase] != phaseOrder[out[j].Phase] {
			return phaseOrder[out[i].Phase] < phaseOrder[out[j].Phase]
		}
		return out[i].SeasonOrder < out[j].SeasonOrder
	})
	return out
}

// SummarizeByPass computes per-pass means across every month and year in
// the combined table, classified or not. Output is ordered by pass name.
func SummarizeByPass(records []domain.CombinedRecord) []PassSummary {
	newSnow := make(map[string][]float64)
	totalSnow := make(map[string][]float64)

	for _, r := range records {
		newSnow[r.Pass] = append(newSnow[r.Pass], r.AvgNewSnowIn)
		totalSnow[r.Pass] = append(totalSnow[r.Pass], r.AvgTotalSnowIn)
	}

	out := make([]PassSummary, 0, len(newSnow))
	for pass, values := range newSnow {
		out = append(out, PassSummary{
			Pass:            pass,
			Count:           len(values),
			MeanNewSnowIn:   stat.Mean(values, nil),
			MeanTotalSnowIn: stat.Mean(totalSnow[pass], nil),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Pass < out[j].Pass })
	return out
}

// CSV codecs for the summary tables.

type PhaseMonthCodec struct{}

func (PhaseMonthCodec) Header() []string {
	return []string{"enso", "month", "month_name", "season_order", "n", "mean_new_snowfall_in", "stddev_new_snowfall_in"}
}

func (PhaseMonthCodec) Encode(s PhaseMonthSummary) []string {
	return []string{
		s.Phase,
		strconv.Itoa(s.Month),
		s.MonthName,
		strconv.Itoa(s.SeasonOrder),
		strconv.Itoa(s.Count),
		strconv.FormatFloat(s.MeanNewSnowIn, 'g', -1, 64),
		strconv.FormatFloat(s.StdDevNewIn, 'g', -1, 64),
	}
}

func (PhaseMonthCodec) Decode(row []string) (PhaseMonthSummary, error) {
	if len(row) != 7 {
		return PhaseMonthSummary{}, fmt.Errorf("phase-month row has %d columns, want 7", len(row))
	}
	month, err := strconv.Atoi(row[1])
	if err != nil {
		return PhaseMonthSummary{}, err
	}
	order, err := strconv.Atoi(row[3])
	if err != nil {
		return PhaseMonthSummary{}, err
	}
	n, err := strconv.Atoi(row[4])
	if err != nil {
		return PhaseMonthSummary{}, err
	}
	mean, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return PhaseMonthSummary{}, err
	}
	stddev, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return PhaseMonthSummary{}, err
	}
	return PhaseMonthSummary{
		Phase:         row[0],
		Month:         month,
		MonthName:     row[2],
		SeasonOrder:   order,
		Count:         n,
		MeanNewSnowIn: mean,
		StdDevNewIn:   stddev,
	}, nil
}

type PassCodec struct{}

func (PassCodec) Header() []string {
	return []string{"pass", "n", "mean_new_snowfall_in", "mean_tot_snowfall_in"}
}

func (PassCodec) Encode(s PassSummary) []string {
	return []string{
		s.Pass,
		strconv.Itoa(s.Count),
		strconv.FormatFloat(s.MeanNewSnowIn, 'g', -1, 64),
		strconv.FormatFloat(s.MeanTotalSnowIn, 'g', -1, 64),
	}
}

func (PassCodec) Decode(row []string) (PassSummary, error) {
	if len(row) != 4 {
		return PassSummary{}, fmt.Errorf("pass row has %d columns, want 4", len(row))
	}
	n, err := strconv.Atoi(row[1])
	if err != nil {
		return PassSummary{}, err
	}
	meanNew, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return PassSummary{}, err
	}
	meanTot, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return PassSummary{}, err
	}
	return PassSummary{Pass: row[0], Count: n, MeanNewSnowIn: meanNew, MeanTotalSnowIn: meanTot}, nil
}
