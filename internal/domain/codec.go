package domain

import (
	"fmt"
	"strconv"
	"time"
)

// CSV codecs for the persisted tables. Column order is fixed so a cached
// table reads back bit-for-bit identical to what was written; floats use
// the shortest round-tripping representation for the same reason.

const dateLayout = "2006-01-02"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloatField(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %s value %q: %v", ErrParseFailure, field, raw, err)
	}
	return v, nil
}

func parseIntField(field, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: column %s value %q: %v", ErrParseFailure, field, raw, err)
	}
	return v, nil
}

// ClassificationCodec maps YearlyClassification to the enso.csv schema.
type ClassificationCodec struct{}

func (ClassificationCodec) Header() []string {
	return []string{"year", "mean_oni", "enso"}
}

func (ClassificationCodec) Encode(c YearlyClassification) []string {
	return []string{strconv.Itoa(c.Year), formatFloat(c.MeanONI), c.Phase}
}

func (ClassificationCodec) Decode(row []string) (YearlyClassification, error) {
	if len(row) != 3 {
		return YearlyClassification{}, fmt.Errorf("%w: enso row has %d columns, want 3", ErrParseFailure, len(row))
	}
	year, err := parseIntField("year", row[0])
	if err != nil {
		return YearlyClassification{}, err
	}
	mean, err := parseFloatField("mean_oni", row[1])
	if err != nil {
		return YearlyClassification{}, err
	}
	return YearlyClassification{Year: year, MeanONI: mean, Phase: row[2]}, nil
}

// SnowfallCodec maps MonthlySnowfall to the snowfall.csv schema.
type SnowfallCodec struct{}

func (SnowfallCodec) Header() []string {
	return []string{"pass", "year", "month", "date", "avg_new_snowfall_in", "avg_tot_snowfall_in"}
}

func (SnowfallCodec) Encode(s MonthlySnowfall) []string {
	return []string{
		s.Pass,
		strconv.Itoa(s.Year),
		strconv.Itoa(s.Month),
		s.Date.Format(dateLayout),
		formatFloat(s.AvgNewSnowIn),
		formatFloat(s.AvgTotalSnowIn),
	}
}

func (SnowfallCodec) Decode(row []string) (MonthlySnowfall, error) {
	if len(row) != 6 {
		return MonthlySnowfall{}, fmt.Errorf("%w: snowfall row has %d columns, want 6", ErrParseFailure, len(row))
	}
	year, err := parseIntField("year", row[1])
	if err != nil {
		return MonthlySnowfall{}, err
	}
	month, err := parseIntField("month", row[2])
	if err != nil {
		return MonthlySnowfall{}, err
	}
	date, err := time.ParseInLocation(dateLayout, row[3], time.UTC)
	if err != nil {
		return MonthlySnowfall{}, fmt.Errorf("%w: column date value %q: %v", ErrParseFailure, row[3], err)
	}
	avgNew, err := parseFloatField("avg_new_snowfall_in", row[4])
	if err != nil {
		return MonthlySnowfall{}, err
	}
	avgTot, err := parseFloatField("avg_tot_snowfall_in", row[5])
	if err != nil {
		return MonthlySnowfall{}, err
	}
	return MonthlySnowfall{
		Pass:           row[0],
		Year:           year,
		Month:          month,
		Date:           date,
		AvgNewSnowIn:   avgNew,
		AvgTotalSnowIn: avgTot,
	}, nil
}

// CombinedCodec maps CombinedRecord to the combined.csv schema: the
// snowfall columns plus nullable mean_oni and enso (empty when the year
// has no classification).
type CombinedCodec struct{}

func (CombinedCodec) Header() []string {
	return append(SnowfallCodec{}.Header(), "mean_oni", "enso")
}

func (CombinedCodec) Encode(c CombinedRecord) []string {
	row := SnowfallCodec{}.Encode(c.MonthlySnowfall)
	meanONI, phase := "", ""
	if c.MeanONI != nil {
		meanONI = formatFloat(*c.MeanONI)
	}
	if c.Phase != nil {
		phase = *c.Phase
	}
	return append(row, meanONI, phase)
}

func (CombinedCodec) Decode(row []string) (CombinedRecord, error) {
	if len(row) != 8 {
		return CombinedRecord{}, fmt.Errorf("%w: combined row has %d columns, want 8", ErrParseFailure, len(row))
	}
	snow, err := (SnowfallCodec{}).Decode(row[:6])
	if err != nil {
		return CombinedRecord{}, err
	}
	rec := CombinedRecord{MonthlySnowfall: snow}
	if row[6] != "" {
		mean, err := parseFloatField("mean_oni", row[6])
		if err != nil {
			return CombinedRecord{}, err
		}
		rec.MeanONI = &mean
	}
	if row[7] != "" {
		phase := row[7]
		rec.Phase = &phase
	}
	return rec, nil
}
