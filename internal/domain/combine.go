package domain

// Reconcile left-joins monthly snowfall records with yearly ENSO
// classifications on year. Every snowfall record appears exactly once in
// the output; MeanONI and Phase stay nil for years outside the classified
// range. Input order is preserved.
func Reconcile(snowfall []MonthlySnowfall, enso []YearlyClassification) []CombinedRecord {
	byYear := make(map[int]YearlyClassification, len(enso))
	for _, c := range enso {
		byYear[c.Year] = c
	}

	out := make([]CombinedRecord, 0, len(snowfall))
	for _, s := range snowfall {
		rec := CombinedRecord{MonthlySnowfall: s}
		if c, ok := byYear[s.Year]; ok {
			mean := c.MeanONI
			phase := c.Phase
			rec.MeanONI = &mean
			rec.Phase = &phase
		}
		out = append(out, rec)
	}
	return out
}
