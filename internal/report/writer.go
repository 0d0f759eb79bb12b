package report

import (
	"log/slog"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/cache"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

// Writer persists the summary tables under the report directory.
type Writer struct {
	store  *cache.Store
	logger *slog.Logger
}

// NewWriter creates a Writer whose outputs land in store's base directory
// (the configured report dir, kept separate from the cache dir).
func NewWriter(store *cache.Store, logger *slog.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// Write aggregates the combined records and writes both summary CSVs,
// overwriting previous runs.
func (w *Writer) Write(records []domain.CombinedRecord) error {
	byPhaseMonth := SummarizeByPhaseMonth(records)
	path, err := cache.WriteTable(w.store, "summary_by_phase_month", PhaseMonthCodec{}, byPhaseMonth)
	if err != nil {
		return err
	}
	w.logger.Info("report written", "path", path, "rows", len(byPhaseMonth))

	byPass := SummarizeByPass(records)
	path, err = cache.WriteTable(w.store, "summary_by_pass", PassCodec{}, byPass)
	if err != nil {
		return err
	}
	w.logger.Info("report written", "path", path, "rows", len(byPass))
	return nil
}
