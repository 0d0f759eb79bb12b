// Package pipeline orchestrates the batch run: build the yearly ENSO
// table, fetch monthly snowfall for every configured (pass, year) pair,
// left-join the two on year, and persist the combined table plus report
// summaries. Each source dataset sits behind the flat-file cache, so a
// dataset that fetched successfully once never touches the network again.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/cache"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/observability"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/report"
)

// Cache keys, which double as output file names under the data dir.
const (
	keyENSO     = "enso"
	keySnowfall = "snowfall"
	keyCombined = "combined"
)

// ONISource produces the full monthly ONI table.
type ONISource interface {
	FetchONITable(ctx context.Context) ([]domain.ONIRecord, error)
}

// SnowfallSource produces monthly aggregates for one (pass, year) pair.
type SnowfallSource interface {
	FetchMonthly(ctx context.Context, pass domain.PassDefinition, year int) ([]domain.MonthlySnowfall, error)
}

// Pipeline wires the sources, cache, and reporting together for one run.
type Pipeline struct {
	store   *cache.Store
	oni     ONISource
	snow    SnowfallSource
	passes  []domain.PassDefinition
	years   []int
	writer  *report.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Result summarizes what a run produced.
type Result struct {
	ENSOYears    int
	SnowfallRows int
	CombinedRows int
	CombinedPath string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// New creates a Pipeline.
func New(store *cache.Store, oni ONISource, snow SnowfallSource, passes []domain.PassDefinition, years []int,
	writer *report.Writer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		store:   store,
		oni:     oni,
		snow:    snow,
		passes:  passes,
		years:   years,
		writer:  writer,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes the whole batch once. The two source datasets fail
// independently: a dead ONI page does not stop snowfall from being fetched
// and cached (or vice versa), but the combined table and reports are only
// produced when both datasets are available.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	res := Result{StartedAt: domain.Now()}

	enso, ensoErr := p.buildENSOTable(ctx)
	if ensoErr != nil {
		ensoErr = fmt.Errorf("enso dataset: %w", ensoErr)
		p.logger.Error("ENSO dataset failed", "error", ensoErr)
	}

	snowfall, snowErr := p.buildSnowfallTable(ctx)
	if snowErr != nil {
		snowErr = fmt.Errorf("snowfall dataset: %w", snowErr)
		p.logger.Error("snowfall dataset failed", "error", snowErr)
	}

	if err := errors.Join(ensoErr, snowErr); err != nil {
		return res, err
	}

	res.ENSOYears = len(enso)
	res.SnowfallRows = len(snowfall)
	p.metrics.RowsProduced.WithLabelValues(keyENSO).Set(float64(len(enso)))
	p.metrics.RowsProduced.WithLabelValues(keySnowfall).Set(float64(len(snowfall)))

	start := time.Now()
	combined := domain.Reconcile(snowfall, enso)
	path, err := cache.WriteTable(p.store, keyCombined, domain.CombinedCodec{}, combined)
	if err != nil {
		return res, fmt.Errorf("persist combined table: %w", err)
	}
	p.metrics.StageDuration.WithLabelValues("reconcile").Observe(time.Since(start).Seconds())
	p.metrics.RowsProduced.WithLabelValues(keyCombined).Set(float64(len(combined)))

	res.CombinedRows = len(combined)
	res.CombinedPath = path
	p.logger.Info("combined table written", "path", path, "rows", len(combined))

	if p.writer != nil {
		if err := p.writer.Write(combined); err != nil {
			return res, fmt.Errorf("write reports: %w", err)
		}
	}

	res.FinishedAt = domain.Now()
	return res, nil
}

func (p *Pipeline) buildENSOTable(ctx context.Context) ([]domain.YearlyClassification, error) {
	start := time.Now()
	defer func() {
		p.metrics.StageDuration.WithLabelValues("enso").Observe(time.Since(start).Seconds())
	}()

	return cache.LoadOrFetch(p.store, keyENSO, domain.ClassificationCodec{}, func() ([]domain.YearlyClassification, error) {
		records, err := p.oni.FetchONITable(ctx)
		if err != nil {
			p.metrics.SourceFetches.WithLabelValues("oni", "error").Inc()
			if errors.Is(err, domain.ErrParseFailure) || errors.Is(err, domain.ErrSourceSchemaChanged) {
				p.metrics.ParseErrors.WithLabelValues("oni").Inc()
			}
			return nil, err
		}
		p.metrics.SourceFetches.WithLabelValues("oni", "success").Inc()
		return domain.BuildYearlyClassifications(records), nil
	})
}

// buildSnowfallTable fetches the cross product of passes × years. A failed
// pair is logged and skipped rather than aborting the batch; the table is
// the concatenation of the successful pairs, deduplicated on
// (pass, year, month).
func (p *Pipeline) buildSnowfallTable(ctx context.Context) ([]domain.MonthlySnowfall, error) {
	start := time.Now()
	defer func() {
		p.metrics.StageDuration.WithLabelValues("snowfall").Observe(time.Since(start).Seconds())
	}()

	return cache.LoadOrFetch(p.store, keySnowfall, domain.SnowfallCodec{}, func() ([]domain.MonthlySnowfall, error) {
		var all []domain.MonthlySnowfall
		for _, pass := range p.passes {
			for _, year := range p.years {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}

				records, err := p.snow.FetchMonthly(ctx, pass, year)
				if err != nil {
					p.metrics.SourceFetches.WithLabelValues("snowfall", "error").Inc()
					if errors.Is(err, domain.ErrParseFailure) || errors.Is(err, domain.ErrSourceSchemaChanged) {
						p.metrics.ParseErrors.WithLabelValues("snowfall").Inc()
					}
					p.logger.Warn("skipping pass-year pair", "pass", pass.Name, "year", year, "error", err)
					continue
				}
				if len(records) == 0 {
					p.metrics.SourceFetches.WithLabelValues("snowfall", "empty").Inc()
					continue
				}
				p.metrics.SourceFetches.WithLabelValues("snowfall", "success").Inc()
				all = append(all, records...)
			}
		}
		return domain.DedupeSnowfall(all), nil
	})
}
