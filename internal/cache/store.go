// Package cache implements the flat-file table cache that sits in front of
// every network fetch. A dataset is cached as a CSV file named after its
// logical key; file existence is the entire freshness policy. Delete the
// file to force a re-fetch.
package cache

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/observability"
)

// Codec converts between typed records and CSV rows with a fixed column
// order, so a cached table reads back identical to what was written.
type Codec[T any] interface {
	Header() []string
	Encode(T) []string
	Decode([]string) (T, error)
}

// Store roots all cached tables under a single base directory, passed in
// explicitly rather than held as process-wide state.
type Store struct {
	baseDir string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewStore creates a Store rooted at baseDir. The directory is created on
// first write, not here.
func NewStore(baseDir string, metrics *observability.Metrics, logger *slog.Logger) *Store {
	return &Store{baseDir: baseDir, metrics: metrics, logger: logger}
}

// Path returns the file a key is cached at.
func (s *Store) Path(key string) string {
	return filepath.Join(s.baseDir, key+".csv")
}

// LoadOrFetch returns the cached table for key if its file exists,
// otherwise invokes fetch, writes the result, and returns it. If fetch
// fails nothing is written, so the next run fetches again. The cached file
// is trusted as-is beyond a header check; a header mismatch means the
// schema changed underneath an old cache file and is reported rather than
// silently re-mapped.
func LoadOrFetch[T any](s *Store, key string, codec Codec[T], fetch func() ([]T, error)) ([]T, error) {
	path := s.Path(key)
	if _, err := os.Stat(path); err == nil {
		s.metrics.CacheLookups.WithLabelValues(key, "hit").Inc()
		s.logger.Info("cache hit", "key", key, "path", path)
		return readTable(path, codec)
	}

	s.metrics.CacheLookups.WithLabelValues(key, "miss").Inc()
	s.logger.Info("cache miss, fetching", "key", key)
	records, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	if err := writeTable(path, codec, records); err != nil {
		return nil, fmt.Errorf("cache %s: %w", key, err)
	}
	s.logger.Info("cached", "key", key, "path", path, "rows", len(records))
	return records, nil
}

func readTable[T any](path string, codec Codec[T]) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read cache file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cache file %s is empty", path)
	}
	if !slices.Equal(rows[0], codec.Header()) {
		return nil, fmt.Errorf("cache file %s header %v does not match schema %v", path, rows[0], codec.Header())
	}

	records := make([]T, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := codec.Decode(row)
		if err != nil {
			return nil, fmt.Errorf("decode cache file %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeTable[T any](path string, codec Codec[T], records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(codec.Header()); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(codec.Encode(rec)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteTable persists a table unconditionally, overwriting any existing
// file. The pipeline uses it for derived outputs (the combined table and
// report summaries) that must reflect the current run.
func WriteTable[T any](s *Store, key string, codec Codec[T], records []T) (string, error) {
	path := s.Path(key)
	if err := writeTable(path, codec, records); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return path, nil
}
