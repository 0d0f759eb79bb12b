package domain

import "errors"

// Failure categories for the scrape-and-normalize stages. Adapters wrap
// these with fmt.Errorf("...: %w", ...) so callers can branch with
// errors.Is while logs keep the full context.
var (
	// ErrSourceUnavailable covers network and HTTP-status failures.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceSchemaChanged means an expected table or field was not
	// found, e.g. no table on the page matches the header predicate.
	ErrSourceSchemaChanged = errors.New("source schema changed")

	// ErrParseFailure means a value could not be coerced to the declared
	// type, or a parsed value is out of its valid range.
	ErrParseFailure = errors.New("parse failure")
)
