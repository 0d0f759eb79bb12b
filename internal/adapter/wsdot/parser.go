package wsdot

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

// The endpoint returns an HTML fragment with the season's data serialized
// as JSON in the text of the document. The declared schema below is
// validated field-by-field; missing aggregates are a parse failure rather
// than silent zeros. Daily detail rows ride along in the payload and are
// discarded — only monthly aggregates survive normalization.

type snowfallPayload struct {
	SiteID *int         `json:"siteId"`
	Year   *int         `json:"year"`
	Months []monthEntry `json:"months"`
}

type monthEntry struct {
	MonthNumber    *int     `json:"monthNumber"`
	MonthName      string   `json:"monthName"`
	AvgNewSnowIn   *float64 `json:"avgNewSnowInches"`
	AvgTotalSnowIn *float64 `json:"avgTotalSnowInches"`

	// Daily readings, present in the payload but not kept.
	Days json.RawMessage `json:"days"`
}

// ParseSnowfallResponse extracts and normalizes one pass-year of monthly
// aggregates from a response body. A body with no embedded payload, or a
// payload whose site/year disagree with the request, is a schema change; a
// payload with malformed month entries is a parse failure. An empty months
// list is valid and yields zero records.
func ParseSnowfallResponse(r io.Reader, pass domain.PassDefinition, year int) ([]domain.MonthlySnowfall, error) {
	payload, err := extractPayload(r)
	if err != nil {
		return nil, err
	}

	if payload.SiteID == nil || payload.Year == nil {
		return nil, fmt.Errorf("%w: snowfall payload missing siteId/year for %s/%d", domain.ErrSourceSchemaChanged, pass.Name, year)
	}
	if *payload.SiteID != pass.SiteID || *payload.Year != year {
		return nil, fmt.Errorf("%w: snowfall payload is for site %d year %d, requested site %d year %d",
			domain.ErrSourceSchemaChanged, *payload.SiteID, *payload.Year, pass.SiteID, year)
	}

	records := make([]domain.MonthlySnowfall, 0, len(payload.Months))
	for i, m := range payload.Months {
		if m.MonthNumber == nil {
			return nil, fmt.Errorf("%w: month entry %d for %s/%d has no monthNumber", domain.ErrParseFailure, i, pass.Name, year)
		}
		if m.AvgNewSnowIn == nil || m.AvgTotalSnowIn == nil {
			return nil, fmt.Errorf("%w: month %d for %s/%d is missing snowfall aggregates", domain.ErrParseFailure, *m.MonthNumber, pass.Name, year)
		}

		rec, err := domain.NewMonthlySnowfall(pass.Name, year, *m.MonthNumber, *m.AvgNewSnowIn, *m.AvgTotalSnowIn)
		if err != nil {
			return nil, err
		}
		if m.MonthName != "" && !strings.EqualFold(m.MonthName, rec.Date.Month().String()) {
			return nil, fmt.Errorf("%w: month name %q does not match month number %d for %s/%d",
				domain.ErrParseFailure, m.MonthName, *m.MonthNumber, pass.Name, year)
		}
		records = append(records, rec)
	}
	return records, nil
}

// extractPayload pulls the embedded JSON out of the HTML fragment. The
// payload lives as text inside the fragment (historically a <script> or
// <pre> block, sometimes the bare body), so every candidate text node is
// tried until one decodes.
func extractPayload(r io.Reader) (*snowfallPayload, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse snowfall fragment HTML: %v", domain.ErrParseFailure, err)
	}

	var payload *snowfallPayload
	doc.Find("script, pre, body").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		start := strings.IndexByte(text, '{')
		if start < 0 {
			return true
		}
		// A Decoder tolerates trailing markup after the JSON value.
		var p snowfallPayload
		if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&p); err != nil {
			return true
		}
		payload = &p
		return false
	})

	if payload == nil {
		return nil, fmt.Errorf("%w: no JSON payload found in snowfall response", domain.ErrSourceSchemaChanged)
	}
	return payload, nil
}
