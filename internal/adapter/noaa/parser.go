package noaa

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

// monthColumns is the declared header schema: the month names the ONI
// table may carry, mapped to calendar month numbers. Header cells are
// matched case-insensitively on their first three letters.
var monthColumns = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4,
	"may": 5, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// minMonthColumns is how many recognized month headers a table needs
// before it is accepted as the ONI table. Selecting by header content
// instead of table position means layout changes around the table fail
// loudly instead of silently picking the wrong one.
const minMonthColumns = 6

// ParseONIPage extracts monthly ONI records from the page HTML. The table
// is located by header predicate; each body row carries a season label in
// its first cell (year = first four-digit numeral) and one ONI value per
// month column. Empty cells are skipped.
func ParseONIPage(r io.Reader) ([]domain.ONIRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse ONI page HTML: %v", domain.ErrParseFailure, err)
	}

	table, columns := findONITable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: no table with at least %d month columns found on ONI page", domain.ErrSourceSchemaChanged, minMonthColumns)
	}

	var records []domain.ONIRecord
	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i == 0 {
			return true // header row
		}
		cells := row.Find("th, td")
		label := strings.TrimSpace(cells.Eq(0).Text())
		if label == "" {
			return true
		}

		year, err := domain.SeasonStartYear(label)
		if err != nil {
			rowErr = err
			return false
		}

		for col, month := range columns {
			if col >= cells.Length() {
				continue
			}
			value, ok, err := domain.ParseONICell(cells.Eq(col).Text())
			if err != nil {
				rowErr = fmt.Errorf("season %q: %w", label, err)
				return false
			}
			if !ok {
				continue
			}
			records = append(records, domain.ONIRecord{Year: year, Month: month, Value: value})
		}
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: ONI table matched but contained no values", domain.ErrSourceSchemaChanged)
	}

	// Column iteration order is map order; sort so output is deterministic.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].Month < records[j].Month
	})
	return records, nil
}

// findONITable scans every table on the page and returns the first whose
// header row resolves enough month columns, along with the column-index →
// month-number mapping for that table.
func findONITable(doc *goquery.Document) (*goquery.Selection, map[int]int) {
	var match *goquery.Selection
	var columns map[int]int

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := table.Find("tr").First().Find("th, td")
		mapped := make(map[int]int)
		header.Each(func(col int, cell *goquery.Selection) {
			name := strings.ToLower(strings.TrimSpace(cell.Text()))
			if len(name) < 3 {
				return
			}
			if month, ok := monthColumns[name[:3]]; ok {
				mapped[col] = month
			}
		})
		if len(mapped) >= minMonthColumns {
			match = table
			columns = mapped
			return false
		}
		return true
	})

	return match, columns
}
