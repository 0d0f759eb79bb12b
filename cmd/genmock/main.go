// Command genmock writes a fake ONI page and per-(pass, year) snowfall
// fragments to a directory, so the pipeline can be exercised against a
// local file server without touching the real sources. Values are
// generated from a fixed seed and are reproducible run to run; the ONI
// seasons are spread so the mock years cover all three ENSO phases.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/mock -start 2010 -end 2015
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/domain"
)

var mockPasses = []domain.PassDefinition{
	{Name: "Snoqualmie", SiteID: 1},
	{Name: "Stevens", SiteID: 2},
	{Name: "White", SiteID: 3},
	{Name: "Blewett", SiteID: 4},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for mock source files")
	start := flag.Int("start", 2010, "first year to generate")
	end := flag.Int("end", 2015, "last year to generate")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *start > *end {
		return fmt.Errorf("-start %d is after -end %d", *start, *end)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(42))

	oniPath := filepath.Join(*out, "oni.html")
	if err := os.WriteFile(oniPath, []byte(oniPage(rng, *start, *end)), 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s", oniPath)

	for _, pass := range mockPasses {
		for year := *start; year <= *end; year++ {
			name := fmt.Sprintf("snowfall_%d_%d.html", pass.SiteID, year)
			path := filepath.Join(*out, name)
			page, err := snowfallFragment(rng, pass, year)
			if err != nil {
				return fmt.Errorf("generating %s: %w", name, err)
			}
			if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
				return err
			}
		}
		log.Printf("wrote %d years for %s", *end-*start+1, pass.Name)
	}

	return nil
}

// oniPage renders a season-per-row ONI table. Every third year leans warm,
// every third cool, the rest near zero, so classifications of the mock
// data cover all three phases.
func oniPage(rng *rand.Rand, start, end int) string {
	var b strings.Builder
	b.WriteString("<html><body><h1>Oceanic Nino Index</h1>\n")
	b.WriteString("<table><tr><th>Season</th>")
	for m := time.January; m <= time.December; m++ {
		fmt.Fprintf(&b, "<th>%s</th>", m.String()[:3])
	}
	b.WriteString("</tr>\n")

	for year := start; year <= end; year++ {
		var base float64
		switch year % 3 {
		case 0:
			base = 1.0
		case 1:
			base = -1.0
		}
		fmt.Fprintf(&b, "<tr><td>%d-%02d</td>", year, (year+1)%100)
		for m := 1; m <= 12; m++ {
			v := base + rng.Float64()*0.4 - 0.2
			fmt.Fprintf(&b, "<td>%.1f</td>", v)
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("</table></body></html>\n")
	return b.String()
}

// snowfallFragment renders the HTML fragment the snowfall endpoint
// returns: a small page with the season JSON embedded in a <script> block,
// including daily detail rows the parser is expected to discard.
func snowfallFragment(rng *rand.Rand, pass domain.PassDefinition, year int) (string, error) {
	type day struct {
		Day       int     `json:"day"`
		NewSnowIn float64 `json:"newSnowInches"`
	}
	type month struct {
		MonthNumber    int     `json:"monthNumber"`
		MonthName      string  `json:"monthName"`
		AvgNewSnowIn   float64 `json:"avgNewSnowInches"`
		AvgTotalSnowIn float64 `json:"avgTotalSnowInches"`
		Days           []day   `json:"days"`
	}
	payload := struct {
		SiteID int     `json:"siteId"`
		Year   int     `json:"year"`
		Months []month `json:"months"`
	}{SiteID: pass.SiteID, Year: year}

	for _, m := range []time.Month{
		time.January, time.February, time.March, time.April, time.May,
		time.October, time.November, time.December,
	} {
		avgNew := rng.Float64() * 60
		entry := month{
			MonthNumber:    int(m),
			MonthName:      m.String(),
			AvgNewSnowIn:   round1(avgNew),
			AvgTotalSnowIn: round1(avgNew*2 + rng.Float64()*40),
		}
		for d := 1; d <= 5; d++ {
			entry.Days = append(entry.Days, day{Day: d, NewSnowIn: round1(rng.Float64() * 10)})
		}
		payload.Months = append(payload.Months, entry)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"<html><body><div id=\"snowfall-history\"><script type=\"application/json\">%s</script></div></body></html>\n",
		data,
	), nil
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
