package google

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stockdash/internal/provider"
)

// Page selectors of the quote page.
const (
	selPrice    = ".YMlKec.fxKbKc"
	selName     = ".zzDege"
	selStatRow  = ".gyFHrc"
	selStatName = ".mfs7Fc"
	selStatVal  = ".P6K39c"
)

// ParsePage extracts a quote from a quote page. It returns nil without error
// when the page has no price. Everything but the price is best effort.
func ParsePage(r io.Reader) (*provider.Quote, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	priceText := strings.TrimSpace(doc.Find(selPrice).First().Text())
	if priceText == "" {
		return nil, nil
	}
	cmp, ok := parseNumber(priceText)
	if !ok {
		return nil, nil
	}

	stats := statTable(doc)
	q := &provider.Quote{
		Name:      provider.String(doc.Find(selName).First().Text()),
		CMP:       provider.Float(cmp),
		PE:        dashless(stats["p/e ratio"]),
		MarketCap: dashless(stats["market cap"]),
	}
	if v, ok := parseNumber(stats["previous close"]); ok {
		q.PreviousClose = provider.Float(v)
	}
	q.DayLow, q.DayHigh = parseRange(stats["day range"])
	q.FiftyTwoWeekLow, q.FiftyTwoWeekHigh = parseRange(stats["year range"])
	return q, nil
}

// statTable collects the label/value rows of the key statistics panel,
// keyed by lower-cased label.
func statTable(doc *goquery.Document) map[string]string {
	out := map[string]string{}
	doc.Find(selStatRow).Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(s.Find(selStatName).First().Text()))
		if label == "" {
			return
		}
		if _, seen := out[label]; seen {
			return
		}
		out[label] = strings.TrimSpace(s.Find(selStatVal).First().Text())
	})
	return out
}

func dashless(s string) *string {
	if s == "-" || s == "—" {
		return nil
	}
	return provider.String(s)
}

// parseNumber reads a price such as "₹1,700.15" or "$12.30".
func parseNumber(s string) (float64, bool) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return -1
	}, s)
	if clean == "" || clean == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseRange reads "low - high" ranges.
func parseRange(s string) (*float64, *float64) {
	lo, hi, ok := strings.Cut(s, " - ")
	if !ok {
		return nil, nil
	}
	var low, high *float64
	if v, ok := parseNumber(lo); ok {
		low = provider.Float(v)
	}
	if v, ok := parseNumber(hi); ok {
		high = provider.Float(v)
	}
	return low, high
}
