// Package provider defines the live quote capability shared by every
// market-data source and the closed set of source identifiers.
package provider

import (
	"context"
	"errors"
	"strings"
)

// ErrNoData reports that a source answered but had nothing for the name.
var ErrNoData = errors.New("no quote data")

// ID identifies a market-data source.
type ID string

const (
	Yahoo  ID = "yahoo"
	Google ID = "google"

	// Default serves every unrecognised source identifier.
	Default = Google
)

// IDs lists the known sources.
func IDs() []ID { return []ID{Yahoo, Google} }

// ParseID maps a raw identifier onto a known source, falling back to Default.
func ParseID(s string) ID {
	switch ID(strings.ToLower(strings.TrimSpace(s))) {
	case Yahoo:
		return Yahoo
	case Google:
		return Google
	}
	return Default
}

// Quote is the live data a source returned for one company. Every field is
// optional; a nil field means the source had no value for it.
type Quote struct {
	Name      *string  `json:"name,omitempty"`
	Symbol    *string  `json:"symbol,omitempty"`
	CMP       *float64 `json:"cmp,omitempty"`
	PE        *string  `json:"pe,omitempty"`
	EPS       *string  `json:"eps,omitempty"`
	MarketCap *string  `json:"marketCap,omitempty"`
	Sector    *string  `json:"sector,omitempty"`
	Currency  *string  `json:"currency,omitempty"`
	Exchange  *string  `json:"exchange,omitempty"`

	PreviousClose    *float64 `json:"previousClose,omitempty"`
	DayLow           *float64 `json:"dayLow,omitempty"`
	DayHigh          *float64 `json:"dayHigh,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fiftyTwoWeekLow,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh,omitempty"`
}

// Provider fetches a quote for a company name. A nil quote or any error means
// the source had no usable data; callers fall back to static values.
type Provider interface {
	ID() ID
	FetchQuote(ctx context.Context, name string) (*Quote, error)
}

// Set holds one provider per source.
type Set map[ID]Provider

// Get returns the provider for id, or the Default provider when id has none.
func (s Set) Get(id ID) (Provider, bool) {
	if p, ok := s[id]; ok && p != nil {
		return p, true
	}
	p, ok := s[Default]
	return p, ok && p != nil
}

// String returns a pointer to v, or nil when v is blank.
func String(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
