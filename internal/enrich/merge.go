package enrich

import (
	"math"

	"stockdash/internal/portfolio"
	"stockdash/internal/provider"
)

const (
	missing       = "-"
	unknownSector = "Unknown"
)

// Merge combines a static holding with a live quote. A nil quote merges from
// static values only. Field precedence:
//
//	cmp       live, static
//	symbol    live, static, "-"
//	sector    live, "Unknown"
//	pe/eps/mc live, "-"
//	stage2    static, "-"
//
// The static sector is never consulted.
func Merge(h portfolio.Holding, q *provider.Quote) portfolio.EnrichedHolding {
	if q == nil {
		q = &provider.Quote{}
	}

	cmp := h.CMP
	if live := q.CMP; live != nil && !math.IsNaN(*live) && !math.IsInf(*live, 0) {
		cmp = *live
	}
	if math.IsNaN(cmp) || math.IsInf(cmp, 0) {
		cmp = 0
	}

	e := portfolio.EnrichedHolding{
		Company:       h.Company,
		Symbol:        firstOf(deref(q.Symbol), h.Symbol, missing),
		CMP:           cmp,
		PurchasePrice: h.PurchasePrice,
		Qty:           h.Qty,
		PE:            firstOf(deref(q.PE), missing),
		EPS:           firstOf(deref(q.EPS), missing),
		MarketCap:     firstOf(deref(q.MarketCap), missing),
		Sector:        firstOf(deref(q.Sector), unknownSector),
		Stage2:        firstOf(h.Stage2, missing),
	}
	portfolio.Derive(h.PurchasePrice, h.Qty, cmp).Apply(&e)
	return e
}

// firstOf returns the first non-zero value.
func firstOf[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
