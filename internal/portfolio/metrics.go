package portfolio

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Metrics are the financial figures derived for a single holding.
type Metrics struct {
	Investment      decimal.Decimal
	PresentValue    decimal.Decimal
	GainLoss        decimal.Decimal
	GainLossPercent decimal.Decimal
}

// Derive computes investment, present value and gain/loss for a position.
// The percentage is zero when nothing was invested and is rounded to two places.
func Derive(purchasePrice, qty, cmp float64) Metrics {
	p, q, c := Decimal(purchasePrice), Decimal(qty), Decimal(cmp)

	m := Metrics{
		Investment:   p.Mul(q),
		PresentValue: c.Mul(q),
	}
	m.GainLoss = m.PresentValue.Sub(m.Investment)
	m.GainLossPercent = decimal.Zero
	if !m.Investment.IsZero() {
		m.GainLossPercent = m.GainLoss.Div(m.Investment).Mul(hundred).Round(2)
	}
	return m
}

// Apply writes the metrics into e using the two-decimal string form.
func (m Metrics) Apply(e *EnrichedHolding) {
	e.Investment = m.Investment.StringFixed(2)
	e.PresentValue = m.PresentValue.StringFixed(2)
	e.GainLoss = m.GainLoss.StringFixed(2)
	e.GainLossPercent = m.GainLossPercent.StringFixed(2)
}

// Decimal converts v, mapping NaN and infinities to zero.
func Decimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// ParseMoney reads back a two-decimal string produced by Apply. Unparseable
// input yields zero.
func ParseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
