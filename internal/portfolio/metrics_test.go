package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive_Loss(t *testing.T) {
	var e EnrichedHolding
	Derive(100, 10, 90).Apply(&e)

	assert.Equal(t, "1000.00", e.Investment)
	assert.Equal(t, "900.00", e.PresentValue)
	assert.Equal(t, "-100.00", e.GainLoss)
	assert.Equal(t, "-10.00", e.GainLossPercent)
}

func TestDerive_Gain(t *testing.T) {
	var e EnrichedHolding
	Derive(100, 10, 120).Apply(&e)

	assert.Equal(t, "1200.00", e.PresentValue)
	assert.Equal(t, "200.00", e.GainLoss)
	assert.Equal(t, "20.00", e.GainLossPercent)
}

func TestDerive_ZeroInvestment(t *testing.T) {
	cases := []struct {
		name            string
		price, qty, cmp float64
	}{
		{"zero price", 0, 10, 55},
		{"zero qty", 120, 0, 55},
		{"all zero", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Derive(tc.price, tc.qty, tc.cmp)
			assert.True(t, m.GainLossPercent.IsZero())

			var e EnrichedHolding
			m.Apply(&e)
			assert.Equal(t, "0.00", e.GainLossPercent)
		})
	}
}

func TestDerive_InvestmentPlusGainIsPresentValue(t *testing.T) {
	positions := [][3]float64{
		{1490, 50, 1700.15},
		{6466, 15, 6980.4},
		{1151.35, 33, 1012.9},
		{24.75, 1200, 19.05},
		{0.35, 7, 0.4},
	}
	for _, p := range positions {
		var e EnrichedHolding
		Derive(p[0], p[1], p[2]).Apply(&e)

		sum := ParseMoney(e.Investment).Add(ParseMoney(e.GainLoss))
		diff := sum.Sub(ParseMoney(e.PresentValue)).Abs().InexactFloat64()
		assert.LessOrEqual(t, diff, 0.01, "position %v", p)
	}
}

func TestDecimal_NonFinite(t *testing.T) {
	assert.True(t, Decimal(math.NaN()).IsZero())
	assert.True(t, Decimal(math.Inf(1)).IsZero())
	assert.Equal(t, "12.5", Decimal(12.5).String())
}
