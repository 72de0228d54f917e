// Package summary computes the dashboard aggregates of an enriched portfolio.
package summary

import (
	"slices"

	"github.com/shopspring/decimal"

	"stockdash/internal/portfolio"
)

// TopN is how many holdings are listed as top gainers and top losers.
const TopN = 5

var hundred = decimal.NewFromInt(100)

type Summary struct {
	Holdings int `json:"holdings"`
	Totals
	Profitable int      `json:"profitable"`
	LossMaking int      `json:"lossMaking"`
	Sectors    []Sector `json:"sectors"`
	TopGainers []Mover  `json:"topGainers"`
	TopLosers  []Mover  `json:"topLosers"`
}

type Totals struct {
	Investment      string `json:"investment"`
	PresentValue    string `json:"presentValue"`
	GainLoss        string `json:"gainLoss"`
	GainLossPercent string `json:"gainLossPercent"`
}

// Sector groups holdings by their enriched sector label. Allocation is the
// sector's share of the total investment, in percent.
type Sector struct {
	Name     string `json:"sector"`
	Holdings int    `json:"holdings"`
	Totals
	Allocation string `json:"allocation"`
}

type Mover struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	GainLoss string `json:"gainLoss"`
}

type sums struct {
	investment, present, gain decimal.Decimal
}

func (s *sums) add(e portfolio.EnrichedHolding) {
	s.investment = s.investment.Add(portfolio.ParseMoney(e.Investment))
	s.present = s.present.Add(portfolio.ParseMoney(e.PresentValue))
	s.gain = s.gain.Add(portfolio.ParseMoney(e.GainLoss))
}

func (s sums) totals() Totals {
	return Totals{
		Investment:      s.investment.StringFixed(2),
		PresentValue:    s.present.StringFixed(2),
		GainLoss:        s.gain.StringFixed(2),
		GainLossPercent: percent(s.gain, s.investment).StringFixed(2),
	}
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// Build aggregates rows. Sectors keep first-seen order.
func Build(rows []portfolio.EnrichedHolding) Summary {
	var total sums
	var order []string
	bySector := make(map[string]*sums)
	count := make(map[string]int)

	s := Summary{Holdings: len(rows)}
	for _, e := range rows {
		total.add(e)

		sec, ok := bySector[e.Sector]
		if !ok {
			sec = &sums{}
			bySector[e.Sector] = sec
			order = append(order, e.Sector)
		}
		sec.add(e)
		count[e.Sector]++

		switch portfolio.ParseMoney(e.GainLoss).Sign() {
		case 1:
			s.Profitable++
		case -1:
			s.LossMaking++
		}
	}

	s.Totals = total.totals()
	s.Sectors = make([]Sector, 0, len(order))
	for _, name := range order {
		sec := bySector[name]
		s.Sectors = append(s.Sectors, Sector{
			Name:       name,
			Holdings:   count[name],
			Totals:     sec.totals(),
			Allocation: percent(sec.investment, total.investment).StringFixed(2),
		})
	}
	s.TopGainers, s.TopLosers = movers(rows)
	return s
}

// movers ranks rows by gain/loss. Gainers are the highest five, losers the
// lowest five with the worst first; small portfolios may list a row in both.
func movers(rows []portfolio.EnrichedHolding) (gainers, losers []Mover) {
	ranked := slices.Clone(rows)
	slices.SortStableFunc(ranked, func(a, b portfolio.EnrichedHolding) int {
		return portfolio.ParseMoney(b.GainLoss).Cmp(portfolio.ParseMoney(a.GainLoss))
	})

	n := min(TopN, len(ranked))
	gainers = make([]Mover, 0, n)
	for _, e := range ranked[:n] {
		gainers = append(gainers, mover(e))
	}
	losers = make([]Mover, 0, n)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		losers = append(losers, mover(ranked[i]))
	}
	return gainers, losers
}

func mover(e portfolio.EnrichedHolding) Mover {
	return Mover{Symbol: e.Symbol, Name: e.Company, GainLoss: e.GainLoss}
}
