// Package portfolio holds the static portfolio model, the loader that turns
// spreadsheet rows into holdings and the per-holding metric derivation.
package portfolio

// Holding is one static line item of the portfolio spreadsheet.
type Holding struct {
	Company       string  `json:"company"`
	Symbol        string  `json:"symbol"`
	PurchasePrice float64 `json:"purchasePrice"`
	Qty           float64 `json:"qty"`
	CMP           float64 `json:"cmp"`
	Sector        string  `json:"sector"`
	Stage2        string  `json:"stage2"`
}

// EnrichedHolding is a holding merged with a live quote plus derived metrics.
// Money fields are rendered with two decimals, the way the dashboard expects.
type EnrichedHolding struct {
	Company         string  `json:"name"`
	Symbol          string  `json:"symbol"`
	CMP             float64 `json:"cmp"`
	PurchasePrice   float64 `json:"purchasePrice"`
	Qty             float64 `json:"qty"`
	Investment      string  `json:"investment"`
	PresentValue    string  `json:"presentValue"`
	GainLoss        string  `json:"gainLoss"`
	GainLossPercent string  `json:"gainLossPercent"`
	PE              string  `json:"pe"`
	EPS             string  `json:"eps"`
	MarketCap       string  `json:"marketCap"`
	Sector          string  `json:"sector"`
	Stage2          string  `json:"stage2"`
}
