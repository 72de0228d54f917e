package yahoo

import (
	"errors"
	"fmt"

	"github.com/wnjoon/go-yfinance/pkg/lookup"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// Client implements Finance with go-yfinance.
type Client struct{}

func NewClient() *Client { return &Client{} }

// Search returns equity symbols matching query, best match first.
func (c *Client) Search(query string, limit int) ([]string, error) {
	lc, err := lookup.New(query)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup client: %w", err)
	}
	defer lc.Close()

	results, err := lc.Stock(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup %q: %w", query, err)
	}

	symbols := make([]string, 0, len(results))
	for _, r := range results {
		if r.Symbol != "" {
			symbols = append(symbols, r.Symbol)
		}
	}
	return symbols, nil
}

// Quote reads price and fundamentals of symbol. The price comes from the quote
// endpoint with pre/post market fallbacks, then from info.
func (c *Client) Quote(symbol string) (*Snapshot, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	snap := &Snapshot{}
	quote, quoteErr := t.Quote()
	if quoteErr == nil && quote != nil {
		switch {
		case quote.RegularMarketPrice > 0:
			snap.Price = quote.RegularMarketPrice
		case quote.PreMarketPrice > 0:
			snap.Price = quote.PreMarketPrice
		case quote.PostMarketPrice > 0:
			snap.Price = quote.PostMarketPrice
		}
	}

	info, infoErr := t.Info()
	if infoErr == nil && info != nil {
		if snap.Price <= 0 {
			if info.CurrentPrice > 0 {
				snap.Price = info.CurrentPrice
			} else if info.RegularMarketPreviousClose > 0 {
				snap.Price = info.RegularMarketPreviousClose
			}
		}
		snap.Name = info.ShortName
		if snap.Name == "" {
			snap.Name = info.LongName
		}
		snap.Exchange = info.Exchange
		snap.Industry = info.Industry
		snap.TrailingPE = float64(info.TrailingPE)
		snap.MarketCap = float64(info.MarketCap)
	}

	if snap.Price <= 0 {
		if err := errors.Join(quoteErr, infoErr); err != nil {
			return nil, err
		}
	}
	return snap, nil
}
