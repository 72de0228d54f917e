// Package yahoo resolves company names to Yahoo Finance listings and quotes.
package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stockdash/internal/provider"
)

// Snapshot is what the provider reads about one listing.
type Snapshot struct {
	Name       string
	Exchange   string
	Industry   string
	Price      float64
	TrailingPE float64
	MarketCap  float64
}

// Finance is the part of the Yahoo Finance API the provider uses. Calls block
// and take no context, so the provider runs them under its own deadline.
type Finance interface {
	Search(query string, limit int) ([]string, error)
	Quote(symbol string) (*Snapshot, error)
}

type Config struct {
	// HomeSuffix marks listings on the preferred exchange, e.g. ".NS" for NSE.
	HomeSuffix  string
	SearchLimit int
	Timeout     time.Duration
}

// Provider looks companies up through Finance. A call that outlives its
// timeout keeps running in the background, so after timeouts the outbound
// load can exceed the caller's concurrency limit.
type Provider struct {
	cfg Config
	api Finance
	log zerolog.Logger
}

func New(cfg Config, api Finance, log zerolog.Logger) *Provider {
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if api == nil {
		api = NewClient()
	}
	return &Provider{cfg: cfg, api: api, log: log.With().Str("provider", string(provider.Yahoo)).Logger()}
}

func (p *Provider) ID() provider.ID { return provider.Yahoo }

// FetchQuote searches name, picks a listing and reads its quote. The call is
// abandoned when the timeout or ctx ends first; the library call finishes in
// the background and its result is dropped.
func (p *Provider) FetchQuote(ctx context.Context, name string) (*provider.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	type result struct {
		q   *provider.Quote
		err error
	}
	ch := make(chan result, 1)
	go func() {
		q, err := p.fetch(name)
		ch <- result{q, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("yahoo: %q: %w", name, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("yahoo: %q: %w", name, r.err)
		}
		p.log.Info().Str("company", name).Str("symbol", *r.q.Symbol).Float64("cmp", *r.q.CMP).Msg("quote fetched")
		return r.q, nil
	}
}

func (p *Provider) fetch(name string) (*provider.Quote, error) {
	symbols, err := p.api.Search(name, p.cfg.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	sym := PickSymbol(symbols, p.cfg.HomeSuffix)
	if sym == "" {
		return nil, provider.ErrNoData
	}

	snap, err := p.api.Quote(sym)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", sym, err)
	}
	if snap == nil || snap.Price <= 0 {
		return nil, provider.ErrNoData
	}

	q := &provider.Quote{
		Name:     provider.String(snap.Name),
		Symbol:   provider.String(sym),
		CMP:      provider.Float(snap.Price),
		Sector:   provider.String(snap.Industry),
		Exchange: provider.String(snap.Exchange),
	}
	if snap.TrailingPE > 0 {
		q.PE = provider.String(strconv.FormatFloat(snap.TrailingPE, 'f', 2, 64))
		// trailing P/E is price over trailing EPS
		q.EPS = provider.String(strconv.FormatFloat(snap.Price/snap.TrailingPE, 'f', 2, 64))
	}
	if snap.MarketCap > 0 {
		q.MarketCap = provider.String(strconv.FormatFloat(snap.MarketCap, 'f', 0, 64))
	}
	return q, nil
}

// PickSymbol prefers the first listing on the home exchange, else the first
// search result.
func PickSymbol(symbols []string, homeSuffix string) string {
	if homeSuffix != "" {
		for _, s := range symbols {
			if strings.HasSuffix(strings.ToUpper(s), strings.ToUpper(homeSuffix)) {
				return s
			}
		}
	}
	for _, s := range symbols {
		if s != "" {
			return s
		}
	}
	return ""
}
