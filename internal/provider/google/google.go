// Package google scrapes quote pages of Google Finance.
package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"stockdash/internal/provider"
)

// DefaultBaseURL is the quote page prefix; the candidate symbol is appended.
const DefaultBaseURL = "https://www.google.com/finance/quote/"

// maxPage bounds how much of a quote page is read.
const maxPage = 4 << 20

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=google_test -destination=mock_http_client_test.go -source=google.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls the scraper.
type Config struct {
	BaseURL string
	// ExchangePrefix is tried first as "<prefix>:<SYMBOL>". Empty disables it.
	ExchangePrefix string
	// Timeout bounds each page request.
	Timeout time.Duration
}

// Provider resolves a company name by trying symbol candidates against the
// quote page until one of them shows a price.
type Provider struct {
	cfg    Config
	client HTTPClient
	log    zerolog.Logger
}

func New(cfg Config, client HTTPClient, log zerolog.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{cfg: cfg, client: client, log: log.With().Str("provider", string(provider.Google)).Logger()}
}

func (p *Provider) ID() provider.ID { return provider.Google }

// Candidates returns the symbol formats tried for name, in order.
func Candidates(name, exchangePrefix string) []string {
	sym := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(name))
	if sym == "" {
		return nil
	}
	if exchangePrefix == "" {
		return []string{sym}
	}
	return []string{exchangePrefix + ":" + sym, sym}
}

// FetchQuote returns the quote of the first candidate whose page carries a
// price. Failed or empty candidates are skipped.
func (p *Provider) FetchQuote(ctx context.Context, name string) (*provider.Quote, error) {
	for _, sym := range Candidates(name, p.cfg.ExchangePrefix) {
		q, err := p.fetchCandidate(ctx, sym)
		if err != nil {
			p.log.Debug().Err(err).Str("company", name).Str("symbol", sym).Msg("candidate failed, trying next")
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if q == nil {
			p.log.Debug().Str("company", name).Str("symbol", sym).Msg("no price on page, trying next")
			continue
		}
		if q.Name == nil {
			q.Name = provider.String(name)
		}
		p.log.Info().Str("company", name).Str("symbol", sym).Float64("cmp", *q.CMP).Msg("quote fetched")
		return q, nil
	}
	return nil, fmt.Errorf("google: %q: %w", name, provider.ErrNoData)
}

func (p *Provider) fetchCandidate(ctx context.Context, sym string) (*provider.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	u := p.cfg.BaseURL + url.PathEscape(sym)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s -> %d", u, res.StatusCode)
	}

	q, err := ParsePage(io.LimitReader(res.Body, maxPage))
	if err != nil || q == nil {
		return q, err
	}
	q.Symbol = provider.String(sym)
	if ex, _, ok := strings.Cut(sym, ":"); ok {
		q.Exchange = provider.String(ex)
	}
	return q, nil
}
