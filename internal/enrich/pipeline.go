// Package enrich merges static holdings with live quotes under a bounded
// number of concurrent provider calls.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"stockdash/internal/cache"
	"stockdash/internal/portfolio"
	"stockdash/internal/provider"
)

// DefaultMaxConcurrency caps in-flight provider calls.
const DefaultMaxConcurrency = 3

// Cache stores enriched holdings between runs.
type Cache interface {
	Get(cache.Key) (portfolio.EnrichedHolding, bool)
	Put(cache.Key, portfolio.EnrichedHolding) error
}

// Source yields the static holdings to enrich.
type Source interface {
	Load() ([]portfolio.Holding, error)
}

type Config struct {
	// MaxConcurrency bounds provider calls across every run sharing the
	// pipeline. Values below one use DefaultMaxConcurrency.
	MaxConcurrency int
	// RunTimeout bounds a whole Enrich call. Zero disables it.
	RunTimeout time.Duration
}

type Pipeline struct {
	providers  provider.Set
	cache      Cache
	slots      *semaphore.Weighted
	runTimeout time.Duration
	log        zerolog.Logger
}

// New builds a pipeline. A nil cache disables caching.
func New(cfg Config, providers provider.Set, c Cache, log zerolog.Logger) *Pipeline {
	n := cfg.MaxConcurrency
	if n < 1 {
		n = DefaultMaxConcurrency
	}
	if c == nil {
		c = noCache{}
	}
	return &Pipeline{
		providers:  providers,
		cache:      c,
		slots:      semaphore.NewWeighted(int64(n)),
		runTimeout: cfg.RunTimeout,
		log:        log.With().Str("component", "enrich").Logger(),
	}
}

// Run loads holdings from src and enriches them. Only a load failure is
// returned; it wraps portfolio.ErrInputUnavailable.
func (p *Pipeline) Run(ctx context.Context, src Source, id provider.ID) ([]portfolio.EnrichedHolding, error) {
	holdings, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	return p.Enrich(ctx, holdings, id), nil
}

// Enrich returns one enriched holding per input holding, in input order.
// Provider and cache failures never fail the call; the affected holding is
// merged from its static values instead.
func (p *Pipeline) Enrich(ctx context.Context, holdings []portfolio.Holding, id provider.ID) []portfolio.EnrichedHolding {
	out := make([]portfolio.EnrichedHolding, len(holdings))
	if len(holdings) == 0 {
		return out
	}
	if p.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
		defer cancel()
	}

	log := p.log.With().Str("run", uuid.NewString()).Logger()
	src, ok := p.providers.Get(id)
	if ok {
		id = src.ID()
	} else {
		log.Warn().Str("source", string(id)).Msg("no provider configured, using static values")
	}

	start := time.Now()
	var g errgroup.Group
	for i, h := range holdings {
		g.Go(func() error {
			out[i] = p.enrichOne(ctx, log, src, id, h)
			return nil
		})
	}
	_ = g.Wait()

	log.Info().
		Str("source", string(id)).
		Int("holdings", len(holdings)).
		Dur("took", time.Since(start)).
		Msg("portfolio enriched")
	return out
}

func (p *Pipeline) enrichOne(ctx context.Context, log zerolog.Logger, src provider.Provider, id provider.ID, h portfolio.Holding) portfolio.EnrichedHolding {
	key := cache.Key{Provider: id, Company: h.Company}
	if v, ok := p.cache.Get(key); ok {
		return v
	}

	q := p.fetch(ctx, log, src, h.Company)
	e := Merge(h, q)
	if q == nil && ctx.Err() != nil {
		// cancelled runs leave the cache untouched
		log.Debug().Str("company", h.Company).Msg("run cancelled, result not cached")
		return e
	}

	if err := p.cache.Put(key, e); err != nil {
		log.Warn().Err(err).Str("company", h.Company).Msg("cache write failed")
	}
	return e
}

// fetch returns the live quote for name, or nil when none is available.
func (p *Pipeline) fetch(ctx context.Context, log zerolog.Logger, src provider.Provider, name string) (q *provider.Quote) {
	if src == nil {
		return nil
	}
	if err := p.slots.Acquire(ctx, 1); err != nil {
		log.Warn().Err(err).Str("company", name).Msg("no provider slot")
		return nil
	}
	defer p.slots.Release(1)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("company", name).Msg("provider panicked")
			q = nil
		}
	}()

	q, err := src.FetchQuote(ctx, name)
	switch {
	case errors.Is(err, provider.ErrNoData):
		log.Debug().Str("source", string(src.ID())).Str("company", name).Msg("no quote")
		return nil
	case err != nil:
		log.Warn().Err(err).Str("source", string(src.ID())).Str("company", name).Msg("quote fetch failed")
		return nil
	}
	return q
}

type noCache struct{}

func (noCache) Get(cache.Key) (portfolio.EnrichedHolding, bool) {
	return portfolio.EnrichedHolding{}, false
}

func (noCache) Put(cache.Key, portfolio.EnrichedHolding) error { return nil }
