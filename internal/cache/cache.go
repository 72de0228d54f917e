// Package cache keeps recently enriched holdings for a short, process-wide TTL.
package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"stockdash/internal/portfolio"
	"stockdash/internal/provider"
)

// ErrInvalidKey is returned by Put for keys without a company.
var ErrInvalidKey = errors.New("cache: invalid key")

// Key identifies an enriched holding per source.
type Key struct {
	Provider provider.ID
	Company  string
}

func (k Key) String() string { return string(k.Provider) + "_" + k.Company }

type entry struct {
	expiresAt time.Time
	value     portfolio.EnrichedHolding
}

// Store is a TTL map safe for concurrent use. Expiry is checked on read;
// Start adds a periodic sweep that drops expired entries. Last write wins.
// A non-positive TTL disables caching: every Get misses and Put is a no-op.
type Store struct {
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger

	mu    sync.RWMutex
	items map[Key]entry

	cronMu sync.Mutex
	cron   *cron.Cron
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func New(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		ttl:   ttl,
		now:   time.Now,
		log:   zerolog.Nop(),
		items: make(map[Key]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration { return s.ttl }

// Get returns the value stored under k if it has not expired.
func (s *Store) Get(k Key) (portfolio.EnrichedHolding, bool) {
	if s.ttl <= 0 {
		return portfolio.EnrichedHolding{}, false
	}
	s.mu.RLock()
	e, ok := s.items[k]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expiresAt) {
		return portfolio.EnrichedHolding{}, false
	}
	return e.value, true
}

// Put stores v under k for the store TTL.
func (s *Store) Put(k Key, v portfolio.EnrichedHolding) error {
	if k.Company == "" {
		return fmt.Errorf("%w: %q", ErrInvalidKey, k.String())
	}
	if s.ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.items[k] = entry{expiresAt: s.now().Add(s.ttl), value: v}
	s.mu.Unlock()
	return nil
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = make(map[Key]entry)
	s.mu.Unlock()
}

// Sweep removes expired entries and reports how many were dropped.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.items {
		if !now.Before(e.expiresAt) {
			delete(s.items, k)
			n++
		}
	}
	return n
}

// Len counts stored entries, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Start schedules Sweep every interval. Intervals below one second are
// rounded up by the scheduler. Calling Start twice is a no-op.
func (s *Store) Start(every time.Duration) error {
	if every <= 0 {
		return fmt.Errorf("cache: sweep interval must be positive, got %s", every)
	}
	s.cronMu.Lock()
	defer s.cronMu.Unlock()
	if s.cron != nil {
		return nil
	}
	c := cron.New()
	c.Schedule(cron.Every(every), cron.FuncJob(func() {
		if n := s.Sweep(); n > 0 {
			s.log.Debug().Int("expired", n).Int("remaining", s.Len()).Msg("cache swept")
		}
	}))
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the sweeper and waits for a running sweep to finish.
func (s *Store) Stop() {
	s.cronMu.Lock()
	c := s.cron
	s.cron = nil
	s.cronMu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
