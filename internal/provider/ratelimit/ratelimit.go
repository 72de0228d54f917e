// Package ratelimit gates outbound quote requests per source.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"stockdash/internal/provider"
)

// Provider wraps a provider and waits for a limiter token before every call.
// Waiting honours ctx so a cancelled request never blocks on the limiter.
type Provider struct {
	P provider.Provider
	L *rate.Limiter
}

// PerMinute limits p to rpm requests per minute with the given burst.
// A non-positive rpm returns p unchanged.
func PerMinute(p provider.Provider, rpm, burst int) provider.Provider {
	if rpm <= 0 {
		return p
	}
	if burst <= 0 {
		burst = 1
	}
	return &Provider{P: p, L: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)}
}

// MinInterval spaces calls to p at least interval apart.
// A non-positive interval returns p unchanged.
func MinInterval(p provider.Provider, interval time.Duration) provider.Provider {
	if interval <= 0 {
		return p
	}
	return &Provider{P: p, L: rate.NewLimiter(rate.Every(interval), 1)}
}

func (l *Provider) ID() provider.ID { return l.P.ID() }

func (l *Provider) FetchQuote(ctx context.Context, name string) (*provider.Quote, error) {
	if l.L != nil {
		if err := l.L.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return l.P.FetchQuote(ctx, name)
}
