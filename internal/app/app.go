// Package app assembles the enrichment service from configuration.
package app

import (
	"time"

	"github.com/rs/zerolog"

	"stockdash/internal/config"
	"stockdash/internal/enrich"
	"stockdash/internal/httpx"
	"stockdash/internal/portfolio"
	"stockdash/internal/provider"
	"stockdash/internal/provider/google"
	"stockdash/internal/provider/ratelimit"
	"stockdash/internal/provider/yahoo"
)

// Providers builds the enabled quote sources, each behind its rate limit.
func Providers(cfg config.Config, log zerolog.Logger) provider.Set {
	set := provider.Set{}
	if cfg.Yahoo.Enabled {
		var p provider.Provider = yahoo.New(yahoo.Config{
			HomeSuffix:  cfg.Yahoo.HomeSuffix,
			SearchLimit: cfg.Yahoo.SearchLimit,
			Timeout:     seconds(cfg.Yahoo.TimeoutSec),
		}, nil, log)
		set[provider.Yahoo] = limit(p, cfg.Yahoo.MaxRequestsPerMinute, cfg.Yahoo.Burst, cfg.Yahoo.MinRequestIntervalSec)
	}
	if cfg.Google.Enabled {
		timeout := seconds(cfg.Google.TimeoutSec)
		var p provider.Provider = google.New(google.Config{
			BaseURL:        cfg.Google.BaseURL,
			ExchangePrefix: cfg.Google.ExchangePrefix,
			Timeout:        timeout,
		}, httpx.NewBrowser(timeout), log)
		set[provider.Google] = limit(p, cfg.Google.MaxRequestsPerMinute, cfg.Google.Burst, cfg.Google.MinRequestIntervalSec)
	}
	return set
}

// Prefer the token bucket when RPM is set, otherwise the min interval.
func limit(p provider.Provider, rpm, burst, minIntervalSec int) provider.Provider {
	if rpm > 0 {
		return ratelimit.PerMinute(p, rpm, burst)
	}
	return ratelimit.MinInterval(p, seconds(minIntervalSec))
}

func Pipeline(cfg config.Config, providers provider.Set, c enrich.Cache, log zerolog.Logger) *enrich.Pipeline {
	return enrich.New(enrich.Config{
		MaxConcurrency: cfg.Pipeline.MaxConcurrency,
		RunTimeout:     cfg.RunTimeout(),
	}, providers, c, log)
}

func Loader(cfg config.Config) portfolio.Loader {
	return portfolio.Loader{Path: cfg.Portfolio.Path, Columns: cfg.Portfolio.Columns}
}

// DefaultSource resolves the configured default, falling back to any enabled
// source when the configured one is disabled.
func DefaultSource(cfg config.Config, providers provider.Set) provider.ID {
	id := provider.ParseID(cfg.Pipeline.DefaultSource)
	if _, ok := providers[id]; ok {
		return id
	}
	for _, other := range provider.IDs() {
		if _, ok := providers[other]; ok {
			return other
		}
	}
	return id
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
