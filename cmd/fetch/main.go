package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"stockdash/internal/app"
	"stockdash/internal/cache"
	"stockdash/internal/config"
	"stockdash/internal/logger"
	"stockdash/internal/provider"
	"stockdash/internal/summary"
)

func main() {
	var configPath string
	var source string
	var portfolioPath string
	var timeout int
	var withSummary bool
	var sequential bool

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.StringVar(&source, "source", "", "quote source: yahoo or google (default from config)")
	flag.StringVar(&portfolioPath, "portfolio", "", "portfolio JSON file (default from config)")
	flag.IntVar(&timeout, "timeout", 120, "overall timeout seconds")
	flag.BoolVar(&withSummary, "summary", false, "print dashboard aggregates instead of rows")
	flag.BoolVar(&sequential, "sequential", false, "one provider call at a time, no cache")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if portfolioPath != "" {
		cfg.Portfolio.Path = portfolioPath
	}
	if sequential {
		cfg.Pipeline.MaxConcurrency = 1
		cfg.Cache.TTLSeconds = 0
	}

	// logs go to stderr so stdout stays valid JSON
	log := logger.New(logger.Config{Level: cfg.Log.Level}).Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	providers := app.Providers(cfg, log)
	id := app.DefaultSource(cfg, providers)
	if source != "" {
		id = provider.ParseID(source)
	}
	pipeline := app.Pipeline(cfg, providers, cache.New(cfg.CacheTTL()), log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	rows, err := pipeline.Run(ctx, app.Loader(cfg), id)
	if err != nil {
		log.Fatal().Err(err).Str("portfolio", cfg.Portfolio.Path).Msg("enrich")
	}

	var out any = rows
	if withSummary {
		out = summary.Build(rows)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("encode")
	}
}
