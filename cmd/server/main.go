package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockdash/internal/app"
	"stockdash/internal/cache"
	"stockdash/internal/config"
	"stockdash/internal/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logger.Open(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Dir: cfg.Log.Dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	logger.SetGlobalLogger(log)

	store := cache.New(cfg.CacheTTL(), cache.WithLogger(log.With().Str("component", "cache").Logger()))
	if cfg.CacheTTL() > 0 {
		if err := store.Start(cfg.CacheSweep()); err != nil {
			log.Fatal().Err(err).Msg("cache sweeper")
		}
		defer store.Stop()
	} else {
		log.Warn().Msg("cache disabled")
	}

	providers := app.Providers(cfg, log)
	a := &api{
		pipeline:      app.Pipeline(cfg, providers, store, log),
		source:        app.Loader(cfg),
		cache:         store,
		defaultSource: app.DefaultSource(cfg, providers),
		log:           log.With().Str("component", "server").Logger(),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(a, cfg.Server.AllowedOrigins, cfg.RequestTimeout()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("portfolio", cfg.Portfolio.Path).
			Str("default_source", string(a.defaultSource)).
			Int("max_concurrency", cfg.Pipeline.MaxConcurrency).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
