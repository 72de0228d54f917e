package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"stockdash/internal/enrich"
	"stockdash/internal/portfolio"
	"stockdash/internal/provider"
	"stockdash/internal/summary"
)

const inputFailure = "Failed to process portfolio data"

type enricher interface {
	Run(ctx context.Context, src enrich.Source, id provider.ID) ([]portfolio.EnrichedHolding, error)
}

type clearer interface {
	Clear()
	Len() int
}

type api struct {
	pipeline      enricher
	source        enrich.Source
	cache         clearer
	defaultSource provider.ID
	log           zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func newRouter(a *api, origins []string, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.logRequests)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Compress(5))

	r.Get("/healthz", a.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/stocks", a.handleStocks)
		r.Get("/stocks/summary", a.handleSummary)
		r.Delete("/cache", a.handleClearCache)
	})
	return r
}

func (a *api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *api) handleStocks(w http.ResponseWriter, r *http.Request) {
	rows, ok := a.enrich(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *api) handleSummary(w http.ResponseWriter, r *http.Request) {
	rows, ok := a.enrich(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary.Build(rows))
}

func (a *api) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	n := a.cache.Len()
	a.cache.Clear()
	a.log.Info().Int("entries", n).Msg("cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

// enrich runs the pipeline for the requested source and writes the error
// response itself when the portfolio cannot be loaded.
func (a *api) enrich(w http.ResponseWriter, r *http.Request) ([]portfolio.EnrichedHolding, bool) {
	id := a.defaultSource
	if s := r.URL.Query().Get("source"); s != "" {
		id = provider.ParseID(s)
	}
	rows, err := a.pipeline.Run(r.Context(), a.source, id)
	if err != nil {
		a.log.Error().Err(err).Str("source", string(id)).Msg("portfolio enrichment failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: inputFailure})
		return nil, false
	}
	return rows, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func (a *api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		a.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
