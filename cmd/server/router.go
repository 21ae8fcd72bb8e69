package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/mssola/useragent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/primelife/signup/internal/handoff"
	"github.com/primelife/signup/internal/metrics"
	"github.com/primelife/signup/internal/middleware"
	"github.com/primelife/signup/internal/service"
	"github.com/primelife/signup/internal/storage"
)

// routerDeps are the collaborators the HTTP surface needs.
type routerDeps struct {
	svc     *service.WizardService
	store   storage.Store
	issuer  *handoff.Issuer
	metrics *metrics.Metrics

	// gatherer serves /metrics; nil leaves the route out.
	gatherer prometheus.Gatherer
}

// newRouter wires the Connect service and the plain HTTP endpoints.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	path, handler := service.NewWizardServiceHandler(d.svc,
		connect.WithInterceptors(
			middleware.Session(),
			middleware.LoggingInterceptor(d.metrics),
		),
	)
	r.Mount(path, handler)

	r.Get("/healthz", healthHandler(d.store))
	r.Get("/checkout/verify", verifyHandler(d.issuer))
	if d.gatherer != nil {
		r.Handle("/metrics", metricsHandler(d.gatherer))
	}
	return r
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// healthHandler reports whether the snapshot backend is reachable.
func healthHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p, ok := store.(storage.Pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				slog.WarnContext(ctx, "Health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// verifyHandler lets checkout confirm a handoff token and read its claims.
func verifyHandler(issuer *handoff.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := issuer.Validate(r.URL.Query().Get("token"))
		switch {
		case errors.Is(err, handoff.ErrMissingToken):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case err != nil:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": handoff.ErrInvalidToken.Error()})
		default:
			writeJSON(w, http.StatusOK, claims)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		ua := useragent.New(r.UserAgent())
		browser, _ := ua.Browser()
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"remote_addr", r.RemoteAddr,
			"browser", browser,
			"mobile", ua.Mobile(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access. Wizard-Session is
// exposed so browsers can keep their session id.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms, "+middleware.SessionHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+middleware.SessionHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
