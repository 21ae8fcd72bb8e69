package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/primelife/signup/internal/config"
	"github.com/primelife/signup/internal/handoff"
	"github.com/primelife/signup/internal/metrics"
	"github.com/primelife/signup/internal/service"
	"github.com/primelife/signup/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("SIGNUP_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Configure(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if cfg.Checkout.Secret == config.DevCheckoutSecret {
		slog.Warn("Using the development checkout secret; set SIGNUP_CHECKOUT_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	issuer := handoff.NewIssuer(cfg.Checkout.Secret, cfg.Checkout.TokenTTL)
	svc := service.NewWizardService(store,
		service.WithIssuer(issuer),
		service.WithCheckoutURL(cfg.Checkout.URL),
		service.WithMetrics(m),
	)

	deps := routerDeps{svc: svc, store: store, issuer: issuer, metrics: m}
	if cfg.Server.MetricsAddr == "" {
		deps.gatherer = reg
	}

	// h2c serves HTTP/2 without TLS, which Connect clients expect
	servers := []*http.Server{{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(newRouter(deps), &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler(reg))
		servers = append(servers, &http.Server{
			Addr:              cfg.Server.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	sw := &sweeper{
		store:     store,
		svc:       svc,
		metrics:   m,
		retention: cfg.Storage.Retention,
		now:       time.Now,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("Server starting", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		return sw.run(gctx, cfg.Storage.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
