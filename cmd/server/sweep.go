package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/primelife/signup/internal/metrics"
	"github.com/primelife/signup/internal/service"
	"github.com/primelife/signup/internal/storage"
)

// sweeper deletes snapshots of abandoned wizards and forgets their
// in-memory validation errors.
type sweeper struct {
	store     storage.Store
	svc       *service.WizardService
	metrics   *metrics.Metrics
	retention time.Duration
	now       func() time.Time
}

// run sweeps every interval until ctx is done.
func (s *sweeper) run(ctx context.Context, interval time.Duration) error {
	if s.retention <= 0 || interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.retention)

	if purger, ok := s.store.(storage.Purger); ok {
		n, err := purger.PurgeBefore(ctx, cutoff)
		if err != nil {
			slog.WarnContext(ctx, "snapshot sweep failed", "error", err)
		} else if n > 0 {
			s.metrics.AddPurged(n)
			slog.InfoContext(ctx, "purged abandoned snapshots", "count", n)
		}
	}

	if n := s.svc.PruneIdle(cutoff); n > 0 {
		slog.DebugContext(ctx, "forgot idle sessions", "count", n)
	}
}
