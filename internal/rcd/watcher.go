// Package rcd provides the optional daemon mode of the depengine CLI: a
// periodic re-resolution job structured as a ticker-driven loop — select
// on the ticker, a stop channel, and the caller's context, the same shape
// as any other interval-driven runner.
//
// Watcher exists to do exactly one thing on an interval: re-run
// service.Resolver.ResolveAll. By law L1 (idempotence), a steady-state tick
// is a no-op; the watcher exists so a future reload of the unit directory
// (out of scope here, but the seam is real) has somewhere to plug in. Its
// mutex serializes scheduled ticks against manual Resolve calls; reads of
// the registry do not take it.
package rcd

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/svcinit/depengine/internal/service"
)

// Watcher periodically re-invokes ResolveAll on a Resolver, serializing
// ticks against any concurrent manual Resolve call behind a mutex, since a
// Resolver's ResolveAll is not safe to call concurrently with itself.
type Watcher struct {
	mu       sync.Mutex
	resolver *service.Resolver
	logger   *slog.Logger
	interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// NewWatcher builds a Watcher that re-resolves resolver every interval.
func NewWatcher(resolver *service.Resolver, logger *slog.Logger, interval time.Duration) *Watcher {
	return &Watcher{
		resolver: resolver,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Resolve runs one resolution pass immediately, outside the ticker, taking
// the same lock a scheduled tick would. Safe to call while Run is active.
func (w *Watcher) Resolve() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolver.ResolveAll()
}

// Run starts the ticker loop. It blocks until ctx is cancelled or Stop is
// called, so callers run it in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	w.ticker = time.NewTicker(w.interval)
	defer close(w.done)
	defer w.ticker.Stop()

	w.logger.Info("watcher started", "interval", w.interval)

	for {
		select {
		case <-w.ticker.C:
			w.logger.Debug("running scheduled resolution")
			if err := w.Resolve(); err != nil {
				w.logger.Error("scheduled resolution failed", "error", err)
			}
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop halts the ticker loop and waits for Run to return.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
	w.logger.Info("watcher stopped")
}
