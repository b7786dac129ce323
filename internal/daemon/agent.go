// Package daemon implements the long-running agent loop.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// ErrWatcherClosed is returned by Run when the change watcher stops
// delivering events while the context is still live.
var ErrWatcherClosed = errors.New("change watcher closed unexpectedly")

// Agent keeps the appearance in sync with Night Light.
// It reconciles once on startup and again after every change event.
type Agent struct {
	reconciler domain.Reconciler
	watcher    domain.ChangeWatcher
	logger     *zap.Logger
}

// NewAgent creates a new agent.
func NewAgent(reconciler domain.Reconciler, watcher domain.ChangeWatcher, logger *zap.Logger) *Agent {
	return &Agent{
		reconciler: reconciler,
		watcher:    watcher,
		logger:     logger,
	}
}

// Run starts the agent loop.
// The startup reconciliation and the watcher subscription are fatal on
// failure; later reconciliation failures are logged and the loop goes on.
// This blocks until ctx is canceled.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("agent started")

	if _, err := a.reconciler.Reconcile(ctx); err != nil {
		a.logger.Error("initial reconciliation failed", zap.Error(err))
		return fmt.Errorf("initial reconciliation: %w", err)
	}

	events, err := a.watcher.Watch(ctx)
	if err != nil {
		a.logger.Error("failed to watch night light key", zap.Error(err))
		return fmt.Errorf("watch night light key: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("agent stopping")
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrWatcherClosed
			}
			a.handle(ctx, ev)
		}
	}
}

func (a *Agent) handle(ctx context.Context, ev domain.Event) {
	if ev.Err != nil {
		// Still refresh: the key may have changed even if the wait failed.
		a.logger.Warn("change notification carried an error", zap.Error(ev.Err))
	}

	result, err := a.reconciler.Reconcile(ctx)
	if err != nil {
		a.logger.Error("reconciliation failed", zap.Error(err))
		return
	}
	a.logger.Debug("reconciled after change",
		zap.Bool("dark", result.Dark),
		zap.Time("event_at", ev.At))
}
