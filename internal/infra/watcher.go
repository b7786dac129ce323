package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// Notifier blocks until the subscribed registry subtree changes.
// Changes that happen while nobody is waiting are remembered, so the next
// Wait returns immediately; several such changes collapse into one.
type Notifier interface {
	// Wait blocks until a change or until ctx is done.
	Wait(ctx context.Context) error

	// Close cancels the subscription.
	Close() error
}

// NotifierFactory establishes a subscription.
type NotifierFactory func() (Notifier, error)

// WatcherConfig holds change watcher configuration.
type WatcherConfig struct {
	Debounce time.Duration // Minimum spacing between delivered events
	Buffer   int           // Event channel capacity
}

// DefaultWatcherConfig returns default watcher configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		Debounce: time.Second,
		Buffer:   16,
	}
}

// DebouncedWatcher implements domain.ChangeWatcher on top of a Notifier.
// At most one event is delivered per Debounce interval; sends block rather
// than drop, so the single consumer sees every delivered event in order.
type DebouncedWatcher struct {
	config    WatcherConfig
	subscribe NotifierFactory
	logger    *zap.Logger
}

// NewChangeWatcher creates a watcher that subscribes through factory on Watch.
func NewChangeWatcher(config WatcherConfig, factory NotifierFactory, logger *zap.Logger) domain.ChangeWatcher {
	return &DebouncedWatcher{
		config:    config,
		subscribe: factory,
		logger:    logger,
	}
}

// Watch establishes the subscription and starts delivering events.
// A subscription failure is returned directly.
func (w *DebouncedWatcher) Watch(ctx context.Context) (<-chan domain.Event, error) {
	notifier, err := w.subscribe()
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to registry changes: %w", err)
	}

	buffer := w.config.Buffer
	if buffer < 1 {
		buffer = 1
	}
	events := make(chan domain.Event, buffer)

	go w.run(ctx, notifier, events)
	return events, nil
}

func (w *DebouncedWatcher) run(ctx context.Context, notifier Notifier, events chan<- domain.Event) {
	defer close(events)
	defer func() {
		if err := notifier.Close(); err != nil {
			w.logger.Warn("failed to close registry notifier", zap.Error(err))
		}
	}()

	limiter := rate.NewLimiter(rate.Every(w.config.Debounce), 1)

	for {
		waitErr := notifier.Wait(ctx)
		if ctx.Err() != nil {
			return
		}
		if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
			w.logger.Debug("registry notification error", zap.Error(waitErr))
		}

		// Changes arriving during this wait are held by the notifier and
		// come back as a single wakeup on the next iteration.
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		select {
		case events <- domain.Event{At: time.Now(), Err: waitErr}:
		case <-ctx.Done():
			return
		}
	}
}

// Ensure DebouncedWatcher implements domain.ChangeWatcher.
var _ domain.ChangeWatcher = (*DebouncedWatcher)(nil)
