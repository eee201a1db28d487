package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/snaptrk/snap-companion/internal/snap/statefile"
)

// WatcherConfig configures the file-change trigger.
type WatcherConfig struct {
	// Debounce collapses bursts of file events into one ingestion.
	// Default: 2s
	Debounce time.Duration

	// MaxPerSecond caps sustained ingestion frequency. Default: 2
	MaxPerSecond int

	// IngestTimeout bounds a single ingestion cycle. Default: 30s
	IngestTimeout time.Duration
}

// Watcher watches the game's profile directory and drives the tracker's
// ingestion from file-change events. All events funnel into a single
// worker: a change arriving while a cycle is pending simply replaces the
// pending trigger, so the worker always processes the newest file state
// and overlapping ingestions cannot happen.
type Watcher struct {
	tracker *Tracker
	cfg     WatcherConfig
	log     zerolog.Logger
}

// NewWatcher creates a watcher for the tracker's state directory.
func NewWatcher(t *Tracker, cfg WatcherConfig, log zerolog.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	if cfg.MaxPerSecond <= 0 {
		cfg.MaxPerSecond = 2
	}
	if cfg.IngestTimeout <= 0 {
		cfg.IngestTimeout = 30 * time.Second
	}
	return &Watcher{
		tracker: t,
		cfg:     cfg,
		log:     log.With().Str("component", "watcher").Logger(),
	}
}

// Run watches until the context is cancelled. It performs one initial
// ingestion so reports are warm before the first file change.
func (w *Watcher) Run(ctx context.Context) error {
	dir, err := statefile.ResolveProfile(w.tracker.stateRoot, w.tracker.profile)
	if err != nil {
		return fmt.Errorf("resolve profile directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Info().Str("dir", dir).Msg("watching for state changes")

	// Capacity-one trigger channel: a newer change supersedes a pending
	// one instead of queueing behind it.
	trigger := make(chan struct{}, 1)
	fire := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}
	fire()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	limiter := rate.NewLimiter(rate.Limit(w.cfg.MaxPerSecond), 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			matched, err := filepath.Match(statefile.StateFilePattern, filepath.Base(ev.Name))
			if err != nil || !matched {
				continue
			}
			w.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("state file changed")
			if debounce == nil {
				debounce = time.AfterFunc(w.cfg.Debounce, fire)
			} else {
				debounce.Reset(w.cfg.Debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			w.log.Warn().Err(err).Msg("file watcher error")

		case <-trigger:
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			w.ingestOnce(ctx)
		}
	}
}

// ingestOnce runs a single bounded ingestion cycle. Failures abort the
// cycle only; the watcher keeps running and the previous latest snapshot
// remains the system's answer.
func (w *Watcher) ingestOnce(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, w.cfg.IngestTimeout)
	defer cancel()

	result, err := w.tracker.Ingest(cycleCtx)
	if err != nil {
		w.log.Error().Err(err).Msg("ingestion failed")
		return
	}
	w.log.Debug().
		Str("cycle_id", result.CycleID).
		Int("inserted", result.Inserted).
		Msg("ingestion complete")
}
