package input

import (
	"context"
	"time"

	"github.com/emmett/voxtype/internal/logger"
)

// DefaultWatchInterval is how often the watcher re-reads the config
const DefaultWatchInterval = time.Second

// Watcher reconciles a Binding against the configured hotkey
type Watcher struct {
	binding  *Binding
	load     func() (Spec, error)
	interval time.Duration
	log      *logger.Logger
}

// NewWatcher creates a watcher that polls load every interval
func NewWatcher(binding *Binding, load func() (Spec, error), interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		binding:  binding,
		load:     load,
		interval: interval,
		log:      logger.Named("hotkey-watcher"),
	}
}

// Run polls until ctx is done
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Reconcile()
		}
	}
}

// Reconcile performs one check and reports whether the binding changed
func (w *Watcher) Reconcile() bool {
	spec, err := w.load()
	if err != nil {
		w.log.Debug().Err(err).Msg("config unreadable, keeping hotkey")
		return false
	}
	if !w.binding.Store(spec) {
		return false
	}
	w.log.Info().Str("hotkey", spec.String()).Msg("hotkey binding changed")
	return true
}
