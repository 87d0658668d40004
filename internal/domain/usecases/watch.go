package usecases

import (
	"context"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

const defaultWatchDebounce = 2 * time.Second

// Refresher reloads the document corpus.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// AutoRefresher refreshes the corpus when files in the documents directory
// change. Bursts of events within the debounce window trigger one refresh.
type AutoRefresher struct {
	watcher   ports.FileWatcher
	refresher Refresher
	dir       string
	debounce  time.Duration
	logger    arbor.ILogger
}

// NewAutoRefresher creates an AutoRefresher for dir.
func NewAutoRefresher(watcher ports.FileWatcher, refresher Refresher, dir string, debounce time.Duration, logger arbor.ILogger) *AutoRefresher {
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return &AutoRefresher{
		watcher:   watcher,
		refresher: refresher,
		dir:       dir,
		debounce:  debounce,
		logger:    logger,
	}
}

// Run watches until ctx is cancelled or the watcher closes its channel.
func (a *AutoRefresher) Run(ctx context.Context) error {
	events, err := a.watcher.Watch(ctx, a.dir)
	if err != nil {
		return err
	}
	defer a.watcher.Stop()

	a.logger.Info().Str("dir", a.dir).Str("debounce", a.debounce.String()).Msg("Watching documents directory")

	timer := time.NewTimer(a.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.logger.Debug().
				Str("file", filepath.Base(ev.Path)).
				Str("op", ev.Operation.String()).
				Msg("Document change detected")
			timer.Reset(a.debounce)
		case <-timer.C:
			if err := a.refresher.Refresh(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("Automatic refresh failed")
			}
		}
	}
}
