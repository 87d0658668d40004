// Package filewatcher provides file system monitoring adapters.
package filewatcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

// FSNotifyWatcher implements ports.FileWatcher using fsnotify.
// Only top-level, non-hidden files with a watched extension are reported.
type FSNotifyWatcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]bool
	logger     arbor.ILogger
}

// NewFSNotifyWatcher creates a new file watcher for the given extensions.
func NewFSNotifyWatcher(extensions []string, logger arbor.ILogger) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = []string{".md", ".markdown", ".txt", ".pdf"}
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}

	return &FSNotifyWatcher{
		watcher:    w,
		extensions: exts,
		logger:     logger,
	}, nil
}

// Watch starts monitoring the directory and emits events until ctx ends
// or the watcher is stopped.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan ports.FileEvent, 100)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isWatched(event.Name) {
					continue
				}

				op, ok := toFileOperation(event.Op)
				if !ok {
					continue
				}

				select {
				case events <- ports.FileEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn().Err(err).Str("dir", dir).Msg("File watcher error")
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}

func toFileOperation(op fsnotify.Op) (ports.FileOperation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return ports.FileCreated, true
	case op.Has(fsnotify.Write):
		return ports.FileModified, true
	case op.Has(fsnotify.Remove):
		return ports.FileDeleted, true
	case op.Has(fsnotify.Rename):
		return ports.FileRenamed, true
	}
	return 0, false
}

func (w *FSNotifyWatcher) isWatched(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(name))]
}
