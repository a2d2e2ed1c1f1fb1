// Package watch re-runs a callback when a watched file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses the burst of events a single save produces
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher watches one file for changes
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(path string)
	logger   zerolog.Logger
}

// NewFileWatcher creates a watcher for path. The parent directory is watched
// so editors that save by renaming a temp file over path are still seen.
func NewFileWatcher(path string, onChange func(path string), logger zerolog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		watcher:  watcher,
		path:     abs,
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   logger.With().Str("component", "watcher").Logger(),
	}, nil
}

// SetDebounce changes how long the watcher waits for events to settle
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.debounce = d
}

// Start delivers changes until ctx is done. onChange runs on this goroutine,
// so changes arriving while it runs are coalesced into one more call.
func (fw *FileWatcher) Start(ctx context.Context) error {
	timer := time.NewTimer(fw.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if !fw.shouldWatch(event) {
				continue
			}
			fw.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("file event")
			timer.Reset(fw.debounce)

		case <-timer.C:
			fw.onChange(fw.path)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				fw.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// shouldWatch reports whether event touched the watched file with content
// that can be read back
func (fw *FileWatcher) shouldWatch(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != fw.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
