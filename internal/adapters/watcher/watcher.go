// Package watcher mirrors local source files into drafts using fsnotify.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultWindow is the default debounce window.
const DefaultWindow = 150 * time.Millisecond

var _ ports.SourceWatcher = (*Watcher)(nil)

// Watcher implements ports.SourceWatcher.
type Watcher struct {
	logger ports.Logger
	window time.Duration
}

// New creates a watcher that debounces writes within window.
func New(logger ports.Logger, window time.Duration) *Watcher {
	return &Watcher{logger: logger, window: window}
}

// Watch implements ports.SourceWatcher. It watches the file's directory so
// that editors replacing the file on save are followed. It returns nil once
// ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, file string, onChange func(content []byte)) error {
	file, err := filepath.Abs(file)
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	if _, err := os.Stat(file); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "file", file)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(filepath.Dir(file)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "file", file)
	}

	changes := make(chan struct{}, 1)
	debouncer := NewDebouncer(w.window, func([]string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debouncer.Add(event.Name)
			}

		case <-changes:
			//nolint:gosec // The author chose the file to mirror
			content, err := os.ReadFile(file)
			if err != nil {
				// Mid-replace; the following create event retries.
				w.logger.Warn("watcher: " + err.Error())
				continue
			}
			onChange(content)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}
