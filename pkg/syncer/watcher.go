package syncer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/skillboxdev/skillbox/pkg/logger"
)

// DefaultDebounce is the delay between a filesystem event and the rescan it
// triggers, so bursts of writes produce a single sync pass.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-runs a Syncer whenever its source roots change
type Watcher struct {
	syncer   *Syncer
	debounce time.Duration
	onResult func(*Result)
}

// WatchOption configures a Watcher
type WatchOption func(*Watcher)

// WithDebounce overrides the debounce delay
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnResult registers a callback invoked after every sync pass
func WithOnResult(fn func(*Result)) WatchOption {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// NewWatcher creates a Watcher around an existing Syncer
func NewWatcher(s *Syncer, opts ...WatchOption) *Watcher {
	w := &Watcher{
		syncer:   s,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch runs an initial sync pass, then re-syncs on source changes until the
// context is canceled.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.runPass(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	for _, source := range w.syncer.ResolveSources(ctx) {
		if err := addTree(watcher, source.Path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", source.Path)
		}
	}

	logger.G(ctx).WithField("debounce", w.debounce).Info("watching skill sources")

	var timer *time.Timer
	var rescan <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if skipEvent(event) {
				continue
			}
			logger.G(ctx).WithFields(map[string]interface{}{
				"path":      event.Name,
				"operation": event.Op.String(),
			}).Debug("source change detected")

			// New directories need to be picked up by the watcher too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addTree(watcher, event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			rescan = timer.C

		case <-rescan:
			rescan = nil
			if err := w.runPass(ctx); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Error("file watcher error")

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		}
	}
}

func (w *Watcher) runPass(ctx context.Context) error {
	result, err := w.syncer.Run(ctx)
	if err != nil {
		return err
	}
	if w.onResult != nil {
		w.onResult(result)
	}
	return nil
}

func skipEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return true
	}
	// Chmod-only events carry no content changes worth a rescan.
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
