// Package watcher picks up new paper files appearing in a directory.
//
// Files are handed to the handler only after they have been quiet for a
// settle delay, so papers still being written or downloaded are not
// ingested half-finished.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/taxa-cli/internal/logger"
)

// Defaults applied when no options are given.
const (
	// DefaultSettleDelay is how long a file must be quiet before pickup.
	DefaultSettleDelay = 2 * time.Second
)

// DefaultExtensions are the file extensions treated as papers.
func DefaultExtensions() []string {
	return []string{".pdf", ".html", ".txt"}
}

// Handler processes one settled file.
type Handler func(ctx context.Context, path string)

// Watcher observes a directory and invokes a handler for new papers.
type Watcher struct {
	dir        string
	extensions map[string]struct{}
	settle     time.Duration
	handler    Handler

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithExtensions sets the file extensions picked up by the watcher.
func WithExtensions(exts []string) Option {
	return func(w *Watcher) {
		if len(exts) == 0 {
			return
		}
		w.extensions = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			w.extensions[strings.ToLower(e)] = struct{}{}
		}
	}
}

// WithSettleDelay sets how long a file must be quiet before pickup.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New creates a watcher over dir. The handler is called once per
// settled file, from a timer goroutine.
func New(dir string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:     dir,
		settle:  DefaultSettleDelay,
		handler: handler,
		timers:  make(map[string]*time.Timer),
	}
	WithExtensions(DefaultExtensions())(w)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the directory until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("watching %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case watchErr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", watchErr)
		}
	}
}

// handleEvent filters raw filesystem events down to paper candidates
// and schedules them for pickup.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !w.eligible(event.Name) {
		return
	}
	w.schedule(ctx, event.Name)
}

// eligible reports whether a path looks like a paper worth ingesting.
// Hidden files, directories and unknown extensions are skipped.
func (w *Watcher) eligible(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if _, ok := w.extensions[strings.ToLower(filepath.Ext(base))]; !ok {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}

// schedule arms the settle timer for a path. Another event on the same
// path before the delay elapses restarts the clock.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.handler(ctx, path)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}
