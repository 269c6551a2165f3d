// Package watcher ingests PDF files dropped into a watched directory.
// Copying a file into the drop folder is equivalent to running the
// ingest command on it.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before ingestion.
// Copies arrive as bursts of write events; ingesting on the first one
// would read a half-written file.
const DefaultDebounce = 2 * time.Second

// Watcher ingests PDFs dropped into a directory.
type Watcher struct {
	dir      string
	ingester driving.IngestService
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a dropped file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over dir.
func New(dir string, ingester driving.IngestService, opts ...Option) (*Watcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("watcher: directory is required")
	}
	if ingester == nil {
		return nil, fmt.Errorf("watcher: ingest service is required")
	}

	w := &Watcher{
		dir:      dir,
		ingester: ingester,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches the directory until the context is cancelled. Events for
// non-PDF files are ignored; each PDF is ingested once its writes have
// settled.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("watching %s for dropped PDFs", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !isPDF(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Reset the timer on every event so a slow copy only fires once
	if timer, ok := w.pending[event.Name]; ok {
		timer.Stop()
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	reports, err := w.ingester.IngestFiles(ctx, []string{path})
	if err != nil {
		logger.Error("ingesting %s: %v", path, err)
		return
	}
	for _, report := range reports {
		if report.Err != nil {
			logger.Warn("skipped %s: %v", report.Path, report.Err)
			continue
		}
		logger.Info("ingested %s (%d chunks)", report.Path, report.Chunks)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
