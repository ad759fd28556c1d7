// Package watcher regenerates listing caches when content files change on
// disk. Filesystem events are debounced per collection so a burst of writes
// (an editor save, a git checkout) triggers one rescan.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/content"
)

// defaultDebounce is how long a collection stays quiet before its rescan runs.
const defaultDebounce = 500 * time.Millisecond

// Regenerator rebuilds one collection's listing cache.
type Regenerator interface {
	Regenerate(ctx context.Context, collection string) error
}

// Watcher follows a content root and schedules rescans.
type Watcher struct {
	root     string
	listing  Regenerator
	logger   *slog.Logger
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over the content root. Call Run to start it.
func New(root string, listing Regenerator, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		listing:  listing,
		logger:   logger,
		debounce: defaultDebounce,
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
	}

	err = w.addTree(root)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("content watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	collection, ok := w.collectionFromPath(event.Name)
	if !ok {
		return
	}

	// Newly created directories must be watched before files land in them.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.fsw.Add(event.Name)
		}
	}

	w.schedule(ctx, collection)
}

// schedule arms (or re-arms) the debounce timer for a collection.
func (w *Watcher) schedule(ctx context.Context, collection string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[collection]; ok {
		timer.Reset(w.debounce)
		return
	}

	w.pending[collection] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, collection)
		w.mu.Unlock()

		err := w.listing.Regenerate(ctx, collection)
		if err != nil {
			w.logger.Warn("watcher-triggered regenerate failed",
				"collection", collection, "error", err)
			return
		}

		w.logger.Info("listing regenerated after content change", "collection", collection)
	})
}

// collectionFromPath maps an absolute event path to its collection. Paths
// outside the root, at the root itself, in the cache directory, or under
// hidden directories are ignored.
func (w *Watcher) collectionFromPath(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}

	collection := strings.Split(filepath.ToSlash(rel), "/")[0]
	if collection == content.CacheDirName || strings.HasPrefix(collection, ".") {
		return "", false
	}

	return collection, true
}

// addTree watches the root and every directory beneath it, skipping the
// cache directory and hidden entries.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		name := d.Name()
		if path != root && (name == content.CacheDirName || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}

		err = w.fsw.Add(path)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}

		return nil
	})
}

func (w *Watcher) close() {
	w.mu.Lock()
	for collection, timer := range w.pending {
		timer.Stop()
		delete(w.pending, collection)
	}
	w.mu.Unlock()

	_ = w.fsw.Close()
}
