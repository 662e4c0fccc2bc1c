package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
	"github.com/verifact-labs/verifact-cli/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last event on a
// file before re-ingesting it. Editors often emit several writes per save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-ingests files in a directory as they change.
type Watcher struct {
	ingest   driving.IngestService
	debounce time.Duration
}

// NewWatcher creates a directory watcher on top of an ingest service.
func NewWatcher(ingest driving.IngestService) *Watcher {
	return &Watcher{
		ingest:   ingest,
		debounce: DefaultDebounce,
	}
}

// Watch ingests the directory once, then blocks processing filesystem
// events until the context is cancelled. Created and modified files are
// re-ingested; removed and renamed files are deleted from the store.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	if _, err := w.ingest.IngestDir(ctx, dir, false); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.Info("Watching %s", dir)

	// Per-path debounce timers; events reset the pending timer.
	pending := make(map[string]*time.Timer)
	ready := make(chan string)

	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-ready:
			delete(pending, path)
			w.reingest(ctx, path)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if skipPath(event.Name) {
				continue
			}

			switch {
			case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
				if timer, ok := pending[event.Name]; ok {
					timer.Reset(w.debounce)
					continue
				}
				path := event.Name
				pending[path] = time.AfterFunc(w.debounce, func() {
					select {
					case ready <- path:
					case <-ctx.Done():
					}
				})

			case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
				if timer, ok := pending[event.Name]; ok {
					timer.Stop()
					delete(pending, event.Name)
				}
				w.remove(ctx, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

func (w *Watcher) reingest(ctx context.Context, path string) {
	res, err := w.ingest.IngestFile(ctx, path, "")
	if err != nil {
		// Unsupported files land here on every save; stay quiet about them.
		if errors.Is(err, domain.ErrUnsupportedType) {
			return
		}
		logger.Warn("Re-ingest %s failed: %v", filepath.Base(path), err)
		return
	}
	if !res.Skipped {
		logger.Info("Re-ingested %s: %d chunks", res.FileName, res.ChunksCreated)
	}
}

func (w *Watcher) remove(ctx context.Context, path string) {
	name := filepath.Base(path)
	count, err := w.ingest.DeleteDocument(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return
		}
		logger.Warn("Delete %s failed: %v", name, err)
		return
	}
	logger.Info("Removed %s: %d chunks", name, count)
}

// skipPath filters hidden files and editor temp artefacts.
func skipPath(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}
