package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driving"
	"github.com/paperchat-io/paperchat/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last write
// to a file before ingesting it. Editors and downloads produce bursts
// of write events for one file.
const DefaultDebounce = 500 * time.Millisecond

// mimeByExtension maps spool file extensions to the declared MIME
// types the normaliser registry dispatches on.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// SpoolWatcher ingests files dropped into a spool directory. Each
// stable file is ingested once for the configured user and then left
// in place.
type SpoolWatcher struct {
	retrieval driving.RetrievalService
	userID    string
	dir       string
	debounce  time.Duration

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewSpoolWatcher creates a watcher over dir for the given user.
func NewSpoolWatcher(retrieval driving.RetrievalService, userID, dir string, debounce time.Duration) (*SpoolWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating spool directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &SpoolWatcher{
		retrieval: retrieval,
		userID:    userID,
		dir:       dir,
		debounce:  debounce,
		watcher:   fw,
		pending:   make(map[string]*time.Timer),
	}, nil
}

// Run processes events until the context is cancelled or the watcher
// is closed.
func (w *SpoolWatcher) Run(ctx context.Context) error {
	logger.Info("Watching %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// Close stops the watcher and cancels pending ingestions.
func (w *SpoolWatcher) Close() error {
	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	return w.watcher.Close()
}

// handleEvent schedules ingestion for create and write events on
// eligible files. The timer resets on every new event for the same
// path, so a file is only ingested once writes settle.
func (w *SpoolWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !eligible(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[event.Name]; ok {
		timer.Reset(w.debounce)
		return
	}

	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

// ingest runs one file through the retrieval pipeline.
func (w *SpoolWatcher) ingest(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	raw := domain.RawDocument{
		UserID:   w.userID,
		Path:     path,
		Name:     filepath.Base(path),
		MIMEType: mimeByExtension[strings.ToLower(filepath.Ext(path))],
	}

	result, err := w.retrieval.Ingest(ctx, w.userID, raw)
	if err != nil {
		logger.Warn("Spool ingestion of %s failed: %v", path, err)
		return
	}
	logger.Info("Ingested %s (%d chunks)", raw.Name, result.ChunkCount)
}

// eligible reports whether a spool path should be ingested: regular
// visible files with a recognised extension.
func eligible(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := MIMETypeForPath(path)
	return ok
}

// MIMETypeForPath infers the declared MIME type from a file
// extension. The second return is false for unrecognised extensions.
func MIMETypeForPath(path string) (string, bool) {
	mimeType, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]
	return mimeType, ok
}
