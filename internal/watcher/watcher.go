// Package watcher monitors inbox directories for newly scanned documents and
// hands settled files to a processing callback.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler processes one settled inbox file. Returning an error leaves the
// file in place for the next run.
type Handler func(ctx context.Context, path string) error

// InboxWatcher watches a directory for new extraction files. Scanner software
// writes temp files and renames them into place, so events are debounced and
// temp names are filtered out.
type InboxWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dir         string
	handler     Handler
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewInboxWatcher creates a watcher for the given inbox directory.
func NewInboxWatcher(dir string, handler Handler) (*InboxWatcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watcher requires a handler")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &InboxWatcher{
		watcher:     fsw,
		dir:         dir,
		handler:     handler,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetDebounce overrides the settle window. Only valid before Start.
func (w *InboxWatcher) SetDebounce(d time.Duration) {
	w.debounceDur = d
}

// Start begins watching the inbox. Non-blocking; the event loop runs in a
// goroutine until Stop or context cancellation.
func (w *InboxWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	slog.Info("Watching inbox", "dir", w.dir)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *InboxWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		slog.Error("Failed to close fsnotify watcher", "error", err)
	}
}

func (w *InboxWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Inbox watcher error", "error", err)
		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

func (w *InboxWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	if IsTempFile(filepath.Base(event.Name)) {
		slog.Debug("Ignoring temp file", "file", event.Name)
		return
	}

	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *InboxWatcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		if _, err := os.Stat(path); err != nil {
			// File was renamed or removed before it settled.
			continue
		}
		slog.Info("Processing inbox file", "path", path)
		if err := w.handler(ctx, path); err != nil {
			slog.Error("Failed to process inbox file", "path", path, "error", err)
		}
	}
}

// IsTempFile reports whether a file name looks like an in-progress write from
// scanner or office software, or an already-processed artifact.
func IsTempFile(name string) bool {
	return strings.HasSuffix(strings.ToUpper(name), ".TMP") ||
		strings.Contains(name, "~RF") ||
		strings.HasPrefix(name, "~$") ||
		strings.HasPrefix(name, "processed_")
}

// MoveToProcessed moves a handled file into the processed directory, prefixing
// the name so a re-scan of the inbox skips it.
func MoveToProcessed(path, processedDir string) (string, error) {
	if err := os.MkdirAll(processedDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create processed directory: %w", err)
	}

	dest := filepath.Join(processedDir, "processed_"+filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("failed to move %s to processed: %w", path, err)
	}
	return dest, nil
}
