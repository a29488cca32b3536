package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pinelint/internal/logging"
)

// Watcher watches a directory tree for .pine file changes, debouncing
// rapid saves before notifying. Adapted from the teacher's
// MangleWatcher: a single fsnotify.Watcher plus a timestamp map drained
// on a ticker, rather than reacting to every raw event.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	root        string
	extensions  []string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewWatcher builds a Watcher rooted at root, filtering to the given
// extensions (e.g. [".pine"]).
func NewWatcher(root string, extensions []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		root:        root,
		extensions:  extensions,
		debounceMap: make(map[string]time.Time),
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start walks root adding every directory to the watcher and begins the
// event loop in a goroutine. Changed file paths are sent on the returned
// channel once they settle past the debounce window.
func (w *Watcher) Start(ctx context.Context) (<-chan string, error) {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if addErr := w.watcher.Add(path); addErr != nil {
				logging.ScanDebug("watch: failed to add %s: %v", path, addErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(chan string, 16)
	go w.run(ctx, out)
	return out, nil
}

// Stop terminates the watcher's event loop.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context, out chan<- string) {
	defer close(w.doneCh)
	defer close(out)

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
			logging.Scan("watch error: %v", err)
		case <-ticker.C:
			w.flushSettled(out)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.matchesExtension(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flushSettled(out chan<- string) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, t := range w.debounceMap {
		if now.Sub(t) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()
	for _, path := range settled {
		out <- path
	}
}

func (w *Watcher) matchesExtension(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
