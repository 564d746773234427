// Package watch reruns a callback when penance exports appear or change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNilHandler is returned when no callback is supplied.
var ErrNilHandler = errors.New("watch handler cannot be nil")

const (
	exportExt    = ".csv"
	maxTickEvery = 100 * time.Millisecond
)

// Handler is invoked with the path of an export once it has settled.
type Handler func(ctx context.Context, path string)

// Watcher debounces filesystem events for .csv exports.
type Watcher struct {
	watcher  *fsnotify.Watcher
	handler  Handler
	pending  map[string]time.Time
	log      *slog.Logger
	dir      string
	file     string
	debounce time.Duration
}

// New watches path, which may be a single export or a directory of exports.
// A single file is watched through its directory so editors that replace the
// file are still seen.
func New(path string, debounce time.Duration, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	dir, file := path, ""
	if !info.IsDir() {
		dir, file = filepath.Dir(path), filepath.Base(path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		watcher:  fw,
		handler:  handler,
		pending:  make(map[string]time.Time),
		log:      slog.Default().With("component", "watch"),
		dir:      dir,
		file:     file,
		debounce: debounce,
	}, nil
}

// Run processes events until ctx is canceled. The underlying watcher is
// closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.log.Warn("Failed to close watcher", "error", err)
		}
	}()

	tick := w.debounce / 2
	if tick <= 0 || tick > maxTickEvery {
		tick = maxTickEvery
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.log.Info("Watching for exports", "dir", w.dir, "file", w.file)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("Watcher error", "error", err)

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.relevant(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	w.log.Debug("Export changed", "path", event.Name, "op", event.Op.String())
	w.pending[event.Name] = time.Now()
}

func (w *Watcher) relevant(name string) bool {
	if w.file != "" {
		return filepath.Base(name) == w.file
	}
	return strings.EqualFold(filepath.Ext(name), exportExt)
}

// flush runs the handler for every path quiet for at least the debounce
// interval, in path order.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)

	for _, path := range ready {
		delete(w.pending, path)
		if ctx.Err() != nil {
			return
		}
		w.handler(ctx, path)
	}
}
