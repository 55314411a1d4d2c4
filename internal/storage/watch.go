package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay is how long the watcher waits for writes to settle.
const DebounceDelay = 100 * time.Millisecond

// Change reports that the data file was rewritten.
type Change struct {
	Path string
	Op   fsnotify.Op
}

// Watcher reports changes to one data file.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	changes   chan Change

	mu    sync.Mutex
	timer *time.Timer
	seq   int
	last  fsnotify.Op
}

// NewWatcher watches the directory holding path. Atomic saves replace the
// file, so the file itself cannot be watched.
func NewWatcher(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		path:      abs,
		changes:   make(chan Change, 1),
	}, nil
}

// Watch starts a watcher on path that runs until ctx is done.
func Watch(ctx context.Context, path string) (<-chan Change, error) {
	w, err := NewWatcher(path)
	if err != nil {
		return nil, err
	}
	go w.Run(ctx)
	return w.Changes(), nil
}

// Changes returns the channel of debounced changes. It is closed when Run returns.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Run processes file system events until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timer = nil
		w.mu.Unlock()
		_ = w.fsWatcher.Close()
		close(w.changes)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "err", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// Atomic writes land as a create or rename of the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if filepath.Clean(event.Name) != w.path {
		return
	}
	slog.Debug("fsnotify", "op", event.Op.String(), "path", event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = event.Op
	if w.timer != nil {
		w.timer.Stop()
	}
	w.seq++
	seq := w.seq
	w.timer = time.AfterFunc(DebounceDelay, func() { w.fire(seq) })
}

func (w *Watcher) fire(seq int) {
	w.mu.Lock()
	if w.timer == nil || seq != w.seq {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	c := Change{Path: w.path, Op: w.last}
	// Holding the lock keeps Run from closing the channel under us.
	defer w.mu.Unlock()
	select {
	case w.changes <- c:
	default:
		// a reload is already pending
	}
}
