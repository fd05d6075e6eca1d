// Package watcher reports changes to files, debounced so an editor's
// save sequence (truncate, write, rename) triggers one callback.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type Watcher interface {
	Watch(ctx context.Context, path string) error
	Stop() error
	OnChange(callback func(path string, event EventType))
}

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

const DefaultDebounce = 200 * time.Millisecond

// FSWatcher watches single files. It watches the parent directory so files
// replaced by rename keep being tracked.
type FSWatcher struct {
	logger   *slog.Logger
	debounce time.Duration

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	files    map[string]bool
	callback func(path string, event EventType)
	timers   map[string]*time.Timer
}

func NewFSWatcher(logger *slog.Logger, debounce time.Duration) (*FSWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FSWatcher{
		logger:   logger,
		debounce: debounce,
		fsw:      fsw,
		files:    map[string]bool{},
		timers:   map[string]*time.Timer{},
	}, nil
}

func (w *FSWatcher) OnChange(callback func(path string, event EventType)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callback = callback
}

// Watch starts reporting changes to path and blocks until ctx is done or the
// watcher is stopped.
func (w *FSWatcher) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w.mu.Lock()
	w.files[abs] = true
	w.mu.Unlock()

	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Info("watching file", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *FSWatcher) handle(ev fsnotify.Event) {
	name := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[name] {
		return
	}

	var kind EventType
	switch {
	case ev.Has(fsnotify.Create):
		kind = EventCreate
	case ev.Has(fsnotify.Write):
		kind = EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		kind = EventDelete
	default:
		return
	}

	if t, ok := w.timers[name]; ok {
		t.Stop()
	}
	w.timers[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		cb := w.callback
		delete(w.timers, name)
		w.mu.Unlock()
		if cb != nil {
			cb(name, kind)
		}
	})
}

func (w *FSWatcher) Stop() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = map[string]*time.Timer{}
	w.mu.Unlock()
	return w.fsw.Close()
}
