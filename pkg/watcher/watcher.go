// Package watcher reports edits to the record file kv is showing, so the
// view can reload it. Edits are seen through fsnotify on the file's
// directory; when that is unavailable, or KV_FORCE_POLL is set, the file is
// stat'ed on an interval instead.
package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/kinview/pkg/debug"
)

// DefaultPollInterval is used when Options.PollInterval is unset.
const DefaultPollInterval = 2 * time.Second

// ErrFileRemoved is reported once when the record file disappears.
var ErrFileRemoved = errors.New("record file was removed")

// Options tunes a Watcher. Zero values pick the defaults.
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
	ForcePoll    bool
}

// Event is one debounced notification. Err is nil for an edit.
type Event struct {
	Err error
}

// stamp is what polling compares between ticks.
type stamp struct {
	exists bool
	mod    time.Time
	size   int64
}

func (s stamp) differs(o stamp) bool {
	return s.exists != o.exists || s.size != o.size || !s.mod.Equal(o.mod)
}

func statFile(path string) (stamp, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return stamp{exists: true, mod: info.ModTime(), size: info.Size()}, nil
	case errors.Is(err, fs.ErrNotExist):
		return stamp{}, nil
	default:
		return stamp{}, fmt.Errorf("checking record file: %w", err)
	}
}

// Watcher follows one record file until Close.
type Watcher struct {
	path      string
	interval  time.Duration
	polling   bool
	events    chan Event
	debouncer *Debouncer
	fsw       *fsnotify.Watcher
	done      chan struct{}

	mu     sync.Mutex
	last   stamp
	closed bool
}

// Watch starts following path.
func Watch(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	first, err := statFile(abs)
	if err != nil {
		return nil, err
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	w := &Watcher{
		path:      abs,
		interval:  opts.PollInterval,
		polling:   opts.ForcePoll || envBool("KV_FORCE_POLL"),
		events:    make(chan Event, 1),
		debouncer: NewDebouncer(opts.Debounce),
		done:      make(chan struct{}),
		last:      first,
	}

	if !w.polling {
		if w.fsw, err = dirWatcher(abs); err != nil {
			debug.Log("watcher: fsnotify unavailable for %s, polling every %v: %v", abs, w.interval, err)
			w.polling = true
		}
	}
	debug.Log("watcher: following %s (debounce %v, polling %v)", abs, w.debouncer.Duration(), w.polling)
	if w.polling {
		go w.poll()
	} else {
		go w.listen()
	}
	return w, nil
}

// dirWatcher watches the parent directory, which also catches editors that
// save by renaming a temp file over the record.
func dirWatcher(path string) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	return fsw, nil
}

// Events delivers edits and errors. Notifications that arrive while one is
// still pending are merged into it.
func (w *Watcher) Events() <-chan Event { return w.events }

// Polling reports whether the watcher fell back to stat polling.
func (w *Watcher) Polling() bool { return w.polling }

// Path is the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Close stops watching. Events is left open so a reader blocked on it
// never sees a spurious event.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.done)
	w.debouncer.Cancel()
	if w.fsw != nil {
		w.fsw.Close()
	}
}

func (w *Watcher) listen() {
	name := filepath.Base(w.path)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) == name && ev.Op != fsnotify.Chmod {
				w.debouncer.Trigger(func() { w.check(true) })
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(Event{Err: err})
		}
	}
}

func (w *Watcher) poll() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.check(false)
		}
	}
}

// check compares the file with the last look at it. An fsnotify event
// counts as an edit even when size and mtime did not move.
func (w *Watcher) check(fromEvent bool) {
	cur, err := statFile(w.path)

	w.mu.Lock()
	prev := w.last
	if err == nil {
		w.last = cur
	}
	w.mu.Unlock()

	switch {
	case err != nil:
		w.send(Event{Err: err})
	case !cur.exists:
		if prev.exists {
			w.send(Event{Err: ErrFileRemoved})
		}
	case fromEvent || cur.differs(prev):
		w.send(Event{})
	}
}

func (w *Watcher) send(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- ev:
	default:
	}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
