package pageio

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/logging"
)

// DefaultDebounce is how long a file must stay quiet after an edit
// before it is re-parsed. Editors often emit several events per save.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the re-parsed document after the watched file
// settles, or the error that prevented the reload.
type ReloadFunc func(doc *dom.Document, err error)

// Watcher re-parses one HTML file whenever it changes on disk. It
// watches the file's directory rather than the file itself: editors
// that save by rename replace the inode, and a watch on the old one
// would go quiet.
type Watcher struct {
	path     string
	onReload ReloadFunc

	mu       sync.Mutex
	debounce time.Duration
	logger   *logging.Logger
	fsw      *fsnotify.Watcher
	timer    *time.Timer
	gen      uint64
	closeCh  chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet interval before the file is re-parsed.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher for the file at path. Nothing happens
// until Start.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving watch path %s: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		onReload: onReload,
		debounce: DefaultDebounce,
		logger:   logging.NullLogger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching. Calling Start on a running watcher does
// nothing.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw
	w.closeCh = make(chan struct{})
	w.running = true
	w.wg.Add(1)
	go w.processLoop(fsw, w.closeCh)
	w.logger.Debug("watching %s (debounce %v)", w.path, w.debounce)
	return nil
}

// Stop ends watching, cancels any pending reload, and releases the
// file watcher. Calling Stop on a stopped watcher does nothing.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.gen++
	close(w.closeCh)
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	w.wg.Wait()
	err := fsw.Close()
	w.logger.Debug("stopped watching %s", w.path)
	return err
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processLoop(fsw *fsnotify.Watcher, closeCh <-chan struct{}) {
	defer w.wg.Done()
	for {
		select {
		case <-closeCh:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	// The generation guards against a timer that already fired but
	// has not yet taken the lock; it must not reload for an event
	// the reschedule superseded.
	w.gen++
	gen := w.gen
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(gen) })
}

func (w *Watcher) reload(gen uint64) {
	w.mu.Lock()
	if !w.running || gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	fn := w.onReload
	w.mu.Unlock()

	doc, err := Open(w.path)
	if err != nil {
		w.logger.Warn("reload failed: %v", err)
	} else {
		w.logger.Debug("reloaded %s", w.path)
	}
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("reload callback panicked: %v", r)
		}
	}()
	fn(doc, err)
}
