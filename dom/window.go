package dom

import "sync"

// HistoryFunc is the signature of the two URL-mutating history
// primitives. The state value is retained with the history entry but
// is otherwise opaque to this package.
type HistoryFunc func(state any, url string)

type historyEntry struct {
	state any
	url   string
}

// Window models the navigation state of the host environment: a
// current URL, a history stack, and subscription points for
// navigation and back/forward traversal. The PushState and
// ReplaceState primitives are replaceable function values so that a
// navigation detector can wrap them, observe programmatic URL
// changes, and restore the originals when it stops.
type Window struct {
	mu           sync.RWMutex
	entries      []historyEntry
	index        int
	pushState    HistoryFunc
	replaceState HistoryFunc
	popObservers map[uint64]func(url string)
	navObservers map[uint64]func(url string)
	nextID       uint64
}

// NewWindow creates a window whose history contains the single given
// URL.
func NewWindow(url string) *Window {
	w := &Window{
		entries:      []historyEntry{{url: url}},
		popObservers: make(map[uint64]func(string)),
		navObservers: make(map[uint64]func(string)),
	}
	w.pushState = w.defaultPushState
	w.replaceState = w.defaultReplaceState
	return w
}

// URL returns the current URL.
func (w *Window) URL() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entries[w.index].url
}

// Length returns the number of history entries.
func (w *Window) Length() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

// Navigate performs a full navigation to url: history entries after
// the current position are discarded, the new entry is appended, and
// navigation observers are notified.
func (w *Window) Navigate(url string) {
	w.mu.Lock()
	w.entries = append(w.entries[:w.index+1], historyEntry{url: url})
	w.index = len(w.entries) - 1
	fns := w.navObserverList()
	w.mu.Unlock()

	for _, fn := range fns {
		fn(url)
	}
}

// PushState invokes the current push-state primitive.
func (w *Window) PushState(state any, url string) {
	w.mu.RLock()
	fn := w.pushState
	w.mu.RUnlock()
	fn(state, url)
}

// ReplaceState invokes the current replace-state primitive.
func (w *Window) ReplaceState(state any, url string) {
	w.mu.RLock()
	fn := w.replaceState
	w.mu.RUnlock()
	fn(state, url)
}

// defaultPushState appends a history entry and moves to it. No
// observers fire; programmatic history mutation is silent unless the
// primitives have been wrapped.
func (w *Window) defaultPushState(state any, url string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries[:w.index+1], historyEntry{state: state, url: url})
	w.index = len(w.entries) - 1
}

// defaultReplaceState replaces the current history entry in place.
func (w *Window) defaultReplaceState(state any, url string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[w.index] = historyEntry{state: state, url: url}
}

// HistoryPrimitives returns the currently-installed push and replace
// primitives.
func (w *Window) HistoryPrimitives() (push, replace HistoryFunc) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pushState, w.replaceState
}

// SetHistoryPrimitives installs replacement push and replace
// primitives. Passing nil for either restores the window's default.
func (w *Window) SetHistoryPrimitives(push, replace HistoryFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if push == nil {
		push = w.defaultPushState
	}
	if replace == nil {
		replace = w.defaultReplaceState
	}
	w.pushState = push
	w.replaceState = replace
}

// Back moves one entry back in history, notifying pop-state
// observers. It reports whether a move happened.
func (w *Window) Back() bool {
	return w.traverse(-1)
}

// Forward moves one entry forward in history, notifying pop-state
// observers. It reports whether a move happened.
func (w *Window) Forward() bool {
	return w.traverse(1)
}

func (w *Window) traverse(delta int) bool {
	w.mu.Lock()
	next := w.index + delta
	if next < 0 || next >= len(w.entries) {
		w.mu.Unlock()
		return false
	}
	w.index = next
	url := w.entries[next].url
	fns := make([]func(string), 0, len(w.popObservers))
	for _, fn := range w.popObservers {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(url)
	}
	return true
}

// OnPopState subscribes fn to back/forward traversals.
func (w *Window) OnPopState(fn func(url string)) *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.popObservers[id] = fn
	return &Subscription{id: id, remove: w.removePopObserver}
}

// OnNavigate subscribes fn to full navigations.
func (w *Window) OnNavigate(fn func(url string)) *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.navObservers[id] = fn
	return &Subscription{id: id, remove: w.removeNavObserver}
}

func (w *Window) removePopObserver(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.popObservers, id)
}

func (w *Window) removeNavObserver(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.navObservers, id)
}

// navObserverList snapshots navigation observers. Callers must hold
// w.mu.
func (w *Window) navObserverList() []func(string) {
	fns := make([]func(string), 0, len(w.navObservers))
	for _, fn := range w.navObservers {
		fns = append(fns, fn)
	}
	return fns
}
