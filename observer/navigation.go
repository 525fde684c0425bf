package observer

import (
	"sync"

	"github.com/dshills/textmark/dom"
)

// NavigationFunc receives the previous and new URL after a detected
// page navigation.
type NavigationFunc func(oldURL, newURL string)

// NavigationObserver detects URL changes on a window, whichever way
// they happen: full navigation, programmatic history calls, or
// back/forward traversal. While running it owns the window's history
// primitives; Stop restores whatever was installed before Start.
type NavigationObserver struct {
	mu       sync.Mutex
	win      *dom.Window
	onChange NavigationFunc

	lastURL      string
	running      bool
	popSub       *dom.Subscription
	navSub       *dom.Subscription
	savedPush    dom.HistoryFunc
	savedReplace dom.HistoryFunc
}

// NewNavigationObserver creates an observer for win. Nothing happens
// until Start.
func NewNavigationObserver(win *dom.Window, onChange NavigationFunc) *NavigationObserver {
	return &NavigationObserver{win: win, onChange: onChange}
}

// Start wraps the window's history primitives and subscribes to its
// navigation signals. Calling Start on a running observer does
// nothing.
func (o *NavigationObserver) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return
	}
	o.running = true
	o.lastURL = o.win.URL()
	o.savedPush, o.savedReplace = o.win.HistoryPrimitives()

	push, replace := o.savedPush, o.savedReplace
	o.win.SetHistoryPrimitives(
		func(state any, url string) {
			push(state, url)
			o.check()
		},
		func(state any, url string) {
			replace(state, url)
			o.check()
		},
	)
	o.popSub = o.win.OnPopState(func(string) { o.check() })
	o.navSub = o.win.OnNavigate(func(string) { o.check() })
}

// Stop restores the saved history primitives and unsubscribes.
// Calling Stop on a stopped observer does nothing.
func (o *NavigationObserver) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running {
		return
	}
	o.running = false
	o.win.SetHistoryPrimitives(o.savedPush, o.savedReplace)
	o.savedPush, o.savedReplace = nil, nil
	if o.popSub != nil {
		o.popSub.Unsubscribe()
		o.popSub = nil
	}
	if o.navSub != nil {
		o.navSub.Unsubscribe()
		o.navSub = nil
	}
}

// IsRunning reports whether the observer is active.
func (o *NavigationObserver) IsRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// check compares the window's URL against the last one seen and
// fires the callback on an actual change. All three detection paths
// converge here, so a signal that did not move the URL is free.
func (o *NavigationObserver) check() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	current := o.win.URL()
	if current == o.lastURL {
		o.mu.Unlock()
		return
	}
	old := o.lastURL
	o.lastURL = current
	fn := o.onChange
	o.mu.Unlock()

	if fn != nil {
		fn(old, current)
	}
}
