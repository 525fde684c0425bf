package textmark

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/dshills/textmark/anchor"
	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/highlighter"
	"github.com/dshills/textmark/logging"
	"github.com/dshills/textmark/observer"
	"github.com/dshills/textmark/selector"
)

// Manager owns the highlight lifecycle on one document: anchoring
// stored selectors, rendering markers, retrying orphans when content
// changes, and resetting on navigation.
//
// Each id is in one of three states: active (anchored and rendered),
// orphaned (selector retained, retried on every content change), or
// absent. An anchoring miss is not an error; a highlight whose text is
// gone simply waits as orphaned until the text comes back or the
// highlight is removed.
type Manager struct {
	mu           sync.RWMutex
	doc          *dom.Document
	win          *dom.Window
	root         *html.Node
	logger       *logging.Logger
	anchorOpts   anchor.Options
	debounce     time.Duration
	className    string
	defaultColor string

	hl     *highlighter.Highlighter
	mutObs *observer.MutationObserver
	navObs *observer.NavigationObserver

	active   map[string]*ActiveHighlight
	orphaned map[string]Highlight

	handlers      map[uint64]EventFunc
	nextHandlerID uint64

	observing bool
	destroyed bool
}

// New creates a manager for doc. Without options it uses the null
// logger, default anchoring tunables, and the default marker style.
func New(doc *dom.Document, opts ...Option) (*Manager, error) {
	if doc == nil {
		return nil, fmt.Errorf("new manager: %w", dom.ErrNilNode)
	}
	m := &Manager{
		doc:          doc,
		logger:       logging.NullLogger,
		anchorOpts:   anchor.DefaultOptions(),
		debounce:     observer.DefaultDebounce,
		className:    highlighter.DefaultClassName,
		defaultColor: highlighter.DefaultColor,
		active:       make(map[string]*ActiveHighlight),
		orphaned:     make(map[string]Highlight),
		handlers:     make(map[uint64]EventFunc),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.root = doc.Body()
	if m.root == nil {
		m.root = doc.Root()
	}
	m.hl = highlighter.New(doc,
		highlighter.WithClassName(m.className),
		highlighter.WithLogger(m.logger.WithComponent("highlighter")),
	)
	m.mutObs = observer.NewMutationObserver(doc, m.handleContentChanged,
		observer.WithDebounce(m.debounce),
		observer.WithFilter(observer.IgnoreMarked(highlighter.IsMarker)),
		observer.WithLogger(m.logger.WithComponent("observer")),
	)
	if m.win != nil {
		m.navObs = observer.NewNavigationObserver(m.win, m.handleNavigation)
	}
	return m, nil
}

// Add anchors and renders h, reporting whether it is now active. A
// miss is not an error: the highlight is retained as orphaned and
// retried whenever observed content changes. An id already tracked is
// left alone; Add then reports whether that id is currently active.
// An empty id is assigned a fresh UUID.
func (m *Manager) Add(h Highlight) bool {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return false
	}
	if _, ok := m.active[h.ID]; ok {
		m.mu.Unlock()
		return true
	}
	if _, ok := m.orphaned[h.ID]; ok {
		m.mu.Unlock()
		return false
	}
	anchored, evs := m.addLocked(h)
	m.mu.Unlock()
	m.emitAll(evs)
	return anchored
}

// Remove drops a highlight, cleaning up its markers when active. It
// reports whether the id was tracked.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return false
	}
	if a, ok := m.active[id]; ok {
		a.cleanup()
		delete(m.active, id)
		m.mu.Unlock()
		m.emitAll([]Event{{Type: EventRemoved, ID: id}})
		return true
	}
	if _, ok := m.orphaned[id]; ok {
		delete(m.orphaned, id)
		m.mu.Unlock()
		m.emitAll([]Event{{Type: EventRemoved, ID: id}})
		return true
	}
	m.mu.Unlock()
	return false
}

// Load adds every highlight and reports anchoring success per id.
// Highlights that miss stay tracked as orphaned.
func (m *Manager) Load(highlights []Highlight) map[string]bool {
	out := make(map[string]bool, len(highlights))
	for _, h := range highlights {
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		out[h.ID] = m.Add(h)
	}
	return out
}

// CreateFromRange describes rng, tracks it as a highlight under id,
// and returns the selector for the caller to persist. An empty id is
// assigned a fresh UUID; an id already tracked is ErrDuplicateID.
func (m *Manager) CreateFromRange(id string, rng *dom.Range, color string) (*selector.Selector, error) {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return nil, ErrManagerDestroyed
	}
	if _, ok := m.active[id]; ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("create highlight %s: %w", id, ErrDuplicateID)
	}
	if _, ok := m.orphaned[id]; ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("create highlight %s: %w", id, ErrDuplicateID)
	}
	sel, err := anchor.Describe(m.root, rng, m.anchorOpts)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	_, evs := m.addLocked(NewHighlight(id, sel, color))
	m.mu.Unlock()
	m.emitAll(evs)
	return &sel, nil
}

// CreateFromSelection creates a highlight from the document's current
// selection. With no selection set it returns (nil, nil): there is
// nothing to describe and nothing to persist.
func (m *Manager) CreateFromSelection(id, color string) (*selector.Selector, error) {
	rng := m.doc.Selection()
	if rng == nil {
		return nil, nil
	}
	return m.CreateFromRange(id, rng, color)
}

// Observe starts watching the document, and the window when one is
// attached, so orphaned highlights retry on content changes and
// navigation resets state. The marker stylesheet is injected once.
// Observe is idempotent.
func (m *Manager) Observe() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return ErrManagerDestroyed
	}
	if m.observing {
		return nil
	}
	if err := m.hl.InjectStyles(); err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	m.mutObs.Start()
	if m.navObs != nil {
		m.navObs.Start()
	}
	m.observing = true
	m.logger.Debug("observing document changes")
	return nil
}

// StopObserving halts both observers. Highlights stay as they are.
func (m *Manager) StopObserving() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopObservingLocked()
}

// IsObserving reports whether the observers are running.
func (m *Manager) IsObserving() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.observing
}

// Clear removes every highlight, running cleanup once per active one,
// and empties all collections.
func (m *Manager) Clear() {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	evs := m.clearLocked(m.urlLocked())
	m.mu.Unlock()
	m.emitAll(evs)
}

// Destroy stops observing, clears all highlights, and permanently
// retires the manager. Further calls on it are no-ops.
func (m *Manager) Destroy() {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.stopObservingLocked()
	evs := m.clearLocked(m.urlLocked())
	m.destroyed = true
	m.mu.Unlock()
	m.emitAll(evs)
}

// GetState snapshots the collections and the current URL. The maps
// are fresh copies with cloned records.
func (m *Manager) GetState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := State{
		Active:   make(map[string]ActiveState, len(m.active)),
		Orphaned: make(map[string]Highlight, len(m.orphaned)),
		URL:      m.urlLocked(),
	}
	for id, a := range m.active {
		st.Active[id] = ActiveState{
			Highlight:  a.Highlight.Clone(),
			Method:     a.Method,
			Confidence: a.Confidence,
		}
	}
	for id, h := range m.orphaned {
		st.Orphaned[id] = h.Clone()
	}
	return st
}

// DispatchClick routes a host click on n to the owning highlight's
// markers, emitting EventClick. It reports whether a marker owned n.
func (m *Manager) DispatchClick(n *html.Node) bool { return m.hl.DispatchClick(n) }

// DispatchMouseEnter routes pointer entry, emitting EventMouseEnter.
func (m *Manager) DispatchMouseEnter(n *html.Node) bool { return m.hl.DispatchMouseEnter(n) }

// DispatchMouseLeave routes pointer exit, emitting EventMouseLeave.
func (m *Manager) DispatchMouseLeave(n *html.Node) bool { return m.hl.DispatchMouseLeave(n) }

// addLocked anchors and renders h, storing it as orphaned on a miss.
// The orphaned record retains the full highlight so retries can
// render it unchanged. Callers hold m.mu.
func (m *Manager) addLocked(h Highlight) (bool, []Event) {
	anchored, evs := m.anchorLocked(h)
	if !anchored {
		m.orphaned[h.ID] = h
		evs = append(evs, Event{Type: EventOrphaned, ID: h.ID})
		m.logger.Debug("highlight %s orphaned", h.ID)
	}
	return anchored, evs
}

// anchorLocked runs the cascade and renders on success, dropping the
// id from the orphaned collection. Callers hold m.mu.
func (m *Manager) anchorLocked(h Highlight) (bool, []Event) {
	res := anchor.Anchor(m.root, h.Selector, m.anchorOpts)
	if res == nil {
		return false, nil
	}
	applied, err := m.hl.Wrap(res.Range, m.markerSpec(h))
	if err != nil {
		m.logger.Warn("highlight %s anchored but failed to render: %v", h.ID, err)
		return false, nil
	}
	m.active[h.ID] = &ActiveHighlight{
		Highlight:  h,
		Range:      res.Range,
		Markers:    applied.Markers,
		Method:     res.Method,
		Confidence: res.Confidence,
		cleanup:    applied.Cleanup,
	}
	delete(m.orphaned, h.ID)
	m.logger.Debug("highlight %s anchored via %s (confidence %.2f)", h.ID, res.Method, res.Confidence)
	return true, []Event{{Type: EventAnchored, ID: h.ID, Method: res.Method}}
}

// handleContentChanged is the mutation observer's settled-batch
// callback: every orphaned highlight gets another anchoring attempt.
// Failures stay orphaned silently; the retry repeats on the next
// signal until success or removal.
func (m *Manager) handleContentChanged(records []dom.MutationRecord) {
	m.mu.Lock()
	if m.destroyed || len(m.orphaned) == 0 {
		m.mu.Unlock()
		return
	}
	m.logger.Debug("content changed (%d records); retrying %d orphaned", len(records), len(m.orphaned))
	var evs []Event
	for _, h := range m.orphaned {
		if anchored, anchorEvs := m.anchorLocked(h); anchored {
			evs = append(evs, anchorEvs...)
		}
	}
	m.mu.Unlock()
	m.emitAll(evs)
}

// handleNavigation is the navigation observer's callback: the page
// identity changed, so every highlight is dropped. The caller is
// responsible for loading the set that belongs to the new URL.
func (m *Manager) handleNavigation(oldURL, newURL string) {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.logger.Info("navigation %s -> %s; clearing highlights", oldURL, newURL)
	evs := m.clearLocked(newURL)
	m.mu.Unlock()
	m.emitAll(evs)
}

// clearLocked runs cleanup for every active highlight and empties the
// collections. Callers hold m.mu.
func (m *Manager) clearLocked(url string) []Event {
	for _, a := range m.active {
		a.cleanup()
	}
	m.active = make(map[string]*ActiveHighlight)
	m.orphaned = make(map[string]Highlight)
	return []Event{{Type: EventCleared, URL: url}}
}

func (m *Manager) stopObservingLocked() {
	if !m.observing {
		return
	}
	m.mutObs.Stop()
	if m.navObs != nil {
		m.navObs.Stop()
	}
	m.observing = false
}

func (m *Manager) urlLocked() string {
	if m.win == nil {
		return ""
	}
	return m.win.URL()
}

func (m *Manager) markerSpec(h Highlight) highlighter.MarkerSpec {
	color := h.Color
	if color == "" {
		color = m.defaultColor
	}
	return highlighter.MarkerSpec{
		ID:           h.ID,
		Color:        color,
		ClassName:    m.className,
		OnClick:      m.pointerForward(EventClick),
		OnMouseEnter: m.pointerForward(EventMouseEnter),
		OnMouseLeave: m.pointerForward(EventMouseLeave),
	}
}

func (m *Manager) pointerForward(t EventType) func(string) {
	return func(id string) {
		m.emitAll([]Event{{Type: t, ID: id}})
	}
}
