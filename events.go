package textmark

import (
	"github.com/dshills/textmark/anchor"
	"github.com/dshills/textmark/dom"
)

// EventType classifies manager notifications.
type EventType string

const (
	// EventAnchored fires when a highlight is rendered on the page,
	// on add or on a successful orphan retry.
	EventAnchored EventType = "anchored"

	// EventOrphaned fires once when a highlight cannot be anchored.
	// Retries are silent until one succeeds.
	EventOrphaned EventType = "orphaned"

	// EventRemoved fires when a tracked highlight is removed.
	EventRemoved EventType = "removed"

	// EventCleared fires after every highlight is dropped, on Clear,
	// Destroy, or navigation.
	EventCleared EventType = "cleared"

	// EventClick, EventMouseEnter, and EventMouseLeave forward
	// pointer interaction with a highlight's markers.
	EventClick      EventType = "click"
	EventMouseEnter EventType = "mouseenter"
	EventMouseLeave EventType = "mouseleave"
)

// Event is one manager notification.
type Event struct {
	// Type is the kind of event.
	Type EventType

	// ID is the highlight concerned; empty for EventCleared.
	ID string

	// Method is the strategy that anchored the highlight; set on
	// EventAnchored.
	Method anchor.Method

	// URL is the page URL after the reset; set on EventCleared.
	URL string
}

// EventFunc receives manager events.
type EventFunc func(Event)

// OnEvent subscribes fn to manager events.
func (m *Manager) OnEvent(fn EventFunc) *dom.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextHandlerID
	m.nextHandlerID++
	m.handlers[id] = fn
	return dom.NewSubscription(id, m.removeHandler)
}

func (m *Manager) removeHandler(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, id)
}

// emitAll delivers events to every subscriber. Handlers are copied
// under the lock and invoked outside it, each guarded against panics,
// so a handler may call back into the manager.
func (m *Manager) emitAll(events []Event) {
	if len(events) == 0 {
		return
	}
	m.mu.RLock()
	fns := make([]EventFunc, 0, len(m.handlers))
	for _, fn := range m.handlers {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, ev := range events {
		for _, fn := range fns {
			m.safeEmit(fn, ev)
		}
	}
}

func (m *Manager) safeEmit(fn EventFunc, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("event handler panicked on %s: %v", ev.Type, r)
		}
	}()
	fn(ev)
}
