package observer

import (
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/logging"
)

// DefaultDebounce is how long the document must stay quiet before a
// mutation batch is delivered.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc receives one settled batch of mutation records.
type ChangeFunc func(records []dom.MutationRecord)

// Filter decides whether a mutation record counts toward a batch.
type Filter func(dom.MutationRecord) bool

// MutationObserver subscribes to a document's mutation stream and
// delivers debounced batches. Each qualifying record cancels and
// reschedules the single pending timer, so the callback fires only
// after the tree has been stable for the debounce interval.
type MutationObserver struct {
	mu       sync.Mutex
	doc      *dom.Document
	onChange ChangeFunc
	debounce time.Duration
	filter   Filter
	logger   *logging.Logger

	sub     *dom.Subscription
	timer   *time.Timer
	gen     uint64
	pending []dom.MutationRecord
	running bool
}

// MutationOption configures a MutationObserver.
type MutationOption func(*MutationObserver)

// WithDebounce sets the quiet interval before a batch is delivered.
func WithDebounce(d time.Duration) MutationOption {
	return func(o *MutationObserver) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithFilter installs a record filter. Records the filter rejects
// neither join the batch nor reset the timer.
func WithFilter(f Filter) MutationOption {
	return func(o *MutationObserver) {
		o.filter = f
	}
}

// WithLogger sets the observer's logger.
func WithLogger(l *logging.Logger) MutationOption {
	return func(o *MutationObserver) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewMutationObserver creates an observer for doc. Nothing happens
// until Start.
func NewMutationObserver(doc *dom.Document, onChange ChangeFunc, opts ...MutationOption) *MutationObserver {
	o := &MutationObserver{
		doc:      doc,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logging.NullLogger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start subscribes to the document. Calling Start on a running
// observer does nothing.
func (o *MutationObserver) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return
	}
	o.running = true
	o.sub = o.doc.OnMutation(o.collect)
	o.logger.Debug("mutation observer started (debounce %v)", o.debounce)
}

// Stop unsubscribes, cancels any pending timer, and discards the
// unsent batch. Calling Stop on a stopped observer does nothing.
func (o *MutationObserver) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running {
		return
	}
	o.running = false
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.gen++
	o.pending = nil
	if o.sub != nil {
		o.sub.Unsubscribe()
		o.sub = nil
	}
	o.logger.Debug("mutation observer stopped")
}

// IsRunning reports whether the observer is subscribed.
func (o *MutationObserver) IsRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

func (o *MutationObserver) collect(rec dom.MutationRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running {
		return
	}
	if o.filter != nil && !o.filter(rec) {
		return
	}
	o.pending = append(o.pending, rec)
	if o.timer != nil {
		o.timer.Stop()
	}
	// The generation guards against a timer that already fired but
	// has not yet taken the lock; it must not deliver a batch the
	// reschedule superseded.
	o.gen++
	gen := o.gen
	o.timer = time.AfterFunc(o.debounce, func() { o.fire(gen) })
}

func (o *MutationObserver) fire(gen uint64) {
	o.mu.Lock()
	if !o.running || gen != o.gen {
		o.mu.Unlock()
		return
	}
	batch := o.pending
	o.pending = nil
	o.timer = nil
	fn := o.onChange
	o.mu.Unlock()

	if fn == nil || len(batch) == 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("content-changed callback panicked: %v", r)
		}
	}()
	fn(batch)
}

// IgnoreMarked returns a filter that drops records whose target,
// added, or removed nodes satisfy isMarked. Used to keep a
// highlighter's own tree surgery from triggering re-anchoring.
func IgnoreMarked(isMarked func(*html.Node) bool) Filter {
	return func(rec dom.MutationRecord) bool {
		if isMarked(rec.Target) {
			return false
		}
		for _, n := range rec.Added {
			if isMarked(n) {
				return false
			}
		}
		for _, n := range rec.Removed {
			if isMarked(n) {
				return false
			}
		}
		return true
	}
}
