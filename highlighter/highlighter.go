package highlighter

import (
	"fmt"
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/logging"
)

// IDAttribute is the data attribute carrying the highlight id on
// marker elements.
const IDAttribute = "data-textmark-id"

// DefaultClassName is the class applied to marker elements.
const DefaultClassName = "textmark-highlight"

// styleElementID identifies the injected stylesheet element.
const styleElementID = "textmark-styles"

// markerTag is the element name wrapped around highlighted text.
const markerTag = "mark"

// MarkerSpec describes one highlight's markers and interaction
// handlers. Handlers receive the highlight id.
type MarkerSpec struct {
	ID           string
	Color        string
	ClassName    string
	OnClick      func(id string)
	OnMouseEnter func(id string)
	OnMouseLeave func(id string)
}

// Applied is the result of wrapping a range: the marker elements in
// document order and a Cleanup that undoes the wrap.
type Applied struct {
	ID      string
	Markers []*html.Node
	Cleanup func()
}

type handlerSet struct {
	id    string
	click func(string)
	enter func(string)
	leave func(string)
}

// Highlighter wraps and unwraps markers on a single document.
type Highlighter struct {
	mu        sync.RWMutex
	doc       *dom.Document
	className string
	logger    *logging.Logger
	handlers  map[*html.Node]handlerSet
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithClassName overrides the class applied to marker elements.
func WithClassName(name string) Option {
	return func(h *Highlighter) {
		if name != "" {
			h.className = name
		}
	}
}

// WithLogger sets the highlighter's logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Highlighter) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a highlighter bound to doc.
func New(doc *dom.Document, opts ...Option) *Highlighter {
	h := &Highlighter{
		doc:       doc,
		className: DefaultClassName,
		logger:    logging.NullLogger,
		handlers:  make(map[*html.Node]handlerSet),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// segment is the part of one text leaf a range covers.
type segment struct {
	node       *html.Node
	start, end int
}

// Wrap paints rng with marker elements, one per touched text leaf.
// The text content of the document is unchanged; only its node
// structure grows. Partial failures are rolled back.
func (h *Highlighter) Wrap(rng *dom.Range, spec MarkerSpec) (*Applied, error) {
	if rng == nil {
		return nil, fmt.Errorf("wrap: %w", dom.ErrNilNode)
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("wrap: %w", ErrNoID)
	}
	if rng.Collapsed() {
		return nil, fmt.Errorf("wrap %q: %w", spec.ID, ErrCollapsedRange)
	}
	if !rng.AttachedTo(h.doc) {
		return nil, fmt.Errorf("wrap %q: %w", spec.ID, ErrDetachedNode)
	}

	segs := segments(rng)
	if len(segs) == 0 {
		return nil, fmt.Errorf("wrap %q: %w", spec.ID, ErrCollapsedRange)
	}

	color := ValidColor(spec.Color)
	class := spec.ClassName
	if class == "" {
		class = h.className
	}

	markers := make([]*html.Node, 0, len(segs))
	for _, seg := range segs {
		m, err := h.wrapSegment(seg, spec.ID, class, color)
		if err != nil {
			h.unwrap(markers)
			return nil, err
		}
		markers = append(markers, m)
	}

	h.mu.Lock()
	for _, m := range markers {
		h.handlers[m] = handlerSet{
			id:    spec.ID,
			click: spec.OnClick,
			enter: spec.OnMouseEnter,
			leave: spec.OnMouseLeave,
		}
	}
	h.mu.Unlock()

	h.logger.Debug("wrapped %q in %d marker(s)", spec.ID, len(markers))
	applied := &Applied{ID: spec.ID, Markers: append([]*html.Node(nil), markers...)}
	applied.Cleanup = func() { h.unwrap(markers) }
	return applied, nil
}

// segments lists the leaf spans rng covers, in document order.
// Zero-width touches (a range boundary sitting at the very start or
// end of a leaf) produce no segment.
func segments(rng *dom.Range) []segment {
	if rng.StartContainer == rng.EndContainer {
		n := rng.StartContainer
		s := clampOffset(rng.StartOffset, len(n.Data))
		e := clampOffset(rng.EndOffset, len(n.Data))
		if s >= e {
			return nil
		}
		return []segment{{n, s, e}}
	}

	root := rng.CommonAncestor()
	if root == nil {
		return nil
	}
	var out []segment
	sawStart, sawEnd := false, false
	dom.WalkText(root, func(n *html.Node) bool {
		switch n {
		case rng.StartContainer:
			sawStart = true
			if s := clampOffset(rng.StartOffset, len(n.Data)); s < len(n.Data) {
				out = append(out, segment{n, s, len(n.Data)})
			}
		case rng.EndContainer:
			sawEnd = true
			if e := clampOffset(rng.EndOffset, len(n.Data)); e > 0 {
				out = append(out, segment{n, 0, e})
			}
			return false
		default:
			if sawStart && len(n.Data) > 0 {
				out = append(out, segment{n, 0, len(n.Data)})
			}
		}
		return true
	})
	if !sawStart || !sawEnd {
		return nil
	}
	return out
}

func clampOffset(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapSegment splits one leaf around the covered span and inserts a
// marker element holding the covered text.
func (h *Highlighter) wrapSegment(seg segment, id, class, color string) (*html.Node, error) {
	parent := seg.node.Parent
	if parent == nil {
		return nil, fmt.Errorf("wrap %q: %w", id, ErrDetachedNode)
	}
	data := seg.node.Data

	marker := dom.NewElement(markerTag)
	dom.SetAttr(marker, IDAttribute, id)
	dom.SetAttr(marker, "class", class)
	dom.SetAttr(marker, "style", "background-color: "+color+";")
	marker.AppendChild(dom.NewTextNode(data[seg.start:seg.end]))

	if seg.start > 0 {
		if err := h.doc.InsertBefore(parent, dom.NewTextNode(data[:seg.start]), seg.node); err != nil {
			return nil, err
		}
	}
	if err := h.doc.InsertBefore(parent, marker, seg.node); err != nil {
		return nil, err
	}
	if seg.end < len(data) {
		if err := h.doc.InsertBefore(parent, dom.NewTextNode(data[seg.end:]), seg.node); err != nil {
			return nil, err
		}
	}
	if err := h.doc.RemoveChild(parent, seg.node); err != nil {
		return nil, err
	}
	return marker, nil
}

// unwrap restores the tree around each marker and drops its handlers.
// Markers that already left the tree are skipped.
func (h *Highlighter) unwrap(markers []*html.Node) {
	for _, m := range markers {
		h.mu.Lock()
		delete(h.handlers, m)
		h.mu.Unlock()

		parent := m.Parent
		if parent == nil || !h.doc.Contains(m) {
			continue
		}
		for m.FirstChild != nil {
			if err := h.doc.InsertBefore(parent, m.FirstChild, m); err != nil {
				h.logger.Error("unwrap %q: reattach child: %v", MarkerID(m), err)
				break
			}
		}
		if err := h.doc.RemoveChild(parent, m); err != nil {
			h.logger.Error("unwrap %q: remove marker: %v", MarkerID(m), err)
			continue
		}
		h.doc.Normalize(parent)
	}
}

// IsMarker reports whether n is a highlight marker element.
func IsMarker(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && dom.HasAttr(n, IDAttribute)
}

// MarkerID returns the highlight id a marker carries, or "".
func MarkerID(n *html.Node) string {
	if n == nil {
		return ""
	}
	v, _ := dom.GetAttr(n, IDAttribute)
	return v
}

// DispatchClick routes a host click event at n to the owning
// highlight's handler. Reports whether a marker owned the node.
func (h *Highlighter) DispatchClick(n *html.Node) bool {
	return h.dispatch(n, func(hs handlerSet) func(string) { return hs.click })
}

// DispatchMouseEnter routes a pointer-enter event at n.
func (h *Highlighter) DispatchMouseEnter(n *html.Node) bool {
	return h.dispatch(n, func(hs handlerSet) func(string) { return hs.enter })
}

// DispatchMouseLeave routes a pointer-leave event at n.
func (h *Highlighter) DispatchMouseLeave(n *html.Node) bool {
	return h.dispatch(n, func(hs handlerSet) func(string) { return hs.leave })
}

func (h *Highlighter) dispatch(n *html.Node, pick func(handlerSet) func(string)) bool {
	marker := ownerMarker(n)
	if marker == nil {
		return false
	}
	h.mu.RLock()
	hs, ok := h.handlers[marker]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	fn := pick(hs)
	if fn == nil {
		return false
	}
	h.safeCall(fn, hs.id)
	return true
}

// ownerMarker finds the nearest marker at or above n.
func ownerMarker(n *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if IsMarker(p) {
			return p
		}
	}
	return nil
}

func (h *Highlighter) safeCall(fn func(string), id string) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("handler for %q panicked: %v", id, r)
		}
	}()
	fn(id)
}

// InjectStyles inserts the marker stylesheet once. Subsequent calls
// find the element by id and do nothing.
func (h *Highlighter) InjectStyles() error {
	if h.doc.ElementByID(styleElementID) != nil {
		return nil
	}
	target := firstOf(h.doc.Root(), "head")
	if target == nil {
		target = h.doc.Body()
	}
	if target == nil {
		return fmt.Errorf("inject styles: %w", dom.ErrNotInTree)
	}
	style := dom.NewElement("style")
	dom.SetAttr(style, "id", styleElementID)
	style.AppendChild(dom.NewTextNode(markerCSS(h.className)))
	return h.doc.AppendChild(target, style)
}

func firstOf(root *html.Node, tag string) *html.Node {
	els := dom.ElementsByTag(root, tag)
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

func markerCSS(class string) string {
	return fmt.Sprintf(
		".%[1]s { background-color: %[2]s; cursor: pointer; }\n"+
			".%[1]s:hover { background-color: %[3]s; }\n",
		class, DefaultColor, HoverColor(DefaultColor))
}
