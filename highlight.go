package textmark

import (
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/dshills/textmark/anchor"
	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/selector"
)

// Highlight is the durable record of one highlighted span. Identity
// is the ID; the selector re-locates the span on a changed document.
type Highlight struct {
	ID       string
	Selector selector.Selector
	Color    string
	Metadata map[string]string
}

// NewHighlight builds a highlight record, assigning a fresh UUID when
// id is empty.
func NewHighlight(id string, sel selector.Selector, color string) Highlight {
	if id == "" {
		id = uuid.NewString()
	}
	return Highlight{ID: id, Selector: sel, Color: color}
}

// Clone returns a deep copy.
func (h Highlight) Clone() Highlight {
	out := h
	out.Selector = h.Selector.Clone()
	if h.Metadata != nil {
		out.Metadata = make(map[string]string, len(h.Metadata))
		for k, v := range h.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// ActiveHighlight is a highlight currently rendered on the page: the
// record plus its live range, marker elements, and how it anchored.
type ActiveHighlight struct {
	Highlight  Highlight
	Range      *dom.Range
	Markers    []*html.Node
	Method     anchor.Method
	Confidence float64

	cleanup func()
}

// State is a point-in-time snapshot of a manager's collections. The
// maps are fresh copies; mutating them does not touch the manager.
type State struct {
	Active   map[string]ActiveState
	Orphaned map[string]Highlight
	URL      string
}

// ActiveState describes one anchored highlight in a State snapshot.
type ActiveState struct {
	Highlight  Highlight
	Method     anchor.Method
	Confidence float64
}
