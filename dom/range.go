package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Range identifies a contiguous span of document text. Both
// containers are text nodes; offsets are byte offsets into the node
// data. A range with equal containers and offsets is collapsed.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// NewRange constructs a range over text-node endpoints. Offsets are
// clamped to the node data they index into.
func NewRange(startContainer *html.Node, startOffset int, endContainer *html.Node, endOffset int) (*Range, error) {
	if startContainer == nil || endContainer == nil {
		return nil, ErrNilNode
	}
	if startContainer.Type != html.TextNode || endContainer.Type != html.TextNode {
		return nil, ErrNotText
	}
	return &Range{
		StartContainer: startContainer,
		StartOffset:    clamp(startOffset, 0, len(startContainer.Data)),
		EndContainer:   endContainer,
		EndOffset:      clamp(endOffset, 0, len(endContainer.Data)),
	}, nil
}

// Collapsed reports whether the range spans no content.
func (r *Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// CommonAncestor returns the deepest node containing both endpoints,
// or nil if the endpoints are in disjoint trees.
func (r *Range) CommonAncestor() *html.Node {
	seen := make(map[*html.Node]bool)
	for p := r.StartContainer; p != nil; p = p.Parent {
		seen[p] = true
	}
	for p := r.EndContainer; p != nil; p = p.Parent {
		if seen[p] {
			return p
		}
	}
	return nil
}

// Text returns the raw document text the range spans, in document
// order. A range whose endpoints no longer share a tree yields "".
func (r *Range) Text() string {
	if r.StartContainer == nil || r.EndContainer == nil {
		return ""
	}
	if r.StartContainer == r.EndContainer {
		data := r.StartContainer.Data
		start := clamp(r.StartOffset, 0, len(data))
		end := clamp(r.EndOffset, start, len(data))
		return data[start:end]
	}

	root := r.CommonAncestor()
	if root == nil {
		return ""
	}
	var b strings.Builder
	inside := false
	WalkText(root, func(n *html.Node) bool {
		switch n {
		case r.StartContainer:
			b.WriteString(n.Data[clamp(r.StartOffset, 0, len(n.Data)):])
			inside = true
		case r.EndContainer:
			b.WriteString(n.Data[:clamp(r.EndOffset, 0, len(n.Data))])
			return false
		default:
			if inside {
				b.WriteString(n.Data)
			}
		}
		return true
	})
	if !inside {
		// End container preceded the start container in document
		// order; the range is backwards and spans nothing.
		return ""
	}
	return b.String()
}

// AttachedTo reports whether both endpoints are attached under the
// document root.
func (r *Range) AttachedTo(d *Document) bool {
	return r != nil && d.Contains(r.StartContainer) && d.Contains(r.EndContainer)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
