package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// MutationType classifies a document mutation.
type MutationType int

const (
	// MutationChildList indicates children were added to or removed
	// from the target node.
	MutationChildList MutationType = iota

	// MutationCharacterData indicates the data of the target text node
	// changed.
	MutationCharacterData
)

// String returns the mutation type name.
func (t MutationType) String() string {
	switch t {
	case MutationChildList:
		return "childList"
	case MutationCharacterData:
		return "characterData"
	default:
		return "unknown"
	}
}

// MutationRecord describes one observed change to the document tree.
type MutationRecord struct {
	// Type is the kind of change.
	Type MutationType

	// Target is the node the change applied to: the parent for
	// childList records, the text node for characterData records.
	Target *html.Node

	// Added holds nodes inserted under Target.
	Added []*html.Node

	// Removed holds nodes removed from under Target.
	Removed []*html.Node

	// OldText is the previous data of a characterData target.
	OldText string
}

// MutationFunc receives mutation records for a document.
type MutationFunc func(MutationRecord)

// Subscription is an active observer registration. Unsubscribe is
// safe to call more than once.
type Subscription struct {
	id     uint64
	remove func(uint64)
}

// NewSubscription builds a subscription handle over a caller-owned
// observer registry. Packages that keep their own handler maps hand
// out the same removal interface the document does.
func NewSubscription(id uint64, remove func(uint64)) *Subscription {
	return &Subscription{id: id, remove: remove}
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.remove != nil {
		s.remove(s.id)
		s.remove = nil
	}
}

// Document owns a parsed HTML tree. All structural and text mutations
// go through Document methods so that subscribers observe them;
// mutations on nodes not attached under the document root are
// performed silently.
type Document struct {
	mu        sync.RWMutex
	root      *html.Node
	selection *Range
	observers map[uint64]MutationFunc
	nextID    uint64
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{
		root:      root,
		observers: make(map[uint64]MutationFunc),
	}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragment parses partial markup as it would appear inside
// context. A nil context parses as body content, the common case for
// snippets. The returned nodes are detached; attach them through the
// document's mutation methods.
func ParseFragment(s string, context *html.Node) ([]*html.Node, error) {
	if context == nil {
		context = NewElement("body")
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

// Root returns the document node at the top of the tree.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the document's body element, or nil if the tree has
// none.
func (d *Document) Body() *html.Node {
	els := ElementsByTag(d.root, "body")
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

// Render serializes the document back to HTML.
func (d *Document) Render() (string, error) {
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return b.String(), nil
}

// Contains reports whether n is attached under the document root.
func (d *Document) Contains(n *html.Node) bool {
	return Contains(d.root, n)
}

// OnMutation subscribes fn to mutation records. Records are delivered
// synchronously from the mutating call, after the tree change is
// complete.
func (d *Document) OnMutation(fn MutationFunc) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.observers[id] = fn
	return &Subscription{id: id, remove: d.removeObserver}
}

func (d *Document) removeObserver(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.observers, id)
}

// emit delivers records to observers. Callers must not hold d.mu.
func (d *Document) emit(records []MutationRecord) {
	if len(records) == 0 {
		return
	}
	d.mu.RLock()
	fns := make([]MutationFunc, 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		for _, rec := range records {
			fn(rec)
		}
	}
}

// AppendChild appends child as the last child of parent. A child that
// is already attached elsewhere is moved.
func (d *Document) AppendChild(parent, child *html.Node) error {
	return d.InsertBefore(parent, child, nil)
}

// InsertBefore inserts child under parent immediately before ref. A
// nil ref appends. A child that is already attached elsewhere is
// moved.
func (d *Document) InsertBefore(parent, child, ref *html.Node) error {
	if parent == nil || child == nil {
		return ErrNilNode
	}
	if Contains(child, parent) {
		return ErrContainsTarget
	}
	if ref != nil && ref.Parent != parent {
		return ErrNotChild
	}

	var records []MutationRecord
	if child.Parent != nil {
		old := child.Parent
		old.RemoveChild(child)
		if d.Contains(old) {
			records = append(records, MutationRecord{
				Type:    MutationChildList,
				Target:  old,
				Removed: []*html.Node{child},
			})
		}
	}
	parent.InsertBefore(child, ref)
	if d.Contains(parent) {
		records = append(records, MutationRecord{
			Type:   MutationChildList,
			Target: parent,
			Added:  []*html.Node{child},
		})
	}
	d.emit(records)
	return nil
}

// RemoveChild detaches child from parent.
func (d *Document) RemoveChild(parent, child *html.Node) error {
	if parent == nil || child == nil {
		return ErrNilNode
	}
	if child.Parent != parent {
		return ErrNotChild
	}
	attached := d.Contains(parent)
	parent.RemoveChild(child)
	if attached {
		d.emit([]MutationRecord{{
			Type:    MutationChildList,
			Target:  parent,
			Removed: []*html.Node{child},
		}})
	}
	return nil
}

// ReplaceChild replaces oldChild with newChild under parent.
func (d *Document) ReplaceChild(parent, newChild, oldChild *html.Node) error {
	if parent == nil || newChild == nil || oldChild == nil {
		return ErrNilNode
	}
	if oldChild.Parent != parent {
		return ErrNotChild
	}
	if Contains(newChild, parent) {
		return ErrContainsTarget
	}

	var records []MutationRecord
	if newChild.Parent != nil {
		old := newChild.Parent
		old.RemoveChild(newChild)
		if d.Contains(old) {
			records = append(records, MutationRecord{
				Type:    MutationChildList,
				Target:  old,
				Removed: []*html.Node{newChild},
			})
		}
	}
	parent.InsertBefore(newChild, oldChild)
	parent.RemoveChild(oldChild)
	if d.Contains(parent) {
		records = append(records, MutationRecord{
			Type:    MutationChildList,
			Target:  parent,
			Added:   []*html.Node{newChild},
			Removed: []*html.Node{oldChild},
		})
	}
	d.emit(records)
	return nil
}

// SetText replaces the data of a text node.
func (d *Document) SetText(node *html.Node, text string) error {
	if node == nil {
		return ErrNilNode
	}
	if node.Type != html.TextNode {
		return ErrNotText
	}
	old := node.Data
	node.Data = text
	if d.Contains(node) {
		d.emit([]MutationRecord{{
			Type:    MutationCharacterData,
			Target:  node,
			OldText: old,
		}})
	}
	return nil
}

// Normalize merges adjacent text node children and removes empty text
// nodes throughout the subtree rooted at n.
func (d *Document) Normalize(n *html.Node) {
	if n == nil {
		return
	}
	attached := d.Contains(n)
	var records []MutationRecord

	var walk func(p *html.Node)
	walk = func(p *html.Node) {
		c := p.FirstChild
		for c != nil {
			next := c.NextSibling
			if c.Type == html.TextNode {
				if c.Data == "" {
					p.RemoveChild(c)
					records = append(records, MutationRecord{
						Type:    MutationChildList,
						Target:  p,
						Removed: []*html.Node{c},
					})
				} else if next != nil && next.Type == html.TextNode {
					old := c.Data
					c.Data += next.Data
					p.RemoveChild(next)
					records = append(records,
						MutationRecord{
							Type:    MutationCharacterData,
							Target:  c,
							OldText: old,
						},
						MutationRecord{
							Type:    MutationChildList,
							Target:  p,
							Removed: []*html.Node{next},
						})
					// Re-examine c against its new next sibling.
					next = c
				}
			} else if c.Type == html.ElementNode {
				walk(c)
			}
			c = next
		}
	}
	walk(n)

	if attached {
		d.emit(records)
	}
}

// SetSelection records the host's current selection range. A nil
// range clears the selection.
func (d *Document) SetSelection(r *Range) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = r
}

// Selection returns the host's current selection range, or nil.
func (d *Document) Selection() *Range {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selection
}
