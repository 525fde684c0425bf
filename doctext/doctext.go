// Package doctext flattens document trees into text and converts
// between tree positions and character offsets. It maintains the
// distinction between raw text (as stored in the tree) and normalized
// text (whitespace runs collapsed), which matching operates on.
package doctext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/textmark/dom"
)

// isSpace reports whether r belongs to a collapsible whitespace run.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Normalize collapses every run of whitespace characters into a
// single space. It does not trim: leading and trailing runs each
// become one space.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if isSpace(r) {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// Extract returns the raw text of all text leaves under root in
// document order.
func Extract(root *html.Node) string {
	return dom.Text(root)
}

// Offset returns the byte offset of (node, localOffset) within the
// flattened raw text of root, or -1 when node is not a text leaf
// under root.
func Offset(root, node *html.Node, localOffset int) int {
	found := -1
	acc := 0
	dom.WalkText(root, func(leaf *html.Node) bool {
		if leaf == node {
			if localOffset < 0 {
				localOffset = 0
			}
			if localOffset > len(leaf.Data) {
				localOffset = len(leaf.Data)
			}
			found = acc + localOffset
			return false
		}
		acc += len(leaf.Data)
		return true
	})
	return found
}

// NodeAt returns the text leaf under root containing the given byte
// offset of the flattened raw text, with the offset localized to that
// leaf. Offsets on a leaf boundary resolve to the start of the later
// leaf; an offset equal to the total text length resolves to the end
// of the last leaf. The third return is false when offset is negative
// or exceeds the total text length.
func NodeAt(root *html.Node, offset int) (*html.Node, int, bool) {
	if offset < 0 {
		return nil, 0, false
	}
	var node, last *html.Node
	local := 0
	acc := 0
	dom.WalkText(root, func(leaf *html.Node) bool {
		if offset < acc+len(leaf.Data) {
			node = leaf
			local = offset - acc
			return false
		}
		acc += len(leaf.Data)
		last = leaf
		return true
	})
	if node != nil {
		return node, local, true
	}
	if offset == acc && last != nil {
		return last, len(last.Data), true
	}
	return nil, 0, false
}

// Equal reports whether a and b contain the same text after Unicode
// NFC normalization. Serializers differ in composition form; anchors
// should not.
func Equal(a, b string) bool {
	if a == b {
		return true
	}
	return norm.NFC.String(a) == norm.NFC.String(b)
}
