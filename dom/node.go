package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipTags are elements whose text content is never part of the
// rendered page text and so is excluded from text extraction.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// NewElement creates a detached element node with the given tag name.
func NewElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// NewTextNode creates a detached text node.
func NewTextNode(text string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: text,
	}
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// GetAttr returns the value of the named attribute and whether it is
// present.
func GetAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func HasAttr(n *html.Node, key string) bool {
	_, ok := GetAttr(n, key)
	return ok
}

// SetAttr sets the named attribute, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes the named attribute if present.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Contains reports whether n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	if root == nil || n == nil {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// TextLeaves returns the text nodes under root in document order,
// excluding text inside non-rendered elements (script, style, and
// the like).
func TextLeaves(root *html.Node) []*html.Node {
	var leaves []*html.Node
	WalkText(root, func(n *html.Node) bool {
		leaves = append(leaves, n)
		return true
	})
	return leaves
}

// WalkText visits the text leaves under root in document order. The
// walk stops early when fn returns false.
func WalkText(root *html.Node, fn func(*html.Node) bool) {
	if root == nil {
		return
	}
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode {
			return fn(n)
		}
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)
}

// ElementsByTag returns the elements with the given tag name under
// root, in document order. Root itself is included if it matches.
func ElementsByTag(root *html.Node, tag string) []*html.Node {
	tag = strings.ToLower(tag)
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// FirstElement returns the first element child of n, or nil.
func FirstElement(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Text returns the concatenated text leaf content under root in
// document order.
func Text(root *html.Node) string {
	var b strings.Builder
	WalkText(root, func(n *html.Node) bool {
		b.WriteString(n.Data)
		return true
	})
	return b.String()
}
