package dom

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Query returns the first node matching the XPath expression, or nil
// with no error when nothing matches.
func (d *Document) Query(expr string) (*html.Node, error) {
	n, err := htmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expr, err)
	}
	return n, nil
}

// QueryAll returns every node matching the XPath expression.
func (d *Document) QueryAll(expr string) ([]*html.Node, error) {
	ns, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expr, err)
	}
	return ns, nil
}

// ElementByID returns the element with the given id attribute, or
// nil.
func (d *Document) ElementByID(id string) *html.Node {
	var found *html.Node
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := GetAttr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	if d.root != nil {
		walk(d.root)
	}
	return found
}
