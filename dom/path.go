package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// PathFromNode returns a short structural path from root to node, in
// the form "./div/p[2]/text()". Each step is the node's local name
// with a 1-based index among same-named siblings; the index is
// omitted when the name is unique at that level, which keeps paths
// stable when differently-named siblings are inserted. A node equal
// to root yields ".".
func PathFromNode(node, root *html.Node) (string, error) {
	if node == nil || root == nil {
		return "", ErrNilNode
	}
	if node == root {
		return ".", nil
	}
	if !Contains(root, node) {
		return "", ErrNotInTree
	}

	var steps []string
	for n := node; n != root; n = n.Parent {
		steps = append(steps, pathStep(n))
	}
	// Ancestor walk produced the steps deepest-first.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return "./" + strings.Join(steps, "/"), nil
}

// pathStep renders one path step for n: its local name, plus a
// bracketed position when siblings share that name.
func pathStep(n *html.Node) string {
	name := localName(n)
	position := 1
	matching := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if sameName(s, n) {
			position++
			matching++
		}
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if sameName(s, n) {
			matching++
		}
	}
	if matching > 1 {
		return fmt.Sprintf("%s[%d]", name, position)
	}
	return name
}

func localName(n *html.Node) string {
	if n.Type == html.TextNode {
		return "text()"
	}
	return n.Data
}

func sameName(a, b *html.Node) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == html.TextNode {
		return true
	}
	return a.Type == html.ElementNode && a.Data == b.Data
}

// NodeFromPath resolves a path produced by PathFromNode against the
// live tree, relative to root. An empty or "." path returns root.
// Resolution failure of any kind yields nil; this function never
// panics.
func NodeFromPath(path string, root *html.Node) (node *html.Node) {
	if root == nil {
		return nil
	}
	path = strings.TrimSpace(path)
	if path == "" || path == "." {
		return root
	}
	defer func() {
		if recover() != nil {
			node = nil
		}
	}()
	found, err := htmlquery.Query(root, path)
	if err != nil {
		return nil
	}
	return found
}
