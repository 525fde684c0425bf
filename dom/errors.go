package dom

import "errors"

var (
	// ErrNilNode indicates a nil node was passed where a node is required.
	ErrNilNode = errors.New("nil node")

	// ErrNotText indicates an operation requiring a text node was given
	// a non-text node.
	ErrNotText = errors.New("node is not a text node")

	// ErrNotChild indicates the node is not a child of the given parent.
	ErrNotChild = errors.New("node is not a child of parent")

	// ErrContainsTarget indicates an attempt to insert a node into its
	// own subtree.
	ErrContainsTarget = errors.New("node contains insertion target")

	// ErrNotInTree indicates the node is not a descendant of the given
	// root.
	ErrNotInTree = errors.New("node is not in tree")

	// ErrInvalidRange indicates range endpoints that cannot form a
	// valid range.
	ErrInvalidRange = errors.New("invalid range")
)
