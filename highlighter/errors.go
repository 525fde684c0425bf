package highlighter

import "errors"

// Sentinel errors for highlight application failures.
var (
	// ErrNoID indicates a marker spec without a highlight id.
	ErrNoID = errors.New("marker spec has no id")

	// ErrCollapsedRange indicates the range spans no text.
	ErrCollapsedRange = errors.New("range is collapsed")

	// ErrDetachedNode indicates the target is not attached to the
	// highlighter's document.
	ErrDetachedNode = errors.New("node is not attached to the document")
)
