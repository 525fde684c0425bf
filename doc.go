// Package textmark anchors text highlights to HTML documents and
// keeps them anchored as the documents change.
//
// A highlighted span is captured by anchor.Describe as a three-part
// selector: the structural path to its endpoints, character offsets
// into the document's flattened text, and the quoted text with a
// short stretch of surrounding context. Re-anchoring tries the parts
// in order of decreasing precision (path, position, quote, then
// bounded fuzzy search) so a highlight survives edits, reformatting,
// and structural rework, each strategy reporting how confident its
// match is.
//
// The Manager ties the pieces together on one document: it anchors
// stored highlights, renders them as marker elements, watches the
// tree so orphaned highlights retry when content changes, resets on
// navigation, and reports lifecycle and pointer events to the host.
package textmark
