// Package anchor converts live text ranges into durable selectors and
// back. Describe serializes a range into the three-part selector;
// Anchor re-locates a selector on a possibly-changed tree through a
// cascade of strategies of increasing cost and decreasing precision:
//
//	path      resolve the stored node paths          confidence 1.0/0.9
//	position  resolve the stored raw text offsets    confidence 1.0/0.9
//	quote     find the exact stored text             confidence 0.95
//	fuzzy     approximate search with edit budget    confidence 0.50-0.85
//
// Each strategy is a pure function from a selector part and a tree to
// a candidate range. Structural candidates (path, position) must
// reproduce the stored quote text exactly and pass a quick context
// check before they are accepted; a candidate whose surroundings
// contradict the stored context is the wrong occurrence of the same
// text and is rejected so the cascade can continue. A selector that
// cannot be anchored at all yields nil, not an error: pages drift,
// and "this text is gone" is an expected outcome.
//
// All matching runs in normalized text space (whitespace runs
// collapsed). Indices found there are translated back to raw offsets
// through the mapping maintained by package doctext before any range
// is constructed.
package anchor
