// Package highlighter paints ranges of document text by wrapping them
// in mark elements. A range touching several text leaves gets one
// marker per leaf; each touched leaf is split into before, marked,
// and after pieces so no text outside the range changes parentage.
//
// Markers carry a data attribute with the highlight id. Interaction
// handlers never live in the tree itself; they sit in a registry
// keyed by marker node, consulted by the Dispatch entry points that a
// host embedding the document calls when it routes input events.
//
// Cleanup is the exact inverse of Wrap: children move back out of the
// marker, the marker is removed, and adjacent text leaves are merged.
// Cleaning up a marker that has already left the tree is a no-op.
package highlighter
