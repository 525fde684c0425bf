// Package dom provides the document-tree abstraction the anchoring
// engine operates over: a mutable HTML document with mutation
// notification, text ranges, structural node paths, and a window with
// history state.
//
// # Architecture
//
// The package wraps golang.org/x/net/html nodes rather than defining
// its own node type. A Document owns a parsed tree and mediates every
// mutation so observers can react to change:
//
//	┌──────────┐  AppendChild/SetText/...  ┌────────────────┐
//	│ Document │ ────────────────────────▶ │ MutationRecord │
//	└──────────┘                           └────────┬───────┘
//	      │                                         │
//	      │ OnMutation(fn)                          ▼
//	      └───────────────────────────────▶ subscribed observers
//
// Mutations performed through Document methods on attached nodes emit
// MutationRecords to subscribers. Detached subtrees may be assembled
// with the same methods without generating notifications, mirroring
// how a live document tree behaves.
//
// # Ranges
//
// A Range identifies a contiguous span of text by a start and end
// text node plus byte offsets into their data. Ranges produced and
// consumed by this package always use text-node containers.
//
// # Paths
//
// PathFromNode and NodeFromPath convert between a node and a short
// structural path ("./div/p[2]/text()"). Resolution is performed with
// XPath and never panics; unresolvable paths yield nil.
//
// # Window
//
// Window models the navigation state of the host: a current URL, a
// history stack, and the two URL-mutating history primitives exposed
// as replaceable function values so navigation detectors can wrap
// them and restore the originals when they stop.
package dom
