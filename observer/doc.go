// Package observer watches a document and its window for the two
// signals that invalidate highlights: content mutation and page
// navigation.
//
// MutationObserver batches mutation records behind a single debounce
// timer so a burst of tree changes costs one callback. Records can be
// filtered before they count toward a batch, which is how a caller
// excludes the tree changes its own highlighting produces.
//
// NavigationObserver funnels three detection paths into one URL
// comparison: full navigations, history primitive calls (pushState
// and replaceState, wrapped while observing and restored on stop),
// and back/forward traversal. The callback fires once per actual URL
// change, never for a same-URL signal.
package observer
