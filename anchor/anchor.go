package anchor

import (
	"golang.org/x/net/html"

	"github.com/dshills/textmark/doctext"
	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/selector"
)

// Method identifies which strategy produced an anchoring result.
type Method string

// Anchoring strategies in cascade order.
const (
	MethodPath     Method = "path"
	MethodPosition Method = "position"
	MethodQuote    Method = "quote"
	MethodFuzzy    Method = "fuzzy"
)

// Confidence levels assigned by the cascade.
const (
	confVerified   = 1.0  // structural candidate with aligned context
	confUnverified = 0.9  // structural candidate with nothing to check against
	confQuote      = 0.95 // exact text match
	confFuzzyMax   = 0.85 // upper bound for approximate matches
	confFuzzyMin   = 0.5  // lower bound for approximate matches
)

// Result is a successful anchoring: the re-located range, the strategy
// that found it, and how much to trust it.
type Result struct {
	Range      *dom.Range
	Method     Method
	Confidence float64
}

// Anchor re-locates sel inside root. Strategies run cheapest first and
// the first verified candidate wins. Returns nil when no strategy can
// place the selector; callers should treat that as "the text is gone",
// not as a fault.
func Anchor(root *html.Node, sel selector.Selector, opts Options) *Result {
	if root == nil || sel.Empty() {
		return nil
	}
	opts = opts.normalized()
	flat := doctext.Flatten(root)

	hint := opts.PositionHint
	if hint < 0 && sel.Position != nil {
		hint = sel.Position.Start
	}

	if sel.Path != nil {
		if rng := resolvePath(root, sel.Path); rng != nil {
			if res := verify(root, flat, rng, sel.Quote, opts, MethodPath); res != nil {
				return res
			}
		}
	}
	if sel.Position != nil {
		if rng := resolvePosition(root, sel.Position); rng != nil {
			if res := verify(root, flat, rng, sel.Quote, opts, MethodPosition); res != nil {
				return res
			}
		}
	}
	if sel.Quote != nil && sel.Quote.Exact != "" {
		if res := quoteStrategy(root, flat, sel.Quote, opts, hint); res != nil {
			return res
		}
		if res := fuzzyStrategy(root, flat, sel.Quote, opts, hint); res != nil {
			return res
		}
	}
	return nil
}

// AnchorAll anchors every selector independently against the same
// tree snapshot. The returned map has one entry per input id; ids
// whose selector could not be anchored map to nil.
func AnchorAll(root *html.Node, sels map[string]selector.Selector, opts Options) map[string]*Result {
	out := make(map[string]*Result, len(sels))
	for id, sel := range sels {
		out[id] = Anchor(root, sel, opts)
	}
	return out
}

// CanAnchor reports whether sel still resolves inside root.
func CanAnchor(root *html.Node, sel selector.Selector, opts Options) bool {
	return Anchor(root, sel, opts) != nil
}
