package anchor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/textmark/doctext"
	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/selector"
)

// Describe serializes rng into a selector carrying all three parts:
// node paths with local offsets, raw text positions, and the
// normalized quote with its surrounding context. The selector is
// relative to root and remains meaningful after the tree changes.
func Describe(root *html.Node, rng *dom.Range, opts Options) (selector.Selector, error) {
	opts = opts.normalized()
	if root == nil || rng == nil {
		return selector.Selector{}, describeErr("missing root or range", dom.ErrNilNode)
	}
	if rng.Collapsed() {
		return selector.Selector{}, describeErr("selection is collapsed", ErrCollapsedRange)
	}
	if !dom.Contains(root, rng.StartContainer) || !dom.Contains(root, rng.EndContainer) {
		return selector.Selector{}, describeErr("selection endpoints are outside the root", ErrOutsideRoot)
	}

	exact := doctext.Normalize(rng.Text())
	if strings.TrimSpace(exact) == "" {
		return selector.Selector{}, describeErr("selection has no visible text", ErrEmptyText)
	}

	startPath, err := dom.PathFromNode(rng.StartContainer, root)
	if err != nil {
		return selector.Selector{}, describeErr("cannot build start path", err)
	}
	endPath, err := dom.PathFromNode(rng.EndContainer, root)
	if err != nil {
		return selector.Selector{}, describeErr("cannot build end path", err)
	}

	rawStart := doctext.Offset(root, rng.StartContainer, rng.StartOffset)
	rawEnd := doctext.Offset(root, rng.EndContainer, rng.EndOffset)
	if rawStart < 0 || rawEnd < 0 {
		return selector.Selector{}, describeErr("cannot resolve text offsets", ErrOutsideRoot)
	}

	flat := doctext.Flatten(root)
	normStart := flat.NormIndex(rawStart)
	normEnd := flat.NormIndex(rawEnd)

	return selector.Selector{
		Path: &selector.PathSelector{
			Start: selector.PathPoint{Path: startPath, Offset: rng.StartOffset},
			End:   selector.PathPoint{Path: endPath, Offset: rng.EndOffset},
		},
		Position: &selector.PositionSelector{Start: rawStart, End: rawEnd},
		Quote: &selector.QuoteSelector{
			Exact:  exact,
			Prefix: doctext.ClipTail(flat.Normalized[:normStart], opts.ContextLength),
			Suffix: doctext.Clip(flat.Normalized[normEnd:], opts.ContextLength),
		},
	}, nil
}
