package anchor

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/dshills/textmark/doctext"
	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/fuzzy"
	"github.com/dshills/textmark/selector"
)

type contextAlignment int

const (
	contextAbsent contextAlignment = iota
	contextAligned
	contextMisaligned
)

// resolvePath reconstructs a range from stored node paths. Any
// resolution failure yields nil so the cascade can continue.
func resolvePath(root *html.Node, ps *selector.PathSelector) *dom.Range {
	sn := dom.NodeFromPath(ps.Start.Path, root)
	en := dom.NodeFromPath(ps.End.Path, root)
	if sn == nil || en == nil {
		return nil
	}
	rng, err := dom.NewRange(sn, ps.Start.Offset, en, ps.End.Offset)
	if err != nil {
		return nil
	}
	return rng
}

// resolvePosition reconstructs a range from stored raw text offsets.
func resolvePosition(root *html.Node, ps *selector.PositionSelector) *dom.Range {
	if ps.End <= ps.Start {
		return nil
	}
	sn, so, ok := doctext.NodeAt(root, ps.Start)
	if !ok {
		return nil
	}
	en, eo, ok := doctext.NodeAt(root, ps.End)
	if !ok {
		return nil
	}
	rng, err := dom.NewRange(sn, so, en, eo)
	if err != nil {
		return nil
	}
	return rng
}

// verify accepts or rejects a structural candidate. A candidate that
// cannot reproduce the stored quote text is stale. One that reproduces
// the text but sits in contradicting surroundings is a different
// occurrence of the same text and is rejected so the text strategies
// can hunt for the right one.
func verify(root *html.Node, flat *doctext.Flat, rng *dom.Range, quote *selector.QuoteSelector, opts Options, method Method) *Result {
	if quote == nil || quote.Exact == "" {
		if strings.TrimSpace(rng.Text()) == "" {
			return nil
		}
		return &Result{Range: rng, Method: method, Confidence: confUnverified}
	}
	if !doctext.Equal(doctext.Normalize(rng.Text()), quote.Exact) {
		return nil
	}
	switch contextState(root, flat, rng, quote, opts) {
	case contextAbsent:
		return &Result{Range: rng, Method: method, Confidence: confUnverified}
	case contextAligned:
		return &Result{Range: rng, Method: method, Confidence: confVerified}
	default:
		return nil
	}
}

// contextState compares freshly extracted windows around the candidate
// against the stored prefix and suffix.
func contextState(root *html.Node, flat *doctext.Flat, rng *dom.Range, quote *selector.QuoteSelector, opts Options) contextAlignment {
	if quote.Prefix == "" && quote.Suffix == "" {
		return contextAbsent
	}
	rawStart := doctext.Offset(root, rng.StartContainer, rng.StartOffset)
	rawEnd := doctext.Offset(root, rng.EndContainer, rng.EndOffset)
	if rawStart < 0 || rawEnd < 0 {
		return contextMisaligned
	}
	window := opts.ContextLength + contextPadding
	before := doctext.ClipTail(flat.Normalized[:flat.NormIndex(rawStart)], window)
	after := doctext.Clip(flat.Normalized[flat.NormIndex(rawEnd):], window)
	if quote.Prefix != "" && !strings.HasSuffix(before, quote.Prefix) {
		return contextMisaligned
	}
	if quote.Suffix != "" && !strings.HasPrefix(after, quote.Suffix) {
		return contextMisaligned
	}
	return contextAligned
}

// quoteStrategy finds the stored text verbatim. A unique occurrence is
// taken directly; repeated occurrences are disambiguated by context
// and proximity to the stored position.
func quoteStrategy(root *html.Node, flat *doctext.Flat, quote *selector.QuoteSelector, opts Options, hint int) *Result {
	norm := flat.Normalized
	switch strings.Count(norm, quote.Exact) {
	case 0:
		return nil
	case 1:
		start := strings.Index(norm, quote.Exact)
		if rng := rangeFromNorm(root, flat, start, start+len(quote.Exact)); rng != nil {
			return &Result{Range: rng, Method: MethodQuote, Confidence: confQuote}
		}
		return nil
	}
	m := fuzzy.NewSearcher(fuzzyOptions(opts)).SearchWithContext(norm, fuzzy.ContextQuery{
		Exact:     quote.Exact,
		Prefix:    quote.Prefix,
		Suffix:    quote.Suffix,
		MaxErrors: 0,
		Hint:      normHint(flat, hint),
	})
	if m == nil {
		return nil
	}
	if rng := rangeFromNorm(root, flat, m.Start, m.End); rng != nil {
		return &Result{Range: rng, Method: MethodQuote, Confidence: confQuote}
	}
	return nil
}

// fuzzyStrategy tolerates edits to the stored text, grading its
// confidence by how far the best match strays from the quote.
func fuzzyStrategy(root *html.Node, flat *doctext.Flat, quote *selector.QuoteSelector, opts Options, hint int) *Result {
	maxErr := opts.MaxFuzzyErrors
	if maxErr < 0 {
		maxErr = fuzzy.RecommendedMaxErrors(utf8.RuneCountInString(quote.Exact))
	}
	if maxErr == 0 {
		return nil
	}
	m := fuzzy.NewSearcher(fuzzyOptions(opts)).SearchWithContext(flat.Normalized, fuzzy.ContextQuery{
		Exact:     quote.Exact,
		Prefix:    quote.Prefix,
		Suffix:    quote.Suffix,
		MaxErrors: maxErr,
		Hint:      normHint(flat, hint),
	})
	if m == nil {
		return nil
	}
	rng := rangeFromNorm(root, flat, m.Start, m.End)
	if rng == nil {
		return nil
	}
	conf := fuzzyConfidence(flat.Normalized[m.Start:m.End], quote.Exact, m.Errors)
	return &Result{Range: rng, Method: MethodFuzzy, Confidence: conf}
}

// fuzzyConfidence grades an approximate match by how much it deviates
// from the stored quote in length and in edit distance, measured in
// runes. Grades stay within the fuzzy confidence band.
func fuzzyConfidence(matched, exact string, errors int) float64 {
	lenE := utf8.RuneCountInString(exact)
	if lenE == 0 {
		return confFuzzyMin
	}
	diff := utf8.RuneCountInString(matched) - lenE
	if diff < 0 {
		diff = -diff
	}
	lengthFactor := 1 - float64(diff)/float64(lenE)
	if lengthFactor < 0 {
		lengthFactor = 0
	}
	errFactor := 1 - float64(errors)/float64(lenE)
	if errFactor < 0 {
		errFactor = 0
	}
	conf := confFuzzyMax * lengthFactor * errFactor
	if conf < confFuzzyMin {
		return confFuzzyMin
	}
	if conf > confFuzzyMax {
		return confFuzzyMax
	}
	return conf
}

// rangeFromNorm maps a normalized-text span back to raw offsets and
// builds the corresponding range.
func rangeFromNorm(root *html.Node, flat *doctext.Flat, normStart, normEnd int) *dom.Range {
	rawStart, rawEnd := flat.RawRange(normStart, normEnd)
	sn, so, ok := doctext.NodeAt(root, rawStart)
	if !ok {
		return nil
	}
	en, eo, ok := doctext.NodeAt(root, rawEnd)
	if !ok {
		return nil
	}
	rng, err := dom.NewRange(sn, so, en, eo)
	if err != nil {
		return nil
	}
	return rng
}

func normHint(flat *doctext.Flat, hint int) int {
	if hint < 0 {
		return -1
	}
	return flat.NormIndex(hint)
}

func fuzzyOptions(opts Options) fuzzy.Options {
	fo := fuzzy.DefaultOptions()
	fo.ContextLength = opts.ContextLength
	fo.ContextPadding = contextPadding
	return fo
}
