// Package selector defines the durable three-part description of a
// text span: a structural path, raw character offsets, and the quoted
// text with surrounding context. The three parts are stored together
// and degrade independently; any one of them can re-locate the span
// on its own.
package selector

// PathPoint addresses one endpoint structurally: a node path relative
// to the anchor root plus a byte offset into that node's text.
type PathPoint struct {
	Path   string `json:"path"`
	Offset int    `json:"offset"`
}

// PathSelector locates a span by the tree structure around it. It is
// the fastest part to resolve and the most brittle under structural
// change.
type PathSelector struct {
	Start PathPoint `json:"start"`
	End   PathPoint `json:"end"`
}

// PositionSelector locates a span by byte offsets into the anchor
// root's flattened raw text. It drifts when content is inserted or
// removed upstream of the span.
type PositionSelector struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// QuoteSelector locates a span by its normalized text plus a short
// stretch of what surrounded it. It survives structural change and
// disambiguates repeated text.
type QuoteSelector struct {
	Exact  string `json:"exact"`
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

// Selector is the durable description of one highlighted span. A nil
// part was not captured or did not survive import. Selectors are
// immutable once created: re-anchoring never modifies them.
type Selector struct {
	Path     *PathSelector     `json:"path,omitempty"`
	Position *PositionSelector `json:"position,omitempty"`
	Quote    *QuoteSelector    `json:"quote,omitempty"`
}

// Empty reports whether the selector carries no parts at all.
func (s Selector) Empty() bool {
	return s.Path == nil && s.Position == nil && s.Quote == nil
}

// Clone returns a deep copy.
func (s Selector) Clone() Selector {
	var out Selector
	if s.Path != nil {
		p := *s.Path
		out.Path = &p
	}
	if s.Position != nil {
		p := *s.Position
		out.Position = &p
	}
	if s.Quote != nil {
		q := *s.Quote
		out.Quote = &q
	}
	return out
}

// Validate checks structural sanity: at least one part, non-negative
// offsets, and ordered positions.
func (s Selector) Validate() error {
	if s.Empty() {
		return ErrNoParts
	}
	if p := s.Position; p != nil {
		if p.Start < 0 || p.End < p.Start {
			return &ParseError{Field: "position", Reason: "offsets must satisfy 0 <= start <= end"}
		}
	}
	if p := s.Path; p != nil {
		if p.Start.Offset < 0 || p.End.Offset < 0 {
			return &ParseError{Field: "path", Reason: "offsets must be non-negative"}
		}
	}
	return nil
}
