package anchor

// contextPadding widens context comparison windows a little past the
// stored context length so clipped grapheme boundaries and small
// insertions near the range do not defeat an otherwise aligned match.
const contextPadding = 5

// Options tunes describing and anchoring. The zero value is not
// useful; start from DefaultOptions.
type Options struct {
	// ContextLength is the number of grapheme clusters of surrounding
	// text captured on each side of a described range, and the window
	// used when verifying context at anchor time.
	ContextLength int

	// MaxFuzzyErrors caps the edit budget of the fuzzy strategy.
	// Negative derives the budget from the stored quote length; zero
	// disables fuzzy matching entirely.
	MaxFuzzyErrors int

	// PositionHint biases fuzzy candidate ranking toward a raw text
	// offset. Negative uses the selector's stored position instead.
	PositionHint int
}

// DefaultOptions returns the standard anchoring configuration.
func DefaultOptions() Options {
	return Options{
		ContextLength:  32,
		MaxFuzzyErrors: -1,
		PositionHint:   -1,
	}
}

func (o Options) normalized() Options {
	if o.ContextLength <= 0 {
		o.ContextLength = DefaultOptions().ContextLength
	}
	return o
}
