package fuzzy

import (
	"math"
	"strings"
	"unicode/utf8"
)

// ContextQuery describes a context-aware search: the exact text to
// find plus the stored prefix/suffix that surrounded it, an edit
// budget, and an optional position hint. Hint is a byte offset into
// the searched text; a negative hint means none.
type ContextQuery struct {
	Exact     string
	Prefix    string
	Suffix    string
	MaxErrors int
	Hint      int
}

// SearchWithContext finds the occurrence of q.Exact whose
// surroundings best agree with the stored context. A unique
// approximate match is returned as-is. Multiple matches are re-ranked
// by a composite of match quality, prefix/suffix agreement with the
// text adjacent to the candidate, and proximity to the hint; the
// highest composite wins and ties resolve to the earliest start.
func (s *Searcher) SearchWithContext(text string, q ContextQuery) *Match {
	matches := s.Search(text, q.Exact, q.MaxErrors)
	if len(matches) == 0 {
		return nil
	}
	if len(matches) == 1 {
		m := matches[0]
		return &m
	}

	window := s.options.ContextLength + s.options.ContextPadding

	var best *Match
	bestScore := math.Inf(-1)
	for i := range matches {
		m := matches[i]
		score := m.Score()
		score += s.options.ContextWeight * s.contextScore(tailRunes(text[:m.Start], window), q.Prefix)
		score += s.options.ContextWeight * s.contextScore(headRunes(text[m.End:], window), q.Suffix)
		if q.Hint >= 0 {
			dist := m.Start - q.Hint
			if dist < 0 {
				dist = -dist
			}
			score += s.options.ProximityWeight * 100 * (1 - float64(dist)/float64(len(text)))
		}

		const eps = 1e-9
		switch {
		case score > bestScore+eps:
			best = &matches[i]
			bestScore = score
		case math.Abs(score-bestScore) <= eps && best != nil && m.Start < best.Start:
			best = &matches[i]
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// contextScore rates how well the stored context matches the window
// of text adjacent to a candidate. Absent context contributes
// nothing; an exact substring scores 100; otherwise the context is
// fuzzy-matched against the window with a tolerance proportional to
// its length.
func (s *Searcher) contextScore(window, context string) float64 {
	if context == "" || window == "" {
		return 0
	}
	if strings.Contains(window, context) {
		return 100
	}
	tol := int(s.options.ContextTolerance * float64(utf8.RuneCountInString(context)))
	if tol < 0 {
		tol = 0
	}
	nested := s.Search(window, context, tol)
	if len(nested) == 0 {
		return 0
	}
	return nested[0].Score()
}

// SearchWithContext runs a context-aware search with the default
// options.
func SearchWithContext(text string, q ContextQuery) *Match {
	return NewSearcher(DefaultOptions()).SearchWithContext(text, q)
}

// tailRunes returns the last n runes of s.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	idx := len(s)
	for count := 0; idx > 0 && count < n; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:idx])
		idx -= size
	}
	return s[idx:]
}

// headRunes returns the first n runes of s.
func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
