// Package fuzzy implements approximate substring search with a
// bounded edit distance, plus context-aware re-ranking for
// disambiguating repeated matches.
package fuzzy

import (
	"math"
	"sort"
)

// Match is one approximate occurrence of a pattern in a text. Start
// and End are byte offsets into the searched text; Errors is the edit
// distance between the pattern and the matched span.
type Match struct {
	Start  int
	End    int
	Errors int
}

// Score rates a match; higher is better. An exact occurrence scores
// 100 and every edit costs 10.
func (m Match) Score() float64 {
	return 100 - 10*float64(m.Errors)
}

// Options configures context-aware searching.
type Options struct {
	// ContextLength is the nominal length, in characters, of the
	// stored prefix/suffix context.
	ContextLength int

	// ContextPadding widens the adjacent window checked against the
	// stored context by this many characters.
	ContextPadding int

	// ContextWeight scales the prefix and suffix scores in the
	// composite ranking.
	ContextWeight float64

	// ProximityWeight scales the position-hint score in the composite
	// ranking.
	ProximityWeight float64

	// ContextTolerance is the fraction of the context length allowed
	// as edit errors when fuzzy-matching context against its window.
	ContextTolerance float64
}

// DefaultOptions returns the standard search configuration.
func DefaultOptions() Options {
	return Options{
		ContextLength:    32,
		ContextPadding:   5,
		ContextWeight:    0.2,
		ProximityWeight:  0.02,
		ContextTolerance: 0.3,
	}
}

// Searcher performs approximate substring searches.
type Searcher struct {
	options Options
}

// NewSearcher creates a searcher with the given options.
func NewSearcher(opts Options) *Searcher {
	if opts.ContextLength <= 0 {
		opts.ContextLength = DefaultOptions().ContextLength
	}
	return &Searcher{options: opts}
}

// Search finds approximate occurrences of pattern in text with at
// most maxErrors edits. Results are deduplicated so that a cluster of
// overlapping alignments yields its best member, and are sorted
// best-first: fewest errors, then earliest start.
func (s *Searcher) Search(text, pattern string, maxErrors int) []Match {
	if text == "" || pattern == "" {
		return nil
	}
	if maxErrors < 0 {
		maxErrors = 0
	}

	t := []rune(text)
	p := []rune(pattern)
	n := len(t)

	// Byte offset of each rune boundary, for translating rune-space
	// alignments back to byte offsets.
	byteAt := make([]int, 0, n+1)
	for i := range text {
		byteAt = append(byteAt, i)
	}
	byteAt = append(byteAt, len(text))

	type cell struct {
		cost  int
		start int
	}

	// Sellers dynamic programming: the pattern may begin at any text
	// position for free, so row 0 is all zeros with each column its
	// own alignment start.
	prev := make([]cell, n+1)
	cur := make([]cell, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = cell{cost: 0, start: j}
	}

	for i := 1; i <= len(p); i++ {
		cur[0] = cell{cost: i, start: 0}
		for j := 1; j <= n; j++ {
			diag := prev[j-1].cost
			if p[i-1] != t[j-1] {
				diag++
			}
			best := cell{cost: diag, start: prev[j-1].start}
			if up := prev[j].cost + 1; up < best.cost {
				best = cell{cost: up, start: prev[j].start}
			}
			if left := cur[j-1].cost + 1; left < best.cost {
				best = cell{cost: left, start: cur[j-1].start}
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}

	var cands []Match
	for j := 0; j <= n; j++ {
		if prev[j].cost <= maxErrors && j > prev[j].start {
			cands = append(cands, Match{
				Start:  byteAt[prev[j].start],
				End:    byteAt[j],
				Errors: prev[j].cost,
			})
		}
	}
	if len(cands) == 0 {
		return nil
	}

	sort.Slice(cands, func(a, b int) bool {
		if cands[a].Start != cands[b].Start {
			return cands[a].Start < cands[b].Start
		}
		if cands[a].Errors != cands[b].Errors {
			return cands[a].Errors < cands[b].Errors
		}
		return cands[a].End < cands[b].End
	})

	// Collapse each run of mutually-overlapping alignments to its
	// lowest-error member.
	out := cands[:0:0]
	for _, c := range cands {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if c.Start < last.End {
				if c.Errors < last.Errors {
					*last = c
				}
				continue
			}
		}
		out = append(out, c)
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Errors != out[b].Errors {
			return out[a].Errors < out[b].Errors
		}
		return out[a].Start < out[b].Start
	})
	return out
}

// RecommendedMaxErrors returns the edit budget for a pattern of n
// characters: a tenth of the length, at least 2 and at most 20.
func RecommendedMaxErrors(n int) int {
	if n < 0 {
		n = 0
	}
	k := int(math.Ceil(0.1 * float64(n)))
	if k < 2 {
		k = 2
	}
	if k > 20 {
		k = 20
	}
	return k
}

// Search runs an approximate search with the default options.
func Search(text, pattern string, maxErrors int) []Match {
	return NewSearcher(DefaultOptions()).Search(text, pattern, maxErrors)
}
