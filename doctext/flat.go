package doctext

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/dshills/textmark/dom"
)

// Flat is the flattened text of a subtree in both raw and normalized
// forms, with the offset mapping between them. Matching runs against
// Normalized; tree positions need Raw offsets. Every index derived
// from normalized-space matching must pass through RawIndex before it
// is used to locate a node.
type Flat struct {
	// Raw is the concatenated text leaf content.
	Raw string

	// Normalized is Raw with whitespace runs collapsed to single
	// spaces.
	Normalized string

	// normToRaw maps each byte index of Normalized to the byte index
	// in Raw it was produced from. A collapsed run maps to the run's
	// first byte. Strictly increasing.
	normToRaw []int
}

// Flatten walks the text leaves under root once and produces the raw
// text, the normalized text, and the offset mapping between them.
func Flatten(root *html.Node) *Flat {
	var raw, normalized strings.Builder
	var normToRaw []int

	base := 0
	inRun := false
	dom.WalkText(root, func(leaf *html.Node) bool {
		data := leaf.Data
		raw.WriteString(data)
		for i, r := range data {
			if isSpace(r) {
				if !inRun {
					normToRaw = append(normToRaw, base+i)
					normalized.WriteByte(' ')
					inRun = true
				}
				continue
			}
			inRun = false
			size := utf8.RuneLen(r)
			for k := 0; k < size; k++ {
				normToRaw = append(normToRaw, base+i+k)
			}
			normalized.WriteRune(r)
		}
		base += len(data)
		return true
	})

	return &Flat{
		Raw:        raw.String(),
		Normalized: normalized.String(),
		normToRaw:  normToRaw,
	}
}

// RawIndex converts a byte index into Normalized to the corresponding
// byte index into Raw. Indexes at or past the end of Normalized map
// to len(Raw).
func (f *Flat) RawIndex(normIndex int) int {
	if normIndex < 0 {
		return 0
	}
	if normIndex >= len(f.normToRaw) {
		return len(f.Raw)
	}
	return f.normToRaw[normIndex]
}

// NormIndex converts a byte index into Raw to the index of the first
// normalized byte at or after it.
func (f *Flat) NormIndex(rawIndex int) int {
	if rawIndex <= 0 {
		return 0
	}
	return sort.SearchInts(f.normToRaw, rawIndex)
}

// RawRange converts a half-open normalized byte range to the
// corresponding raw byte range.
func (f *Flat) RawRange(normStart, normEnd int) (int, int) {
	return f.RawIndex(normStart), f.RawIndex(normEnd)
}
