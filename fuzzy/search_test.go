package fuzzy

import (
	"strings"
	"testing"
)

func TestSearchExact(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog."
	matches := Search(text, "brown fox", 2)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Errors != 0 {
		t.Errorf("errors = %d, want 0", m.Errors)
	}
	if got := text[m.Start:m.End]; got != "brown fox" {
		t.Errorf("matched %q, want %q", got, "brown fox")
	}
}

func TestSearchSubstitution(t *testing.T) {
	text := "The quick brovn fox jumps over the lazy dog."
	matches := Search(text, "brown fox", 2)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Errors != 1 {
		t.Errorf("errors = %d, want 1", m.Errors)
	}
	if got := text[m.Start:m.End]; !strings.Contains(got, "brovn fox") {
		t.Errorf("matched %q, want it to contain %q", got, "brovn fox")
	}
}

func TestSearchEdits(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		pattern   string
		maxErrors int
		wantCount int
		wantErrs  int
	}{
		{"deletion in text", "the qick fox", "quick", 2, 1, 1},
		{"insertion in text", "the quuick fox", "quick", 2, 1, 1},
		{"two substitutions", "the qXicY fox", "quick", 2, 1, 2},
		{"beyond budget", "the zzzzz fox", "quick", 2, 0, 0},
		{"zero budget exact", "the quick fox", "quick", 0, 1, 0},
		{"zero budget miss", "the qick fox", "quick", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := Search(tt.text, tt.pattern, tt.maxErrors)
			if len(matches) != tt.wantCount {
				t.Fatalf("got %d matches (%v), want %d", len(matches), matches, tt.wantCount)
			}
			if tt.wantCount > 0 && matches[0].Errors != tt.wantErrs {
				t.Errorf("errors = %d, want %d", matches[0].Errors, tt.wantErrs)
			}
		})
	}
}

func TestSearchMultipleOccurrences(t *testing.T) {
	text := "aa target bb target cc"
	matches := Search(text, "target", 0)

	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Start != 3 || matches[1].Start != 13 {
		t.Errorf("starts = %d, %d; want 3, 13", matches[0].Start, matches[1].Start)
	}
}

func TestSearchBestFirstOrdering(t *testing.T) {
	// One exact occurrence and one single-error occurrence; the exact
	// one must rank first even though it starts later.
	text := "the targXt ok then target again"
	matches := Search(text, "target", 1)

	if len(matches) != 2 {
		t.Fatalf("got %d matches (%v), want 2", len(matches), matches)
	}
	if matches[0].Errors != 0 || matches[1].Errors != 1 {
		t.Errorf("error order = %d, %d; want 0, 1", matches[0].Errors, matches[1].Errors)
	}
	if text[matches[0].Start:matches[0].End] != "target" {
		t.Errorf("best match = %q, want the exact occurrence", text[matches[0].Start:matches[0].End])
	}
}

func TestSearchOverlapCollapse(t *testing.T) {
	// Around an exact occurrence the alignment also matches with one
	// trailing insertion or deletion; those overlapping variants must
	// collapse to the single best span.
	text := "xx abcdef yy"
	matches := Search(text, "abcdef", 2)

	if len(matches) != 1 {
		t.Fatalf("got %d matches (%v), want 1", len(matches), matches)
	}
	if got := text[matches[0].Start:matches[0].End]; got != "abcdef" {
		t.Errorf("matched %q, want %q", got, "abcdef")
	}
	if matches[0].Errors != 0 {
		t.Errorf("errors = %d, want 0", matches[0].Errors)
	}
}

func TestSearchEmptyInputs(t *testing.T) {
	if m := Search("", "pattern", 2); m != nil {
		t.Errorf("Search on empty text = %v, want nil", m)
	}
	if m := Search("text", "", 2); m != nil {
		t.Errorf("Search with empty pattern = %v, want nil", m)
	}
}

func TestSearchMultibyte(t *testing.T) {
	text := "le café est ouvert"
	matches := Search(text, "café", 1)

	if len(matches) == 0 {
		t.Fatal("no match for multibyte pattern")
	}
	if got := text[matches[0].Start:matches[0].End]; got != "café" {
		t.Errorf("matched %q, want %q", got, "café")
	}
}

func TestMatchScore(t *testing.T) {
	if got := (Match{Errors: 0}).Score(); got != 100 {
		t.Errorf("Score with 0 errors = %v, want 100", got)
	}
	if got := (Match{Errors: 3}).Score(); got != 70 {
		t.Errorf("Score with 3 errors = %v, want 70", got)
	}
}

func TestRecommendedMaxErrors(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 2},
		{5, 2},
		{20, 2},
		{25, 3},
		{100, 10},
		{199, 20},
		{500, 20},
	}

	for _, tt := range tests {
		if got := RecommendedMaxErrors(tt.n); got != tt.want {
			t.Errorf("RecommendedMaxErrors(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
