package fuzzy

import (
	"strings"
	"testing"
)

func TestSearchWithContextUniqueMatch(t *testing.T) {
	text := "only one target lives here"
	m := SearchWithContext(text, ContextQuery{
		Exact:     "target",
		Prefix:    "completely unrelated",
		Suffix:    "context strings",
		MaxErrors: 1,
		Hint:      -1,
	})

	if m == nil {
		t.Fatal("got nil, want the unique match")
	}
	if got := text[m.Start:m.End]; got != "target" {
		t.Errorf("matched %q, want %q", got, "target")
	}
}

func TestSearchWithContextDisambiguation(t *testing.T) {
	text := "alpha shared words beta then gamma shared words delta then epsilon shared words zeta"
	second := strings.Index(text, "gamma shared")

	m := SearchWithContext(text, ContextQuery{
		Exact:     "shared words",
		Prefix:    "gamma ",
		Suffix:    " delta",
		MaxErrors: 0,
		Hint:      -1,
	})

	if m == nil {
		t.Fatal("got nil, want a match")
	}
	if want := second + len("gamma "); m.Start != want {
		t.Errorf("match start = %d, want %d (the occurrence after gamma)", m.Start, want)
	}
}

func TestSearchWithContextFuzzyContext(t *testing.T) {
	// The stored prefix is misspelled relative to the page; the
	// nested fuzzy comparison must still prefer the right occurrence.
	text := "alpha shared words beta then gamma shared words delta"
	m := SearchWithContext(text, ContextQuery{
		Exact:     "shared words",
		Prefix:    "gamme ",
		Suffix:    " delte",
		MaxErrors: 0,
		Hint:      -1,
	})

	if m == nil {
		t.Fatal("got nil, want a match")
	}
	if want := strings.Index(text, "gamma shared") + len("gamma "); m.Start != want {
		t.Errorf("match start = %d, want %d", m.Start, want)
	}
}

func TestSearchWithContextHintTieBreak(t *testing.T) {
	text := "aa target bb target cc target dd"
	third := strings.LastIndex(text, "target")

	m := SearchWithContext(text, ContextQuery{
		Exact:     "target",
		MaxErrors: 0,
		Hint:      third + 1,
	})

	if m == nil {
		t.Fatal("got nil, want a match")
	}
	if m.Start != third {
		t.Errorf("match start = %d, want %d (nearest to hint)", m.Start, third)
	}
}

func TestSearchWithContextContextBeatsProximity(t *testing.T) {
	text := "alpha shared words beta then gamma shared words delta then epsilon shared words zeta"
	first := strings.Index(text, "shared words")
	last := strings.LastIndex(text, "shared words")

	// The hint points at the last occurrence, but the stored context
	// names the first; context agreement must win.
	m := SearchWithContext(text, ContextQuery{
		Exact:     "shared words",
		Prefix:    "alpha ",
		Suffix:    " beta",
		MaxErrors: 0,
		Hint:      last,
	})

	if m == nil {
		t.Fatal("got nil, want a match")
	}
	if m.Start != first {
		t.Errorf("match start = %d, want %d (context outweighs proximity)", m.Start, first)
	}
}

func TestSearchWithContextNoCandidates(t *testing.T) {
	if m := SearchWithContext("completely different content", ContextQuery{
		Exact:     "missing text",
		MaxErrors: 1,
		Hint:      -1,
	}); m != nil {
		t.Errorf("got %+v, want nil", m)
	}
}

func TestSearchWithContextEarliestOnTies(t *testing.T) {
	text := "xx target yy target zz"
	m := SearchWithContext(text, ContextQuery{
		Exact:     "target",
		MaxErrors: 0,
		Hint:      -1,
	})

	if m == nil {
		t.Fatal("got nil, want a match")
	}
	if want := strings.Index(text, "target"); m.Start != want {
		t.Errorf("match start = %d, want %d (earliest)", m.Start, want)
	}
}
