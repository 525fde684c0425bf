package doctext

import (
	"strings"
	"testing"

	"github.com/dshills/textmark/dom"
)

// navFixture reproduces indentation-heavy markup where raw and
// normalized offsets diverge sharply.
const navFixture = "<nav>\n    <ul>\n        <li><a>Home</a></li>\n        <li><a>Pricing</a></li>\n    </ul>\n</nav>"

func TestFlattenMapping(t *testing.T) {
	doc := mustParse(t, navFixture)
	nav := dom.ElementsByTag(doc.Root(), "nav")[0]

	flat := Flatten(nav)

	if flat.Raw != Extract(nav) {
		t.Error("Flat.Raw differs from Extract output")
	}
	if flat.Normalized != Normalize(flat.Raw) {
		t.Errorf("Flat.Normalized = %q, want %q", flat.Normalized, Normalize(flat.Raw))
	}

	// Every normalized index must map to a raw index holding a
	// compatible byte: identical for non-space, any whitespace for a
	// collapsed run.
	for i := 0; i < len(flat.Normalized); i++ {
		raw := flat.RawIndex(i)
		if raw < 0 || raw >= len(flat.Raw) {
			t.Fatalf("RawIndex(%d) = %d, out of range", i, raw)
		}
		nb := flat.Normalized[i]
		rb := flat.Raw[raw]
		if nb == ' ' {
			if rb != ' ' && rb != '\t' && rb != '\n' && rb != '\r' {
				t.Errorf("RawIndex(%d) = %d: %q is not whitespace", i, raw, rb)
			}
			continue
		}
		if nb != rb {
			t.Errorf("RawIndex(%d) = %d: normalized byte %q, raw byte %q", i, raw, nb, rb)
		}
	}
}

func TestFlattenLocatesTextInIndentedMarkup(t *testing.T) {
	doc := mustParse(t, navFixture)
	nav := dom.ElementsByTag(doc.Root(), "nav")[0]
	flat := Flatten(nav)

	normStart := strings.Index(flat.Normalized, "Pricing")
	if normStart < 0 {
		t.Fatal("normalized text does not contain the target")
	}
	rawStart, rawEnd := flat.RawRange(normStart, normStart+len("Pricing"))

	if got := flat.Raw[rawStart:rawEnd]; got != "Pricing" {
		t.Fatalf("raw range holds %q, want %q", got, "Pricing")
	}

	node, local, ok := NodeAt(nav, rawStart)
	if !ok {
		t.Fatal("NodeAt failed on mapped offset")
	}
	if node.Data != "Pricing" || local != 0 {
		t.Errorf("mapped offset landed at %q offset %d, want the Pricing leaf at 0", node.Data, local)
	}

	// Conflating normalized and raw offsets must land somewhere else;
	// this is precisely the bug the mapping exists to prevent.
	wrongNode, _, ok := NodeAt(nav, normStart)
	if ok && wrongNode == node {
		t.Error("unmapped offset accidentally landed on the target leaf; fixture no longer exercises the mapping")
	}
}

func TestFlattenMultibyte(t *testing.T) {
	doc := mustParse(t, "<p>aé\n\nb</p>") // é is two bytes
	p := dom.ElementsByTag(doc.Root(), "p")[0]
	flat := Flatten(p)

	if got, want := flat.Normalized, "aé b"; got != want {
		t.Fatalf("Normalized = %q, want %q", got, want)
	}
	// The collapsed run maps to its first raw byte.
	spaceNorm := strings.IndexByte(flat.Normalized, ' ')
	if raw := flat.RawIndex(spaceNorm); flat.Raw[raw] != '\n' {
		t.Errorf("collapsed run maps to raw byte %q, want the first newline", flat.Raw[raw])
	}
	// Indexes inside the multibyte rune track byte-for-byte.
	bNorm := strings.IndexByte(flat.Normalized, 'b')
	if raw := flat.RawIndex(bNorm); flat.Raw[raw] != 'b' {
		t.Errorf("RawIndex for b = %d, maps to %q", raw, flat.Raw[raw])
	}
}

func TestNormIndex(t *testing.T) {
	doc := mustParse(t, "<p>a\n\n\nb</p>")
	p := dom.ElementsByTag(doc.Root(), "p")[0]
	flat := Flatten(p)
	// Raw "a\n\n\nb" -> Normalized "a b"

	tests := []struct {
		raw  int
		want int
	}{
		{0, 0}, // a -> a
		{1, 1}, // first newline -> the space
		{2, 2}, // mid-run -> first normalized byte after the space
		{4, 2}, // b -> b
	}
	for _, tt := range tests {
		if got := flat.NormIndex(tt.raw); got != tt.want {
			t.Errorf("NormIndex(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}

	if got := flat.RawIndex(len(flat.Normalized)); got != len(flat.Raw) {
		t.Errorf("RawIndex(end) = %d, want %d", got, len(flat.Raw))
	}
}
