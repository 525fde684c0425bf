package textmark

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/textmark/selector"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []Highlight{
		{
			ID:       "h1",
			Selector: fullSelector(),
			Color:    "#ff0000",
			Metadata: map[string]string{"note": "first", "tag.v2": "dotted key"},
		},
		{
			ID:       "h2",
			Selector: selector.Selector{Quote: &selector.QuoteSelector{Exact: "gamma"}},
		},
	}

	data, err := EncodeHighlights(in)
	if err != nil {
		t.Fatalf("EncodeHighlights() error: %v", err)
	}
	out, err := DecodeHighlights(data)
	if err != nil {
		t.Fatalf("DecodeHighlights() error: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestEncodeHighlightOmitsEmptyFields(t *testing.T) {
	data, err := EncodeHighlight(Highlight{
		ID:       "h1",
		Selector: selector.Selector{Quote: &selector.QuoteSelector{Exact: "beta"}},
	})
	if err != nil {
		t.Fatalf("EncodeHighlight() error: %v", err)
	}

	if gjson.GetBytes(data, "color").Exists() {
		t.Error("payload carries an empty color")
	}
	if gjson.GetBytes(data, "metadata").Exists() {
		t.Error("payload carries empty metadata")
	}
	if got := gjson.GetBytes(data, "selector.quote.exact").String(); got != "beta" {
		t.Errorf("selector.quote.exact = %q, want %q", got, "beta")
	}
}

func TestEncodeHighlightRejectsEmptySelector(t *testing.T) {
	_, err := EncodeHighlight(Highlight{ID: "h1"})
	if !errors.Is(err, selector.ErrNoParts) {
		t.Errorf("EncodeHighlight() error = %v, want %v", err, selector.ErrNoParts)
	}
}

func TestDecodeHighlightsErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"invalid json", `[{`, "not valid JSON"},
		{"not an array", `{"id":"h1"}`, "not an array"},
		{"missing selector", `[{"id":"h1"}]`, "record 0: missing selector"},
		{"empty selector", `[{"id":"h1","selector":{}}]`, "record 0"},
		{"wrong field type", `[{"selector":{"position":{"start":"six","end":10}}}]`, "record 0"},
		{
			"second record bad",
			`[{"selector":{"quote":{"exact":"beta"}}},{"id":"h2"}]`,
			"record 1: missing selector",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHighlights([]byte(tt.payload))
			if err == nil {
				t.Fatal("DecodeHighlights() = nil error, want failure")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeHighlightsOptionalFields(t *testing.T) {
	payload := `[
		{"selector": {"quote": {"exact": "beta"}}},
		{
			"id": "h2",
			"selector": {"quote": {"exact": "gamma"}},
			"color": "#00ff00",
			"metadata": {"note": "kept"},
			"unknown": true
		},
		{"selector": {"quote": {"exact": "delta"}}, "metadata": "not an object"}
	]`

	out, err := DecodeHighlights([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeHighlights() error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("decoded %d records, want 3", len(out))
	}

	if out[0].ID != "" || out[0].Color != "" || out[0].Metadata != nil {
		t.Errorf("minimal record = %+v, want bare selector", out[0])
	}
	if out[1].ID != "h2" || out[1].Color != "#00ff00" {
		t.Errorf("full record = %+v, want id and color kept", out[1])
	}
	if got := out[1].Metadata["note"]; got != "kept" {
		t.Errorf("metadata note = %q, want %q", got, "kept")
	}
	if out[2].Metadata != nil {
		t.Errorf("non-object metadata decoded to %v, want nil", out[2].Metadata)
	}
}

func TestDecodeHighlightsEmptyArray(t *testing.T) {
	out, err := DecodeHighlights([]byte(`[]`))
	if err != nil {
		t.Fatalf("DecodeHighlights() error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("decoded %d records, want 0", len(out))
	}
}
