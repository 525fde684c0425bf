package textmark

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/textmark/selector"
)

// DecodeHighlights parses a stored JSON array of highlights, the
// payload EncodeHighlights produces. Every record needs a valid
// selector; id, color, and metadata are optional.
func DecodeHighlights(data []byte) ([]Highlight, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode highlights: payload is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("decode highlights: payload is not an array")
	}
	records := root.Array()
	out := make([]Highlight, 0, len(records))
	for i, rec := range records {
		selPart := rec.Get("selector")
		if !selPart.Exists() {
			return nil, fmt.Errorf("decode highlights: record %d: missing selector", i)
		}
		sel, err := selector.Unmarshal([]byte(selPart.Raw))
		if err != nil {
			return nil, fmt.Errorf("decode highlights: record %d: %w", i, err)
		}
		if err := sel.Validate(); err != nil {
			return nil, fmt.Errorf("decode highlights: record %d: %w", i, err)
		}
		h := Highlight{
			ID:       rec.Get("id").String(),
			Selector: sel,
			Color:    rec.Get("color").String(),
		}
		if meta := rec.Get("metadata"); meta.IsObject() {
			h.Metadata = make(map[string]string)
			meta.ForEach(func(k, v gjson.Result) bool {
				h.Metadata[k.String()] = v.String()
				return true
			})
		}
		out = append(out, h)
	}
	return out, nil
}

// EncodeHighlight encodes one highlight as JSON. Color and metadata
// are omitted when empty.
func EncodeHighlight(h Highlight) ([]byte, error) {
	selJSON, err := selector.Marshal(h.Selector)
	if err != nil {
		return nil, fmt.Errorf("encode highlight %s: %w", h.ID, err)
	}
	out := []byte(`{}`)

	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	set("id", h.ID)
	if err == nil {
		out, err = sjson.SetRawBytes(out, "selector", selJSON)
	}
	if h.Color != "" {
		set("color", h.Color)
	}
	if len(h.Metadata) > 0 {
		set("metadata", h.Metadata)
	}
	if err != nil {
		return nil, fmt.Errorf("encode highlight %s: %w", h.ID, err)
	}
	return out, nil
}

// EncodeHighlights encodes a set of highlights as the JSON array
// DecodeHighlights accepts.
func EncodeHighlights(highlights []Highlight) ([]byte, error) {
	out := []byte(`[]`)
	for _, h := range highlights {
		item, err := EncodeHighlight(h)
		if err != nil {
			return nil, err
		}
		appended, err := sjson.SetRawBytes(out, "-1", item)
		if err != nil {
			return nil, fmt.Errorf("encode highlights: %w", err)
		}
		out = appended
	}
	return out, nil
}
