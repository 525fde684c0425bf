package selector

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Marshal encodes a selector as JSON. Parts that are nil are omitted
// from the payload; an entirely empty selector is an error.
func Marshal(s Selector) ([]byte, error) {
	if s.Empty() {
		return nil, ErrNoParts
	}
	out := []byte(`{}`)
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	if p := s.Path; p != nil {
		set("path.start.path", p.Start.Path)
		set("path.start.offset", p.Start.Offset)
		set("path.end.path", p.End.Path)
		set("path.end.offset", p.End.Offset)
	}
	if p := s.Position; p != nil {
		set("position.start", p.Start)
		set("position.end", p.End)
	}
	if q := s.Quote; q != nil {
		set("quote.exact", q.Exact)
		set("quote.prefix", q.Prefix)
		set("quote.suffix", q.Suffix)
	}
	if err != nil {
		return nil, fmt.Errorf("encode selector: %w", err)
	}
	return out, nil
}

// Unmarshal decodes a selector payload. Absent parts stay nil,
// unknown fields are ignored, and fields of the wrong type are
// reported as a ParseError.
func Unmarshal(data []byte) (Selector, error) {
	if !gjson.ValidBytes(data) {
		return Selector{}, &ParseError{Field: "selector", Reason: "payload is not valid JSON"}
	}
	root := gjson.ParseBytes(data)
	var sel Selector

	if part := root.Get("path"); part.Exists() {
		p := &PathSelector{}
		var err error
		if p.Start.Path, err = stringField(part, "start.path"); err != nil {
			return Selector{}, err
		}
		if p.Start.Offset, err = intField(part, "start.offset"); err != nil {
			return Selector{}, err
		}
		if p.End.Path, err = stringField(part, "end.path"); err != nil {
			return Selector{}, err
		}
		if p.End.Offset, err = intField(part, "end.offset"); err != nil {
			return Selector{}, err
		}
		sel.Path = p
	}

	if part := root.Get("position"); part.Exists() {
		p := &PositionSelector{}
		var err error
		if p.Start, err = intField(part, "start"); err != nil {
			return Selector{}, err
		}
		if p.End, err = intField(part, "end"); err != nil {
			return Selector{}, err
		}
		sel.Position = p
	}

	if part := root.Get("quote"); part.Exists() {
		q := &QuoteSelector{}
		var err error
		if q.Exact, err = stringField(part, "exact"); err != nil {
			return Selector{}, err
		}
		if q.Prefix, err = stringField(part, "prefix"); err != nil {
			return Selector{}, err
		}
		if q.Suffix, err = stringField(part, "suffix"); err != nil {
			return Selector{}, err
		}
		sel.Quote = q
	}

	return sel, nil
}

// stringField reads an optional string field; a missing field is the
// empty string.
func stringField(part gjson.Result, path string) (string, error) {
	v := part.Get(path)
	if !v.Exists() {
		return "", nil
	}
	if v.Type != gjson.String {
		return "", &ParseError{Field: path, Reason: "expected a string"}
	}
	return v.String(), nil
}

// intField reads an optional integer field; a missing field is zero.
func intField(part gjson.Result, path string) (int, error) {
	v := part.Get(path)
	if !v.Exists() {
		return 0, nil
	}
	if v.Type != gjson.Number {
		return 0, &ParseError{Field: path, Reason: "expected a number"}
	}
	return int(v.Int()), nil
}
