// Package pageio reads HTML documents from disk and watches them for
// edits, so an embedding host can drive re-anchoring from file
// changes the same way a live page drives it from tree mutations.
package pageio

import (
	"fmt"
	"os"

	"github.com/dshills/textmark/dom"
)

// LoadError reports a failure to read or parse a page file.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load page %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// Open parses the HTML document at path.
func Open(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return doc, nil
}
