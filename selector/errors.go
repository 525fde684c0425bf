package selector

import (
	"errors"
	"fmt"
)

// ErrNoParts indicates a selector with no path, position, or quote
// part.
var ErrNoParts = errors.New("selector has no parts")

// ParseError describes a selector payload field that could not be
// decoded.
type ParseError struct {
	Field  string
	Reason string
	Err    error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("selector field %q: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("selector field %q: %s", e.Field, e.Reason)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
