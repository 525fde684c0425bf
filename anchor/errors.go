package anchor

import (
	"errors"
	"fmt"
)

// Sentinel errors for selector description failures.
var (
	// ErrCollapsedRange indicates the range has zero width.
	ErrCollapsedRange = errors.New("range is collapsed")

	// ErrEmptyText indicates the range contains no visible text.
	ErrEmptyText = errors.New("range contains no text")

	// ErrOutsideRoot indicates the range endpoints are not inside the
	// tree being described.
	ErrOutsideRoot = errors.New("range is outside the root")
)

// DescribeError reports why a range could not be serialized into a
// selector.
type DescribeError struct {
	Reason string
	Err    error
}

func (e *DescribeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("describe: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("describe: %s", e.Reason)
}

func (e *DescribeError) Unwrap() error {
	return e.Err
}

func describeErr(reason string, err error) *DescribeError {
	return &DescribeError{Reason: reason, Err: err}
}
