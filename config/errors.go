package config

import (
	"errors"
	"fmt"
)

// ErrInvalid marks any rejected configuration value. Use errors.Is to
// detect it regardless of which field failed.
var ErrInvalid = errors.New("invalid configuration")

// ValidationError reports a single rejected configuration value.
type ValidationError struct {
	// Field is the TOML key, environment variable, or JSON key the
	// value came from.
	Field string

	// Value is the rejected value.
	Value any

	// Reason describes what was expected.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap ties every validation failure to ErrInvalid.
func (e *ValidationError) Unwrap() error { return ErrInvalid }
