package textmark

import "errors"

// ErrManagerDestroyed is returned by operations on a destroyed
// manager.
var ErrManagerDestroyed = errors.New("manager destroyed")

// ErrDuplicateID is returned when creating a highlight under an id
// the manager already tracks.
var ErrDuplicateID = errors.New("duplicate highlight id")
