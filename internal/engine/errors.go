package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrOutOfRange indicates an offset outside [0, N] or a range with start > end.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidArgument indicates a missing or malformed argument, such as a nil
	// replacement, an unknown policy or an observer that is not registered.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates an operation on a tag that must be attached.
	ErrNotFound = errors.New("not found")

	// ErrDepthExceeded indicates a reentrant splice went past the configured
	// maximum nesting depth.
	ErrDepthExceeded = errors.New("splice nesting depth exceeded")
)
