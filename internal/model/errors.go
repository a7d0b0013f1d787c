package model

import "errors"

// Sentinel errors. Components wrap them with fmt.Errorf("...: %w") so callers
// can branch with errors.Is.
var (
	// ErrInvalidInput indicates a rejected argument, e.g. an empty keyword
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates an operation that needs a prior search
	ErrInvalidState = errors.New("invalid state")

	// ErrNotFound indicates an URL that is not part of the current results
	ErrNotFound = errors.New("not found")

	// ErrNetworkFailure indicates a failed search or image request
	ErrNetworkFailure = errors.New("network failure")

	// ErrIO indicates a failed credential or file write
	ErrIO = errors.New("i/o error")
)
