package members

import "errors"

var (
	// ErrNotFound means the requested member or row does not exist.
	ErrNotFound = errors.New("member not found")
	// ErrInvalidInput marks user-correctable payload problems.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedSection marks an unknown profile section name.
	ErrUnsupportedSection = errors.New("unsupported section")
)
