package resumes

import "errors"

var (
	// ErrValidation marks user-correctable input problems.
	ErrValidation = errors.New("validation failed")
	// ErrStorage marks object store failures.
	ErrStorage = errors.New("storage failed")
)
