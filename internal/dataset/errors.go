package dataset

import "errors"

// Common errors.
var (
	ErrEmpty               = errors.New("dataset: no examples")
	ErrInconsistentExample = errors.New("dataset: inconsistent example size")
	ErrNoFiles             = errors.New("dataset: pattern matched no files")
	ErrInvalidMagic        = errors.New("dataset: invalid IDX magic number")
	ErrInvalidHeader       = errors.New("dataset: invalid IDX header")
)
