package matrix

import "errors"

// Common errors.
//
// Operations wrap these with the offending shapes; match them with errors.Is.
var (
	// ErrShapeMismatch is returned when operand shapes are incompatible:
	// element-wise ops on different shapes, or MatMul with a.Cols != b.Rows.
	ErrShapeMismatch = errors.New("matrix: shape mismatch")

	// ErrInvalidConstruction is returned when a constructor is asked for a
	// non-positive dimension or is given ragged rows.
	ErrInvalidConstruction = errors.New("matrix: invalid construction")

	// ErrOutOfRange is returned by Set for indices outside the matrix.
	ErrOutOfRange = errors.New("matrix: index out of range")
)
