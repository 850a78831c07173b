package matrix

import "fmt"

// Zeros creates a rows×cols matrix filled with zeros.
//
// Example:
//
//	m, err := matrix.Zeros(3, 4)
func Zeros(rows, cols int) (*Dense, error) {
	if err := validateDims(rows, cols); err != nil {
		return nil, err
	}

	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	return &Dense{rows: rows, cols: cols, data: data}, nil
}

// Random creates a rows×cols matrix whose entries are drawn independently and
// uniformly from [-1, 1) using src.
//
// Entries are filled row by row, so a seeded source always yields the same
// matrix.
//
// Example:
//
//	src := rand.New(rand.NewSource(42))
//	w, err := matrix.Random(256, 4096, src)
func Random(rows, cols int, src RandSource) (*Dense, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConstruction)
	}
	m, err := Zeros(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		for j := range m.data[i] {
			m.data[i][j] = src.Float64()*2.0 - 1.0
		}
	}
	return m, nil
}

// FromVector creates a column matrix of shape (len(values), 1).
// The values are copied.
func FromVector(values []float64) (*Dense, error) {
	m, err := Zeros(len(values), 1)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		m.data[i][0] = v
	}
	return m, nil
}

// FromRows creates a matrix from row data, inferring the shape as
// (len(rows), len(rows[0])). Every row must have the same length.
// The data is copied.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidConstruction)
	}
	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, row 0 has %d",
				ErrInvalidConstruction, i, len(row), cols)
		}
	}
	if err := validateDims(len(rows), cols); err != nil {
		return nil, err
	}
	return &Dense{rows: len(rows), cols: cols, data: copyRows(rows)}, nil
}

// validateDims checks that both dimensions are positive.
func validateDims(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d (must be > 0)", ErrInvalidConstruction, rows, cols)
	}
	return nil
}
