// Package matrix implements the dense 2-D float64 matrix used by the network.
//
// This package provides:
//   - Dense: a row-sliced matrix that exclusively owns its data
//   - Constructors: Zeros, Random, FromVector, FromRows
//   - In-place scalar and element-wise arithmetic
//   - Transpose, matrix product and element-wise function mapping
//
// Every shape-checked operation returns ErrShapeMismatch instead of truncating
// or producing a wrongly shaped result, and leaves its operands untouched when
// it fails.
//
// Example usage:
//
//	w, _ := matrix.Random(3, 2, rand.New(rand.NewSource(1)))
//	x, _ := matrix.FromVector([]float64{0.5, 1})
//	y, err := w.MatMul(x) // shape (3, 1)
//	if err != nil {
//	    return err
//	}
//	y.Apply(sigmoid)
package matrix

import (
	"fmt"
	"strconv"
	"strings"
)

// Dense is a rows×cols matrix of float64 values stored row by row.
//
// The zero value is not usable; build matrices with one of the constructors.
// A Dense never shares row storage with another Dense or with caller slices.
type Dense struct {
	rows int
	cols int
	data [][]float64
}

// RandSource yields uniformly distributed values in [0, 1).
// *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Rows returns the number of rows.
func (m *Dense) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Dense) Cols() int {
	return m.cols
}

// Dims returns (rows, cols).
func (m *Dense) Dims() (int, int) {
	return m.rows, m.cols
}

// SameShape reports whether m and other have identical dimensions.
func (m *Dense) SameShape(other *Dense) bool {
	return other != nil && m.rows == other.rows && m.cols == other.cols
}

// At returns the element at row i, column j.
// It panics on out-of-range indices like a slice access would.
func (m *Dense) At(i, j int) float64 {
	return m.data[i][j]
}

// Set assigns v at row i, column j.
func (m *Dense) Set(i, j int, v float64) error {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, i, j, m.rows, m.cols)
	}
	m.data[i][j] = v
	return nil
}

// Clone returns a deep copy of m.
func (m *Dense) Clone() *Dense {
	return &Dense{
		rows: m.rows,
		cols: m.cols,
		data: copyRows(m.data),
	}
}

// RawRows returns a deep copy of the row data, suitable for persistence.
func (m *Dense) RawRows() [][]float64 {
	return copyRows(m.data)
}

// ToSlice returns the entries in row-major order.
func (m *Dense) ToSlice() []float64 {
	out := make([]float64, 0, m.rows*m.cols)
	for _, row := range m.data {
		out = append(out, row...)
	}
	return out
}

// Equal reports whether m and other have the same shape and bit-identical values.
func (m *Dense) Equal(other *Dense) bool {
	if !m.SameShape(other) {
		return false
	}
	for i := range m.data {
		for j := range m.data[i] {
			if m.data[i][j] != other.data[i][j] {
				return false
			}
		}
	}
	return true
}

// EqualApprox reports whether m and other have the same shape and every pair
// of entries differs by at most eps.
func (m *Dense) EqualApprox(other *Dense, eps float64) bool {
	if !m.SameShape(other) {
		return false
	}
	for i := range m.data {
		for j := range m.data[i] {
			d := m.data[i][j] - other.data[i][j]
			if d < -eps || d > eps {
				return false
			}
		}
	}
	return true
}

// String renders the matrix as tab-separated rows, one per line.
func (m *Dense) String() string {
	var sb strings.Builder
	for _, row := range m.data {
		for j, v := range row {
			if j > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func copyRows(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}
