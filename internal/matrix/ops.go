package matrix

import "fmt"

// ScalarAdd adds n to every entry in place.
func (m *Dense) ScalarAdd(n float64) {
	for _, row := range m.data {
		for j := range row {
			row[j] += n
		}
	}
}

// ScalarSub subtracts n from every entry in place.
func (m *Dense) ScalarSub(n float64) {
	m.ScalarAdd(-n)
}

// ScalarMul multiplies every entry by n in place.
func (m *Dense) ScalarMul(n float64) {
	for _, row := range m.data {
		for j := range row {
			row[j] *= n
		}
	}
}

// ScalarDiv divides every entry by n in place.
// Division by zero follows IEEE 754 (±Inf or NaN).
func (m *Dense) ScalarDiv(n float64) {
	for _, row := range m.data {
		for j := range row {
			row[j] /= n
		}
	}
}

// Add performs element-wise m += other.
//
// Returns ErrShapeMismatch (and leaves m unchanged) if the shapes differ.
func (m *Dense) Add(other *Dense) error {
	return m.elementwise("add", other, func(a, b float64) float64 { return a + b })
}

// Sub performs element-wise m -= other.
func (m *Dense) Sub(other *Dense) error {
	return m.elementwise("sub", other, func(a, b float64) float64 { return a - b })
}

// MulElem performs the Hadamard product m ⊙= other.
func (m *Dense) MulElem(other *Dense) error {
	return m.elementwise("mul", other, func(a, b float64) float64 { return a * b })
}

// DivElem performs element-wise m /= other.
// Zero entries in other are not special-cased.
func (m *Dense) DivElem(other *Dense) error {
	return m.elementwise("div", other, func(a, b float64) float64 { return a / b })
}

func (m *Dense) elementwise(op string, other *Dense, f func(a, b float64) float64) error {
	if other == nil {
		return fmt.Errorf("%w: %s with nil operand", ErrShapeMismatch, op)
	}
	if !m.SameShape(other) {
		return fmt.Errorf("%w: %s %dx%d and %dx%d", ErrShapeMismatch, op, m.rows, m.cols, other.rows, other.cols)
	}
	for i, row := range m.data {
		src := other.data[i]
		for j := range row {
			row[j] = f(row[j], src[j])
		}
	}
	return nil
}

// T returns the transpose of m as a new (cols, rows) matrix. m is not modified.
func (m *Dense) T() *Dense {
	data := make([][]float64, m.cols)
	for j := range data {
		data[j] = make([]float64, m.rows)
		for i := 0; i < m.rows; i++ {
			data[j][i] = m.data[i][j]
		}
	}
	return &Dense{rows: m.cols, cols: m.rows, data: data}
}

// TransposeInPlace replaces m with its transpose, swapping rows and cols.
func (m *Dense) TransposeInPlace() {
	t := m.T()
	m.rows, m.cols, m.data = t.rows, t.cols, t.data
}

// MatMul returns the matrix product m × other.
//
// Requirements: m.Cols() == other.Rows(); the result has shape
// (m.Rows(), other.Cols()).
//
// Sums are accumulated row by row, column by column, with the inner index
// last, so results are reproducible bit for bit.
//
// Example:
//
//	a, _ := matrix.FromRows([][]float64{{1, 2, 3}, {3, 2, 1}})
//	b, _ := matrix.FromRows([][]float64{{1, 2}, {3, 2}, {2, 7}})
//	c, _ := a.MatMul(b) // [[13 27] [11 17]]
func (m *Dense) MatMul(other *Dense) (*Dense, error) {
	if other == nil {
		return nil, fmt.Errorf("%w: matmul with nil operand", ErrShapeMismatch)
	}
	if m.cols != other.rows {
		return nil, fmt.Errorf("%w: matmul %dx%d by %dx%d", ErrShapeMismatch, m.rows, m.cols, other.rows, other.cols)
	}

	out, err := Zeros(m.rows, other.cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.rows; i++ {
		left := m.data[i]
		for j := 0; j < other.cols; j++ {
			var sum float64
			for k := 0; k < m.cols; k++ {
				sum += left[k] * other.data[k][j]
			}
			out.data[i][j] = sum
		}
	}
	return out, nil
}

// Map returns a new matrix with f applied to every entry. m is not modified.
func (m *Dense) Map(f func(float64) float64) *Dense {
	out := m.Clone()
	out.Apply(f)
	return out
}

// Apply replaces every entry x of m with f(x).
func (m *Dense) Apply(f func(float64) float64) {
	for _, row := range m.data {
		for j := range row {
			row[j] = f(row[j])
		}
	}
}
