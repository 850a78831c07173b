// Copyright 2025 The Shapenet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix provides the dense float64 matrix used by shapenet networks.
//
// # Overview
//
// A Dense matrix owns a rows×cols grid of float64 values. Scalar and
// element-wise operations mutate the receiver; T, Map, Clone and MatMul
// return new matrices. Operations on mismatched shapes return
// ErrShapeMismatch and leave both operands untouched.
//
// # Basic Usage
//
//	import "github.com/shapenet-ml/shapenet/matrix"
//
//	a, _ := matrix.FromRows([][]float64{{1, 2}, {3, 4}})
//	b, _ := matrix.FromVector([]float64{5, 6})
//	c, err := a.MatMul(b) // 2x1
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.ScalarMul(0.5)
//	fmt.Println(c)
package matrix

import (
	"github.com/shapenet-ml/shapenet/internal/matrix"
)

// Dense is a row-major matrix of float64 values.
type Dense = matrix.Dense

// RandSource yields uniformly distributed float64 values in [0, 1).
// *math/rand.Rand satisfies it.
type RandSource = matrix.RandSource

// Errors.
var (
	// ErrShapeMismatch is returned when operand shapes are incompatible.
	ErrShapeMismatch = matrix.ErrShapeMismatch

	// ErrInvalidConstruction is returned for non-positive or ragged shapes.
	ErrInvalidConstruction = matrix.ErrInvalidConstruction

	// ErrOutOfRange is returned by Set for indices outside the matrix.
	ErrOutOfRange = matrix.ErrOutOfRange
)

// Zeros creates a rows×cols matrix of zeros.
func Zeros(rows, cols int) (*Dense, error) {
	return matrix.Zeros(rows, cols)
}

// Random creates a rows×cols matrix with values uniform in [-1, 1).
//
// Example:
//
//	m, err := matrix.Random(3, 2, rand.New(rand.NewSource(1)))
func Random(rows, cols int, src RandSource) (*Dense, error) {
	return matrix.Random(rows, cols, src)
}

// FromVector creates an n×1 column matrix holding a copy of values.
func FromVector(values []float64) (*Dense, error) {
	return matrix.FromVector(values)
}

// FromRows creates a matrix holding a copy of rows.
func FromRows(rows [][]float64) (*Dense, error) {
	return matrix.FromRows(rows)
}
