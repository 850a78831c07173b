// Package dataset assembles labeled feature vectors for training.
//
// A Dataset is an immutable arena of examples. Training draws examples by
// index through a Sampler, so the data is never copied per step.
//
// Loaders:
//   - XOR: the four XOR pairs
//   - LoadImages: image files → per-pixel (R+G+B)/765 intensities
//   - LoadIDX: MNIST IDX files → pixels/255 with one-hot targets
package dataset

import (
	"fmt"
	"math/rand"
)

// Example is one labeled training pair.
//
// Input and Target are shared with the Dataset and must not be modified.
type Example struct {
	Input  []float64
	Target []float64
	Label  string // Optional human-readable class name
}

// Dataset holds examples whose inputs and targets all have the same lengths.
type Dataset struct {
	examples   []Example
	inputSize  int
	targetSize int
}

// New creates a Dataset from examples.
//
// Returns ErrEmpty for no examples and ErrInconsistentExample if input or
// target lengths differ between examples or are zero.
func New(examples []Example) (*Dataset, error) {
	if len(examples) == 0 {
		return nil, ErrEmpty
	}
	in, out := len(examples[0].Input), len(examples[0].Target)
	if in == 0 || out == 0 {
		return nil, fmt.Errorf("%w: example 0 has input %d, target %d", ErrInconsistentExample, in, out)
	}
	for i, ex := range examples {
		if len(ex.Input) != in || len(ex.Target) != out {
			return nil, fmt.Errorf("%w: example %d has input %d, target %d; want %d, %d",
				ErrInconsistentExample, i, len(ex.Input), len(ex.Target), in, out)
		}
	}

	owned := make([]Example, len(examples))
	copy(owned, examples)
	return &Dataset{
		examples:   owned,
		inputSize:  in,
		targetSize: out,
	}, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.examples)
}

// At returns the i-th example.
func (d *Dataset) At(i int) Example {
	return d.examples[i]
}

// InputSize returns the length of every input vector.
func (d *Dataset) InputSize() int {
	return d.inputSize
}

// TargetSize returns the length of every target vector.
func (d *Dataset) TargetSize() int {
	return d.targetSize
}

// Split shuffles the example order with rng and returns (train, holdout),
// where holdout receives round(fraction*Len) examples. Both parts keep at
// least one example.
func (d *Dataset) Split(fraction float64, rng *rand.Rand) (*Dataset, *Dataset, error) {
	if d.Len() < 2 {
		return nil, nil, fmt.Errorf("split: need at least 2 examples, have %d", d.Len())
	}
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("split: fraction must be in (0, 1), got %g", fraction)
	}

	n := d.Len()
	holdout := int(fraction*float64(n) + 0.5)
	holdout = max(1, min(holdout, n-1))

	perm := rng.Perm(n)
	a := make([]Example, 0, n-holdout)
	b := make([]Example, 0, holdout)
	for i, idx := range perm {
		if i < n-holdout {
			a = append(a, d.examples[idx])
		} else {
			b = append(b, d.examples[idx])
		}
	}
	return &Dataset{examples: a, inputSize: d.inputSize, targetSize: d.targetSize},
		&Dataset{examples: b, inputSize: d.inputSize, targetSize: d.targetSize}, nil
}
