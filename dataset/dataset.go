// Copyright 2025 The Shapenet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides training data for shapenet networks.
//
// # Overview
//
// A Dataset is an immutable set of (input, target) examples. Loaders build
// datasets from XOR, image directories and MNIST IDX files; a Sampler draws
// random examples by index during training.
//
// # Basic Usage
//
//	data, err := dataset.LoadImages(ctx, []dataset.Class{
//	    {Label: "circle", Target: []float64{1, 0}, Pattern: "data/circle*.png"},
//	    {Label: "square", Target: []float64{0, 1}, Pattern: "data/square*.png"},
//	}, dataset.DefaultImageOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sampler := dataset.NewSampler(data, rand.New(rand.NewSource(1)))
//	ex := sampler.Next()
package dataset

import (
	"context"
	"io"

	"github.com/shapenet-ml/shapenet/internal/dataset"
)

// Example is one labeled training pair.
type Example = dataset.Example

// Dataset holds examples with consistent input and target sizes.
type Dataset = dataset.Dataset

// Sampler draws examples uniformly at random by index.
type Sampler = dataset.Sampler

// IntSource yields uniformly distributed ints in [0, n).
type IntSource = dataset.IntSource

// Class describes one labeled group of image files.
type Class = dataset.Class

// ImageOptions controls image decoding.
type ImageOptions = dataset.ImageOptions

// Errors.
var (
	ErrEmpty               = dataset.ErrEmpty
	ErrInconsistentExample = dataset.ErrInconsistentExample
	ErrNoFiles             = dataset.ErrNoFiles
	ErrInvalidMagic        = dataset.ErrInvalidMagic
	ErrInvalidHeader       = dataset.ErrInvalidHeader
)

// New creates a Dataset from examples.
func New(examples []Example) (*Dataset, error) {
	return dataset.New(examples)
}

// NewSampler creates a Sampler over data driven by rng.
func NewSampler(data *Dataset, rng IntSource) *Sampler {
	return dataset.NewSampler(data, rng)
}

// XOR returns the four XOR examples.
func XOR() *Dataset {
	return dataset.XOR()
}

// DefaultImageOptions keeps decoded sizes and decodes on all CPUs.
func DefaultImageOptions() ImageOptions {
	return dataset.DefaultImageOptions()
}

// LoadImages decodes image files into (R+G+B)/765 per-pixel features.
func LoadImages(ctx context.Context, classes []Class, opts ImageOptions) (*Dataset, error) {
	return dataset.LoadImages(ctx, classes, opts)
}

// LoadImage decodes a single image file like LoadImages.
func LoadImage(path string, width, height int) ([]float64, error) {
	return dataset.LoadImage(path, width, height)
}

// LoadIDX loads an MNIST-style pair of IDX files.
func LoadIDX(imagesPath, labelsPath string, maxSamples int) (*Dataset, error) {
	return dataset.LoadIDX(imagesPath, labelsPath, maxSamples)
}

// ReadIDX is LoadIDX over already opened readers.
func ReadIDX(images, labels io.Reader, maxSamples int) (*Dataset, error) {
	return dataset.ReadIDX(images, labels, maxSamples)
}
