package dataset

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"

	// Extra formats for imaging.Open beyond the standard library decoders.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/shapenet-ml/shapenet/internal/parallel"
)

// Class describes one labeled group of image files.
type Class struct {
	Label   string    // Class name, copied to every Example
	Target  []float64 // Target vector for every image of the class
	Pattern string    // Glob selecting the class's files (filepath.Glob syntax)
}

// ImageOptions controls image decoding.
type ImageOptions struct {
	// Width and Height resize every image before feature extraction.
	// Zero keeps the decoded size, in which case all images must already
	// have the same dimensions.
	Width  int
	Height int

	// Parallel controls the decode worker pool.
	Parallel parallel.Config
}

// DefaultImageOptions returns options that keep the decoded size and decode
// on all CPUs.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{Parallel: parallel.DefaultConfig()}
}

type imageJob struct {
	path  string
	class int
}

// LoadImages decodes every file matched by the classes' patterns into an
// Example whose input holds one (R+G+B)/765 intensity per pixel, row-major.
//
// Files are decoded concurrently. Every file is attempted; the returned error
// combines all per-file failures.
//
// Example:
//
//	data, err := dataset.LoadImages(ctx, []dataset.Class{
//	    {Label: "circle", Target: []float64{1}, Pattern: "data/circles/*.png"},
//	    {Label: "square", Target: []float64{0}, Pattern: "data/squares/*.png"},
//	}, dataset.DefaultImageOptions())
func LoadImages(ctx context.Context, classes []Class, opts ImageOptions) (*Dataset, error) {
	if (opts.Width == 0) != (opts.Height == 0) || opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("load images: invalid resize %dx%d", opts.Width, opts.Height)
	}

	var jobs []imageJob
	for ci, c := range classes {
		matches, err := filepath.Glob(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("load images: class %q: %w", c.Label, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: class %q pattern %q", ErrNoFiles, c.Label, c.Pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			jobs = append(jobs, imageJob{path: m, class: ci})
		}
	}
	if len(jobs) == 0 {
		return nil, ErrEmpty
	}

	inputs, err := parallel.Map(ctx, len(jobs), func(i int) ([]float64, error) {
		return imageFeatures(jobs[i].path, opts.Width, opts.Height)
	}, opts.Parallel)
	if err != nil {
		return nil, fmt.Errorf("load images: %d of %d files failed: %w",
			len(multierr.Errors(err)), len(jobs), err)
	}

	examples := make([]Example, len(jobs))
	for i, j := range jobs {
		c := classes[j.class]
		examples[i] = Example{Input: inputs[i], Target: c.Target, Label: c.Label}
	}
	return New(examples)
}

// LoadImage decodes a single file the same way LoadImages does.
func LoadImage(path string, width, height int) ([]float64, error) {
	return imageFeatures(path, width, height)
}

func imageFeatures(path string, width, height int) ([]float64, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Features(img, width, height), nil
}

// Features converts img into per-pixel (R+G+B)/765 intensities in [0, 1],
// row by row. When width and height are positive the image is first resized
// with a Lanczos filter. Alpha is ignored.
func Features(img image.Image, width, height int) []float64 {
	var nrgba *image.NRGBA
	if width > 0 && height > 0 {
		nrgba = imaging.Resize(img, width, height, imaging.Lanczos)
	} else {
		nrgba = imaging.Clone(img)
	}

	b := nrgba.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			sum := int(row[x]) + int(row[x+1]) + int(row[x+2])
			out = append(out, float64(sum)/765.0)
		}
	}
	return out
}
