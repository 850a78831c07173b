package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
)

// IDX magic numbers.
const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
	idxClasses     = 10

	// Header limits. MNIST has 70000 samples of 28x28 pixels.
	maxIDXSamples     = 1 << 24
	maxIDXImagePixels = 1 << 20
)

// LoadIDX loads an MNIST-style pair of IDX files.
//
// Pixels are scaled to [0, 1] by dividing by 255 and labels become one-hot
// targets over 10 classes. maxSamples <= 0 loads every sample.
func LoadIDX(imagesPath, labelsPath string, maxSamples int) (*Dataset, error) {
	imgFile, err := os.Open(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("load idx images: %w", err)
	}
	defer imgFile.Close()

	lblFile, err := os.Open(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("load idx labels: %w", err)
	}
	defer lblFile.Close()

	return ReadIDX(imgFile, lblFile, maxSamples)
}

// ReadIDX is LoadIDX over already opened readers.
//
// Both headers are read first; the sample counts must agree and only the
// first maxSamples records of each file are read.
func ReadIDX(images, labels io.Reader, maxSamples int) (*Dataset, error) {
	numImages, imageSize, err := readIDXImagesHeader(images)
	if err != nil {
		return nil, fmt.Errorf("read idx images: %w", err)
	}
	numLabels, err := readIDXLabelsHeader(labels)
	if err != nil {
		return nil, fmt.Errorf("read idx labels: %w", err)
	}
	if numImages != numLabels {
		return nil, fmt.Errorf("%w: %d images but %d labels", ErrInconsistentExample, numImages, numLabels)
	}

	n := numImages
	if maxSamples > 0 && maxSamples < n {
		n = maxSamples
	}

	lbls := make([]byte, n)
	if _, err := io.ReadFull(labels, lbls); err != nil {
		return nil, fmt.Errorf("read idx labels: %w", err)
	}

	pixels := make([]byte, imageSize)
	examples := make([]Example, 0, n)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(images, pixels); err != nil {
			return nil, fmt.Errorf("read idx images: image %d: %w", i, err)
		}
		if lbls[i] >= idxClasses {
			return nil, fmt.Errorf("read idx labels: label %d at index %d out of range", lbls[i], i)
		}
		input := make([]float64, imageSize)
		for j, p := range pixels {
			input[j] = float64(p) / 255.0
		}
		target := make([]float64, idxClasses)
		target[lbls[i]] = 1
		examples = append(examples, Example{Input: input, Target: target, Label: strconv.Itoa(int(lbls[i]))})
	}
	return New(examples)
}

// readIDXImagesHeader reads the header of an image file in IDX format and
// returns the image count and the pixels per image.
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
func readIDXImagesHeader(r io.Reader) (count, size int, err error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return 0, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != idxImagesMagic {
		return 0, 0, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, header[0], idxImagesMagic)
	}

	numImages, numRows, numCols := header[1], header[2], header[3]
	pixels := uint64(numRows) * uint64(numCols)
	if pixels == 0 || pixels > maxIDXImagePixels {
		return 0, 0, fmt.Errorf("%w: image size %dx%d", ErrInvalidHeader, numRows, numCols)
	}
	if numImages > maxIDXSamples {
		return 0, 0, fmt.Errorf("%w: %d images exceeds %d", ErrInvalidHeader, numImages, maxIDXSamples)
	}
	return int(numImages), int(pixels), nil
}

// readIDXLabelsHeader reads the header of a label file in IDX format and
// returns the label count.
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func readIDXLabelsHeader(r io.Reader) (int, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != idxLabelsMagic {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, header[0], idxLabelsMagic)
	}
	if header[1] > maxIDXSamples {
		return 0, fmt.Errorf("%w: %d labels exceeds %d", ErrInvalidHeader, header[1], maxIDXSamples)
	}
	return int(header[1]), nil
}
