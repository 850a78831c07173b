package dataset

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idxImages(t *testing.T, rows, cols int, images ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := []uint32{idxImagesMagic, uint32(len(images)), uint32(rows), uint32(cols)}
	require.NoError(t, binary.Write(&buf, binary.BigEndian, header))
	for _, img := range images {
		buf.Write(img)
	}
	return buf.Bytes()
}

func idxLabels(t *testing.T, labels ...byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, []uint32{idxLabelsMagic, uint32(len(labels))}))
	buf.Write(labels)
	return buf.Bytes()
}

func TestReadIDX(t *testing.T) {
	images := idxImages(t, 2, 2, []byte{0, 255, 51, 102}, []byte{255, 255, 0, 0})
	labels := idxLabels(t, 7, 2)

	d, err := ReadIDX(bytes.NewReader(images), bytes.NewReader(labels), 0)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	assert.Equal(t, 4, d.InputSize())
	assert.Equal(t, 10, d.TargetSize())

	ex := d.At(0)
	assert.InDeltaSlice(t, []float64{0, 1, 0.2, 0.4}, ex.Input, 1e-12)
	assert.Equal(t, 1.0, ex.Target[7])
	assert.Equal(t, "7", ex.Label)

	d, err = ReadIDX(bytes.NewReader(images), bytes.NewReader(labels), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

func TestReadIDX_Errors(t *testing.T) {
	images := idxImages(t, 1, 1, []byte{1})

	_, err := ReadIDX(bytes.NewReader(idxLabels(t, 1, 2, 3, 4, 5, 6, 7, 8)), bytes.NewReader(idxLabels(t, 1)), 0)
	assert.ErrorIs(t, err, ErrInvalidMagic)

	_, err = ReadIDX(bytes.NewReader(images), bytes.NewReader(idxLabels(t, 1, 2)), 0)
	assert.ErrorIs(t, err, ErrInconsistentExample)

	_, err = ReadIDX(bytes.NewReader(images), bytes.NewReader(idxLabels(t, 12)), 0)
	assert.Error(t, err)

	truncated := images[:len(images)-1]
	_, err = ReadIDX(bytes.NewReader(truncated), bytes.NewReader(idxLabels(t, 1)), 0)
	assert.Error(t, err)
}

func TestReadIDX_HeaderLimits(t *testing.T) {
	header := func(count, rows, cols uint32) []byte {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.BigEndian, []uint32{idxImagesMagic, count, rows, cols}))
		return buf.Bytes()
	}
	labels := idxLabels(t, 1)

	tests := []struct {
		name   string
		images []byte
	}{
		{"rows*cols wraps uint32", header(1, 1<<16, 1<<16)},
		{"huge image", header(1, 1<<12, 1<<12)},
		{"zero size", header(1, 0, 28)},
		{"huge count", header(1<<31, 28, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadIDX(bytes.NewReader(tt.images), bytes.NewReader(labels), 0)
			assert.ErrorIs(t, err, ErrInvalidHeader)
		})
	}

	var lbl bytes.Buffer
	require.NoError(t, binary.Write(&lbl, binary.BigEndian, []uint32{idxLabelsMagic, 1 << 31}))
	_, err := ReadIDX(bytes.NewReader(idxImages(t, 1, 1, []byte{1})), &lbl, 0)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestReadIDX_StopsAtMaxSamples(t *testing.T) {
	images := idxImages(t, 1, 2, []byte{0, 255}, []byte{255, 0}, []byte{1, 1})
	labels := idxLabels(t, 3, 4, 5)

	// Records past maxSamples are never read, so truncating them is harmless.
	d, err := ReadIDX(bytes.NewReader(images[:len(images)-2]), bytes.NewReader(labels[:len(labels)-1]), 2)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	assert.Equal(t, "4", d.At(1).Label)

	_, err = ReadIDX(bytes.NewReader(images[:len(images)-2]), bytes.NewReader(labels), 0)
	assert.Error(t, err)
}

func TestLoadIDX(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "images-idx3-ubyte")
	lblPath := filepath.Join(dir, "labels-idx1-ubyte")
	require.NoError(t, os.WriteFile(imgPath, idxImages(t, 1, 3, []byte{0, 0, 255}), 0o600))
	require.NoError(t, os.WriteFile(lblPath, idxLabels(t, 0), 0o600))

	d, err := LoadIDX(imgPath, lblPath, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, d.At(0).Input)

	_, err = LoadIDX(filepath.Join(dir, "missing"), lblPath, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
