package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/shapenet-ml/shapenet/internal/nn"
	"github.com/shapenet-ml/shapenet/internal/version"
)

// Meta carries the caller-supplied parts of a checkpoint header.
type Meta struct {
	RunID    string            // Empty generates a random UUID
	Metadata map[string]string // Custom key/value pairs
	Training *TrainingMeta     // Optional training summary
}

// Writer writes networks in .snet format to an io.Writer.
type Writer struct {
	w   io.Writer
	now func() time.Time
}

// NewWriter creates a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, now: time.Now}
}

// WithClock sets the clock used for the header's created_at field.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// WriteNetwork writes net's state and meta as one checkpoint and returns the
// header that was written.
func (w *Writer) WriteNetwork(net *nn.Network, meta Meta) (*Header, error) {
	state := net.State()
	input, hidden, output := state.Sizes()

	runID := meta.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	header := Header{
		FormatVersion:   FormatVersion,
		ShapenetVersion: version.Version,
		RunID:           runID,
		CreatedAt:       w.now().UTC(),
		Sizes:           Sizes{Input: input, Hidden: hidden, Output: output},
		LearningRate:    state.LearningRate,
		Activation:      net.Activation().Name(),
		Metadata:        meta.Metadata,
		Training:        meta.Training,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Encode the data section first: its checksum goes into the header.
	var data []byte
	tensors := stateTensors(state)
	header.Tensors = make([]TensorMeta, 0, len(tensors))
	for _, t := range tensors {
		offset := int64(len(data))
		data = encodeMatrix(data, t.m)
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   t.name,
			DType:  DTypeFloat64,
			Shape:  []int{t.m.Rows(), t.m.Cols()},
			Offset: offset,
			Size:   int64(len(data)) - offset,
		})
	}
	header.Checksum = ComputeChecksum(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal header: %w", err)
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Training != nil {
		flags |= FlagHasTraining
	}

	headerSize := int64(len(headerJSON))
	padding := alignedDataOffset(headerSize) - int64(prefixSize) - headerSize

	buf := make([]byte, 0, int(alignedDataOffset(headerSize))+len(data))
	buf = append(buf, MagicBytes...)
	buf = binary.LittleEndian.AppendUint32(buf, FormatVersion)
	buf = binary.LittleEndian.AppendUint32(buf, flags)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(headerSize))
	buf = append(buf, headerJSON...)
	buf = append(buf, make([]byte, padding)...)
	buf = append(buf, data...)

	if _, err := w.w.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return &header, nil
}

// Save writes net to path in .snet format.
func Save(path string, net *nn.Network, meta Meta) (*Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	header, err := NewWriter(file).WriteNetwork(net, meta)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return header, nil
}
