package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shapenet-ml/shapenet/internal/matrix"
	"github.com/shapenet-ml/shapenet/internal/nn"
)

// Reader reads a network from .snet data.
type Reader struct {
	r          io.ReaderAt
	header     Header
	flags      uint32
	dataOffset int64 // Offset where matrix data starts
	dataSize   int64 // Size of the data section
	opts       ReaderOptions
}

// ReaderOptions configures the behavior of Reader.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// NewReader parses the header of the size-byte checkpoint in r with strict
// validation.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	return NewReaderWithOptions(r, size, ReaderOptions{
		ValidationLevel: ValidationStrict,
	})
}

// NewReaderWithOptions is NewReader with custom options.
func NewReaderWithOptions(r io.ReaderAt, size int64, opts ReaderOptions) (*Reader, error) {
	reader := &Reader{r: r, opts: opts}
	if err := reader.parseHeader(size); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	reader.dataSize = size - reader.dataOffset

	if err := ValidateHeader(&reader.header, reader.dataSize, opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !opts.SkipChecksumValidation {
		sum, err := ComputeChecksumReader(io.NewSectionReader(r, reader.dataOffset, reader.dataSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read data for checksum: %w", err)
		}
		if err := ValidateChecksum(sum, reader.header.Checksum); err != nil {
			return nil, err
		}
	}

	return reader, nil
}

// parseHeader reads the fixed prefix and the JSON header.
func (r *Reader) parseHeader(size int64) error {
	if size < prefixSize {
		return fmt.Errorf("%w: file is %d bytes", ErrInvalidMagic, size)
	}

	prefix := make([]byte, prefixSize)
	if _, err := r.r.ReadAt(prefix, 0); err != nil {
		return fmt.Errorf("failed to read prefix: %w", err)
	}
	if string(prefix[0:4]) != MagicBytes {
		return fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, prefix[0:4], MagicBytes)
	}
	if v := binary.LittleEndian.Uint32(prefix[4:8]); v != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, v, FormatVersion)
	}
	r.flags = binary.LittleEndian.Uint32(prefix[8:12])

	headerSize := binary.LittleEndian.Uint64(prefix[12:20])
	if headerSize > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	hs := int64(headerSize)
	if prefixSize+hs > size {
		return fmt.Errorf("header of %d bytes extends beyond file of %d bytes", hs, size)
	}

	headerBytes := make([]byte, hs)
	if _, err := r.r.ReadAt(headerBytes, prefixSize); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	r.dataOffset = alignedDataOffset(hs)
	if r.dataOffset > size {
		return fmt.Errorf("data section starts at %d beyond file of %d bytes", r.dataOffset, size)
	}
	return nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Flags returns the raw flag bits.
func (r *Reader) Flags() uint32 {
	return r.flags
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the names of all tensors in file order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *Reader) TensorInfo(name string) (*TensorMeta, error) {
	meta, ok := findTensor(r.header.Tensors, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTensor, name)
	}
	return &meta, nil
}

// ReadTensorData reads raw tensor bytes for a given tensor name.
func (r *Reader) ReadTensorData(name string) ([]byte, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	if meta.Offset < 0 || meta.Size < 0 || meta.Offset > r.dataSize || meta.Size > r.dataSize-meta.Offset {
		return nil, &ValidationError{
			Type:    "out_of_bounds",
			Tensor:  name,
			Details: fmt.Sprintf("offset %d + size %d > data_size %d", meta.Offset, meta.Size, r.dataSize),
		}
	}

	data := make([]byte, meta.Size)
	if _, err := r.r.ReadAt(data, r.dataOffset+meta.Offset); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return data, nil
}

// ReadMatrix decodes one tensor into a matrix.
func (r *Reader) ReadMatrix(name string) (*matrix.Dense, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}
	m, err := decodeMatrix(data, meta.Shape)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	return m, nil
}

// ReadState decodes the four network matrices and the learning rate.
func (r *Reader) ReadState() (nn.State, error) {
	s := nn.State{LearningRate: r.header.LearningRate}
	targets := []struct {
		name string
		dst  **matrix.Dense
	}{
		{TensorWeightsInputHidden, &s.WeightsInputHidden},
		{TensorWeightsHiddenOutput, &s.WeightsHiddenOutput},
		{TensorBiasHidden, &s.BiasHidden},
		{TensorBiasOutput, &s.BiasOutput},
	}
	for _, t := range targets {
		m, err := r.ReadMatrix(t.name)
		if err != nil {
			return nn.State{}, err
		}
		*t.dst = m
	}
	return s, nil
}

// Network rebuilds the saved network.
func (r *Reader) Network() (*nn.Network, error) {
	act, ok := nn.ActivationByName(r.header.Activation)
	if !ok {
		return nil, fmt.Errorf("unknown activation %q", r.header.Activation)
	}
	s, err := r.ReadState()
	if err != nil {
		return nil, err
	}
	return nn.FromState(s, act)
}

// Load reads the checkpoint at path with strict validation and rebuilds its
// network.
func Load(path string) (*nn.Network, *Header, error) {
	return LoadWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// LoadWithOptions is Load with custom reader options.
func LoadWithOptions(path string, opts ReaderOptions) (*nn.Network, *Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	reader, err := NewReaderWithOptions(file, info.Size(), opts)
	if err != nil {
		return nil, nil, err
	}
	net, err := reader.Network()
	if err != nil {
		return nil, nil, err
	}
	header := reader.Header()
	return net, &header, nil
}
