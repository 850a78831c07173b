package serialization

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/shapenet-ml/shapenet/internal/matrix"
	"github.com/shapenet-ml/shapenet/internal/nn"
)

// Format constants.
const (
	MagicBytes      = "SNET"
	FormatVersion   = 1
	HeaderAlignment = 64 // Matrix data starts on a 64-byte boundary
	prefixSize      = 4 + 4 + 4 + 8
	float64Size     = 8
)

// DTypeFloat64 is the only element type stored in a checkpoint.
const DTypeFloat64 = "float64"

// Flags for the .snet format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
	FlagHasTraining uint32 = 1 << 1 // bit 1: training summary included
)

// Tensor names of the four network matrices.
const (
	TensorWeightsInputHidden  = "weights_input_hidden"
	TensorWeightsHiddenOutput = "weights_hidden_output"
	TensorBiasHidden          = "bias_hidden"
	TensorBiasOutput          = "bias_output"
)

// Header represents the JSON header in a .snet file.
type Header struct {
	FormatVersion   int               `json:"format_version"`     // Version of the .snet format
	ShapenetVersion string            `json:"shapenet_version"`   // Version of shapenet that created this file
	RunID           string            `json:"run_id"`             // Unique id of the training run
	CreatedAt       time.Time         `json:"created_at"`         // When the file was created
	Sizes           Sizes             `json:"sizes"`              // Layer sizes
	LearningRate    float64           `json:"learning_rate"`      // Learning rate at save time
	Activation      string            `json:"activation"`         // Activation name (e.g., "sigmoid")
	Tensors         []TensorMeta      `json:"tensors"`            // Matrix metadata
	Checksum        string            `json:"checksum"`           // Hex SHA-256 of the data section
	Metadata        map[string]string `json:"metadata"`           // Custom metadata
	Training        *TrainingMeta     `json:"training,omitempty"` // Training summary (optional)
}

// Sizes holds the three layer sizes.
type Sizes struct {
	Input  int `json:"input"`
	Hidden int `json:"hidden"`
	Output int `json:"output"`
}

// TrainingMeta summarizes the run that produced the weights.
type TrainingMeta struct {
	Steps    int64   `json:"steps"`              // Training steps performed
	Schedule string  `json:"schedule,omitempty"` // Learning-rate schedule kind
	FinalLR  float64 `json:"final_lr"`           // Rate used for the last step
	MeanLoss float64 `json:"mean_loss"`          // Mean squared error after training
	Dataset  string  `json:"dataset,omitempty"`  // Dataset description
}

// TensorMeta describes a matrix in the .snet file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "bias_hidden")
	DType  string `json:"dtype"`  // Always "float64"
	Shape  []int  `json:"shape"`  // [rows, cols]
	Offset int64  `json:"offset"` // Offset in the data section (bytes from start of matrix data)
	Size   int64  `json:"size"`   // Size in bytes
}

type namedMatrix struct {
	name string
	m    *matrix.Dense
}

// stateTensors lists the state's matrices in file order.
func stateTensors(s nn.State) []namedMatrix {
	return []namedMatrix{
		{TensorWeightsInputHidden, s.WeightsInputHidden},
		{TensorWeightsHiddenOutput, s.WeightsHiddenOutput},
		{TensorBiasHidden, s.BiasHidden},
		{TensorBiasOutput, s.BiasOutput},
	}
}

// encodeMatrix appends m row-major as little-endian float64 values.
func encodeMatrix(dst []byte, m *matrix.Dense) []byte {
	for _, row := range m.RawRows() {
		for _, v := range row {
			dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
		}
	}
	return dst
}

// decodeMatrix rebuilds a matrix of the given shape from raw bytes.
func decodeMatrix(data []byte, shape []int) (*matrix.Dense, error) {
	if len(shape) != 2 {
		return nil, fmt.Errorf("expected 2-D shape, got %v", shape)
	}
	rows, cols := shape[0], shape[1]
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid shape %v", shape)
	}
	if len(data)%float64Size != 0 || len(data)/float64Size%cols != 0 || len(data)/float64Size/cols != rows {
		return nil, fmt.Errorf("shape %v does not match %d bytes of data", shape, len(data))
	}

	values := make([][]float64, rows)
	for i := range values {
		values[i] = make([]float64, cols)
		for j := range values[i] {
			off := (i*cols + j) * float64Size
			values[i][j] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+float64Size]))
		}
	}
	return matrix.FromRows(values)
}

// alignedDataOffset returns where the data section starts for a header of
// the given size.
func alignedDataOffset(headerSize int64) int64 {
	pos := int64(prefixSize) + headerSize
	padding := (HeaderAlignment - (pos % HeaderAlignment)) % HeaderAlignment
	return pos + padding
}
