package nn

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shapenet-ml/shapenet/internal/matrix"
)

// DefaultLearningRate is the learning rate used when Config.LearningRate is zero.
const DefaultLearningRate = 0.1

// Config holds the construction parameters of a Network.
type Config struct {
	InputSize    int     // Length of input vectors
	HiddenSize   int     // Number of hidden units
	OutputSize   int     // Length of output (and target) vectors
	LearningRate float64 // Initial learning rate (default: DefaultLearningRate)

	// Activation used on both layers (default: Sigmoid).
	Activation Activation

	// Rand drives weight initialization. Inject a seeded *rand.Rand for
	// reproducible networks (default: time-seeded source).
	Rand matrix.RandSource
}

// DefaultConfig returns a Config for the given layer sizes with default
// learning rate and activation.
func DefaultConfig(inputSize, hiddenSize, outputSize int) Config {
	return Config{
		InputSize:    inputSize,
		HiddenSize:   hiddenSize,
		OutputSize:   outputSize,
		LearningRate: DefaultLearningRate,
		Activation:   Sigmoid{},
	}
}

// withDefaults fills zero fields and validates the layer sizes.
func (c Config) withDefaults() (Config, error) {
	if c.InputSize <= 0 || c.HiddenSize <= 0 || c.OutputSize <= 0 {
		return c, fmt.Errorf("%w: layer sizes %d-%d-%d (must be > 0)",
			matrix.ErrInvalidConstruction, c.InputSize, c.HiddenSize, c.OutputSize)
	}
	if c.LearningRate == 0 {
		c.LearningRate = DefaultLearningRate
	}
	if c.LearningRate < 0 {
		return c, fmt.Errorf("%w: learning rate %g (must be > 0)", matrix.ErrInvalidConstruction, c.LearningRate)
	}
	if c.Activation == nil {
		c.Activation = Sigmoid{}
	}
	if c.Rand == nil {
		//nolint:gosec // G404: weight initialization is not security-sensitive
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c, nil
}
