// Package nn implements the input→hidden→output feed-forward network.
//
// This package provides:
//   - Network: a fully connected network with one hidden layer
//   - Activation: the element-wise activation strategy (Sigmoid)
//   - Online training: one backpropagation + gradient descent step per example
//
// The network owns four matrices (two weight matrices, two bias columns) and a
// learning rate. It is not safe for concurrent use; callers driving Train from
// several goroutines must serialize access.
//
// Example usage:
//
//	cfg := nn.DefaultConfig(2, 2, 1)
//	cfg.Rand = rand.New(rand.NewSource(1))
//	net, err := nn.New(cfg)
//	if err != nil {
//	    return err
//	}
//	for step := 0; step < 20000; step++ {
//	    ex := xor[rng.Intn(len(xor))]
//	    if err := net.Train(ex.Input, ex.Target); err != nil {
//	        return err
//	    }
//	}
//	out, err := net.FeedForward([]float64{1, 0})
package nn

import (
	"fmt"

	"github.com/shapenet-ml/shapenet/internal/matrix"
)

// Network is a feed-forward network with a single hidden layer.
//
// Shapes:
//   - weightsIH: [hidden, input]
//   - weightsHO: [output, hidden]
//   - biasH:     [hidden, 1]
//   - biasO:     [output, 1]
type Network struct {
	inputSize  int
	hiddenSize int
	outputSize int

	weightsIH *matrix.Dense
	weightsHO *matrix.Dense
	biasH     *matrix.Dense
	biasO     *matrix.Dense

	learningRate float64
	activation   Activation
}

// New creates a Network with every weight and bias drawn uniformly from
// [-1, 1) using cfg.Rand.
//
// Matrices are initialized in the order weightsIH, weightsHO, biasH, biasO,
// so a seeded source always produces the same network.
func New(cfg Config) (*Network, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	n := &Network{
		inputSize:    cfg.InputSize,
		hiddenSize:   cfg.HiddenSize,
		outputSize:   cfg.OutputSize,
		learningRate: cfg.LearningRate,
		activation:   cfg.Activation,
	}

	if n.weightsIH, err = matrix.Random(cfg.HiddenSize, cfg.InputSize, cfg.Rand); err != nil {
		return nil, fmt.Errorf("init input-hidden weights: %w", err)
	}
	if n.weightsHO, err = matrix.Random(cfg.OutputSize, cfg.HiddenSize, cfg.Rand); err != nil {
		return nil, fmt.Errorf("init hidden-output weights: %w", err)
	}
	if n.biasH, err = matrix.Random(cfg.HiddenSize, 1, cfg.Rand); err != nil {
		return nil, fmt.Errorf("init hidden bias: %w", err)
	}
	if n.biasO, err = matrix.Random(cfg.OutputSize, 1, cfg.Rand); err != nil {
		return nil, fmt.Errorf("init output bias: %w", err)
	}
	return n, nil
}

// NewNetwork is shorthand for New(DefaultConfig(...)) with the given source.
func NewNetwork(inputSize, hiddenSize, outputSize int, src matrix.RandSource) (*Network, error) {
	cfg := DefaultConfig(inputSize, hiddenSize, outputSize)
	cfg.Rand = src
	return New(cfg)
}

// Sizes returns the input, hidden and output layer sizes.
func (n *Network) Sizes() (input, hidden, output int) {
	return n.inputSize, n.hiddenSize, n.outputSize
}

// Activation returns the activation used by both layers.
func (n *Network) Activation() Activation {
	return n.activation
}

// LearningRate returns the current learning rate.
func (n *Network) LearningRate() float64 {
	return n.learningRate
}

// SetLearningRate sets the learning rate used by the next Train call.
//
// The value is used verbatim; schedules such as linear decay are applied by
// calling this between steps.
func (n *Network) SetLearningRate(lr float64) {
	n.learningRate = lr
}

// FeedForward runs inference and returns OutputSize scores.
//
// Algorithm:
//
//	hidden = f(weightsIH × input + biasH)
//	output = f(weightsHO × hidden + biasO)
//
// Returns an error wrapping matrix.ErrShapeMismatch if len(input) != InputSize.
// The network is not modified.
func (n *Network) FeedForward(input []float64) ([]float64, error) {
	if err := n.checkInput(input); err != nil {
		return nil, err
	}
	_, _, output, err := n.forward(input)
	if err != nil {
		return nil, err
	}
	return output.ToSlice(), nil
}

// Predict runs inference and returns the index and score of the largest output.
// For a single-output network the index is always 0.
func (n *Network) Predict(input []float64) (int, float64, error) {
	out, err := n.FeedForward(input)
	if err != nil {
		return 0, 0, err
	}
	best := 0
	for i, v := range out {
		if v > out[best] {
			best = i
		}
	}
	return best, out[best], nil
}

// Train performs one step of online gradient descent on a single example.
//
// Backpropagation:
//
//	outputErr  = target - output
//	outputGrad = f'(output) ⊙ outputErr ⊙ lr
//	weightsHO += outputGrad × hiddenᵀ;   biasO += outputGrad
//	hiddenErr  = weightsHOᵀ × outputErr   (weights as they were in the forward pass)
//	hiddenGrad = f'(hidden) ⊙ hiddenErr ⊙ lr
//	weightsIH += hiddenGrad × inputᵀ;    biasH += hiddenGrad
//
// Vector lengths are checked before any computation. All four updates are
// computed before any is applied, so a failed call leaves the network
// untouched.
func (n *Network) Train(input, target []float64) error {
	if err := n.checkInput(input); err != nil {
		return err
	}
	if len(target) != n.outputSize {
		return fmt.Errorf("%w: target has %d values, network has %d outputs",
			matrix.ErrShapeMismatch, len(target), n.outputSize)
	}

	in, hidden, output, err := n.forward(input)
	if err != nil {
		return err
	}

	outputErr, err := matrix.FromVector(target)
	if err != nil {
		return err
	}
	if err := outputErr.Sub(output); err != nil {
		return err
	}

	outputGrad := output.Map(n.activation.Derivative)
	if err := outputGrad.MulElem(outputErr); err != nil {
		return err
	}
	outputGrad.ScalarMul(n.learningRate)

	deltaHO, err := outputGrad.MatMul(hidden.T())
	if err != nil {
		return err
	}

	hiddenErr, err := n.weightsHO.T().MatMul(outputErr)
	if err != nil {
		return err
	}

	hiddenGrad := hidden.Map(n.activation.Derivative)
	if err := hiddenGrad.MulElem(hiddenErr); err != nil {
		return err
	}
	hiddenGrad.ScalarMul(n.learningRate)

	deltaIH, err := hiddenGrad.MatMul(in.T())
	if err != nil {
		return err
	}

	// Shapes were all derived from the network's own matrices above, so the
	// updates below cannot fail part way through.
	if err := n.weightsHO.Add(deltaHO); err != nil {
		return err
	}
	if err := n.biasO.Add(outputGrad); err != nil {
		return err
	}
	if err := n.weightsIH.Add(deltaIH); err != nil {
		return err
	}
	return n.biasH.Add(hiddenGrad)
}

// forward computes and returns the input column, the activated hidden layer
// and the activated output layer.
func (n *Network) forward(input []float64) (in, hidden, output *matrix.Dense, err error) {
	in, err = matrix.FromVector(input)
	if err != nil {
		return nil, nil, nil, err
	}

	hidden, err = n.layer(n.weightsIH, n.biasH, in)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("hidden layer: %w", err)
	}
	output, err = n.layer(n.weightsHO, n.biasO, hidden)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("output layer: %w", err)
	}
	return in, hidden, output, nil
}

// layer computes f(weights × x + bias).
func (n *Network) layer(weights, bias, x *matrix.Dense) (*matrix.Dense, error) {
	z, err := weights.MatMul(x)
	if err != nil {
		return nil, err
	}
	if err := z.Add(bias); err != nil {
		return nil, err
	}
	z.Apply(n.activation.Apply)
	return z, nil
}

func (n *Network) checkInput(input []float64) error {
	if len(input) != n.inputSize {
		return fmt.Errorf("%w: input has %d values, network has %d inputs",
			matrix.ErrShapeMismatch, len(input), n.inputSize)
	}
	return nil
}
