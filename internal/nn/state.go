package nn

import (
	"fmt"

	"github.com/shapenet-ml/shapenet/internal/matrix"
)

// State is a snapshot of the network's trainable state and learning rate.
//
// It is the hand-off point for persistence: serializers read a State from a
// trained network and rebuild a network from a decoded State. Matrices in a
// State are never shared with a live Network.
type State struct {
	WeightsInputHidden  *matrix.Dense // [hidden, input]
	WeightsHiddenOutput *matrix.Dense // [output, hidden]
	BiasHidden          *matrix.Dense // [hidden, 1]
	BiasOutput          *matrix.Dense // [output, 1]
	LearningRate        float64
}

// Sizes infers (input, hidden, output) from the weight matrices.
func (s State) Sizes() (input, hidden, output int) {
	if s.WeightsInputHidden == nil || s.WeightsHiddenOutput == nil {
		return 0, 0, 0
	}
	return s.WeightsInputHidden.Cols(), s.WeightsInputHidden.Rows(), s.WeightsHiddenOutput.Rows()
}

// validate checks the four matrices against the given sizes.
func (s State) validate(input, hidden, output int) error {
	checks := []struct {
		name       string
		m          *matrix.Dense
		rows, cols int
	}{
		{"input-hidden weights", s.WeightsInputHidden, hidden, input},
		{"hidden-output weights", s.WeightsHiddenOutput, output, hidden},
		{"hidden bias", s.BiasHidden, hidden, 1},
		{"output bias", s.BiasOutput, output, 1},
	}
	for _, c := range checks {
		if c.m == nil {
			return fmt.Errorf("%w: %s missing", matrix.ErrShapeMismatch, c.name)
		}
		if c.m.Rows() != c.rows || c.m.Cols() != c.cols {
			return fmt.Errorf("%w: %s is %dx%d, want %dx%d",
				matrix.ErrShapeMismatch, c.name, c.m.Rows(), c.m.Cols(), c.rows, c.cols)
		}
	}
	return nil
}

// State returns a deep copy of the network's matrices and learning rate.
func (n *Network) State() State {
	return State{
		WeightsInputHidden:  n.weightsIH.Clone(),
		WeightsHiddenOutput: n.weightsHO.Clone(),
		BiasHidden:          n.biasH.Clone(),
		BiasOutput:          n.biasO.Clone(),
		LearningRate:        n.learningRate,
	}
}

// LoadState replaces the network's matrices and learning rate with copies of
// those in s. Every matrix must match the network's layer sizes; on error the
// network is unchanged.
func (n *Network) LoadState(s State) error {
	if err := s.validate(n.inputSize, n.hiddenSize, n.outputSize); err != nil {
		return err
	}
	n.weightsIH = s.WeightsInputHidden.Clone()
	n.weightsHO = s.WeightsHiddenOutput.Clone()
	n.biasH = s.BiasHidden.Clone()
	n.biasO = s.BiasOutput.Clone()
	n.learningRate = s.LearningRate
	return nil
}

// FromState builds a Network whose sizes are inferred from s.
// A nil activation selects Sigmoid.
func FromState(s State, act Activation) (*Network, error) {
	input, hidden, output := s.Sizes()
	if input <= 0 || hidden <= 0 || output <= 0 {
		return nil, fmt.Errorf("%w: state has no weight matrices", matrix.ErrInvalidConstruction)
	}
	if act == nil {
		act = Sigmoid{}
	}
	n := &Network{
		inputSize:  input,
		hiddenSize: hidden,
		outputSize: output,
		activation: act,
	}
	if err := n.LoadState(s); err != nil {
		return nil, err
	}
	return n, nil
}

// WeightsInputHidden returns a copy of the [hidden, input] weight matrix.
func (n *Network) WeightsInputHidden() *matrix.Dense { return n.weightsIH.Clone() }

// WeightsHiddenOutput returns a copy of the [output, hidden] weight matrix.
func (n *Network) WeightsHiddenOutput() *matrix.Dense { return n.weightsHO.Clone() }

// BiasHidden returns a copy of the [hidden, 1] bias column.
func (n *Network) BiasHidden() *matrix.Dense { return n.biasH.Clone() }

// BiasOutput returns a copy of the [output, 1] bias column.
func (n *Network) BiasOutput() *matrix.Dense { return n.biasO.Clone() }

// SetWeightsInputHidden replaces the input-hidden weights with a copy of m.
func (n *Network) SetWeightsInputHidden(m *matrix.Dense) error {
	return setChecked(&n.weightsIH, m, "input-hidden weights", n.hiddenSize, n.inputSize)
}

// SetWeightsHiddenOutput replaces the hidden-output weights with a copy of m.
func (n *Network) SetWeightsHiddenOutput(m *matrix.Dense) error {
	return setChecked(&n.weightsHO, m, "hidden-output weights", n.outputSize, n.hiddenSize)
}

// SetBiasHidden replaces the hidden bias with a copy of m.
func (n *Network) SetBiasHidden(m *matrix.Dense) error {
	return setChecked(&n.biasH, m, "hidden bias", n.hiddenSize, 1)
}

// SetBiasOutput replaces the output bias with a copy of m.
func (n *Network) SetBiasOutput(m *matrix.Dense) error {
	return setChecked(&n.biasO, m, "output bias", n.outputSize, 1)
}

func setChecked(dst **matrix.Dense, m *matrix.Dense, name string, rows, cols int) error {
	if m == nil || m.Rows() != rows || m.Cols() != cols {
		got := "nil"
		if m != nil {
			got = fmt.Sprintf("%dx%d", m.Rows(), m.Cols())
		}
		return fmt.Errorf("%w: %s is %s, want %dx%d", matrix.ErrShapeMismatch, name, got, rows, cols)
	}
	*dst = m.Clone()
	return nil
}
