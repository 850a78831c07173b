package train

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapenet-ml/shapenet/internal/dataset"
	"github.com/shapenet-ml/shapenet/internal/matrix"
	"github.com/shapenet-ml/shapenet/internal/nn"
)

// constantNet builds a network whose weights are zero, so its outputs are
// sigmoid(biasOut) for every input.
func constantNet(t *testing.T, in, hidden int, biasOut []float64) *nn.Network {
	t.Helper()
	wih, err := matrix.Zeros(hidden, in)
	require.NoError(t, err)
	who, err := matrix.Zeros(len(biasOut), hidden)
	require.NoError(t, err)
	bh, err := matrix.Zeros(hidden, 1)
	require.NoError(t, err)
	bo, err := matrix.FromVector(biasOut)
	require.NoError(t, err)

	net, err := nn.FromState(nn.State{
		WeightsInputHidden:  wih,
		WeightsHiddenOutput: who,
		BiasHidden:          bh,
		BiasOutput:          bo,
		LearningRate:        0.1,
	}, nil)
	require.NoError(t, err)
	return net
}

func TestEvaluate_SingleOutput(t *testing.T) {
	// Output is exactly 0.5: ties go to the lower target, so only the two
	// zero-target XOR examples count as correct.
	rep, err := Evaluate(constantNet(t, 2, 2, []float64{0}), dataset.XOR())
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Count)
	assert.Equal(t, 2, rep.Correct)
	assert.Equal(t, 0.5, rep.Accuracy)
	assert.InDelta(t, 0.25, rep.MeanSE, 1e-12)
	assert.InDelta(t, 0, rep.StdDevSE, 1e-12)
	assert.InDelta(t, 0.25, rep.MaxSE, 1e-12)
}

func TestEvaluate_MultiOutput(t *testing.T) {
	data, err := dataset.New([]dataset.Example{
		{Input: []float64{0}, Target: []float64{1, 0}},
		{Input: []float64{1}, Target: []float64{0, 1}},
		{Input: []float64{2}, Target: []float64{1, 0}},
	})
	require.NoError(t, err)

	rep, err := Evaluate(constantNet(t, 1, 2, []float64{2, -2}), data)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Correct)
	assert.InDelta(t, 2.0/3.0, rep.Accuracy, 1e-12)
	assert.Greater(t, rep.MaxSE, rep.MeanSE)
}

func TestEvaluate_ShapeMismatch(t *testing.T) {
	_, err := Evaluate(constantNet(t, 3, 2, []float64{0}), dataset.XOR())
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)
}

func TestTrainThenEvaluate_XOR(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping XOR training in short mode")
	}

	// Some initializations settle in a local minimum; try a few seeds.
	for seed := int64(1); seed <= 12; seed++ {
		net := xorNet(t, seed)
		net.SetLearningRate(0.3)
		tr, err := New(net, dataset.XOR(), Config{Steps: 60000, Seed: seed + 1000})
		require.NoError(t, err)
		_, err = tr.Run(context.Background())
		require.NoError(t, err)

		rep, err := Evaluate(net, dataset.XOR())
		require.NoError(t, err)
		if rep.Accuracy == 1 && rep.MaxSE < 0.04 {
			return
		}
	}
	t.Fatal("no seed learned XOR")
}
