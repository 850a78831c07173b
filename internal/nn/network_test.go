package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapenet-ml/shapenet/internal/matrix"
)

var xorExamples = []struct {
	input  []float64
	target []float64
}{
	{[]float64{0, 0}, []float64{0}},
	{[]float64{0, 1}, []float64{1}},
	{[]float64{1, 0}, []float64{1}},
	{[]float64{1, 1}, []float64{0}},
}

func newSeeded(t *testing.T, in, hidden, out int, seed int64) *Network {
	t.Helper()
	n, err := NewNetwork(in, hidden, out, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return n
}

func trainXOR(t *testing.T, n *Network, steps int, rng *rand.Rand) {
	t.Helper()
	for i := 0; i < steps; i++ {
		ex := xorExamples[rng.Intn(len(xorExamples))]
		require.NoError(t, n.Train(ex.input, ex.target))
	}
}

func TestSigmoid(t *testing.T) {
	s := Sigmoid{}

	assert.Equal(t, 0.5, s.Apply(0))
	assert.Equal(t, 0.25, s.Derivative(0.5))

	prev := s.Apply(-36)
	for x := -35.5; x <= 36; x += 0.5 {
		y := s.Apply(x)
		assert.GreaterOrEqual(t, y, prev, "monotonic at %v", x)
		assert.Greater(t, y, 0.0, "x=%v", x)
		assert.Less(t, y, 1.0, "x=%v", x)
		prev = y
	}

	// Outside that range float64 saturates.
	assert.Equal(t, 1.0, s.Apply(40))
	assert.Equal(t, 0.0, s.Apply(-800))
	assert.Equal(t, 0.0, s.Derivative(s.Apply(40)))
}

func TestActivationByName(t *testing.T) {
	act, ok := ActivationByName("sigmoid")
	require.True(t, ok)
	assert.Equal(t, "sigmoid", act.Name())

	_, ok = ActivationByName("relu")
	assert.False(t, ok)
}

func TestNew_Shapes(t *testing.T) {
	n := newSeeded(t, 4, 3, 2, 1)

	in, hidden, out := n.Sizes()
	assert.Equal(t, []int{4, 3, 2}, []int{in, hidden, out})
	assert.Equal(t, DefaultLearningRate, n.LearningRate())

	assert.Equal(t, 3, n.WeightsInputHidden().Rows())
	assert.Equal(t, 4, n.WeightsInputHidden().Cols())
	assert.Equal(t, 2, n.WeightsHiddenOutput().Rows())
	assert.Equal(t, 3, n.WeightsHiddenOutput().Cols())
	assert.Equal(t, 3, n.BiasHidden().Rows())
	assert.Equal(t, 2, n.BiasOutput().Rows())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := NewNetwork(0, 2, 1, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, matrix.ErrInvalidConstruction)

	cfg := DefaultConfig(2, 2, 1)
	cfg.LearningRate = -1
	_, err = New(cfg)
	assert.ErrorIs(t, err, matrix.ErrInvalidConstruction)
}

func TestNew_DefaultsFilled(t *testing.T) {
	n, err := New(Config{InputSize: 1, HiddenSize: 1, OutputSize: 1})
	require.NoError(t, err)
	assert.Equal(t, DefaultLearningRate, n.LearningRate())
	assert.Equal(t, "sigmoid", n.Activation().Name())
}

func TestFeedForward_ShapeMismatch(t *testing.T) {
	n := newSeeded(t, 3, 2, 1, 1)

	out, err := n.FeedForward([]float64{1, 2})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)
}

func TestFeedForward_IsPure(t *testing.T) {
	n := newSeeded(t, 3, 4, 2, 9)
	before := n.State()

	a, err := n.FeedForward([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	b, err := n.FeedForward([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 2)
	for _, v := range a {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	after := n.State()
	assert.True(t, before.WeightsInputHidden.Equal(after.WeightsInputHidden))
	assert.True(t, before.WeightsHiddenOutput.Equal(after.WeightsHiddenOutput))
}

func TestTrain_ShapeMismatchLeavesNetworkUnchanged(t *testing.T) {
	n := newSeeded(t, 2, 2, 1, 4)
	before := n.State()

	assert.ErrorIs(t, n.Train([]float64{1}, []float64{1}), matrix.ErrShapeMismatch)
	assert.ErrorIs(t, n.Train([]float64{1, 0}, []float64{1, 0}), matrix.ErrShapeMismatch)

	after := n.State()
	assert.True(t, before.WeightsInputHidden.Equal(after.WeightsInputHidden))
	assert.True(t, before.WeightsHiddenOutput.Equal(after.WeightsHiddenOutput))
	assert.True(t, before.BiasHidden.Equal(after.BiasHidden))
	assert.True(t, before.BiasOutput.Equal(after.BiasOutput))
}

// TestTrain_MatchesReferenceStep checks one step against scalar loops, with the
// hidden error propagated through the weights used by the forward pass.
func TestTrain_MatchesReferenceStep(t *testing.T) {
	wih := [][]float64{{0.15, -0.2}, {0.25, 0.3}}
	who := [][]float64{{0.4, -0.45}}
	bh := []float64{0.35, -0.1}
	bo := []float64{0.6}
	lr := 0.5
	x := []float64{0.05, 0.1}
	target := []float64{0.99}

	n, err := FromState(stateOf(t, wih, who, bh, bo, lr), nil)
	require.NoError(t, err)
	require.NoError(t, n.Train(x, target))

	sig := Sigmoid{}
	h := make([]float64, 2)
	for i := range h {
		h[i] = sig.Apply(wih[i][0]*x[0] + wih[i][1]*x[1] + bh[i])
	}
	o := sig.Apply(who[0][0]*h[0] + who[0][1]*h[1] + bo[0])
	e := target[0] - o
	g := o * (1 - o) * e * lr

	wantWHO := [][]float64{{who[0][0] + g*h[0], who[0][1] + g*h[1]}}
	wantBO := []float64{bo[0] + g}
	wantWIH := make([][]float64, 2)
	wantBH := make([]float64, 2)
	for i := range h {
		he := who[0][i] * e // pre-update weight
		hg := h[i] * (1 - h[i]) * he * lr
		wantWIH[i] = []float64{wih[i][0] + hg*x[0], wih[i][1] + hg*x[1]}
		wantBH[i] = bh[i] + hg
	}

	got := n.State()
	const tol = 1e-15
	assert.True(t, got.WeightsHiddenOutput.EqualApprox(mustRows(t, wantWHO), tol))
	assert.True(t, got.BiasOutput.EqualApprox(mustVec(t, wantBO), tol))
	assert.True(t, got.WeightsInputHidden.EqualApprox(mustRows(t, wantWIH), tol))
	assert.True(t, got.BiasHidden.EqualApprox(mustVec(t, wantBH), tol))
}

func TestTrain_UsesLearningRateVerbatim(t *testing.T) {
	n := newSeeded(t, 2, 3, 1, 2)
	n.SetLearningRate(0)
	before := n.State()

	require.NoError(t, n.Train([]float64{1, 1}, []float64{0}))
	after := n.State()
	assert.True(t, before.WeightsInputHidden.Equal(after.WeightsInputHidden), "lr=0 must not move weights")
	assert.True(t, before.BiasOutput.Equal(after.BiasOutput))
	assert.Equal(t, 0.0, n.LearningRate())
}

// TestXOR trains 2-2-1 networks on XOR. A two-unit hidden layer has local
// minima some initializations never leave, so several seeds are tried.
func TestXOR(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping XOR training in short mode")
	}

	const steps = 60000
	for seed := int64(1); seed <= 12; seed++ {
		n := newSeeded(t, 2, 2, 1, seed)
		n.SetLearningRate(0.3)
		trainXOR(t, n, steps, rand.New(rand.NewSource(seed+1000)))

		if xorLearned(t, n) {
			return
		}
		t.Logf("seed %d stuck in a local minimum", seed)
	}
	t.Fatal("no seed learned XOR")
}

func xorLearned(t *testing.T, n *Network) bool {
	t.Helper()
	out := make([]float64, len(xorExamples))
	for i, ex := range xorExamples {
		y, err := n.FeedForward(ex.input)
		require.NoError(t, err)
		out[i] = y[0]
	}
	return out[0] < 0.2 && out[3] < 0.2 && out[1] > 0.8 && out[2] > 0.8
}

func TestDeterminism(t *testing.T) {
	run := func() State {
		n := newSeeded(t, 2, 3, 1, 77)
		trainXOR(t, n, 2000, rand.New(rand.NewSource(78)))
		return n.State()
	}

	a, b := run(), run()
	assert.True(t, a.WeightsInputHidden.Equal(b.WeightsInputHidden))
	assert.True(t, a.WeightsHiddenOutput.Equal(b.WeightsHiddenOutput))
	assert.True(t, a.BiasHidden.Equal(b.BiasHidden))
	assert.True(t, a.BiasOutput.Equal(b.BiasOutput))
}

func TestPredict(t *testing.T) {
	n := newSeeded(t, 2, 3, 4, 5)
	out, err := n.FeedForward([]float64{0.5, -0.5})
	require.NoError(t, err)

	idx, score, err := n.Predict([]float64{0.5, -0.5})
	require.NoError(t, err)
	assert.Equal(t, out[idx], score)
	for _, v := range out {
		assert.LessOrEqual(t, v, score)
	}
	assert.False(t, math.IsNaN(score))
}
