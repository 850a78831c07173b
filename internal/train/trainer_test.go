package train

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapenet-ml/shapenet/internal/dataset"
	"github.com/shapenet-ml/shapenet/internal/logging"
	"github.com/shapenet-ml/shapenet/internal/matrix"
	"github.com/shapenet-ml/shapenet/internal/nn"
	"github.com/shapenet-ml/shapenet/internal/optim"
)

func xorNet(t *testing.T, seed int64) *nn.Network {
	t.Helper()
	net, err := nn.NewNetwork(2, 3, 1, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return net
}

// tickClock advances one second per call.
func tickClock() func() time.Time {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// cancelAt cancels a context when the schedule reaches a given step.
type cancelAt struct {
	step   int
	cancel context.CancelFunc
}

func (c cancelAt) Rate(step, _ int) float64 {
	if step == c.step {
		c.cancel()
	}
	return 0.1
}

func TestNew_Validation(t *testing.T) {
	net := xorNet(t, 1)

	_, err := New(net, dataset.XOR(), Config{Steps: 0})
	assert.Error(t, err)

	_, err = New(net, dataset.XOR(), Config{Steps: 10, LogEvery: -1})
	assert.Error(t, err)

	wide, err := nn.NewNetwork(3, 2, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = New(wide, dataset.XOR(), DefaultConfig())
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)
}

func TestRun_LogsProgress(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	tr, err := New(xorNet(t, 2), dataset.XOR(), Config{Steps: 100, LogEvery: 25, Seed: 3},
		WithLogger(logger), WithClock(tickClock()))
	require.NoError(t, err)

	res, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, res.Steps)
	assert.Equal(t, time.Second, res.Elapsed)

	progress := logs.FilterMessage("training progress").All()
	require.Len(t, progress, 4)
	assert.Equal(t, 25.0, progress[0].ContextMap()["percent"])
	assert.Equal(t, 100.0, progress[3].ContextMap()["percent"])
	assert.Equal(t, 1, logs.FilterMessage("training finished").Len())
}

func TestRun_AppliesSchedule(t *testing.T) {
	net := xorNet(t, 4)
	tr, err := New(net, dataset.XOR(), Config{Steps: 100, Seed: 1},
		WithSchedule(optim.LinearDecay{Initial: 1, Final: 0}))
	require.NoError(t, err)

	res, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.01, res.FinalLR, 1e-12)
	assert.InDelta(t, 0.01, net.LearningRate(), 1e-12)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr, err := New(xorNet(t, 5), dataset.XOR(), Config{Steps: 1000})
	require.NoError(t, err)
	res, err := tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Steps)
}

func TestRun_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr, err := New(xorNet(t, 6), dataset.XOR(), Config{Steps: 1000},
		WithSchedule(cancelAt{step: 10, cancel: cancel}))
	require.NoError(t, err)

	res, err := tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 11, res.Steps)
}

func TestRun_Deterministic(t *testing.T) {
	run := func() nn.State {
		net := xorNet(t, 7)
		tr, err := New(net, dataset.XOR(), Config{Steps: 500, Seed: 8})
		require.NoError(t, err)
		_, err = tr.Run(context.Background())
		require.NoError(t, err)
		return net.State()
	}

	a, b := run(), run()
	assert.True(t, a.WeightsInputHidden.Equal(b.WeightsInputHidden))
	assert.True(t, a.BiasOutput.Equal(b.BiasOutput))
}
