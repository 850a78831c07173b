// Package train drives online training of a network over a dataset.
//
// The trainer samples one example per step, applies a learning-rate schedule
// before each step, logs progress and stops between steps when its context
// is cancelled.
//
// Example:
//
//	tr, err := train.New(net, dataset.XOR(), train.Config{Steps: 20000, LogEvery: 2000, Seed: 1},
//	    train.WithLogger(logger),
//	    train.WithSchedule(optim.LinearDecay{Initial: 0.5, Final: 0.05}),
//	)
//	res, err := tr.Run(ctx)
package train

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/shapenet-ml/shapenet/internal/dataset"
	"github.com/shapenet-ml/shapenet/internal/matrix"
	"github.com/shapenet-ml/shapenet/internal/nn"
	"github.com/shapenet-ml/shapenet/internal/optim"
)

// Config controls a training run.
type Config struct {
	Steps    int   `yaml:"steps"`     // Number of online training steps
	LogEvery int   `yaml:"log_every"` // Log progress every N steps (0 disables)
	Seed     int64 `yaml:"seed"`      // Seed for example sampling
}

// DefaultConfig returns 20000 steps with progress every 1000 steps.
func DefaultConfig() Config {
	return Config{
		Steps:    20000,
		LogEvery: 1000,
		Seed:     1,
	}
}

// Result summarizes a finished or interrupted run.
type Result struct {
	Steps   int           // Steps actually performed
	Elapsed time.Duration // Wall time of the run
	FinalLR float64       // Learning rate used for the last step
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the progress logger. The default discards logs.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Trainer) { t.logger = logger }
}

// WithSchedule sets the learning-rate schedule. The default keeps the
// network's current rate.
func WithSchedule(s optim.Schedule) Option {
	return func(t *Trainer) { t.schedule = s }
}

// WithRand replaces the sampler's random source, which is otherwise seeded
// from Config.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(t *Trainer) { t.rng = rng }
}

// WithClock sets the clock used to measure elapsed time.
func WithClock(now func() time.Time) Option {
	return func(t *Trainer) { t.now = now }
}

// Trainer runs online training of one network on one dataset.
type Trainer struct {
	net      *nn.Network
	data     *dataset.Dataset
	cfg      Config
	logger   *zap.Logger
	schedule optim.Schedule
	rng      *rand.Rand
	now      func() time.Time
}

// New creates a Trainer. The dataset's input and target sizes must match
// the network's input and output sizes.
func New(net *nn.Network, data *dataset.Dataset, cfg Config, opts ...Option) (*Trainer, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("train: steps must be > 0, got %d", cfg.Steps)
	}
	if cfg.LogEvery < 0 {
		return nil, fmt.Errorf("train: log_every must be >= 0, got %d", cfg.LogEvery)
	}
	if err := checkSizes(net, data); err != nil {
		return nil, err
	}

	t := &Trainer{
		net:    net,
		data:   data,
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // G404: sampling order, not security
	}
	return t, nil
}

func checkSizes(net *nn.Network, data *dataset.Dataset) error {
	in, _, out := net.Sizes()
	if data.InputSize() != in || data.TargetSize() != out {
		return fmt.Errorf("train: %w: dataset is %d→%d, network is %d→%d",
			matrix.ErrShapeMismatch, data.InputSize(), data.TargetSize(), in, out)
	}
	return nil
}

// Run performs cfg.Steps training steps. It returns early with ctx.Err()
// when ctx is cancelled; Result then reports the steps completed so far.
func (t *Trainer) Run(ctx context.Context) (Result, error) {
	sampler := dataset.NewSampler(t.data, t.rng)
	scheduler := optim.NewScheduler(t.net, t.schedule)
	total := t.cfg.Steps

	start := t.now()
	res := Result{FinalLR: t.net.LearningRate()}
	finish := func() Result {
		res.Elapsed = t.now().Sub(start)
		return res
	}

	t.logger.Info("training started",
		zap.Int("steps", total),
		zap.Int("examples", t.data.Len()),
		zap.Float64("lr", scheduler.GetLR()),
	)

	for step := 0; step < total; step++ {
		if err := ctx.Err(); err != nil {
			t.logger.Warn("training interrupted", zap.Int("step", step), zap.Error(err))
			return finish(), fmt.Errorf("train: stopped after %d of %d steps: %w", step, total, err)
		}

		lr := scheduler.Step(step, total)
		ex := sampler.Next()
		if err := t.net.Train(ex.Input, ex.Target); err != nil {
			return finish(), fmt.Errorf("train: step %d: %w", step, err)
		}
		res.Steps = step + 1
		res.FinalLR = lr

		if t.cfg.LogEvery > 0 && res.Steps%t.cfg.LogEvery == 0 {
			t.logger.Info("training progress",
				zap.Int("step", res.Steps),
				zap.Float64("percent", 100*float64(res.Steps)/float64(total)),
				zap.Float64("lr", lr),
			)
		}
	}

	res = finish()
	t.logger.Info("training finished",
		zap.Int("steps", res.Steps),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("final_lr", res.FinalLR),
	)
	return res, nil
}
