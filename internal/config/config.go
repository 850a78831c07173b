// Package config loads shapenet run configuration from YAML.
//
// Example file:
//
//	network:
//	  hidden: 16
//	  learning_rate: 0.3
//	training:
//	  steps: 50000
//	  log_every: 5000
//	schedule:
//	  kind: linear
//	  final: 0.01
//	dataset:
//	  kind: images
//	  width: 16
//	  height: 16
//	  classes:
//	    - {label: circle, target: [1, 0], pattern: "data/circle/*.png"}
//	    - {label: square, target: [0, 1], pattern: "data/square/*.png"}
//	checkpoint:
//	  path: shapes.snet
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shapenet-ml/shapenet/internal/logging"
	"github.com/shapenet-ml/shapenet/internal/nn"
	"github.com/shapenet-ml/shapenet/internal/optim"
	"github.com/shapenet-ml/shapenet/internal/train"
)

// Dataset kinds.
const (
	DatasetXOR    = "xor"
	DatasetImages = "images"
	DatasetIDX    = "idx"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete run configuration.
type Config struct {
	Network    NetworkConfig    `yaml:"network"`
	Training   train.Config     `yaml:"training"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Log        logging.Config   `yaml:"log"`
}

// NetworkConfig describes the network. Zero input or output sizes are taken
// from the dataset.
type NetworkConfig struct {
	Input        int     `yaml:"input"`
	Hidden       int     `yaml:"hidden"`
	Output       int     `yaml:"output"`
	LearningRate float64 `yaml:"learning_rate"`
	Activation   string  `yaml:"activation"`
	Seed         int64   `yaml:"seed"` // Weight initialization seed
}

// ScheduleConfig selects a learning-rate schedule. The initial rate is
// Network.LearningRate.
type ScheduleConfig struct {
	Kind   string  `yaml:"kind"`   // constant, linear or step
	Final  float64 `yaml:"final"`  // linear: rate at the last step
	Factor float64 `yaml:"factor"` // step: multiplier
	Every  int     `yaml:"every"`  // step: steps between multiplications
}

// ClassConfig is one labeled image class.
type ClassConfig struct {
	Label   string    `yaml:"label"`
	Target  []float64 `yaml:"target"`
	Pattern string    `yaml:"pattern"`
}

// DatasetConfig selects and parameterizes the training data.
type DatasetConfig struct {
	Kind    string  `yaml:"kind"`    // xor, images or idx
	Holdout float64 `yaml:"holdout"` // Fraction held out for evaluation (0 disables)

	// images
	Classes []ClassConfig `yaml:"classes,omitempty"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	Workers int           `yaml:"workers"` // 0 uses every CPU

	// idx
	Images     string `yaml:"images"`
	Labels     string `yaml:"labels"`
	MaxSamples int    `yaml:"max_samples"`
}

// CheckpointConfig says where trained weights go.
type CheckpointConfig struct {
	Path        string `yaml:"path"`        // .snet output (empty skips saving)
	SafeTensors string `yaml:"safetensors"` // Optional SafeTensors export
}

// Default returns a configuration that trains XOR.
func Default() Config {
	return Config{
		Network: NetworkConfig{
			Hidden:       3,
			LearningRate: nn.DefaultLearningRate,
			Activation:   "sigmoid",
			Seed:         1,
		},
		Training:   train.DefaultConfig(),
		Schedule:   ScheduleConfig{Kind: optim.KindConstant},
		Dataset:    DatasetConfig{Kind: DatasetXOR},
		Checkpoint: CheckpointConfig{},
		Log:        logging.DefaultConfig(),
	}
}

// Load reads path, applies it over Default and validates the result.
func Load(path string) (Config, error) {
	//nolint:gosec // G304: config path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	n := c.Network
	if n.Input < 0 || n.Hidden <= 0 || n.Output < 0 {
		return fmt.Errorf("%w: network sizes %d-%d-%d", ErrInvalid, n.Input, n.Hidden, n.Output)
	}
	if n.LearningRate < 0 {
		return fmt.Errorf("%w: learning_rate %g is negative", ErrInvalid, n.LearningRate)
	}
	if _, ok := nn.ActivationByName(n.Activation); !ok {
		return fmt.Errorf("%w: unknown activation %q", ErrInvalid, n.Activation)
	}

	if c.Training.Steps <= 0 {
		return fmt.Errorf("%w: training.steps must be > 0", ErrInvalid)
	}
	if c.Training.LogEvery < 0 {
		return fmt.Errorf("%w: training.log_every must be >= 0", ErrInvalid)
	}

	if _, err := c.BuildSchedule(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := c.Dataset.validate(); err != nil {
		return err
	}
	return nil
}

func (d DatasetConfig) validate() error {
	if d.Holdout < 0 || d.Holdout >= 1 {
		return fmt.Errorf("%w: dataset.holdout %g not in [0, 1)", ErrInvalid, d.Holdout)
	}
	switch d.Kind {
	case DatasetXOR:
	case DatasetImages:
		if len(d.Classes) == 0 {
			return fmt.Errorf("%w: images dataset needs classes", ErrInvalid)
		}
		for i, c := range d.Classes {
			if c.Pattern == "" || len(c.Target) == 0 {
				return fmt.Errorf("%w: class %d (%q) needs pattern and target", ErrInvalid, i, c.Label)
			}
			if len(c.Target) != len(d.Classes[0].Target) {
				return fmt.Errorf("%w: class %q target length %d, want %d",
					ErrInvalid, c.Label, len(c.Target), len(d.Classes[0].Target))
			}
		}
		if (d.Width == 0) != (d.Height == 0) || d.Width < 0 || d.Height < 0 {
			return fmt.Errorf("%w: resize %dx%d", ErrInvalid, d.Width, d.Height)
		}
		if d.Workers < 0 {
			return fmt.Errorf("%w: workers must be >= 0", ErrInvalid)
		}
	case DatasetIDX:
		if d.Images == "" || d.Labels == "" {
			return fmt.Errorf("%w: idx dataset needs images and labels", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown dataset kind %q", ErrInvalid, d.Kind)
	}
	return nil
}

// BuildSchedule returns the configured learning-rate schedule.
func (c Config) BuildSchedule() (optim.Schedule, error) {
	s := c.Schedule
	return optim.Parse(s.Kind, c.Network.LearningRate, s.Final, s.Factor, s.Every)
}
