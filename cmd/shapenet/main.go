// Package main is the shapenet command line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/shapenet-ml/shapenet/internal/logging"
	"github.com/shapenet-ml/shapenet/internal/version"
)

const (
	// Flags.
	flagConfig     = "config"
	flagCheckpoint = "checkpoint"
	flagSteps      = "steps"
	flagSeed       = "seed"
	flagHidden     = "hidden"
	flagLR         = "lr"
	flagImage      = "image"
	flagInput      = "input"
	flagWidth      = "width"
	flagHeight     = "height"
	flagOut        = "out"
	flagLogLevel   = "log-level"
	flagLogFormat  = "log-format"
	flagSkipSum    = "skip-checksum"
	flagValidation = "validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout, nil).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "shapenet:", err)
		stop()
		os.Exit(1)
	}
}

// runner holds what every command action shares.
type runner struct {
	out    io.Writer
	logger *zap.Logger

	// newLogger builds loggers from the log flags or a config file's log
	// section. Nil keeps logger for the whole run.
	newLogger func(name string, cfg logging.Config) (*zap.Logger, error)
}

// newApp builds the CLI. A nil logger is built from the log flags, or from
// the config file's log section when neither flag is set.
func newApp(out io.Writer, logger *zap.Logger) *cli.App {
	r := &runner{out: out, logger: logger}
	if logger == nil {
		r.newLogger = logging.New
	}
	return r.app()
}

func (r *runner) app() *cli.App {
	defaults := logging.DefaultConfig()

	return &cli.App{
		Name:    "shapenet",
		Usage:   "train and run small feed-forward networks",
		Version: version.Version,
		Writer:  r.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: defaults.Level,
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  flagLogFormat,
				Value: defaults.Encoding,
				Usage: "log encoding (console or json)",
			},
		},
		Before: func(c *cli.Context) error {
			if r.logger != nil {
				return nil
			}
			l, err := r.newLogger("shapenet", logging.Config{
				Level:    c.String(flagLogLevel),
				Encoding: c.String(flagLogFormat),
				Color:    defaults.Color,
			})
			if err != nil {
				return err
			}
			r.logger = l
			return nil
		},
		After: func(*cli.Context) error {
			if r.logger != nil {
				_ = r.logger.Sync() // stdout sync fails on some terminals
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "train",
				Usage: "train a network from a YAML config",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:     flagConfig,
						Aliases:  []string{"c"},
						Usage:    "load configuration from `FILE`",
						Required: true,
					},
					&cli.IntFlag{
						Name:  flagSteps,
						Usage: "override training.steps",
					},
				},
				Action: r.train,
			},
			{
				Name:  "xor",
				Usage: "train a network on XOR and print its outputs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: flagSteps, Value: 20000, Usage: "training steps"},
					&cli.Int64Flag{Name: flagSeed, Value: 1, Usage: "random seed"},
					&cli.IntFlag{Name: flagHidden, Value: 3, Usage: "hidden layer size"},
					&cli.Float64Flag{Name: flagLR, Value: 0.5, Usage: "learning rate"},
					&cli.PathFlag{Name: flagCheckpoint, Usage: "save the trained network to `FILE`"},
				},
				Action: r.xor,
			},
			{
				Name:  "predict",
				Usage: "run a saved network on images or a raw input vector",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: flagCheckpoint, Required: true, Usage: "checkpoint `FILE`"},
					&cli.BoolFlag{Name: flagSkipSum, Usage: "do not verify the checkpoint checksum"},
					&cli.StringFlag{Name: flagValidation, Value: "strict", Usage: "checkpoint header checks (strict, normal, none)"},
					&cli.StringSliceFlag{Name: flagImage, Usage: "image `FILE` (repeatable)"},
					&cli.Float64SliceFlag{Name: flagInput, Usage: "raw input values"},
					&cli.IntFlag{Name: flagWidth, Usage: "resize width (default from checkpoint)"},
					&cli.IntFlag{Name: flagHeight, Usage: "resize height (default from checkpoint)"},
				},
				Action: r.predict,
			},
			{
				Name:  "eval",
				Usage: "evaluate a saved network on the dataset of a config",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: flagConfig, Aliases: []string{"c"}, Required: true, Usage: "configuration `FILE`"},
					&cli.PathFlag{Name: flagCheckpoint, Required: true, Usage: "checkpoint `FILE`"},
					&cli.BoolFlag{Name: flagSkipSum, Usage: "do not verify the checkpoint checksum"},
					&cli.StringFlag{Name: flagValidation, Value: "strict", Usage: "checkpoint header checks (strict, normal, none)"},
				},
				Action: r.eval,
			},
			{
				Name:  "export",
				Usage: "convert a checkpoint to SafeTensors",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: flagCheckpoint, Required: true, Usage: "checkpoint `FILE`"},
					&cli.PathFlag{Name: flagOut, Required: true, Usage: "SafeTensors output `FILE`"},
					&cli.BoolFlag{Name: flagSkipSum, Usage: "do not verify the checkpoint checksum"},
					&cli.StringFlag{Name: flagValidation, Value: "strict", Usage: "checkpoint header checks (strict, normal, none)"},
				},
				Action: r.export,
			},
			{
				Name:  "version",
				Usage: "print the shapenet version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(r.out, "shapenet %s\n", version.Version)
					return nil
				},
			},
		},
	}
}

// useLogConfig replaces the logger with one built from cfg unless a log flag
// was given on the command line.
func (r *runner) useLogConfig(c *cli.Context, cfg logging.Config) error {
	if r.newLogger == nil || c.IsSet(flagLogLevel) || c.IsSet(flagLogFormat) {
		return nil
	}
	l, err := r.newLogger("shapenet", cfg)
	if err != nil {
		return err
	}
	if r.logger != nil {
		_ = r.logger.Sync()
	}
	r.logger = l
	return nil
}
