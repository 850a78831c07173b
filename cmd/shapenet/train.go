package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/shapenet-ml/shapenet/internal/config"
	"github.com/shapenet-ml/shapenet/internal/dataset"
	"github.com/shapenet-ml/shapenet/internal/nn"
	"github.com/shapenet-ml/shapenet/internal/serialization"
	"github.com/shapenet-ml/shapenet/internal/train"
)

// Checkpoint metadata keys.
const (
	metaDataset = "dataset"
	metaLabels  = "labels"
	metaWidth   = "image_width"
	metaHeight  = "image_height"
)

func (r *runner) train(c *cli.Context) error {
	cfg, err := config.Load(c.Path(flagConfig))
	if err != nil {
		return err
	}
	if c.IsSet(flagSteps) {
		cfg.Training.Steps = c.Int(flagSteps)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := r.useLogConfig(c, cfg.Log); err != nil {
		return err
	}

	data, err := loadDataset(c.Context, cfg.Dataset)
	if err != nil {
		return err
	}
	r.logger.Info("dataset loaded",
		zap.String("kind", cfg.Dataset.Kind),
		zap.Int("examples", data.Len()),
		zap.Int("input_size", data.InputSize()),
		zap.Int("target_size", data.TargetSize()),
	)

	trainSet, evalSet := data, data
	if cfg.Dataset.Holdout > 0 {
		//nolint:gosec // G404: split order, not security
		trainSet, evalSet, err = data.Split(cfg.Dataset.Holdout, rand.New(rand.NewSource(cfg.Training.Seed)))
		if err != nil {
			return err
		}
	}

	net, err := buildNetwork(cfg.Network, data)
	if err != nil {
		return err
	}
	schedule, err := cfg.BuildSchedule()
	if err != nil {
		return err
	}

	tr, err := train.New(net, trainSet, cfg.Training,
		train.WithLogger(r.logger.Named("train")),
		train.WithSchedule(schedule),
	)
	if err != nil {
		return err
	}
	res, err := tr.Run(c.Context)
	if err != nil {
		return err
	}

	rep, err := train.Evaluate(net, evalSet)
	if err != nil {
		return err
	}
	printReport(r.out, rep)

	return r.saveOutputs(cfg, net, res, rep)
}

func (r *runner) saveOutputs(cfg config.Config, net *nn.Network, res train.Result, rep train.Report) error {
	if cfg.Checkpoint.Path != "" {
		hdr, err := serialization.Save(cfg.Checkpoint.Path, net, serialization.Meta{
			Metadata: checkpointMetadata(cfg.Dataset),
			Training: &serialization.TrainingMeta{
				Steps:    int64(res.Steps),
				Schedule: cfg.Schedule.Kind,
				FinalLR:  res.FinalLR,
				MeanLoss: rep.MeanSE,
				Dataset:  cfg.Dataset.Kind,
			},
		})
		if err != nil {
			return err
		}
		r.logger.Info("checkpoint saved",
			zap.String("path", cfg.Checkpoint.Path),
			zap.String("run_id", hdr.RunID),
		)
	}
	if cfg.Checkpoint.SafeTensors != "" {
		if err := serialization.ExportSafeTensors(cfg.Checkpoint.SafeTensors, net, checkpointMetadata(cfg.Dataset)); err != nil {
			return err
		}
		r.logger.Info("safetensors exported", zap.String("path", cfg.Checkpoint.SafeTensors))
	}
	return nil
}

func (r *runner) eval(c *cli.Context) error {
	cfg, err := config.Load(c.Path(flagConfig))
	if err != nil {
		return err
	}
	if err := r.useLogConfig(c, cfg.Log); err != nil {
		return err
	}
	net, hdr, err := loadCheckpoint(c)
	if err != nil {
		return err
	}
	r.logger.Info("checkpoint loaded", zap.String("run_id", hdr.RunID), zap.Time("created_at", hdr.CreatedAt))

	data, err := loadDataset(c.Context, cfg.Dataset)
	if err != nil {
		return err
	}
	rep, err := train.Evaluate(net, data)
	if err != nil {
		return err
	}
	printReport(r.out, rep)
	return nil
}

func (r *runner) export(c *cli.Context) error {
	net, hdr, err := loadCheckpoint(c)
	if err != nil {
		return err
	}
	meta := map[string]string{"run_id": hdr.RunID}
	for k, v := range hdr.Metadata {
		meta[k] = v
	}
	if err := serialization.ExportSafeTensors(c.Path(flagOut), net, meta); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "exported %s\n", c.Path(flagOut))
	return nil
}

// loadCheckpoint reads the --checkpoint file with the reader flags applied.
func loadCheckpoint(c *cli.Context) (*nn.Network, *serialization.Header, error) {
	level, err := serialization.ParseValidationLevel(c.String(flagValidation))
	if err != nil {
		return nil, nil, err
	}
	return serialization.LoadWithOptions(c.Path(flagCheckpoint), serialization.ReaderOptions{
		SkipChecksumValidation: c.Bool(flagSkipSum),
		ValidationLevel:        level,
	})
}

// loadDataset builds the configured dataset.
func loadDataset(ctx context.Context, d config.DatasetConfig) (*dataset.Dataset, error) {
	switch d.Kind {
	case config.DatasetXOR:
		return dataset.XOR(), nil
	case config.DatasetImages:
		classes := make([]dataset.Class, len(d.Classes))
		for i, c := range d.Classes {
			classes[i] = dataset.Class{Label: c.Label, Target: c.Target, Pattern: c.Pattern}
		}
		opts := dataset.DefaultImageOptions()
		opts.Width, opts.Height = d.Width, d.Height
		if d.Workers > 0 {
			opts.Parallel.NumWorkers = d.Workers
			opts.Parallel.Enabled = d.Workers > 1
		}
		return dataset.LoadImages(ctx, classes, opts)
	case config.DatasetIDX:
		return dataset.LoadIDX(d.Images, d.Labels, d.MaxSamples)
	default:
		return nil, fmt.Errorf("unknown dataset kind %q", d.Kind)
	}
}

// buildNetwork creates a network sized by cfg, taking unset input and output
// sizes from data.
func buildNetwork(cfg config.NetworkConfig, data *dataset.Dataset) (*nn.Network, error) {
	act, ok := nn.ActivationByName(cfg.Activation)
	if !ok {
		return nil, fmt.Errorf("unknown activation %q", cfg.Activation)
	}
	in, out := cfg.Input, cfg.Output
	if in == 0 {
		in = data.InputSize()
	}
	if out == 0 {
		out = data.TargetSize()
	}
	return nn.New(nn.Config{
		InputSize:    in,
		HiddenSize:   cfg.Hidden,
		OutputSize:   out,
		LearningRate: cfg.LearningRate,
		Activation:   act,
		Rand:         rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // G404: weight init, not security
	})
}

func checkpointMetadata(d config.DatasetConfig) map[string]string {
	meta := map[string]string{metaDataset: d.Kind}
	if d.Kind == config.DatasetImages {
		labels := make([]string, len(d.Classes))
		for i, c := range d.Classes {
			labels[i] = c.Label
		}
		meta[metaLabels] = strings.Join(labels, ",")
		if d.Width > 0 {
			meta[metaWidth] = strconv.Itoa(d.Width)
			meta[metaHeight] = strconv.Itoa(d.Height)
		}
	}
	return meta
}

func printReport(w io.Writer, rep train.Report) {
	fmt.Fprintf(w, "examples:  %d\n", rep.Count)
	fmt.Fprintf(w, "accuracy:  %.2f%% (%d/%d)\n", 100*rep.Accuracy, rep.Correct, rep.Count)
	fmt.Fprintf(w, "mean se:   %.6f\n", rep.MeanSE)
	fmt.Fprintf(w, "stddev se: %.6f\n", rep.StdDevSE)
	fmt.Fprintf(w, "max se:    %.6f\n", rep.MaxSE)
}
