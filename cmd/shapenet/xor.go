package main

import (
	"fmt"
	"math/rand"

	"github.com/urfave/cli/v2"

	"github.com/shapenet-ml/shapenet/internal/dataset"
	"github.com/shapenet-ml/shapenet/internal/nn"
	"github.com/shapenet-ml/shapenet/internal/serialization"
	"github.com/shapenet-ml/shapenet/internal/train"
)

func (r *runner) xor(c *cli.Context) error {
	seed := c.Int64(flagSeed)
	net, err := nn.New(nn.Config{
		InputSize:    2,
		HiddenSize:   c.Int(flagHidden),
		OutputSize:   1,
		LearningRate: c.Float64(flagLR),
		Rand:         rand.New(rand.NewSource(seed)), //nolint:gosec // G404: weight init, not security
	})
	if err != nil {
		return err
	}

	data := dataset.XOR()
	steps := c.Int(flagSteps)
	tr, err := train.New(net, data, train.Config{Steps: steps, LogEvery: max(steps/10, 1), Seed: seed},
		train.WithLogger(r.logger.Named("xor")))
	if err != nil {
		return err
	}
	res, err := tr.Run(c.Context)
	if err != nil {
		return err
	}

	for i := 0; i < data.Len(); i++ {
		ex := data.At(i)
		out, err := net.FeedForward(ex.Input)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%v -> %.4f (want %v)\n", ex.Input, out[0], ex.Target[0])
	}
	rep, err := train.Evaluate(net, data)
	if err != nil {
		return err
	}
	printReport(r.out, rep)
	fmt.Fprintf(r.out, "elapsed:   %s\n", res.Elapsed)

	if path := c.Path(flagCheckpoint); path != "" {
		if _, err := serialization.Save(path, net, serialization.Meta{
			Metadata: map[string]string{metaDataset: "xor"},
			Training: &serialization.TrainingMeta{
				Steps:    int64(res.Steps),
				FinalLR:  res.FinalLR,
				MeanLoss: rep.MeanSE,
				Dataset:  "xor",
			},
		}); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "saved %s\n", path)
	}
	return nil
}
