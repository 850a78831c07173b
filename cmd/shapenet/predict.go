package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/shapenet-ml/shapenet/internal/dataset"
	"github.com/shapenet-ml/shapenet/internal/nn"
)

func (r *runner) predict(c *cli.Context) error {
	images := c.StringSlice(flagImage)
	input := c.Float64Slice(flagInput)
	if len(images) == 0 && len(input) == 0 {
		return errors.New("predict: need --image or --input")
	}
	if c.IsSet(flagWidth) != c.IsSet(flagHeight) {
		return errors.New("predict: --width and --height must be given together")
	}
	if c.Int(flagWidth) < 0 || c.Int(flagHeight) < 0 {
		return fmt.Errorf("predict: invalid resize %dx%d", c.Int(flagWidth), c.Int(flagHeight))
	}

	net, hdr, err := loadCheckpoint(c)
	if err != nil {
		return err
	}
	var labels []string
	if s := hdr.Metadata[metaLabels]; s != "" {
		labels = strings.Split(s, ",")
	}

	if len(input) > 0 {
		if err := r.printPrediction(net, "input", input, labels); err != nil {
			return err
		}
	}

	width, height := c.Int(flagWidth), c.Int(flagHeight)
	if !c.IsSet(flagWidth) && !c.IsSet(flagHeight) {
		width, _ = strconv.Atoi(hdr.Metadata[metaWidth])
		height, _ = strconv.Atoi(hdr.Metadata[metaHeight])
	}
	for _, path := range images {
		features, err := dataset.LoadImage(path, width, height)
		if err != nil {
			return err
		}
		if err := r.printPrediction(net, path, features, labels); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) printPrediction(net *nn.Network, name string, input []float64, labels []string) error {
	out, err := net.FeedForward(input)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	idx, score, err := net.Predict(input)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	fmt.Fprintf(r.out, "%s: %v", name, formatOutputs(out))
	if len(out) > 1 {
		label := strconv.Itoa(idx)
		if idx < len(labels) {
			label = labels[idx]
		}
		fmt.Fprintf(r.out, " -> %s (%.4f)", label, score)
	}
	fmt.Fprintln(r.out)
	return nil
}

func formatOutputs(out []float64) string {
	parts := make([]string, len(out))
	for i, v := range out {
		parts[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
