package train

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"github.com/shapenet-ml/shapenet/internal/dataset"
	"github.com/shapenet-ml/shapenet/internal/nn"
)

// Report summarizes a network's performance on a dataset.
//
// Squared error is summed over the outputs of one example; the statistics
// are taken over examples.
type Report struct {
	Count    int     // Examples evaluated
	Correct  int     // Examples classified correctly
	Accuracy float64 // Correct / Count
	MeanSE   float64 // Mean per-example squared error
	StdDevSE float64 // Population standard deviation of the squared error
	MaxSE    float64 // Worst per-example squared error
}

// Evaluate runs every example of data through net.
//
// With several outputs an example is correct when the largest output and
// the largest target share an index. With a single output the prediction is
// the distinct target value nearest to the output (ties go to the smaller
// value), so a 0/1 target set thresholds at 0.5.
func Evaluate(net *nn.Network, data *dataset.Dataset) (Report, error) {
	if err := checkSizes(net, data); err != nil {
		return Report{}, err
	}

	var levels []float64
	if data.TargetSize() == 1 {
		levels = targetLevels(data)
	}

	errs := make(stats.Float64Data, data.Len())
	correct := 0
	for i := 0; i < data.Len(); i++ {
		ex := data.At(i)
		out, err := net.FeedForward(ex.Input)
		if err != nil {
			return Report{}, fmt.Errorf("evaluate: example %d: %w", i, err)
		}

		se, err := nn.SquaredError(out, ex.Target)
		if err != nil {
			return Report{}, fmt.Errorf("evaluate: example %d: %w", i, err)
		}
		errs[i] = se

		if levels != nil {
			if nearest(levels, out[0]) == ex.Target[0] {
				correct++
			}
		} else if floats.MaxIdx(out) == floats.MaxIdx(ex.Target) {
			correct++
		}
	}

	mean, err := stats.Mean(errs)
	if err != nil {
		return Report{}, fmt.Errorf("evaluate: %w", err)
	}
	stddev, err := stats.StandardDeviation(errs)
	if err != nil {
		return Report{}, fmt.Errorf("evaluate: %w", err)
	}
	maxSE, err := stats.Max(errs)
	if err != nil {
		return Report{}, fmt.Errorf("evaluate: %w", err)
	}

	return Report{
		Count:    data.Len(),
		Correct:  correct,
		Accuracy: float64(correct) / float64(data.Len()),
		MeanSE:   mean,
		StdDevSE: stddev,
		MaxSE:    maxSE,
	}, nil
}

// targetLevels returns the sorted distinct values of a single-output target.
func targetLevels(data *dataset.Dataset) []float64 {
	seen := make(map[float64]bool)
	var levels []float64
	for i := 0; i < data.Len(); i++ {
		v := data.At(i).Target[0]
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Float64s(levels)
	return levels
}

func nearest(levels []float64, v float64) float64 {
	best, bestDist := levels[0], math.Abs(v-levels[0])
	for _, l := range levels[1:] {
		if d := math.Abs(v - l); d < bestDist {
			best, bestDist = l, d
		}
	}
	return best
}
