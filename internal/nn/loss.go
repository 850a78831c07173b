package nn

import (
	"fmt"

	"github.com/shapenet-ml/shapenet/internal/matrix"
)

// SquaredError returns Σ(target - output)² over the outputs of one example.
func SquaredError(output, target []float64) (float64, error) {
	if len(output) != len(target) {
		return 0, fmt.Errorf("%w: output has %d values, target has %d",
			matrix.ErrShapeMismatch, len(output), len(target))
	}
	var sum float64
	for i, o := range output {
		d := target[i] - o
		sum += d * d
	}
	return sum, nil
}

// MSELoss returns mean((target - output)²) for one example.
//
// Example:
//
//	out, _ := net.FeedForward(x)
//	loss, err := nn.MSELoss(out, y)
func MSELoss(output, target []float64) (float64, error) {
	if len(output) == 0 {
		return 0, fmt.Errorf("%w: empty output", matrix.ErrShapeMismatch)
	}
	sum, err := SquaredError(output, target)
	if err != nil {
		return 0, err
	}
	return sum / float64(len(output)), nil
}
