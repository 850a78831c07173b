package nn

import "math"

// Activation is an element-wise activation function paired with its derivative.
//
// Derivative receives the activation's own output y = Apply(x), not the
// pre-activation value x. Training relies on this: the backward pass only keeps
// the activated hidden and output matrices, so only functions whose derivative
// can be written in terms of their output may implement Activation.
type Activation interface {
	// Name identifies the activation in checkpoints and logs.
	Name() string

	// Apply computes f(x).
	Apply(x float64) float64

	// Derivative computes f'(x) given y = f(x).
	Derivative(y float64) float64
}

// Sigmoid is the logistic activation.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// Sigmoid squashes values to the range (0, 1). Its derivative expressed in
// terms of its output is σ'(y) = y * (1 - y).
//
// In float64 the result is strictly inside (0, 1) only for roughly
// -745 < x < 37: above that σ(x) rounds to exactly 1, and below it exp(-x)
// overflows and σ(x) is 0. Saturated outputs have a zero derivative.
//
// Example:
//
//	var act nn.Activation = nn.Sigmoid{}
//	y := act.Apply(0)        // 0.5
//	dy := act.Derivative(y)  // 0.25
type Sigmoid struct{}

// Name returns "sigmoid".
func (Sigmoid) Name() string {
	return "sigmoid"
}

// Apply computes σ(x) = 1 / (1 + exp(-x)).
func (Sigmoid) Apply(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Derivative computes σ'(y) = y * (1 - y) where y = σ(x).
func (Sigmoid) Derivative(y float64) float64 {
	return y * (1.0 - y)
}

// ActivationByName returns the activation registered under name.
// Only "sigmoid" is available.
func ActivationByName(name string) (Activation, bool) {
	switch name {
	case "sigmoid", "":
		return Sigmoid{}, true
	default:
		return nil, false
	}
}
