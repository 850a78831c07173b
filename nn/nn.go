// Copyright 2025 The Shapenet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the single-hidden-layer feed-forward network.
//
// # Overview
//
// A Network maps an input vector through one sigmoid hidden layer to a
// sigmoid output layer and learns by online backpropagation: every call to
// Train performs one gradient descent step on one example.
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/shapenet-ml/shapenet/nn"
//	)
//
//	func main() {
//	    net, err := nn.NewNetwork(2, 3, 1, rand.New(rand.NewSource(1)))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    net.SetLearningRate(0.5)
//
//	    for i := 0; i < 20000; i++ {
//	        _ = net.Train([]float64{1, 0}, []float64{1})
//	    }
//	    out, _ := net.FeedForward([]float64{1, 0})
//	    fmt.Println(out)
//	}
package nn

import (
	"github.com/shapenet-ml/shapenet/internal/matrix"
	"github.com/shapenet-ml/shapenet/internal/nn"
)

// Network is a fully connected input → hidden → output network.
type Network = nn.Network

// Config describes a network to build with New.
type Config = nn.Config

// State is a deep copy of a network's matrices and learning rate.
type State = nn.State

// Activation is an element-wise activation whose derivative is expressed
// in terms of its output.
type Activation = nn.Activation

// Sigmoid is the logistic activation 1/(1+e^-x).
type Sigmoid = nn.Sigmoid

// DefaultLearningRate is used when Config.LearningRate is zero.
const DefaultLearningRate = nn.DefaultLearningRate

// New creates a network from cfg.
func New(cfg Config) (*Network, error) {
	return nn.New(cfg)
}

// DefaultConfig returns a Config with the given sizes and default settings.
func DefaultConfig(inputSize, hiddenSize, outputSize int) Config {
	return nn.DefaultConfig(inputSize, hiddenSize, outputSize)
}

// NewNetwork creates a sigmoid network with weights and biases drawn
// uniformly from [-1, 1) using src.
//
// Example:
//
//	net, err := nn.NewNetwork(784, 64, 10, rand.New(rand.NewSource(42)))
func NewNetwork(inputSize, hiddenSize, outputSize int, src matrix.RandSource) (*Network, error) {
	return nn.NewNetwork(inputSize, hiddenSize, outputSize, src)
}

// FromState builds a network whose sizes are inferred from s.
func FromState(s State, act Activation) (*Network, error) {
	return nn.FromState(s, act)
}

// ActivationByName returns the activation registered under name.
func ActivationByName(name string) (Activation, bool) {
	return nn.ActivationByName(name)
}

// SquaredError returns the summed squared error of one example.
func SquaredError(output, target []float64) (float64, error) {
	return nn.SquaredError(output, target)
}

// MSELoss returns the mean squared error of one example.
func MSELoss(output, target []float64) (float64, error) {
	return nn.MSELoss(output, target)
}
