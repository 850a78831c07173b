// Copyright 2025 The Shapenet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides learning-rate schedules for online training.
//
// # Overview
//
// This package contains:
//   - Schedule interface: (step, total) → learning rate
//   - Constant, LinearDecay, StepDecay
//   - Scheduler: applies a Schedule to a network between steps
//
// # Basic Usage
//
//	sched := optim.NewScheduler(net, optim.LinearDecay{Initial: 0.5, Final: 0.01})
//	for step := range total {
//	    sched.Step(step, total)
//	    _ = net.Train(x, y)
//	}
package optim

import (
	"github.com/shapenet-ml/shapenet/internal/optim"
)

// Schedule computes the learning rate for a step.
type Schedule = optim.Schedule

// LearningRateSetter is a model whose learning rate a Scheduler adjusts.
type LearningRateSetter = optim.LearningRateSetter

// Constant always returns LR.
type Constant = optim.Constant

// LinearDecay interpolates from Initial to Final over the run.
type LinearDecay = optim.LinearDecay

// StepDecay multiplies Initial by Factor every Every steps.
type StepDecay = optim.StepDecay

// Scheduler applies a Schedule to a model.
type Scheduler = optim.Scheduler

// ErrUnknownSchedule is returned by Parse for an unrecognised kind.
var ErrUnknownSchedule = optim.ErrUnknownSchedule

// NewScheduler creates a Scheduler for target.
func NewScheduler(target LearningRateSetter, schedule Schedule) *Scheduler {
	return optim.NewScheduler(target, schedule)
}

// Parse builds a Schedule from its kind ("constant", "linear" or "step")
// and parameters.
func Parse(kind string, initial, final, factor float64, every int) (Schedule, error) {
	return optim.Parse(kind, initial, final, factor, every)
}
