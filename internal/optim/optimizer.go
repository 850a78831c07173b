// Package optim implements learning-rate schedules for online gradient descent.
//
// The network applies plain gradient descent itself; this package only decides
// which learning rate each step uses. It provides:
//   - Schedule: maps (step, total) to a learning rate
//   - Constant, LinearDecay, StepDecay schedules
//   - Scheduler: binds a Schedule to a model and applies it between steps
//
// Example usage:
//
//	sched := optim.NewScheduler(net, optim.LinearDecay{Initial: 0.5, Final: 0.05})
//	for step := 0; step < total; step++ {
//	    sched.Step(step, total)
//	    if err := net.Train(ex.Input, ex.Target); err != nil {
//	        return err
//	    }
//	}
package optim

// LearningRateSetter is implemented by models whose learning rate can be
// changed between training steps. *nn.Network implements it.
type LearningRateSetter interface {
	LearningRate() float64
	SetLearningRate(lr float64)
}

// Schedule computes the learning rate for a step.
//
// step counts from 0; total is the number of steps in the run. Implementations
// must be pure so that runs are reproducible.
type Schedule interface {
	Rate(step, total int) float64
}
