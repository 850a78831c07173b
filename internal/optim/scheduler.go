package optim

// Scheduler applies a Schedule to a model between training steps.
//
// Example:
//
//	sched := optim.NewScheduler(net, optim.StepDecay{Initial: 0.5, Factor: 0.5, Every: 1000})
//	lr := sched.Step(step, total) // net.LearningRate() == lr
type Scheduler struct {
	target   LearningRateSetter
	schedule Schedule
	lr       float64
}

// NewScheduler creates a Scheduler for target. A nil schedule keeps the
// target's current learning rate for the whole run.
func NewScheduler(target LearningRateSetter, schedule Schedule) *Scheduler {
	lr := target.LearningRate()
	if schedule == nil {
		schedule = Constant{LR: lr}
	}
	return &Scheduler{
		target:   target,
		schedule: schedule,
		lr:       lr,
	}
}

// Step computes the learning rate for step and sets it on the target.
// It returns the rate that was set.
func (s *Scheduler) Step(step, total int) float64 {
	s.lr = s.schedule.Rate(step, total)
	s.target.SetLearningRate(s.lr)
	return s.lr
}

// GetLR returns the most recently applied learning rate.
func (s *Scheduler) GetLR() float64 {
	return s.lr
}

// Schedule returns the underlying schedule.
func (s *Scheduler) Schedule() Schedule {
	return s.schedule
}
