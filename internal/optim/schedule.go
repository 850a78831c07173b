package optim

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownSchedule is returned by Parse for an unrecognised schedule kind.
var ErrUnknownSchedule = errors.New("optim: unknown schedule")

// Schedule kinds accepted by Parse.
const (
	KindConstant = "constant"
	KindLinear   = "linear"
	KindStep     = "step"
)

// Constant always returns LR.
type Constant struct {
	LR float64
}

// Rate returns c.LR.
func (c Constant) Rate(_, _ int) float64 {
	return c.LR
}

// LinearDecay interpolates linearly from Initial at step 0 to Final at step
// total.
//
//	lr(step) = Initial + (Final - Initial) * step / total
//
// With Final < 0 the rate crosses zero part way through the run; that is
// allowed and the value is handed to the model as is.
type LinearDecay struct {
	Initial float64
	Final   float64
}

// Rate returns the interpolated learning rate.
func (l LinearDecay) Rate(step, total int) float64 {
	if total <= 0 {
		return l.Initial
	}
	frac := float64(step) / float64(total)
	return l.Initial + (l.Final-l.Initial)*frac
}

// StepDecay multiplies Initial by Factor every Every steps.
//
//	lr(step) = Initial * Factor^(step / Every)
type StepDecay struct {
	Initial float64
	Factor  float64
	Every   int
}

// Rate returns the decayed learning rate.
func (s StepDecay) Rate(step, _ int) float64 {
	if s.Every <= 0 {
		return s.Initial
	}
	return s.Initial * math.Pow(s.Factor, float64(step/s.Every))
}

// Parse builds a Schedule from its configuration fields.
//
// Supported kinds: "constant" (or ""), "linear", "step".
func Parse(kind string, initial, final, factor float64, every int) (Schedule, error) {
	switch kind {
	case KindConstant, "":
		return Constant{LR: initial}, nil
	case KindLinear:
		return LinearDecay{Initial: initial, Final: final}, nil
	case KindStep:
		if every <= 0 {
			return nil, fmt.Errorf("step schedule: every must be > 0, got %d", every)
		}
		if factor <= 0 {
			return nil, fmt.Errorf("step schedule: factor must be > 0, got %g", factor)
		}
		return StepDecay{Initial: initial, Factor: factor, Every: every}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchedule, kind)
	}
}
