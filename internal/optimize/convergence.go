package optimize

import (
	"fmt"
	"math"
)

// Reason identifies why a solver stopped. It is a closed set: the
// three Converged reasons plus the two non-converged terminal states.
type Reason int

const (
	// ReasonGradient: gradient norm fell below GradTol.
	ReasonGradient Reason = iota
	// ReasonStep: step norm fell below StepTol.
	ReasonStep
	// ReasonFunction: absolute function change fell below FuncTol.
	ReasonFunction
	// ReasonMaxIterations: iteration bound reached without convergence.
	ReasonMaxIterations
	// ReasonLineSearchFailed: a line search could not find an
	// acceptable step; the run cannot make further progress.
	ReasonLineSearchFailed
)

// String returns the reason's identifier.
func (r Reason) String() string {
	switch r {
	case ReasonGradient:
		return "gradient"
	case ReasonStep:
		return "step"
	case ReasonFunction:
		return "function"
	case ReasonMaxIterations:
		return "maxIterations"
	case ReasonLineSearchFailed:
		return "lineSearchFailed"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Converged reports whether the reason represents successful
// convergence. Gradient, step and function do; max-iterations and
// line-search failure do not.
func (r Reason) Converged() bool {
	switch r {
	case ReasonGradient, ReasonStep, ReasonFunction:
		return true
	}
	return false
}

// CheckConvergence evaluates the stopping criteria in fixed priority
// order: gradient, step, function, then max iterations. The first
// criterion that holds wins, so when several are satisfied on the same
// iteration the earliest-listed reason is reported. The second return
// is false when no criterion holds and iteration should continue.
func CheckConvergence(gradNorm, stepNorm, funcChange float64, iteration int, opts Options) (Reason, bool) {
	switch {
	case gradNorm < opts.GradTol:
		return ReasonGradient, true
	case stepNorm < opts.StepTol:
		return ReasonStep, true
	case math.Abs(funcChange) < opts.FuncTol:
		return ReasonFunction, true
	case iteration >= opts.MaxIterations:
		return ReasonMaxIterations, true
	}
	return 0, false
}

// reasonValue selects the quantity reported in the message for a
// reason produced by CheckConvergence.
func reasonValue(r Reason, gradNorm, stepNorm, funcChange float64, maxIterations int) float64 {
	switch r {
	case ReasonGradient:
		return gradNorm
	case ReasonStep:
		return stepNorm
	case ReasonFunction:
		return funcChange
	case ReasonMaxIterations:
		return float64(maxIterations)
	}
	return 0
}

// ConvergenceMessage renders the fixed human-readable message for a
// reason. The reason carries no payload of its own; value is the
// triggering quantity (a norm or change for the converged reasons, the
// iteration bound for ReasonMaxIterations, ignored for line-search
// failure).
func ConvergenceMessage(r Reason, value float64) string {
	switch r {
	case ReasonGradient:
		return fmt.Sprintf("Converged: gradient norm %.2e below tolerance", value)
	case ReasonStep:
		return fmt.Sprintf("Converged: step size %.2e below tolerance", value)
	case ReasonFunction:
		return fmt.Sprintf("Converged: function change %.2e below tolerance", value)
	case ReasonMaxIterations:
		return fmt.Sprintf("Stopped: reached maximum iterations (%d)", int(value))
	case ReasonLineSearchFailed:
		return "Stopped: line search failed"
	default:
		return "Unknown termination reason"
	}
}
