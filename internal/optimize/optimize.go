// Package optimize implements iterative minimization of scalar
// functions of one or more real variables: the Nelder-Mead simplex
// method, BFGS, and limited-memory BFGS, together with the shared
// options, result and convergence machinery they use.
//
// Solvers are blocking and deterministic: for a fixed objective,
// starting point and options, repeated runs produce identical results.
// All iteration state is local to a single call.
package optimize

import "strings"

// Objective is a scalar function of a real vector. It must be
// deterministic and must not retain or mutate its argument. Panics or
// non-finite values propagate to the caller; the solvers do not
// recover an objective that cannot be evaluated.
type Objective func(x []float64) float64

// GradientFunc evaluates the gradient of an objective. The returned
// slice must have the same length as the input.
type GradientFunc func(x []float64) []float64

// Result is the outcome of a solver run. It is populated exactly once
// per invocation and is always well-formed: even on failure it carries
// iteration and call counts and a termination message.
type Result struct {
	// X is the best point found.
	X []float64
	// Fun is the objective value at X.
	Fun float64
	// Gradient is the gradient at X, nil for derivative-free solvers.
	Gradient []float64
	// Iterations is the number of iterations performed.
	Iterations int
	// FunctionCalls counts objective evaluations, including those made
	// by line searches and finite-difference gradients.
	FunctionCalls int
	// GradientCalls counts gradient evaluations.
	GradientCalls int
	// Converged reports whether a convergence criterion was met.
	Converged bool
	// Message is the human-readable termination reason.
	Message string
}

// Minimize dispatches to a solver by name: "neldermead", "bfgs" or
// "lbfgs" (case-insensitive). grad may be nil; Nelder-Mead ignores it
// and the quasi-Newton solvers fall back to finite differences.
func Minimize(solver string, f Objective, x0 []float64, grad GradientFunc, opts ...Option) (Result, error) {
	switch strings.ToLower(solver) {
	case "neldermead", "nelder-mead":
		return NelderMead(f, x0, opts...)
	case "bfgs":
		return BFGS(f, x0, grad, opts...)
	case "lbfgs", "l-bfgs":
		return LBFGS(f, x0, grad, opts...)
	default:
		return Result{}, newError("minimize", "unknown solver %q", solver)
	}
}

// Solvers returns the names accepted by Minimize.
func Solvers() []string {
	return []string{"neldermead", "bfgs", "lbfgs"}
}

// validateProblem rejects inputs no solver can work with.
func validateProblem(op string, f Objective, x0 []float64) error {
	if f == nil {
		return newError(op, "objective function is nil")
	}
	if len(x0) == 0 {
		return newError(op, "starting point is empty")
	}
	return nil
}
