// Package linesearch finds a step size along a descent direction.
// Two algorithms are provided: backtracking under the Armijo
// sufficient-decrease condition, and a strong-Wolfe search
// (bracketing expansion followed by a zoom phase) that additionally
// enforces the curvature condition. The quasi-Newton solvers consume
// the strong-Wolfe variant because its curvature guarantee keeps
// their Hessian approximations positive definite.
package linesearch

import (
	"math"

	"github.com/optimalab/descent/internal/optimize/vecops"
)

// Algorithm constants. These are treated as universal rather than
// tunable and are deliberately not part of the solver options.
const (
	// armijoC1 is the sufficient-decrease constant shared by both
	// searches.
	armijoC1 = 1e-4
	// wolfeC2 is the curvature constant of the strong-Wolfe search.
	wolfeC2 = 0.9
	// backtrackRho is the backtracking contraction factor.
	backtrackRho = 0.5
	// initialAlpha is the first trial step of both searches.
	initialAlpha = 1.0
	// alphaMax caps the bracketing expansion.
	alphaMax = 1e6

	backtrackMaxIter = 20
	wolfeMaxIter     = 25
	zoomMaxIter      = 20
)

// Result reports the outcome of a line search. FunctionCalls and
// GradientCalls are cumulative over the whole search so the owning
// solver can keep its bookkeeping exact.
type Result struct {
	// Alpha is the accepted (or last tried) step size.
	Alpha float64
	// FNew is the objective value at x + Alpha*d.
	FNew float64
	// GNew is the gradient at the accepted point when the search
	// evaluated one; the solvers reuse it to avoid a redundant
	// gradient call. Nil for backtracking.
	GNew []float64
	// Success reports whether the search conditions were satisfied.
	Success bool
	// FunctionCalls counts objective evaluations made by the search.
	FunctionCalls int
	// GradientCalls counts gradient evaluations made by the search.
	GradientCalls int
}

// Backtracking searches for a step satisfying the Armijo condition
// f(x+a*d) <= fx + c1*a*g.d by repeatedly halving the trial step.
// d must be a descent direction (g.d < 0); anything else fails
// immediately without evaluating the objective.
func Backtracking(f func([]float64) float64, x, d []float64, fx float64, g []float64) Result {
	dg := vecops.Dot(g, d)
	if dg >= 0 {
		return Result{Alpha: initialAlpha, FNew: fx}
	}

	alpha := initialAlpha
	calls := 0
	for i := 0; i < backtrackMaxIter; i++ {
		fNew := f(vecops.AddScaled(x, d, alpha))
		calls++
		if fNew <= fx+armijoC1*alpha*dg {
			return Result{
				Alpha:         alpha,
				FNew:          fNew,
				Success:       true,
				FunctionCalls: calls,
			}
		}
		alpha *= backtrackRho
	}

	return Result{Alpha: alpha, FNew: fx, FunctionCalls: calls}
}

// StrongWolfe searches for a step satisfying both the Armijo condition
// and the strong curvature condition |g(x+a*d).d| <= c2*|g.d|,
// following the bracket-then-zoom scheme of Nocedal & Wright
// (Algorithms 3.5 and 3.6). The trial step starts at 1 and doubles
// until a bracket around an acceptable point is found; the zoom phase
// then bisects the bracket. On success the result carries the gradient
// at the accepted point.
//
// The search fails when d is not a descent direction, when no bracket
// appears within the expansion budget, or when zoom exhausts its
// budget. The last can happen legitimately, e.g. on a monotonically
// decreasing objective whose slope never flattens enough for the
// curvature condition; the owning solver treats it as a terminal
// line-search failure.
func StrongWolfe(f func([]float64) float64, grad func([]float64) []float64, x, d []float64, fx float64, g []float64) Result {
	dg0 := vecops.Dot(g, d)
	if dg0 >= 0 {
		return Result{Alpha: initialAlpha, FNew: fx}
	}

	s := wolfeState{f: f, grad: grad, x: x, d: d, fx: fx, dg0: dg0}

	alphaPrev := 0.0
	fPrev := fx
	alpha := initialAlpha

	for i := 0; i < wolfeMaxIter; i++ {
		fNew := s.eval(alpha)

		// Armijo violated, or the function stopped decreasing between
		// consecutive trials: an acceptable point lies between the
		// previous and current steps.
		if fNew > fx+armijoC1*alpha*dg0 || (i > 0 && fNew >= fPrev) {
			return s.zoom(alphaPrev, fPrev, alpha)
		}

		gNew := s.evalGrad(alpha)
		dgNew := vecops.Dot(gNew, d)

		if math.Abs(dgNew) <= wolfeC2*math.Abs(dg0) {
			return Result{
				Alpha:         alpha,
				FNew:          fNew,
				GNew:          gNew,
				Success:       true,
				FunctionCalls: s.functionCalls,
				GradientCalls: s.gradientCalls,
			}
		}

		// Positive slope: the minimum is behind us.
		if dgNew >= 0 {
			return s.zoom(alpha, fNew, alphaPrev)
		}

		alphaPrev = alpha
		fPrev = fNew
		alpha = math.Min(2*alpha, alphaMax)
	}

	return Result{
		Alpha:         alpha,
		FNew:          fx,
		FunctionCalls: s.functionCalls,
		GradientCalls: s.gradientCalls,
	}
}

// wolfeState carries the fixed data of one strong-Wolfe search plus
// its evaluation counters.
type wolfeState struct {
	f    func([]float64) float64
	grad func([]float64) []float64
	x, d []float64
	fx   float64
	dg0  float64

	functionCalls int
	gradientCalls int
}

func (s *wolfeState) eval(alpha float64) float64 {
	s.functionCalls++
	return s.f(vecops.AddScaled(s.x, s.d, alpha))
}

func (s *wolfeState) evalGrad(alpha float64) []float64 {
	s.gradientCalls++
	return s.grad(vecops.AddScaled(s.x, s.d, alpha))
}

// zoom bisects the bracket [alphaLo, alphaHi] until both Wolfe
// conditions hold at the midpoint or the budget runs out. alphaLo
// always carries the lowest function value found so far; the bracket
// endpoints are not necessarily ordered.
func (s *wolfeState) zoom(alphaLo, fLo, alphaHi float64) Result {
	for i := 0; i < zoomMaxIter; i++ {
		alpha := (alphaLo + alphaHi) / 2
		fNew := s.eval(alpha)

		if fNew > s.fx+armijoC1*alpha*s.dg0 || fNew >= fLo {
			alphaHi = alpha
			continue
		}

		gNew := s.evalGrad(alpha)
		dgNew := vecops.Dot(gNew, s.d)

		if math.Abs(dgNew) <= wolfeC2*math.Abs(s.dg0) {
			return Result{
				Alpha:         alpha,
				FNew:          fNew,
				GNew:          gNew,
				Success:       true,
				FunctionCalls: s.functionCalls,
				GradientCalls: s.gradientCalls,
			}
		}

		if dgNew*(alphaHi-alphaLo) >= 0 {
			alphaHi = alphaLo
		}
		alphaLo = alpha
		fLo = fNew
	}

	return Result{
		Alpha:         alphaLo,
		FNew:          fLo,
		FunctionCalls: s.functionCalls,
		GradientCalls: s.gradientCalls,
	}
}
