package optimize

import (
	"math"
	"sort"

	"github.com/optimalab/descent/internal/optimize/vecops"
)

// Standard Nelder-Mead coefficients. Universal constants, not exposed
// through Options.
const (
	nmReflection   = 1.0
	nmExpansion    = 2.0
	nmContraction  = 0.5
	nmShrink       = 0.5
	nmSimplexScale = 0.05
)

// vertex pairs a simplex point with its objective value.
type vertex struct {
	x []float64
	f float64
}

// NelderMead minimizes f from x0 using the derivative-free simplex
// method. It never evaluates a gradient: the result's GradientCalls is
// always 0 and Gradient is always nil.
func NelderMead(f Objective, x0 []float64, opts ...Option) (Result, error) {
	const op = "neldermead"
	if err := validateProblem(op, f, x0); err != nil {
		return Result{}, err
	}
	o, err := buildOptions(op, opts)
	if err != nil {
		return Result{}, err
	}

	n := len(x0)
	simplex := initialSimplex(x0)
	for i := range simplex {
		simplex[i].f = f(simplex[i].x)
	}
	functionCalls := n + 1

	finish := func(best vertex, iteration int, reason Reason, value float64) Result {
		return Result{
			X:             vecops.Clone(best.x),
			Fun:           best.f,
			Iterations:    iteration,
			FunctionCalls: functionCalls,
			Converged:     reason.Converged(),
			Message:       ConvergenceMessage(reason, value),
		}
	}

	for iteration := 0; ; iteration++ {
		// Ordering is re-established every iteration; it is not an
		// invariant between iterations.
		sort.Slice(simplex, func(a, b int) bool { return simplex[a].f < simplex[b].f })

		best, worst, secondWorst := simplex[0], simplex[n], simplex[n-1]

		// Two independent stopping tests; either alone suffices.
		if spread := valueSpread(simplex); spread < o.FuncTol {
			return finish(best, iteration, ReasonFunction, spread), nil
		}
		if diam := diameter(simplex); diam < o.StepTol {
			return finish(best, iteration, ReasonStep, diam), nil
		}
		if iteration >= o.MaxIterations {
			return finish(best, iteration, ReasonMaxIterations, float64(o.MaxIterations)), nil
		}

		// Centroid of all vertices except the worst.
		centroid := vecops.Zeros(n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				centroid[j] += simplex[i].x[j]
			}
		}
		for j := 0; j < n; j++ {
			centroid[j] /= float64(n)
		}

		reflected := vecops.AddScaled(centroid, vecops.Sub(centroid, worst.x), nmReflection)
		fReflected := f(reflected)
		functionCalls++

		switch {
		case fReflected >= best.f && fReflected < secondWorst.f:
			simplex[n] = vertex{reflected, fReflected}
			continue

		case fReflected < best.f:
			expanded := vecops.AddScaled(centroid, vecops.Sub(reflected, centroid), nmExpansion)
			fExpanded := f(expanded)
			functionCalls++
			if fExpanded < fReflected {
				simplex[n] = vertex{expanded, fExpanded}
			} else {
				simplex[n] = vertex{reflected, fReflected}
			}
			continue

		case fReflected < worst.f:
			// Outside contraction.
			contracted := vecops.AddScaled(centroid, vecops.Sub(reflected, centroid), nmContraction)
			fContracted := f(contracted)
			functionCalls++
			if fContracted <= fReflected {
				simplex[n] = vertex{contracted, fContracted}
				continue
			}

		default:
			// Inside contraction.
			contracted := vecops.AddScaled(centroid, vecops.Sub(worst.x, centroid), nmContraction)
			fContracted := f(contracted)
			functionCalls++
			if fContracted < worst.f {
				simplex[n] = vertex{contracted, fContracted}
				continue
			}
		}

		// Contraction did not improve: shrink everything toward the
		// best vertex and re-evaluate.
		for i := 1; i <= n; i++ {
			simplex[i].x = vecops.AddScaled(best.x, vecops.Sub(simplex[i].x, best.x), nmShrink)
			simplex[i].f = f(simplex[i].x)
			functionCalls++
		}
	}
}

// initialSimplex builds n+1 vertices: x0 itself plus x0 perturbed
// along each coordinate axis by h = scale * max(|x0[i]|, 1).
func initialSimplex(x0 []float64) []vertex {
	n := len(x0)
	simplex := make([]vertex, n+1)
	simplex[0] = vertex{x: vecops.Clone(x0)}
	for i := 0; i < n; i++ {
		v := vecops.Clone(x0)
		v[i] += nmSimplexScale * math.Max(math.Abs(x0[i]), 1)
		simplex[i+1] = vertex{x: v}
	}
	return simplex
}

// valueSpread is the standard deviation of the simplex function
// values.
func valueSpread(simplex []vertex) float64 {
	m := float64(len(simplex))
	mean := 0.0
	for _, v := range simplex {
		mean += v.f
	}
	mean /= m

	variance := 0.0
	for _, v := range simplex {
		d := v.f - mean
		variance += d * d
	}
	return math.Sqrt(variance / m)
}

// diameter is the largest infinity-norm distance from any vertex to
// the best vertex. The simplex must be sorted.
func diameter(simplex []vertex) float64 {
	d := 0.0
	for i := 1; i < len(simplex); i++ {
		if dist := vecops.NormInf(vecops.Sub(simplex[i].x, simplex[0].x)); dist > d {
			d = dist
		}
	}
	return d
}
