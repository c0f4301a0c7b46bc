package optimize

import (
	"math"

	"github.com/optimalab/descent/internal/optimize/linesearch"
	"github.com/optimalab/descent/internal/optimize/vecops"
)

// defaultMemory is the L-BFGS history bound: the literature-standard
// value of 10 pairs (Nocedal & Wright recommend 3-20). Override with
// WithMemory.
const defaultMemory = 10

// lbfgsHistory is a bounded ring of correction pairs. s is a step
// taken, y the corresponding gradient change, rho = 1/(y.s). The
// oldest pair is evicted when the bound is exceeded.
type lbfgsHistory struct {
	s, y  [][]float64
	rho   []float64
	bound int
}

func (hist *lbfgsHistory) push(s, y []float64, ys float64) {
	if len(hist.s) >= hist.bound {
		hist.s = hist.s[1:]
		hist.y = hist.y[1:]
		hist.rho = hist.rho[1:]
	}
	hist.s = append(hist.s, s)
	hist.y = append(hist.y, y)
	hist.rho = append(hist.rho, 1/ys)
}

// direction applies the implicit inverse Hessian to g via the
// standard two-loop recursion, O(n*m) instead of the O(n^2) dense
// update, and negates the result. gamma scales the initial matrix.
// With empty history this degenerates to steepest descent.
func (hist *lbfgsHistory) direction(g []float64, gamma float64) []float64 {
	m := len(hist.s)
	n := len(g)

	q := vecops.Clone(g)
	alphas := make([]float64, m)

	// Backward pass over the history, newest first.
	for i := m - 1; i >= 0; i-- {
		alphas[i] = hist.rho[i] * vecops.Dot(hist.s[i], q)
		for j := 0; j < n; j++ {
			q[j] -= alphas[i] * hist.y[i][j]
		}
	}

	r := vecops.Scale(q, gamma)

	// Forward pass, oldest first.
	for i := 0; i < m; i++ {
		beta := hist.rho[i] * vecops.Dot(hist.y[i], r)
		for j := 0; j < n; j++ {
			r[j] += (alphas[i] - beta) * hist.s[i][j]
		}
	}

	return vecops.Negate(r)
}

// LBFGS minimizes f from x0 with the limited-memory quasi-Newton
// method: the same outer loop and convergence machinery as BFGS, but
// the inverse Hessian is never formed explicitly. Curvature older
// than the memory bound is forgotten. grad may be nil; forward finite
// differences are used in that case.
func LBFGS(f Objective, x0 []float64, grad GradientFunc, opts ...Option) (Result, error) {
	const op = "lbfgs"
	if err := validateProblem(op, f, x0); err != nil {
		return Result{}, err
	}
	o, err := buildOptions(op, opts)
	if err != nil {
		return Result{}, err
	}
	memory := o.Memory
	if memory == 0 {
		memory = defaultMemory
	}

	n := len(x0)
	gradFn, fdEvals := gradientOrFallback(f, grad)

	x := vecops.Clone(x0)
	fx := f(x)
	gx := gradFn(x)
	functionCalls := 1
	gradientCalls := 1

	if len(gx) != n {
		return Result{}, newError(op, "gradient has length %d, want %d", len(gx), n)
	}

	finish := func(iteration int, reason Reason, value float64) Result {
		total := functionCalls
		if fdEvals != nil {
			total += *fdEvals
		}
		return Result{
			X:             vecops.Clone(x),
			Fun:           fx,
			Gradient:      vecops.Clone(gx),
			Iterations:    iteration,
			FunctionCalls: total,
			GradientCalls: gradientCalls,
			Converged:     reason.Converged(),
			Message:       ConvergenceMessage(reason, value),
		}
	}

	if reason, ok := CheckConvergence(vecops.Norm(gx), math.Inf(1), math.Inf(1), 0, o); ok {
		return finish(0, reason, reasonValue(reason, vecops.Norm(gx), 0, 0, o.MaxIterations)), nil
	}

	hist := &lbfgsHistory{bound: memory}
	gamma := 1.0

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		d := hist.direction(gx, gamma)

		ls := linesearch.StrongWolfe(f, gradFn, x, d, fx, gx)
		functionCalls += ls.FunctionCalls
		gradientCalls += ls.GradientCalls

		if !ls.Success {
			return finish(iteration, ReasonLineSearchFailed, 0), nil
		}

		xNew := vecops.AddScaled(x, d, ls.Alpha)
		gNew := ls.GNew

		s := vecops.Sub(xNew, x)
		y := vecops.Sub(gNew, gx)
		ys := vecops.Dot(y, s)

		stepNorm := vecops.Norm(s)
		funcChange := math.Abs(fx - ls.FNew)

		x, fx, gx = xNew, ls.FNew, gNew

		// Pairs violating the curvature condition are not stored;
		// the iterate still advances.
		if ys > curvatureEps {
			hist.push(s, y, ys)
			gamma = ys / vecops.Dot(y, y)
		}

		gradNorm := vecops.Norm(gx)
		if reason, ok := CheckConvergence(gradNorm, stepNorm, funcChange, iteration, o); ok {
			return finish(iteration, reason, reasonValue(reason, gradNorm, stepNorm, funcChange, o.MaxIterations)), nil
		}
	}

	return finish(o.MaxIterations, ReasonMaxIterations, float64(o.MaxIterations)), nil
}
