package optimize

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/optimalab/descent/internal/optimize/linesearch"
	"github.com/optimalab/descent/internal/optimize/numdiff"
	"github.com/optimalab/descent/internal/optimize/vecops"
)

// curvatureEps guards the quasi-Newton updates: when y.s is below it
// the update would destroy positive definiteness, so the solvers skip
// the update while still advancing the iterate.
const curvatureEps = 1e-10

// BFGS minimizes f from x0 with the dense quasi-Newton method,
// maintaining an inverse-Hessian approximation updated from gradient
// differences and stepping through a strong-Wolfe line search. grad
// may be nil, in which case a forward finite-difference gradient is
// built once at entry and used for the whole run.
func BFGS(f Objective, x0 []float64, grad GradientFunc, opts ...Option) (Result, error) {
	const op = "bfgs"
	if err := validateProblem(op, f, x0); err != nil {
		return Result{}, err
	}
	o, err := buildOptions(op, opts)
	if err != nil {
		return Result{}, err
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

	// A run starting at a stationary point converges in zero
	// iterations.
	if reason, ok := CheckConvergence(vecops.Norm(gx), math.Inf(1), math.Inf(1), 0, o); ok {
		return finish(0, reason, reasonValue(reason, vecops.Norm(gx), 0, 0, o.MaxIterations)), nil
	}

	h := identity(n)

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		d := descentDirection(h, gx)

		ls := linesearch.StrongWolfe(f, gradFn, x, d, fx, gx)
		functionCalls += ls.FunctionCalls
		gradientCalls += ls.GradientCalls

		if !ls.Success {
			// Fatal for this run; the solver does not retry with
			// different parameters.
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

		if ys > curvatureEps {
			updateInverseHessian(h, s, y, 1/ys)
		}

		gradNorm := vecops.Norm(gx)
		if reason, ok := CheckConvergence(gradNorm, stepNorm, funcChange, iteration, o); ok {
			return finish(iteration, reason, reasonValue(reason, gradNorm, stepNorm, funcChange, o.MaxIterations)), nil
		}
	}

	return finish(o.MaxIterations, ReasonMaxIterations, float64(o.MaxIterations)), nil
}

// gradientOrFallback returns the caller's gradient when supplied, else
// a forward finite-difference closure. The returned counter, non-nil
// only in the fallback case, tracks the objective evaluations the
// estimator spends so they can be charged to FunctionCalls.
func gradientOrFallback(f Objective, grad GradientFunc) (GradientFunc, *int) {
	if grad != nil {
		return grad, nil
	}
	evals := new(int)
	counted := func(x []float64) float64 {
		*evals++
		return f(x)
	}
	return numdiff.Gradient(counted, "forward"), evals
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// descentDirection computes d = -H*g.
func descentDirection(h *mat.Dense, g []float64) []float64 {
	n := len(g)
	hg := mat.NewVecDense(n, nil)
	hg.MulVec(h, mat.NewVecDense(n, g))

	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = -hg.AtVec(i)
	}
	return d
}

// updateInverseHessian applies the BFGS rank-two update
//
//	H <- (I - rho*s*y^T) H (I - rho*y*s^T) + rho*s*s^T
//
// in place. The caller guarantees rho = 1/(y.s) is finite and
// positive.
func updateInverseHessian(h *mat.Dense, s, y []float64, rho float64) {
	n := len(s)
	sv := mat.NewVecDense(n, s)
	yv := mat.NewVecDense(n, y)

	// a = I - rho*s*y^T; the right factor is its transpose.
	a := mat.NewDense(n, n, nil)
	a.Outer(-rho, sv, yv)
	for i := 0; i < n; i++ {
		a.Set(i, i, a.At(i, i)+1)
	}

	var ah, aha, ss mat.Dense
	ah.Mul(a, h)
	aha.Mul(&ah, a.T())
	ss.Outer(rho, sv, sv)

	h.Add(&aha, &ss)
}
