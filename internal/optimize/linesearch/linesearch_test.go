package linesearch

import (
	"math"
	"testing"

	"github.com/optimalab/descent/internal/optimize/vecops"
)

func sphere(x []float64) float64 {
	return x[0]*x[0] + x[1]*x[1]
}

func sphereGrad(x []float64) []float64 {
	return []float64{2 * x[0], 2 * x[1]}
}

func rosenbrock(x []float64) float64 {
	a := 1 - x[0]
	b := x[1] - x[0]*x[0]
	return a*a + 100*b*b
}

func rosenbrockGrad(x []float64) []float64 {
	return []float64{
		-2*(1-x[0]) - 400*x[0]*(x[1]-x[0]*x[0]),
		200 * (x[1] - x[0]*x[0]),
	}
}

func TestBacktrackingExactStep(t *testing.T) {
	// For the sphere at [10,10] along the steepest descent direction
	// [-20,-20], the first halving lands exactly on the minimum.
	x := []float64{10, 10}
	g := sphereGrad(x)
	d := vecops.Negate(g)
	fx := sphere(x)

	r := Backtracking(sphere, x, d, fx, g)

	if !r.Success {
		t.Fatal("backtracking failed on the sphere")
	}
	if r.Alpha != 0.5 {
		t.Errorf("alpha = %v, want exactly 0.5", r.Alpha)
	}
	if math.Abs(r.FNew) > 1e-10 {
		t.Errorf("fNew = %v, want 0 within 1e-10", r.FNew)
	}
	if r.GNew != nil {
		t.Error("backtracking should not produce a gradient")
	}
}

func TestBacktrackingRosenbrock(t *testing.T) {
	x := []float64{-1.2, 1.0}
	g := rosenbrockGrad(x)
	d := vecops.Negate(g)
	fx := rosenbrock(x)

	r := Backtracking(rosenbrock, x, d, fx, g)

	if !r.Success {
		t.Fatal("backtracking failed on rosenbrock")
	}
	if r.FNew >= fx {
		t.Errorf("fNew = %v did not decrease from %v", r.FNew, fx)
	}
}

func TestBacktrackingRejectsAscent(t *testing.T) {
	x := []float64{10, 10}
	g := sphereGrad(x)
	fx := sphere(x)

	calls := 0
	counted := func(x []float64) float64 {
		calls++
		return sphere(x)
	}

	// d = +grad points uphill.
	r := Backtracking(counted, x, vecops.Clone(g), fx, g)

	if r.Success {
		t.Error("ascent direction accepted")
	}
	if calls != 0 {
		t.Errorf("non-descent direction should fail before evaluating f, made %d calls", calls)
	}
}

func TestStrongWolfeSphere(t *testing.T) {
	x := []float64{10, 10}
	g := sphereGrad(x)
	d := vecops.Negate(g)
	fx := sphere(x)

	r := StrongWolfe(sphere, sphereGrad, x, d, fx, g)

	if !r.Success {
		t.Fatal("strong Wolfe failed on the sphere")
	}
	if r.GNew == nil {
		t.Fatal("successful strong Wolfe must carry the gradient at the accepted point")
	}

	// Verify both Wolfe conditions at the accepted step.
	dg0 := vecops.Dot(g, d)
	if r.FNew > fx+1e-4*r.Alpha*dg0 {
		t.Error("Armijo condition violated at accepted point")
	}
	dgNew := vecops.Dot(r.GNew, d)
	if math.Abs(dgNew) > 0.9*math.Abs(dg0) {
		t.Error("curvature condition violated at accepted point")
	}
}

func TestStrongWolfeRosenbrock(t *testing.T) {
	x := []float64{-1.2, 1.0}
	g := rosenbrockGrad(x)
	d := vecops.Negate(g)
	fx := rosenbrock(x)

	r := StrongWolfe(rosenbrock, rosenbrockGrad, x, d, fx, g)

	if !r.Success {
		t.Fatal("strong Wolfe failed on rosenbrock")
	}
	if r.FNew >= fx {
		t.Errorf("fNew = %v did not decrease from %v", r.FNew, fx)
	}
}

func TestStrongWolfeRejectsAscent(t *testing.T) {
	x := []float64{3, 4}
	g := sphereGrad(x)
	fx := sphere(x)

	r := StrongWolfe(sphere, sphereGrad, x, vecops.Clone(g), fx, g)

	if r.Success {
		t.Error("ascent direction accepted")
	}
	if r.FunctionCalls != 0 || r.GradientCalls != 0 {
		t.Error("non-descent direction should fail before any evaluation")
	}
}

func TestStrongWolfeCountsCalls(t *testing.T) {
	x := []float64{-1.2, 1.0}
	g := rosenbrockGrad(x)
	d := vecops.Negate(g)
	fx := rosenbrock(x)

	fCalls, gCalls := 0, 0
	f := func(x []float64) float64 { fCalls++; return rosenbrock(x) }
	gf := func(x []float64) []float64 { gCalls++; return rosenbrockGrad(x) }

	r := StrongWolfe(f, gf, x, d, fx, g)

	if r.FunctionCalls != fCalls {
		t.Errorf("reported %d function calls, made %d", r.FunctionCalls, fCalls)
	}
	if r.GradientCalls != gCalls {
		t.Errorf("reported %d gradient calls, made %d", r.GradientCalls, gCalls)
	}
}

func TestStrongWolfeUnboundedDecrease(t *testing.T) {
	// A linear objective decreases forever with constant slope: the
	// curvature condition can never be met and the expansion hits its
	// budget. This is an accepted permanent failure mode.
	linear := func(x []float64) float64 { return x[0] }
	linearGrad := func(x []float64) []float64 { return []float64{1} }

	x := []float64{0}
	g := linearGrad(x)
	d := []float64{-1}

	r := StrongWolfe(linear, linearGrad, x, d, linear(x), g)

	if r.Success {
		t.Error("expected failure on an unboundedly decreasing objective")
	}
}
