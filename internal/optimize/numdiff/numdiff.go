// Package numdiff estimates gradients from objective evaluations
// alone. It is the fallback used by the gradient-based solvers when
// the caller supplies no analytic gradient.
package numdiff

import "math"

// sqrtEps is the finite-difference step scale: the square root of the
// float64 machine epsilon. The per-coordinate step is
// h = sqrtEps * max(|x_i|, 1).
var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)

// Forward estimates the gradient with one-sided differences,
// (f(x+h*e_i) - f(x)) / h per coordinate. It makes n+1 objective
// calls and never mutates x.
func Forward(f func([]float64) float64, x []float64) []float64 {
	n := len(x)
	fx := f(x)
	grad := make([]float64, n)

	xp := append([]float64(nil), x...)
	for i := 0; i < n; i++ {
		h := sqrtEps * math.Max(math.Abs(x[i]), 1)
		xp[i] = x[i] + h
		grad[i] = (f(xp) - fx) / h
		xp[i] = x[i]
	}
	return grad
}

// Central estimates the gradient with two-sided differences,
// (f(x+h*e_i) - f(x-h*e_i)) / (2h) per coordinate, using the same
// step rule as Forward. Higher accuracy at the cost of 2n objective
// calls. Never mutates x.
func Central(f func([]float64) float64, x []float64) []float64 {
	n := len(x)
	grad := make([]float64, n)

	xp := append([]float64(nil), x...)
	for i := 0; i < n; i++ {
		h := sqrtEps * math.Max(math.Abs(x[i]), 1)
		xp[i] = x[i] + h
		fp := f(xp)
		xp[i] = x[i] - h
		fm := f(xp)
		xp[i] = x[i]
		grad[i] = (fp - fm) / (2 * h)
	}
	return grad
}

// Gradient returns a gradient closure wrapping the chosen estimator.
// method is "central" or "forward"; anything else falls back to
// forward, the cheaper default.
func Gradient(f func([]float64) float64, method string) func([]float64) []float64 {
	if method == "central" {
		return func(x []float64) []float64 { return Central(f, x) }
	}
	return func(x []float64) []float64 { return Forward(f, x) }
}
