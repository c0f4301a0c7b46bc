// Package vecops provides pure arithmetic over fixed-length float64
// vectors. Every operation allocates its result; no operation writes
// into an argument, so callers never observe an input change.
//
// Binary operations require operands of equal length. Following the
// gonum convention for shape violations, a mismatch panics with
// ErrDimensionMismatch rather than returning an error: it is a
// programmer error, not a recoverable condition.
package vecops

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is the panic payload for binary operations on
// vectors of unequal length.
var ErrDimensionMismatch = errors.New("vecops: vector dimensions do not match")

func checkLens(a, b []float64) {
	if len(a) != len(b) {
		panic(ErrDimensionMismatch)
	}
}

// Dot returns the inner product of a and b.
func Dot(a, b []float64) float64 {
	checkLens(a, b)
	return floats.Dot(a, b)
}

// Norm returns the Euclidean (L2) norm of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// NormInf returns the infinity norm of v: the maximum absolute
// component, or 0 for an empty vector.
func NormInf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, math.Inf(1))
}

// Scale returns s*v.
func Scale(v []float64, s float64) []float64 {
	return floats.ScaleTo(make([]float64, len(v)), s, v)
}

// Add returns a + b element-wise.
func Add(a, b []float64) []float64 {
	checkLens(a, b)
	return floats.AddTo(make([]float64, len(a)), a, b)
}

// Sub returns a - b element-wise.
func Sub(a, b []float64) []float64 {
	checkLens(a, b)
	return floats.SubTo(make([]float64, len(a)), a, b)
}

// Negate returns -v.
func Negate(v []float64) []float64 {
	return Scale(v, -1)
}

// Clone returns an independent copy of v.
func Clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// Zeros returns a vector of n zeros.
func Zeros(n int) []float64 {
	return make([]float64, n)
}

// AddScaled returns a + s*b in a single pass, avoiding the
// intermediate allocation of Add(a, Scale(b, s)).
func AddScaled(a, b []float64, s float64) []float64 {
	checkLens(a, b)
	return floats.AddScaledTo(make([]float64, len(a)), a, s, b)
}
