// Package testfunc provides the standard benchmark objectives used to
// validate the solvers, each with its analytic gradient, known
// minimum, and customary starting point. The HTTP service exposes
// them by name since closures cannot cross the wire.
package testfunc

import (
	"fmt"
	"sort"
	"strings"
)

// Func is a named benchmark objective.
type Func struct {
	Name string
	Dim  int
	F    func(x []float64) float64
	Grad func(x []float64) []float64
	// MinimumAt is the global minimizer (one of them, for functions
	// with several).
	MinimumAt []float64
	// MinimumValue is the objective value at MinimumAt.
	MinimumValue float64
	// Start is the customary benchmark starting point.
	Start []float64
}

// Sphere is f(x) = x1^2 + x2^2, the simplest convex benchmark.
var Sphere = Func{
	Name: "sphere",
	Dim:  2,
	F: func(x []float64) float64 {
		return x[0]*x[0] + x[1]*x[1]
	},
	Grad: func(x []float64) []float64 {
		return []float64{2 * x[0], 2 * x[1]}
	},
	MinimumAt:    []float64{0, 0},
	MinimumValue: 0,
	Start:        []float64{5, 5},
}

// Booth is a mildly ill-conditioned quadratic with minimum at (1, 3).
var Booth = Func{
	Name: "booth",
	Dim:  2,
	F: func(x []float64) float64 {
		a := x[0] + 2*x[1] - 7
		b := 2*x[0] + x[1] - 5
		return a*a + b*b
	},
	Grad: func(x []float64) []float64 {
		a := x[0] + 2*x[1] - 7
		b := 2*x[0] + x[1] - 5
		return []float64{2*a + 4*b, 4*a + 2*b}
	},
	MinimumAt:    []float64{1, 3},
	MinimumValue: 0,
	Start:        []float64{0, 0},
}

// Rosenbrock is the classic banana-valley function, minimum at (1, 1).
var Rosenbrock = Func{
	Name: "rosenbrock",
	Dim:  2,
	F: func(x []float64) float64 {
		a := 1 - x[0]
		b := x[1] - x[0]*x[0]
		return a*a + 100*b*b
	},
	Grad: func(x []float64) []float64 {
		return []float64{
			-2*(1-x[0]) - 400*x[0]*(x[1]-x[0]*x[0]),
			200 * (x[1] - x[0]*x[0]),
		}
	},
	MinimumAt:    []float64{1, 1},
	MinimumValue: 0,
	Start:        []float64{-1.2, 1},
}

// Beale has narrow curved valleys, minimum at (3, 0.5).
var Beale = Func{
	Name: "beale",
	Dim:  2,
	F: func(x []float64) float64 {
		a := 1.5 - x[0] + x[0]*x[1]
		b := 2.25 - x[0] + x[0]*x[1]*x[1]
		c := 2.625 - x[0] + x[0]*x[1]*x[1]*x[1]
		return a*a + b*b + c*c
	},
	Grad: func(x []float64) []float64 {
		y := x[1]
		y2 := y * y
		y3 := y2 * y
		a := 1.5 - x[0] + x[0]*y
		b := 2.25 - x[0] + x[0]*y2
		c := 2.625 - x[0] + x[0]*y3
		return []float64{
			2*a*(y-1) + 2*b*(y2-1) + 2*c*(y3-1),
			2*a*x[0] + 4*b*x[0]*y + 6*c*x[0]*y2,
		}
	},
	MinimumAt:    []float64{3, 0.5},
	MinimumValue: 0,
	Start:        []float64{0, 0},
}

// Himmelblau has four global minima of value 0; MinimumAt reports
// (3, 2).
var Himmelblau = Func{
	Name: "himmelblau",
	Dim:  2,
	F: func(x []float64) float64 {
		a := x[0]*x[0] + x[1] - 11
		b := x[0] + x[1]*x[1] - 7
		return a*a + b*b
	},
	Grad: func(x []float64) []float64 {
		a := x[0]*x[0] + x[1] - 11
		b := x[0] + x[1]*x[1] - 7
		return []float64{4*x[0]*a + 2*b, 2*a + 4*x[1]*b}
	},
	MinimumAt:    []float64{3, 2},
	MinimumValue: 0,
	Start:        []float64{0, 0},
}

// GoldsteinPrice is a sharply varying fourth-order surface with
// minimum value 3 at (0, -1).
var GoldsteinPrice = Func{
	Name: "goldsteinprice",
	Dim:  2,
	F: func(x []float64) float64 {
		x1, x2 := x[0], x[1]
		s := x1 + x2 + 1
		q := 19 - 14*x1 + 3*x1*x1 - 14*x2 + 6*x1*x2 + 3*x2*x2
		a := 1 + s*s*q
		t := 2*x1 - 3*x2
		r := 18 - 32*x1 + 12*x1*x1 + 48*x2 - 36*x1*x2 + 27*x2*x2
		b := 30 + t*t*r
		return a * b
	},
	Grad: func(x []float64) []float64 {
		x1, x2 := x[0], x[1]
		s := x1 + x2 + 1
		q := 19 - 14*x1 + 3*x1*x1 - 14*x2 + 6*x1*x2 + 3*x2*x2
		a := 1 + s*s*q
		t := 2*x1 - 3*x2
		r := 18 - 32*x1 + 12*x1*x1 + 48*x2 - 36*x1*x2 + 27*x2*x2
		b := 30 + t*t*r

		dq := -14 + 6*x1 + 6*x2 // same in both coordinates
		daDx1 := 2*s*q + s*s*dq
		daDx2 := 2*s*q + s*s*dq

		drDx1 := -32 + 24*x1 - 36*x2
		drDx2 := 48 - 36*x1 + 54*x2
		dbDx1 := 4*t*r + t*t*drDx1
		dbDx2 := -6*t*r + t*t*drDx2

		return []float64{daDx1*b + a*dbDx1, daDx2*b + a*dbDx2}
	},
	MinimumAt:    []float64{0, -1},
	MinimumValue: 3,
	Start:        []float64{0, -0.5},
}

// HimmelblauMinima lists all four global minimizers of Himmelblau.
func HimmelblauMinima() [][2]float64 {
	return [][2]float64{
		{3, 2},
		{-2.805118, 3.131312},
		{-3.779310, -3.283186},
		{3.584428, -1.848126},
	}
}

var registry = map[string]Func{
	Sphere.Name:         Sphere,
	Booth.Name:          Booth,
	Rosenbrock.Name:     Rosenbrock,
	Beale.Name:          Beale,
	Himmelblau.Name:     Himmelblau,
	GoldsteinPrice.Name: GoldsteinPrice,
}

// Lookup returns the benchmark function registered under name
// (case-insensitive).
func Lookup(name string) (Func, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return Func{}, fmt.Errorf("testfunc: unknown function %q", name)
	}
	return f, nil
}

// Names returns the registered function names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered function, ordered by name.
func All() []Func {
	funcs := make([]Func, 0, len(registry))
	for _, name := range Names() {
		funcs = append(funcs, registry[name])
	}
	return funcs
}
