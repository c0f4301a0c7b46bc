package testfunc

import (
	"math"
	"testing"
)

// numericalGrad is a central-difference check used to validate the
// analytic gradients.
func numericalGrad(f func([]float64) float64, x []float64) []float64 {
	const h = 1e-6
	g := make([]float64, len(x))
	for i := range x {
		xp := append([]float64(nil), x...)
		xp[i] = x[i] + h
		fp := f(xp)
		xp[i] = x[i] - h
		fm := f(xp)
		g[i] = (fp - fm) / (2 * h)
	}
	return g
}

func TestMinimumValues(t *testing.T) {
	for _, tf := range All() {
		t.Run(tf.Name, func(t *testing.T) {
			if got := tf.F(tf.MinimumAt); math.Abs(got-tf.MinimumValue) > 1e-10 {
				t.Errorf("f(minimum) = %v, want %v", got, tf.MinimumValue)
			}
		})
	}
}

func TestGradientVanishesAtMinimum(t *testing.T) {
	for _, tf := range All() {
		t.Run(tf.Name, func(t *testing.T) {
			g := tf.Grad(tf.MinimumAt)
			for i, gi := range g {
				if math.Abs(gi) > 1e-8 {
					t.Errorf("gradient component %d at minimum = %v, want 0", i, gi)
				}
			}
		})
	}
}

func TestAnalyticGradientsMatchNumerical(t *testing.T) {
	points := [][]float64{{0.3, -0.7}, {1.5, 2.0}, {-1.2, 1.0}}

	for _, tf := range All() {
		t.Run(tf.Name, func(t *testing.T) {
			for _, x := range points {
				analytic := tf.Grad(x)
				numeric := numericalGrad(tf.F, x)
				for i := range analytic {
					// Relative tolerance: Goldstein-Price gradients
					// reach 1e5 at these points.
					scale := math.Max(math.Abs(analytic[i]), 1)
					if math.Abs(analytic[i]-numeric[i])/scale > 1e-4 {
						t.Errorf("at %v component %d: analytic %v, numeric %v",
							x, i, analytic[i], numeric[i])
					}
				}
			}
		})
	}
}

func TestHimmelblauMinima(t *testing.T) {
	for _, m := range HimmelblauMinima() {
		if v := Himmelblau.F(m[:]); math.Abs(v) > 1e-6 {
			t.Errorf("f(%v) = %v, want ~0", m, v)
		}
	}
}

func TestLookup(t *testing.T) {
	f, err := Lookup("Rosenbrock")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if f.Name != "rosenbrock" {
		t.Errorf("looked up %q", f.Name)
	}

	if _, err := Lookup("nope"); err == nil {
		t.Error("expected error for unknown function")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 6 {
		t.Fatalf("expected 6 registered functions, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
			break
		}
	}
}
