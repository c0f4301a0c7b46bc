package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimalab/descent/internal/optimize/testfunc"
)

func TestMinimizeDispatch(t *testing.T) {
	tf := testfunc.Sphere

	tests := []struct {
		solver       string
		wantGradient bool
	}{
		{"neldermead", false},
		{"Nelder-Mead", false},
		{"bfgs", true},
		{"BFGS", true},
		{"lbfgs", true},
		{"l-bfgs", true},
	}

	for _, tt := range tests {
		t.Run(tt.solver, func(t *testing.T) {
			result, err := Minimize(tt.solver, tf.F, tf.Start, tf.Grad)
			require.NoError(t, err)

			assert.True(t, result.Converged, "message: %s", result.Message)
			assert.Less(t, result.Fun, 1e-6)
			if tt.wantGradient {
				assert.NotNil(t, result.Gradient)
			} else {
				assert.Nil(t, result.Gradient)
			}
		})
	}
}

func TestMinimizeUnknownSolver(t *testing.T) {
	_, err := Minimize("newton", testfunc.Sphere.F, testfunc.Sphere.Start, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown solver")
}

func TestMinimizeForwardsOptions(t *testing.T) {
	tf := testfunc.Rosenbrock

	result, err := Minimize("bfgs", tf.F, tf.Start, tf.Grad, WithMaxIterations(2))
	require.NoError(t, err)

	assert.False(t, result.Converged)
	assert.LessOrEqual(t, result.Iterations, 2)
}

func TestSolvers(t *testing.T) {
	assert.Equal(t, []string{"neldermead", "bfgs", "lbfgs"}, Solvers())
}

func TestErrorFormatting(t *testing.T) {
	e := newError("bfgs", "objective function is nil")
	assert.Equal(t, "bfgs: objective function is nil", e.Error())

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}
