package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimalab/descent/internal/optimize/testfunc"
)

func TestLBFGSRosenbrock(t *testing.T) {
	tf := testfunc.Rosenbrock

	result, err := LBFGS(tf.F, tf.Start, tf.Grad)
	require.NoError(t, err)

	assert.True(t, result.Converged, "message: %s", result.Message)
	assert.Less(t, result.Fun, 1e-10)
	assert.InDelta(t, 1.0, result.X[0], 1e-4)
	assert.InDelta(t, 1.0, result.X[1], 1e-4)
}

func TestLBFGSSmallMemory(t *testing.T) {
	tf := testfunc.Rosenbrock

	result, err := LBFGS(tf.F, tf.Start, tf.Grad, WithMemory(3))
	require.NoError(t, err)

	assert.True(t, result.Converged, "message: %s", result.Message)
	assert.Less(t, result.Fun, 1e-6)
	assert.InDelta(t, 1.0, result.X[0], 1e-3)
	assert.InDelta(t, 1.0, result.X[1], 1e-3)
}

func TestLBFGSBenchmarks(t *testing.T) {
	for _, tf := range []testfunc.Func{testfunc.Sphere, testfunc.Booth, testfunc.Beale, testfunc.Himmelblau} {
		t.Run(tf.Name, func(t *testing.T) {
			result, err := LBFGS(tf.F, tf.Start, tf.Grad)
			require.NoError(t, err)

			assert.True(t, result.Converged, "message: %s", result.Message)
			assert.Less(t, result.Fun, 1e-8)
		})
	}
}

func TestLBFGSZeroIterationConvergence(t *testing.T) {
	tf := testfunc.Sphere

	result, err := LBFGS(tf.F, []float64{0, 0}, tf.Grad)
	require.NoError(t, err)

	assert.True(t, result.Converged)
	assert.Zero(t, result.Iterations)
	assert.Zero(t, result.Fun)
}

func TestLBFGSFiniteDifferenceFallback(t *testing.T) {
	tf := testfunc.Sphere

	result, err := LBFGS(tf.F, tf.Start, nil)
	require.NoError(t, err)

	assert.True(t, result.Converged, "message: %s", result.Message)
	assert.Less(t, result.Fun, 1e-6)
}

func TestLBFGSMaxIterations(t *testing.T) {
	tf := testfunc.Rosenbrock

	result, err := LBFGS(tf.F, tf.Start, tf.Grad, WithMaxIterations(2))
	require.NoError(t, err)

	assert.False(t, result.Converged)
	assert.LessOrEqual(t, result.Iterations, 2)
	assert.Contains(t, result.Message, "maximum iterations")
}

func TestLBFGSDeterminism(t *testing.T) {
	tf := testfunc.Rosenbrock

	first, err := LBFGS(tf.F, tf.Start, tf.Grad)
	require.NoError(t, err)
	second, err := LBFGS(tf.F, tf.Start, tf.Grad)
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated runs must be bit-identical")
}

func TestLBFGSHistoryEviction(t *testing.T) {
	hist := &lbfgsHistory{bound: 2}

	hist.push([]float64{1, 0}, []float64{1, 0}, 1)
	hist.push([]float64{0, 1}, []float64{0, 1}, 1)
	hist.push([]float64{1, 1}, []float64{1, 1}, 2)

	require.Len(t, hist.s, 2)
	assert.Equal(t, []float64{0, 1}, hist.s[0], "oldest pair should be evicted")
	assert.Equal(t, []float64{1, 1}, hist.s[1])
	assert.Equal(t, 0.5, hist.rho[1])
}

func TestLBFGSDirectionSteepestDescentWhenEmpty(t *testing.T) {
	hist := &lbfgsHistory{bound: 10}
	g := []float64{3, -4}

	d := hist.direction(g, 1.0)

	assert.Equal(t, []float64{-3, 4}, d)
}

func TestLBFGSMatchesBFGSNeighborhood(t *testing.T) {
	// Both quasi-Newton solvers should land in the same basin on the
	// benchmark problems.
	tf := testfunc.Booth

	lr, err := LBFGS(tf.F, tf.Start, tf.Grad)
	require.NoError(t, err)
	br, err := BFGS(tf.F, tf.Start, tf.Grad)
	require.NoError(t, err)

	assert.InDelta(t, br.X[0], lr.X[0], 1e-5)
	assert.InDelta(t, br.X[1], lr.X[1], 1e-5)
}
