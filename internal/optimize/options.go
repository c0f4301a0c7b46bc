package optimize

// Default convergence tolerances shared by every solver.
const (
	defaultGradTol       = 1e-8
	defaultStepTol       = 1e-8
	defaultFuncTol       = 1e-12
	defaultMaxIterations = 1000
)

// Options configures the convergence criteria of a solver run. All
// tolerances must be non-negative and MaxIterations must be >= 0;
// solver entry points reject anything else.
type Options struct {
	// GradTol stops the run when the gradient norm falls below it.
	GradTol float64
	// StepTol stops the run when the step norm falls below it.
	StepTol float64
	// FuncTol stops the run when the absolute function change falls
	// below it.
	FuncTol float64
	// MaxIterations bounds the iteration count; reaching it is a
	// normal non-converged termination, not an error.
	MaxIterations int

	// Memory bounds the (s, y) history kept by L-BFGS. Zero means the
	// default of 10 pairs; other solvers ignore it.
	Memory int
}

// DefaultOptions returns the standard tolerances: GradTol 1e-8,
// StepTol 1e-8, FuncTol 1e-12, MaxIterations 1000.
func DefaultOptions() Options {
	return Options{
		GradTol:       defaultGradTol,
		StepTol:       defaultStepTol,
		FuncTol:       defaultFuncTol,
		MaxIterations: defaultMaxIterations,
	}
}

// Option overrides a single field of the defaults.
type Option func(*Options)

// WithGradTol overrides the gradient-norm tolerance.
func WithGradTol(tol float64) Option {
	return func(o *Options) { o.GradTol = tol }
}

// WithStepTol overrides the step-norm tolerance.
func WithStepTol(tol float64) Option {
	return func(o *Options) { o.StepTol = tol }
}

// WithFuncTol overrides the function-change tolerance.
func WithFuncTol(tol float64) Option {
	return func(o *Options) { o.FuncTol = tol }
}

// WithMaxIterations overrides the iteration bound.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithMemory overrides the L-BFGS history size.
func WithMemory(m int) Option {
	return func(o *Options) { o.Memory = m }
}

// buildOptions applies overrides onto the defaults and validates the
// result.
func buildOptions(op string, opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	if o.GradTol < 0 || o.StepTol < 0 || o.FuncTol < 0 {
		return o, newError(op, "tolerances must be non-negative: gradTol=%g stepTol=%g funcTol=%g",
			o.GradTol, o.StepTol, o.FuncTol)
	}
	if o.MaxIterations < 0 {
		return o, newError(op, "maxIterations must be >= 0, got %d", o.MaxIterations)
	}
	if o.Memory < 0 {
		return o, newError(op, "memory must be >= 0, got %d", o.Memory)
	}
	return o, nil
}
