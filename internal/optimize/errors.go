package optimize

import "fmt"

// Error is the error type returned by the solvers for conditions the
// caller can act on: bad inputs, unknown solver names, mismatched
// gradient dimensions. Numerical edge cases inside a run (curvature
// violations, line-search exhaustion) are not errors; they surface
// through the Result instead.
type Error struct {
	// Op names the operation that failed, e.g. "bfgs" or "minimize".
	Op string
	// Message describes what went wrong.
	Message string
	// Err is the wrapped cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Message: fmt.Sprintf(format, args...)}
}
