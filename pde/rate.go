package pde

// Rate is a model coefficient evaluated at a time and state. Implementations
// cover constant, time-varying and state-varying parameters uniformly.
type Rate interface {
	Evaluate(t, s, w float64) float64
}

// Constant is a Rate that ignores time and state.
type Constant float64

// Evaluate returns the constant value.
func (c Constant) Evaluate(t, s, w float64) float64 { return float64(c) }

// RateFunc adapts a plain function to the Rate interface.
type RateFunc func(t, s, w float64) float64

// Evaluate calls the wrapped function.
func (f RateFunc) Evaluate(t, s, w float64) float64 { return f(t, s, w) }
