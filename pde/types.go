// Package pde contains the numerical machinery for solving the pricing
// problem backward in time: the Black-Scholes generator on the investment
// axis, implicit time discretizations, the shared fixed-point (tolerance)
// iteration, the penalty coupling for impulse-control constraints, and the
// iterative sparse linear solver.
package pde

import (
	"errors"
	"fmt"

	"github.com/meenmo/hjblib/sparse"
)

var (
	// ErrMaxIterations is returned when the fixed-point iteration at some
	// time level reaches its iteration cap without converging.
	ErrMaxIterations = errors.New("fixed-point iteration did not converge within the iteration cap")

	// ErrBadTimeStep is returned for a zero or negative time step.
	ErrBadTimeStep = errors.New("time step must be positive")

	// ErrSolve is returned when the linear solver fails to produce a
	// solution.
	ErrSolve = errors.New("linear solve failed")
)

// ConvergenceError reports which time level failed and after how many inner
// iterations.
type ConvergenceError struct {
	Level      int     // time level counted from expiry, starting at 1
	Time       float64 // simulation time of the failing level
	Iterations int
	Err        error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("time level %d (t=%g) failed after %d inner iterations: %v",
		e.Level, e.Time, e.Iterations, e.Err)
}

func (e *ConvergenceError) Unwrap() error { return e.Err }

// System is a time-dependent linear system A(t) x = b(t). Assembly must be
// free of side effects so systems can be re-evaluated at will.
type System interface {
	Matrix(t float64) *sparse.Matrix
	Vector(t float64) []float64
}

// ControlledSystem is a System whose assembly depends on the current trial
// iterate: Refresh re-optimizes any embedded controls against trial before
// Matrix and Vector are read.
type ControlledSystem interface {
	System
	Refresh(t float64, trial []float64)
}

// Assembler produces the linear system for one inner pass of the fixed-point
// iteration at time t, given the current trial iterate.
type Assembler interface {
	Assemble(t float64, trial []float64) (*sparse.Matrix, []float64)
}

// Solver solves a sparse linear system, warm-started from x0. Failure to
// converge must surface as an error, never as a truncated result.
type Solver interface {
	Solve(a *sparse.Matrix, b, x0 []float64) ([]float64, error)
}
