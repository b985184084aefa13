package pde

import (
	"fmt"

	"github.com/meenmo/hjblib/grid"
)

// ReverseStepper marches a terminal condition backward from expiry to time
// zero in fixed increments, converging the coupled system at each time level
// through a ToleranceIteration before advancing. It owns the iteration state
// (current and historical solution vectors, diagnostics); operators see
// trial iterates only for the duration of a call.
type ReverseStepper struct {
	g      *grid.Grid
	expiry float64
	steps  int
	solver Solver
	tol    *ToleranceIteration
}

// NewReverseStepper builds a driver stepping from expiry down to zero in
// steps equal increments.
func NewReverseStepper(g *grid.Grid, expiry float64, steps int, solver Solver) (*ReverseStepper, error) {
	if steps <= 0 || expiry <= 0 {
		return nil, fmt.Errorf("expiry %g over %d steps: %w", expiry, steps, ErrBadTimeStep)
	}
	return &ReverseStepper{
		g:      g,
		expiry: expiry,
		steps:  steps,
		solver: solver,
		tol:    NewToleranceIteration(),
	}, nil
}

// Dt is the time increment.
func (s *ReverseStepper) Dt() float64 { return s.expiry / float64(s.steps) }

// IterationCounts exposes the per-level inner iteration diagnostic of the
// last Solve.
func (s *ReverseStepper) IterationCounts() []int { return s.tol.IterationCounts() }

// AverageInnerIterations is the mean inner-iteration count per time level of
// the last Solve.
func (s *ReverseStepper) AverageInnerIterations() float64 { return s.tol.AverageIterations() }

// Solve prices the terminal condition payoff back to time zero. scheme
// receives the converged solution of each level as step history; sys is the
// per-pass system assembly (the penalty-coupled system, or the scheme itself
// for a pure diffusion problem). The solution at time zero is returned as an
// interpolable surface.
//
// Any convergence or linear-solve failure aborts the run: a non-converged
// interior level would invalidate every level after it.
func (s *ReverseStepper) Solve(payoff func(x, y float64) float64, scheme *BDF, sys Assembler) (*grid.Function, error) {
	s.tol.Reset()
	scheme.Reset()

	x := make([]float64, s.g.Size())
	for k := range x {
		px, py := s.g.Coordinates(k)
		x[k] = payoff(px, py)
	}

	dt := s.Dt()
	for level := 1; level <= s.steps; level++ {
		t := s.expiry - float64(level)*dt
		scheme.Advance(x)

		next, iters, err := s.tol.Run(x, func(trial []float64) ([]float64, error) {
			a, b := sys.Assemble(t, trial)
			return s.solver.Solve(a, b, trial)
		})
		if err != nil {
			return nil, &ConvergenceError{Level: level, Time: t, Iterations: iters, Err: err}
		}
		x = next
	}
	return grid.NewFunction(s.g, x)
}
