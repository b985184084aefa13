package pde

import (
	"fmt"

	"gonum.org/v1/exp/linsolve"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/hjblib/pde/config"
	"github.com/meenmo/hjblib/sparse"
)

// IterativeSolver solves the sparse systems with a Krylov method
// (stabilized biconjugate gradients), warm-started from the caller's
// iterate. It satisfies the Solver interface.
type IterativeSolver struct {
	tol      float64
	maxIters int
}

// NewIterativeSolver builds a solver from the active configuration.
func NewIterativeSolver() *IterativeSolver {
	c := config.GetConfig()
	return &IterativeSolver{
		tol:      c.SolverTolerance,
		maxIters: c.MaxSolverIterations,
	}
}

// Solve returns x with a x = b, starting from x0. Non-convergence surfaces
// as an error wrapping ErrSolve.
func (s *IterativeSolver) Solve(a *sparse.Matrix, b, x0 []float64) ([]float64, error) {
	n := len(b)

	// An already-solving warm start must not reach the Krylov method: with
	// the residual at round-off, BiCGStab breaks down on rho ~ 0 rather than
	// declaring success. Accept x0 under the same relative criterion the
	// iterations themselves use.
	if x0 != nil {
		r := make([]float64, n)
		a.Residual(r, x0, b)
		if floats.Norm(r, 2) <= s.tol*floats.Norm(b, 2) {
			return append([]float64(nil), x0...), nil
		}
	}

	rhs := mat.NewVecDense(n, append([]float64(nil), b...))
	settings := &linsolve.Settings{
		Tolerance:     s.tol,
		MaxIterations: s.maxIters,
	}
	if x0 != nil {
		settings.InitX = mat.NewVecDense(n, append([]float64(nil), x0...))
	}
	result, err := linsolve.Iterative(a, rhs, &linsolve.BiCGStab{}, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolve, err)
	}
	return result.X.RawVector().Data, nil
}
