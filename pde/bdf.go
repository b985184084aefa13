package pde

import (
	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/hjblib/sparse"
)

// BDF discretizes a reverse-time step of V_tau = -M V + f around a spatial
// operator. The first step after a Reset is backward (implicit) Euler,
//
//	(I + dt*M) x = x_prev + dt*f,
//
// which bootstraps the history needed by the second-order backward
// differentiation formula used from the second step on,
//
//	(I + (2/3)dt*M) x = (4/3)x_prev - (1/3)x_prev2 + (2/3)dt*f.
//
// History is pushed by the time-marching driver through Advance; BDF never
// retains trial iterates.
type BDF struct {
	op    System
	dt    float64
	order int
	prev  []float64
	prev2 []float64
}

// NewBDF wraps a spatial operator with time step dt.
func NewBDF(op System, dt float64) (*BDF, error) {
	if dt <= 0 {
		return nil, ErrBadTimeStep
	}
	return &BDF{op: op, dt: dt}, nil
}

// Reset clears the step history, restarting with implicit Euler.
func (s *BDF) Reset() {
	s.order = 0
	s.prev = nil
	s.prev2 = nil
}

// Advance pushes the converged solution of the latest time level into the
// history. The slice is retained, not copied.
func (s *BDF) Advance(solution []float64) {
	s.prev2 = s.prev
	s.prev = solution
	if s.order < 2 {
		s.order++
	}
}

// weight is the coefficient of M in the implicit system.
func (s *BDF) weight() float64 {
	if s.order < 2 {
		return s.dt
	}
	return 2 * s.dt / 3
}

// Matrix assembles the implicit step matrix at time t.
func (s *BDF) Matrix(t float64) *sparse.Matrix {
	m := s.op.Matrix(t)
	n, _ := m.Dims()
	return sparse.Add(sparse.Identity(n), m, s.weight())
}

// Vector assembles the right-hand side at time t from the step history.
func (s *BDF) Vector(t float64) []float64 {
	b := s.op.Vector(t)
	floats.Scale(s.weight(), b)
	if s.order < 2 {
		floats.Add(b, s.prev)
		return b
	}
	floats.AddScaled(b, 4.0/3.0, s.prev)
	floats.AddScaled(b, -1.0/3.0, s.prev2)
	return b
}

// Assemble lets a pure diffusion step drive the fixed-point loop directly;
// the trial iterate is not needed for a linear step.
func (s *BDF) Assemble(t float64, trial []float64) (*sparse.Matrix, []float64) {
	return s.Matrix(t), s.Vector(t)
}
