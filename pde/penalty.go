package pde

import (
	"github.com/meenmo/hjblib/pde/config"
	"github.com/meenmo/hjblib/sparse"
)

// PenaltyMethod couples an implicit diffusion step with an impulse-control
// system into one linear system per inner iteration, approximating the
// variational inequality
//
//	min( A_d x - b_d , A_i x - b_i ) = 0
//
// by adding the heavily weighted impulse rows wherever the constraint is
// violated at the current trial iterate:
//
//	A = A_d + (1/ptol) D A_i,   b = b_d + (1/ptol) D b_i,
//
// with D the diagonal indicator of nodes where (A_i x - b_i) < 0.
//
// The evaluation order within one inner pass is fixed and deliberate:
// diffusion step assembly, then re-optimization of the impulse controls
// against the trial iterate, then the penalty combination. Callers must not
// depend on any other order.
type PenaltyMethod struct {
	step       System
	constraint ControlledSystem
	weight     float64
}

// NewPenaltyMethod couples a discretized diffusion step with a controlled
// impulse system, with penalty weight 1/PenaltyTolerance from the active
// configuration.
func NewPenaltyMethod(step System, constraint ControlledSystem) *PenaltyMethod {
	return &PenaltyMethod{
		step:       step,
		constraint: constraint,
		weight:     1 / config.GetConfig().PenaltyTolerance,
	}
}

// Assemble produces the combined system at time t for the given trial
// iterate.
func (p *PenaltyMethod) Assemble(t float64, trial []float64) (*sparse.Matrix, []float64) {
	ad := p.step.Matrix(t)
	bd := p.step.Vector(t)

	p.constraint.Refresh(t, trial)
	ai := p.constraint.Matrix(t)
	bi := p.constraint.Vector(t)

	n := len(bd)
	mask := make([]bool, n)
	res := make([]float64, n)
	ai.Residual(res, trial, bi)
	for i, r := range res {
		mask[i] = r < 0
	}

	a := sparse.AddMasked(ad, ai, p.weight, mask)
	b := bd
	for i := range b {
		if mask[i] {
			b[i] += p.weight * bi[i]
		}
	}
	return a, b
}
