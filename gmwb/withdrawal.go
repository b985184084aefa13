package gmwb

import (
	"math"

	"github.com/meenmo/hjblib/grid"
	"github.com/meenmo/hjblib/pde"
	"github.com/meenmo/hjblib/sparse"
)

// Epsilon is the tie-break offset subtracted from every cash flow. When two
// withdrawal choices yield equal value, the one with the smaller literal
// cash flow wins, biasing the search away from withdrawals that have no
// effect. It also bounds the balance below which the guarantee counts as
// exhausted.
const Epsilon = 1e-12

// Withdrawal is the impulse-control operator of the GMWB contract. Given a
// per-node withdrawal rate lambda in [0, 1], it produces
//
//	A(t) = I - Transfer(t)
//
// where Transfer routes each node's value to the post-withdrawal state
// (max(S - lambda*W, 0), (1 - lambda)*W) by bilinear interpolation, and a
// cash-flow vector b(t) holding the net amount the withdrawal pays out.
//
// The control array is supplied by the policy search before each assembly;
// Withdrawal itself never chooses controls.
type Withdrawal struct {
	g            *grid.Grid
	contractRate pde.Rate // penalty-free amount per step, G*dt
	kappa        pde.Rate // surrender charge on the excess
	control      []float64
}

// NewWithdrawal builds the operator. contractRate evaluates to the
// penalty-free withdrawal amount permitted per time step (the annual
// contract rate scaled by the step size); kappa is the penalty fraction on
// any excess.
func NewWithdrawal(g *grid.Grid, contractRate, kappa pde.Rate) *Withdrawal {
	return &Withdrawal{
		g:            g,
		contractRate: contractRate,
		kappa:        kappa,
		control:      make([]float64, g.Size()),
	}
}

// SetControl installs the per-node withdrawal rates used by the next Matrix
// and Vector assembly. The slice is retained, not copied.
func (op *Withdrawal) SetControl(lambda []float64) { op.control = lambda }

// Target is the post-withdrawal state reached from (s, w) at rate lambda.
// The investment level is floored at zero: a withdrawal cannot drive the
// account negative.
func Target(s, w, lambda float64) (x, y float64) {
	return math.Max(s-lambda*w, 0), (1 - lambda) * w
}

// CashFlow is the net cash received for withdrawing at rate lambda from
// state (s, w) at time t. An exhausted balance (w <= Epsilon) yields the
// sentinel -Epsilon so that withdrawing from nothing is never selected; in
// the penalty-free region (lambda*w within the contractual amount) the full
// withdrawal is received; beyond it the excess is charged at kappa. Every
// branch carries the -Epsilon tie-break.
func (op *Withdrawal) CashFlow(t, s, w, lambda float64) float64 {
	if w <= Epsilon {
		return -Epsilon
	}
	gdt := op.contractRate.Evaluate(t, s, w)
	lw := lambda * w
	if lambda < math.Min(gdt/w, 1) {
		return lw - Epsilon
	}
	return lw - op.kappa.Evaluate(t, s, w)*(lw-gdt) - Epsilon
}

// Matrix assembles I - Transfer at the installed controls.
func (op *Withdrawal) Matrix(t float64) *sparse.Matrix {
	b := sparse.NewBuilder(op.g.Size(), op.g.Size(), 5)
	for k := 0; k < op.g.Size(); k++ {
		s, w := op.g.Coordinates(k)
		x, y := Target(s, w, op.control[k])
		b.Add(k, k, 1)
		for _, p := range op.g.Stencil(x, y) {
			b.Add(k, p.Index, -p.Weight)
		}
	}
	return b.Build()
}

// Vector assembles the cash flows at the installed controls.
func (op *Withdrawal) Vector(t float64) []float64 {
	b := make([]float64, op.g.Size())
	for k := range b {
		s, w := op.g.Coordinates(k)
		b[k] = op.CashFlow(t, s, w, op.control[k])
	}
	return b
}
