package gmwb

import (
	"math"

	"github.com/meenmo/hjblib/grid"
	"github.com/meenmo/hjblib/sparse"
)

// PolicySearch is the optimal-control layer over the Withdrawal operator.
// On every Refresh it re-runs, for each node, an exhaustive search over the
// discretized control set, selecting the withdrawal rate that maximizes the
// holder's objective
//
//	sum of stencil weights * trial value at the post-withdrawal state
//	+ cash flow of the withdrawal,
//
// and installs the winning rates on the operator. Ties resolve to the
// candidate with the smaller literal cash flow through the Epsilon offset
// already embedded in CashFlow, which means the smallest withdrawal rate
// wins when indifferent.
//
// The search holds no state between calls beyond the control set; it is
// re-run fully at each inner iteration and each time level.
type PolicySearch struct {
	g        *grid.Grid
	controls []float64
	impulse  *Withdrawal
	best     []float64
}

// NewPolicySearch builds the search over the given candidate rates. An empty
// control set is a configuration error.
func NewPolicySearch(g *grid.Grid, controls []float64, impulse *Withdrawal) (*PolicySearch, error) {
	if len(controls) == 0 {
		return nil, ErrEmptyControlSet
	}
	return &PolicySearch{
		g:        g,
		controls: controls,
		impulse:  impulse,
		best:     make([]float64, g.Size()),
	}, nil
}

// Controls returns the discretized withdrawal-rate partition
// 0, 1/m, 2/m, ..., 1 with m = n * 2^level intervals. The partition doubles
// in granularity with each refinement level.
func Controls(n, level int) ([]float64, error) {
	if n < 1 || level < 0 {
		return nil, ErrEmptyControlSet
	}
	m := n << level
	out := make([]float64, m+1)
	for i := range out {
		out[i] = float64(i) / float64(m)
	}
	return out, nil
}

// Refresh re-optimizes the per-node controls against the trial iterate and
// installs them on the Withdrawal operator.
func (p *PolicySearch) Refresh(t float64, trial []float64) {
	for k := 0; k < p.g.Size(); k++ {
		s, w := p.g.Coordinates(k)
		best := math.Inf(-1)
		lambda := p.controls[0]
		for _, c := range p.controls {
			x, y := Target(s, w, c)
			v := p.impulse.CashFlow(t, s, w, c)
			for _, pt := range p.g.Stencil(x, y) {
				v += pt.Weight * trial[pt.Index]
			}
			if v > best {
				best = v
				lambda = c
			}
		}
		p.best[k] = lambda
	}
	p.impulse.SetControl(p.best)
}

// BestControls returns the per-node withdrawal rates chosen by the last
// Refresh, in grid index order.
func (p *PolicySearch) BestControls() []float64 { return p.best }

// Matrix exposes the operator's matrix at the controls chosen by the last
// Refresh.
func (p *PolicySearch) Matrix(t float64) *sparse.Matrix { return p.impulse.Matrix(t) }

// Vector exposes the operator's cash flows at the controls chosen by the
// last Refresh.
func (p *PolicySearch) Vector(t float64) []float64 { return p.impulse.Vector(t) }
