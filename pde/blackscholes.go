package pde

import (
	"github.com/meenmo/hjblib/grid"
	"github.com/meenmo/hjblib/sparse"
)

// BlackScholes is the discretized generator of the Black-Scholes dynamics on
// the investment axis (dimension 0) of a 2-D grid. The second state variable
// carries no diffusion; each row of the grid along the investment axis is
// discretized independently.
//
// The assembled matrix M discretizes -LV where
//
//	LV = (1/2) v^2 S^2 V_SS + (r - alpha) S V_S - rV,
//
// so that an implicit step solves (I + dt*M) x_new = x_old. Central
// differencing is used wherever it keeps the off-diagonals non-positive,
// falling back to first-order upwinding otherwise, which preserves the
// monotonicity of the scheme on non-uniform axes.
type BlackScholes struct {
	g    *grid.Grid
	rate Rate // risk-free interest rate r
	vol  Rate // volatility v
	fee  Rate // hedging fee alpha, acts as a dividend-style drift drag
}

// NewBlackScholes builds the generator for the given grid and coefficients.
func NewBlackScholes(g *grid.Grid, rate, vol, fee Rate) *BlackScholes {
	return &BlackScholes{g: g, rate: rate, vol: vol, fee: fee}
}

// Matrix assembles the operator at time t.
func (bs *BlackScholes) Matrix(t float64) *sparse.Matrix {
	x := bs.g.X()
	y := bs.g.Y()
	nx := len(x)
	b := sparse.NewBuilder(bs.g.Size(), bs.g.Size(), 3)

	for j := 0; j < len(y); j++ {
		w := y[j]
		for i := 0; i < nx; i++ {
			s := x[i]
			k := bs.g.Index(i, j)
			r := bs.rate.Evaluate(t, s, w)

			// S = 0: dynamics degenerate to pure discounting.
			if i == 0 {
				b.Add(k, k, r)
				continue
			}

			// Far boundary: the solution is assumed asymptotically
			// linear in S, which kills the diffusion term and
			// reduces the drift to (r - alpha)V, leaving alpha*V
			// after discounting.
			if i == nx-1 {
				b.Add(k, k, bs.fee.Evaluate(t, s, w))
				continue
			}

			v := bs.vol.Evaluate(t, s, w)
			mu := (r - bs.fee.Evaluate(t, s, w)) * s
			hm := s - x[i-1]
			hp := x[i+1] - s
			diff := v * v * s * s
			alphaCommon := diff / (hm * (hm + hp))
			betaCommon := diff / (hp * (hm + hp))

			// Central differencing, upwinded if an off-diagonal
			// would change sign.
			alpha := alphaCommon - mu/(hm+hp)
			beta := betaCommon + mu/(hm+hp)
			if alpha < 0 {
				alpha = alphaCommon
				beta = betaCommon + mu/hp
			} else if beta < 0 {
				alpha = alphaCommon - mu/hm
				beta = betaCommon
			}

			b.Add(k, k-1, -alpha)
			b.Add(k, k, alpha+beta+r)
			b.Add(k, k+1, -beta)
		}
	}
	return b.Build()
}

// Vector returns the zero forcing term of the homogeneous PDE.
func (bs *BlackScholes) Vector(t float64) []float64 {
	return make([]float64, bs.g.Size())
}
