package gmwb_test

import (
	"math"
	"testing"

	"github.com/meenmo/hjblib/gmwb"
	"github.com/meenmo/hjblib/grid"
	"github.com/meenmo/hjblib/pde"
)

func coarseGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Range(0, 50, 200), grid.Range(0, 50, 200))
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	return g
}

func TestTargetInvestmentNeverNegative(t *testing.T) {
	t.Parallel()

	for _, s := range []float64{0, 10, 100, 1000} {
		for _, w := range []float64{0, 10, 100, 5000} {
			for _, lambda := range []float64{0, 0.25, 0.5, 0.75, 1} {
				x, y := gmwb.Target(s, w, lambda)
				if x < 0 {
					t.Fatalf("Target(%g,%g,%g) investment = %g < 0", s, w, lambda, x)
				}
				if y < 0 {
					t.Fatalf("Target(%g,%g,%g) balance = %g < 0", s, w, lambda, y)
				}
			}
		}
	}
}

func TestCashFlowExhaustedBalanceSentinel(t *testing.T) {
	t.Parallel()

	op := gmwb.NewWithdrawal(coarseGrid(t), pde.Constant(20), pde.Constant(0.1))
	for _, w := range []float64{0, gmwb.Epsilon / 2, gmwb.Epsilon} {
		for _, lambda := range []float64{0, 0.5, 1} {
			if got := op.CashFlow(0, 100, w, lambda); got != -gmwb.Epsilon {
				t.Fatalf("CashFlow(w=%g, lambda=%g) = %g, want exactly %g", w, lambda, got, -gmwb.Epsilon)
			}
		}
	}
}

func TestCashFlowRegimes(t *testing.T) {
	t.Parallel()

	const gdt = 20.0
	const kappa = 0.1
	op := gmwb.NewWithdrawal(coarseGrid(t), pde.Constant(gdt), pde.Constant(kappa))

	// Penalty-free: lambda*W below the contractual amount.
	if got, want := op.CashFlow(0, 100, 100, 0.1), 10-gmwb.Epsilon; math.Abs(got-want) > 1e-12 {
		t.Fatalf("penalty-free cash flow = %g, want %g", got, want)
	}
	// Penalized: the excess over the contractual amount is charged.
	lw := 0.5 * 100
	if got, want := op.CashFlow(0, 100, 100, 0.5), lw-kappa*(lw-gdt)-gmwb.Epsilon; math.Abs(got-want) > 1e-12 {
		t.Fatalf("penalized cash flow = %g, want %g", got, want)
	}
}

func TestCashFlowContinuousAtPenaltyBoundary(t *testing.T) {
	t.Parallel()

	const gdt = 20.0
	op := gmwb.NewWithdrawal(coarseGrid(t), pde.Constant(gdt), pde.Constant(0.1))

	// At lambda = Gdt/W the penalized formula collapses to the penalty-free
	// one: the excess is zero.
	const w = 100.0
	boundary := gdt / w
	free := boundary*w - gmwb.Epsilon
	if got := op.CashFlow(0, 100, w, boundary); math.Abs(got-free) > 1e-12 {
		t.Fatalf("cash flow jumps at penalty boundary: %g vs %g", got, free)
	}

	// With kappa = 0 both regimes agree identically for every lambda.
	free0 := gmwb.NewWithdrawal(coarseGrid(t), pde.Constant(gdt), pde.Constant(0))
	for _, lambda := range []float64{0.1, 0.2, 0.5, 1} {
		if got, want := free0.CashFlow(0, 100, w, lambda), lambda*w-gmwb.Epsilon; math.Abs(got-want) > 1e-12 {
			t.Fatalf("kappa=0 cash flow at lambda=%g: %g, want %g", lambda, got, want)
		}
	}
}

func TestWithdrawalMatrixRowsAnnihilateConstants(t *testing.T) {
	t.Parallel()

	g := coarseGrid(t)
	op := gmwb.NewWithdrawal(g, pde.Constant(20), pde.Constant(0.1))

	lambda := make([]float64, g.Size())
	for k := range lambda {
		lambda[k] = float64(k%5) / 4
	}
	op.SetControl(lambda)

	// A = I - Transfer and transfer weights sum to one, so A applied to a
	// constant vector must vanish.
	a := op.Matrix(0)
	ones := make([]float64, g.Size())
	for i := range ones {
		ones[i] = 1
	}
	out := make([]float64, g.Size())
	a.MulVec(out, ones)
	for k, v := range out {
		if math.Abs(v) > 1e-12 {
			t.Fatalf("row %d applied to constants = %g, want 0", k, v)
		}
	}
}
