package pde_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meenmo/hjblib/grid"
	"github.com/meenmo/hjblib/pde"
)

func sAxis() grid.Axis {
	return grid.Axis{
		0, 5, 10, 15, 20, 25,
		30, 35, 40, 45,
		50, 55, 60, 65, 70, 72.5, 75, 77.5, 80, 82, 84,
		86, 88, 90, 91, 92, 93, 94, 95,
		96, 97, 98, 99, 100,
		101, 102, 103, 104, 105, 106,
		107, 108, 109, 110, 112, 114,
		116, 118, 120, 123, 126,
		130, 135, 140, 145, 150, 160, 175, 200, 225,
		250, 300, 500, 750, 1000,
	}
}

func TestBlackScholesMatrixIsMonotone(t *testing.T) {
	t.Parallel()

	g, err := grid.New(sAxis(), grid.Axis{0, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bs := pde.NewBlackScholes(g, pde.Constant(0.05), pde.Constant(0.2), pde.Constant(0.01))
	m := bs.Matrix(0)

	nx := len(g.X())
	for j := 0; j < len(g.Y()); j++ {
		for i := 0; i < nx; i++ {
			k := g.Index(i, j)
			if diag := m.At(k, k); diag < 0 {
				t.Fatalf("negative diagonal %g at node %d", diag, k)
			}
			if i > 0 && i < nx-1 {
				if lo := m.At(k, k-1); lo > 1e-15 {
					t.Fatalf("positive sub-diagonal %g at node %d", lo, k)
				}
				if hi := m.At(k, k+1); hi > 1e-15 {
					t.Fatalf("positive super-diagonal %g at node %d", hi, k)
				}
			}
		}
	}
}

func TestBlackScholesInteriorRowSumIsRate(t *testing.T) {
	t.Parallel()

	const r = 0.05
	g, err := grid.New(sAxis(), grid.Axis{0, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bs := pde.NewBlackScholes(g, pde.Constant(r), pde.Constant(0.2), pde.Constant(0))
	m := bs.Matrix(0)

	nx := len(g.X())
	for i := 1; i < nx-1; i++ {
		k := g.Index(i, 0)
		sum := m.At(k, k-1) + m.At(k, k) + m.At(k, k+1)
		if math.Abs(sum-r) > 1e-9 {
			t.Fatalf("row %d sums to %g, want %g", k, sum, r)
		}
	}
}

func TestEuropeanPutMatchesClosedForm(t *testing.T) {
	t.Parallel()

	const (
		strike = 100.0
		expiry = 1.0
		rate   = 0.05
		vol    = 0.20
		steps  = 100
	)

	g, err := grid.New(sAxis(), grid.Axis{0, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bs := pde.NewBlackScholes(g, pde.Constant(rate), pde.Constant(vol), pde.Constant(0))
	scheme, err := pde.NewBDF(bs, expiry/steps)
	if err != nil {
		t.Fatalf("NewBDF: %v", err)
	}
	stepper, err := pde.NewReverseStepper(g, expiry, steps, pde.NewIterativeSolver())
	if err != nil {
		t.Fatalf("NewReverseStepper: %v", err)
	}

	payoff := func(s, _ float64) float64 { return math.Max(strike-s, 0) }
	surface, err := stepper.Solve(payoff, scheme, scheme)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	n := distuv.Normal{Mu: 0, Sigma: 1}
	for _, s := range []float64{80, 90, 100, 110, 120} {
		d1 := (math.Log(s/strike) + (rate+vol*vol/2)*expiry) / (vol * math.Sqrt(expiry))
		d2 := d1 - vol*math.Sqrt(expiry)
		want := strike*math.Exp(-rate*expiry)*n.CDF(-d2) - s*n.CDF(-d1)
		got := surface.At(s, 0)
		if math.Abs(got-want) > 0.1 {
			t.Fatalf("put at S=%g: pde %g vs closed form %g", s, got, want)
		}
	}

	counts := stepper.IterationCounts()
	if len(counts) != steps {
		t.Fatalf("expected %d iteration counts, got %d", steps, len(counts))
	}
	for level, c := range counts {
		if c < 1 || c > 100 {
			t.Fatalf("level %d iteration count %d out of range", level, c)
		}
	}
}
