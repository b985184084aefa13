package pde_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/hjblib/pde"
	"github.com/meenmo/hjblib/sparse"
)

func TestIterativeSolverSolves(t *testing.T) {
	t.Parallel()

	b := sparse.NewBuilder(3, 3, 3)
	b.Add(0, 0, 4)
	b.Add(0, 1, 1)
	b.Add(1, 0, 1)
	b.Add(1, 1, 4)
	b.Add(1, 2, 1)
	b.Add(2, 1, 1)
	b.Add(2, 2, 4)
	a := b.Build()

	want := []float64{1, 2, 3}
	rhs := make([]float64, 3)
	a.MulVec(rhs, want)

	s := pde.NewIterativeSolver()
	got, err := s.Solve(a, rhs, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-7 {
			t.Fatalf("x[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestIterativeSolverWarmStart(t *testing.T) {
	t.Parallel()

	a := sparse.Identity(2)
	rhs := []float64{3, -1}
	s := pde.NewIterativeSolver()
	got, err := s.Solve(a, rhs, []float64{3, -1})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if math.Abs(got[0]-3) > 1e-10 || math.Abs(got[1]+1) > 1e-10 {
		t.Fatalf("x = %v, want [3 -1]", got)
	}
}

func TestIterativeSolverAcceptsConvergedWarmStart(t *testing.T) {
	t.Parallel()

	// A stiff diagonal system with the magnitudes a penalised operator
	// produces. A warm start that already solves it has a zero residual,
	// which stalls BiCGStab instead of converging; the solver must accept
	// the iterate up front.
	b := sparse.NewBuilder(4, 4, 1)
	for i := 0; i < 4; i++ {
		b.Add(i, i, 1e6)
	}
	a := b.Build()

	x0 := []float64{100, 120, 140, 160}
	rhs := make([]float64, 4)
	a.MulVec(rhs, x0)

	s := pde.NewIterativeSolver()
	got, err := s.Solve(a, rhs, x0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i := range x0 {
		if math.Abs(got[i]-x0[i]) > 1e-6 {
			t.Fatalf("x[%d] = %g, want %g", i, got[i], x0[i])
		}
	}
}

func TestIterativeSolverSurfacesFailure(t *testing.T) {
	t.Parallel()

	// Zero matrix, nonzero right-hand side: no solution exists.
	a := sparse.NewBuilder(2, 2, 1).Build()
	s := pde.NewIterativeSolver()
	if _, err := s.Solve(a, []float64{1, 0}, nil); !errors.Is(err, pde.ErrSolve) {
		t.Fatalf("expected ErrSolve, got %v", err)
	}
}
