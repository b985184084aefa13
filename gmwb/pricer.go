package gmwb

import (
	"fmt"
	"math"

	"github.com/meenmo/hjblib/grid"
	"github.com/meenmo/hjblib/pde"
)

// Params defines a GMWB pricing run. All rates are annualized decimals.
type Params struct {
	Expiry       float64 // contract expiry T in years
	Rate         float64 // risk-free interest rate r
	Vol          float64 // volatility v
	Fee          float64 // hedging fee alpha
	ContractRate float64 // penalty-free withdrawal amount per year, G
	Penalty      float64 // surrender charge kappa on excess withdrawals

	ControlPartition int // n: control set granularity at level 0
	TimeSteps        int // N: time steps at level 0
	Refinements      int // extra passes with doubled granularity and refined grid

	// SAxis and WAxis override the default solution grid.
	SAxis grid.Axis
	WAxis grid.Axis
}

// Result is the outcome of one refinement level.
type Result struct {
	Level              int
	Surface            *grid.Function
	AvgInnerIterations float64
	TimeSteps          int
	Controls           int
}

// Pricer runs the full backward solve, one pass per refinement level. Each
// pass doubles both the control partition and the number of time steps and
// then refines the grid, so successive levels tighten every discretization
// together.
type Pricer struct {
	p Params
	g *grid.Grid
}

// NewPricer validates parameters and prepares the level-0 grid.
func NewPricer(p Params) (*Pricer, error) {
	switch {
	case p.Expiry <= 0:
		return nil, fmt.Errorf("expiry %g: %w", p.Expiry, ErrBadParams)
	case p.TimeSteps <= 0:
		return nil, fmt.Errorf("time steps %d: %w", p.TimeSteps, ErrBadParams)
	case p.ControlPartition <= 0:
		return nil, fmt.Errorf("control partition %d: %w", p.ControlPartition, ErrBadParams)
	case p.Refinements < 0:
		return nil, fmt.Errorf("refinements %d: %w", p.Refinements, ErrBadParams)
	case p.Penalty < 0 || p.Penalty > 1:
		return nil, fmt.Errorf("penalty %g: %w", p.Penalty, ErrBadParams)
	}
	if p.SAxis == nil {
		p.SAxis = DefaultSAxis()
	}
	if p.WAxis == nil {
		p.WAxis = DefaultWAxis()
	}
	g, err := grid.New(p.SAxis, p.WAxis)
	if err != nil {
		return nil, err
	}
	return &Pricer{p: p, g: g}, nil
}

// Payoff is the terminal condition: the greater of the investment account
// and the guaranteed balance net of the full surrender charge.
func (pr *Pricer) Payoff(s, w float64) float64 {
	return math.Max(s, (1-pr.p.Penalty)*w)
}

// Price runs every refinement level and returns one Result per level, level
// 0 first. A convergence or solver failure at any level aborts the whole
// run.
func (pr *Pricer) Price() ([]Result, error) {
	results := make([]Result, 0, pr.p.Refinements+1)
	g := pr.g
	for level := 0; level <= pr.p.Refinements; level++ {
		res, err := pr.priceLevel(g, level)
		if err != nil {
			return nil, fmt.Errorf("refinement level %d: %w", level, err)
		}
		results = append(results, res)
		g = g.Refine()
	}
	return results, nil
}

func (pr *Pricer) priceLevel(g *grid.Grid, level int) (Result, error) {
	p := pr.p
	steps := p.TimeSteps << level
	dt := p.Expiry / float64(steps)

	controls, err := Controls(p.ControlPartition, level)
	if err != nil {
		return Result{}, err
	}

	bs := pde.NewBlackScholes(g, pde.Constant(p.Rate), pde.Constant(p.Vol), pde.Constant(p.Fee))
	scheme, err := pde.NewBDF(bs, dt)
	if err != nil {
		return Result{}, err
	}

	impulse := NewWithdrawal(g, pde.Constant(p.ContractRate*dt), pde.Constant(p.Penalty))
	policy, err := NewPolicySearch(g, controls, impulse)
	if err != nil {
		return Result{}, err
	}
	coupled := pde.NewPenaltyMethod(scheme, policy)

	stepper, err := pde.NewReverseStepper(g, p.Expiry, steps, pde.NewIterativeSolver())
	if err != nil {
		return Result{}, err
	}
	surface, err := stepper.Solve(pr.Payoff, scheme, coupled)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Level:              level,
		Surface:            surface,
		AvgInnerIterations: stepper.AverageInnerIterations(),
		TimeSteps:          steps,
		Controls:           len(controls),
	}, nil
}

// DefaultSAxis is the non-uniform investment axis used by the reference
// scenario: dense around the at-the-money region, sparse in the far tail.
func DefaultSAxis() grid.Axis {
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

// DefaultWAxis is the uniform guaranteed-balance axis of the reference
// scenario.
func DefaultWAxis() grid.Axis {
	return grid.Range(0, 2, 200)
}

// DefaultPrintGrid is the coarse grid on which surfaces are reported.
func DefaultPrintGrid() *grid.Grid {
	g, err := grid.New(grid.Range(0, 25, 200), grid.Range(0, 25, 200))
	if err != nil {
		panic(err) // static axes, cannot fail
	}
	return g
}
