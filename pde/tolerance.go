package pde

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/meenmo/hjblib/pde/config"
)

// IterationState is the lifecycle of a ToleranceIteration at one time level.
type IterationState int

const (
	// Idle means no time level is being iterated.
	Idle IterationState = iota
	// Iterating means a time level is in progress.
	Iterating
	// Converged means the last time level met the tolerance.
	Converged
	// MaxIterationsExceeded means the last time level hit the iteration
	// cap, which is a hard failure.
	MaxIterationsExceeded
	// StepFailed means a step function returned an error before the last
	// time level could converge.
	StepFailed
)

// ToleranceIteration is the fixed-point convergence engine shared by the
// time-stepping and operator-coupling layers. At each time level it
// repeatedly applies a step function until the componentwise relative change
//
//	max_i |x_k[i] - x_{k-1}[i]| / max(scale, |x_k[i]|)
//
// falls below the tolerance, recording the number of inner iterations per
// level for diagnostics. Exceeding the iteration cap is an error, never a
// silently accepted stale iterate.
type ToleranceIteration struct {
	tol      float64
	scale    float64
	maxIters int
	state    IterationState
	counts   []int
}

// NewToleranceIteration builds the engine from the active configuration.
func NewToleranceIteration() *ToleranceIteration {
	c := config.GetConfig()
	return &ToleranceIteration{
		tol:      c.ConvergenceTolerance,
		scale:    c.ScaleFloor,
		maxIters: c.MaxFixedPointIterations,
	}
}

// State reports the engine's lifecycle state.
func (it *ToleranceIteration) State() IterationState { return it.state }

// IterationCounts returns one entry per completed time level: the number of
// inner iterations that level needed.
func (it *ToleranceIteration) IterationCounts() []int { return it.counts }

// AverageIterations is the mean inner-iteration count across completed time
// levels, the headline solver-cost diagnostic.
func (it *ToleranceIteration) AverageIterations() float64 {
	if len(it.counts) == 0 {
		return 0
	}
	f := make([]float64, len(it.counts))
	for i, c := range it.counts {
		f[i] = float64(c)
	}
	return stat.Mean(f, nil)
}

// Reset clears the per-level diagnostics for a fresh run.
func (it *ToleranceIteration) Reset() {
	it.state = Idle
	it.counts = it.counts[:0]
}

// Run iterates one time level to a fixed point. step maps the current trial
// iterate to the next one; x0 seeds the iteration (typically the previous
// time level's solution) and is not modified. On success the converged
// iterate and the iteration count are returned.
func (it *ToleranceIteration) Run(x0 []float64, step func(trial []float64) ([]float64, error)) ([]float64, int, error) {
	it.state = Iterating
	prev := x0
	for k := 1; k <= it.maxIters; k++ {
		x, err := step(prev)
		if err != nil {
			it.state = StepFailed
			return nil, k, err
		}
		if k > 1 && it.converged(x, prev) {
			it.state = Converged
			it.counts = append(it.counts, k)
			return x, k, nil
		}
		prev = x
	}
	it.state = MaxIterationsExceeded
	return nil, it.maxIters, ErrMaxIterations
}

func (it *ToleranceIteration) converged(x, prev []float64) bool {
	for i := range x {
		d := math.Abs(x[i] - prev[i])
		if d/math.Max(it.scale, math.Abs(x[i])) >= it.tol {
			return false
		}
	}
	return true
}
