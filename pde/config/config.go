// Package config holds the numeric parameters of the fixed-point and linear
// solvers.
package config

// Config holds solver parameters.
type Config struct {
	// ConvergenceTolerance is the relative-change threshold below which the
	// fixed-point iteration at a time level is considered converged.
	ConvergenceTolerance float64

	// ScaleFloor is the denominator floor of the componentwise relative
	// change test, preventing blow-up where the solution is near zero.
	ScaleFloor float64

	// MaxFixedPointIterations is the hard cap on inner iterations per time
	// level. Reaching it is a failure, never silent acceptance.
	MaxFixedPointIterations int

	// PenaltyTolerance controls the penalty weight 1/PenaltyTolerance used
	// to enforce the impulse-control constraint.
	PenaltyTolerance float64

	// SolverTolerance is the residual tolerance of the iterative linear
	// solver.
	SolverTolerance float64

	// MaxSolverIterations caps the iterative linear solver. Zero selects
	// the solver's own default.
	MaxSolverIterations int
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	ConvergenceTolerance:    1e-6,
	ScaleFloor:              1.0,
	MaxFixedPointIterations: 100,
	PenaltyTolerance:        1e-6,
	SolverTolerance:         1e-10,
	MaxSolverIterations:     10000,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
