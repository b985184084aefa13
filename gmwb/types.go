// Package gmwb prices a Guaranteed Minimum Withdrawal Benefit rider by
// solving its Hamilton-Jacobi-Bellman quasi-variational inequality on a
// 2-D (investment, guaranteed balance) grid backward in time.
//
// The holder may withdraw a fraction of the guaranteed balance at every time
// step; withdrawals beyond the contractual rate incur a proportional
// surrender charge. The pricing engine couples the Black-Scholes diffusion
// of the investment account with this impulse control through a penalty
// method, searching a discretized control set for the optimal withdrawal at
// every node and inner iteration.
package gmwb

import "errors"

var (
	// ErrEmptyControlSet is returned when a policy search is constructed
	// without any candidate controls.
	ErrEmptyControlSet = errors.New("control set is empty")

	// ErrBadParams is returned for inconsistent pricer parameters.
	ErrBadParams = errors.New("invalid pricer parameters")
)
