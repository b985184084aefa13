// Package grid provides rectilinear 2-D meshes, node indexing and bilinear
// interpolation for finite-difference pricing on an
// (investment, withdrawal balance) state space.
package grid

import (
	"fmt"
	"math"
	"sort"
)

// Axis is an ordered set of ticks on one dimension of a rectilinear grid.
// Ticks must be strictly increasing; use NewAxis to validate.
type Axis []float64

// NewAxis validates ticks and returns them as an Axis.
// At least two strictly increasing ticks are required.
func NewAxis(ticks ...float64) (Axis, error) {
	if len(ticks) < 2 {
		return nil, fmt.Errorf("axis needs at least 2 ticks, got %d: %w", len(ticks), ErrBadAxis)
	}
	for i := 1; i < len(ticks); i++ {
		if !(ticks[i] > ticks[i-1]) {
			return nil, fmt.Errorf("axis ticks not strictly increasing at position %d (%g after %g): %w",
				i, ticks[i], ticks[i-1], ErrBadAxis)
		}
	}
	out := make(Axis, len(ticks))
	copy(out, ticks)
	return out, nil
}

// Range builds the ticks start, start+step, ..., end (MATLAB colon notation).
// The end point is included when it lies within half a step of the sequence.
func Range(start, step, end float64) Axis {
	// Ticks are computed from the index rather than accumulated, so an
	// unrepresentable step (0.1, say) cannot drift the endpoint off the
	// half-step guard on long axes.
	var ticks Axis
	for i := 0; ; i++ {
		x := start + float64(i)*step
		if x > end+step/2 {
			break
		}
		ticks = append(ticks, x)
	}
	return ticks
}

// Refine returns a new axis with one tick inserted halfway between each
// adjacent pair. Existing ticks are preserved.
func (a Axis) Refine() Axis {
	if len(a) < 2 {
		out := make(Axis, len(a))
		copy(out, a)
		return out
	}
	out := make(Axis, 0, 2*len(a)-1)
	for i := 0; i < len(a)-1; i++ {
		out = append(out, a[i], (a[i]+a[i+1])/2)
	}
	return append(out, a[len(a)-1])
}

// interval locates the cell [a[i], a[i+1]] containing x and the weight of the
// lower tick under linear interpolation. Points outside the axis are clamped
// to the nearest boundary cell.
func (a Axis) interval(x float64) (i int, lowerWeight float64) {
	n := len(a)
	i = sort.SearchFloat64s(a, x) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	w := (a[i+1] - x) / (a[i+1] - a[i])
	return i, math.Min(math.Max(w, 0), 1)
}
