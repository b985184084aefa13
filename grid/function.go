package grid

import (
	"fmt"
	"strings"
)

// Function is a grid-sampled function, queryable anywhere on the hull via
// bilinear interpolation. It is the form in which price surfaces are
// reported.
type Function struct {
	g *Grid
	v []float64
}

// NewFunction pairs per-node values with their grid. The slice is retained,
// not copied.
func NewFunction(g *Grid, values []float64) (*Function, error) {
	if len(values) != g.Size() {
		return nil, fmt.Errorf("got %d values for %d nodes: %w", len(values), g.Size(), ErrSizeMismatch)
	}
	return &Function{g: g, v: values}, nil
}

// Grid returns the underlying mesh.
func (f *Function) Grid() *Grid { return f.g }

// Values returns the raw per-node values in grid index order.
func (f *Function) Values() []float64 { return f.v }

// At evaluates the function at an arbitrary point by bilinear interpolation.
func (f *Function) At(x, y float64) float64 {
	var out float64
	for _, p := range f.g.Stencil(x, y) {
		out += p.Weight * f.v[p.Index]
	}
	return out
}

// Table renders the function on a print grid, one "x y value" line per print
// node in index order.
func (f *Function) Table(print *Grid) string {
	var b strings.Builder
	for k := 0; k < print.Size(); k++ {
		x, y := print.Coordinates(k)
		fmt.Fprintf(&b, "%-8g %-8g %g\n", x, y, f.At(x, y))
	}
	return b.String()
}
