package grid

// Grid is an immutable rectilinear mesh over the Cartesian product of two
// axes. Nodes are indexed 0..Size()-1 with the X axis varying fastest:
// node (i, j) has index j*len(X)+i. The grid is safe for concurrent reads.
type Grid struct {
	x, y Axis
}

// New builds a grid from two validated axes.
func New(x, y Axis) (*Grid, error) {
	xv, err := NewAxis(x...)
	if err != nil {
		return nil, err
	}
	yv, err := NewAxis(y...)
	if err != nil {
		return nil, err
	}
	return &Grid{x: xv, y: yv}, nil
}

// X returns the first axis (investment level).
func (g *Grid) X() Axis { return g.x }

// Y returns the second axis (withdrawal balance).
func (g *Grid) Y() Axis { return g.y }

// Size is the total number of nodes.
func (g *Grid) Size() int { return len(g.x) * len(g.y) }

// Index maps axis positions (i, j) to the node index.
func (g *Grid) Index(i, j int) int { return j*len(g.x) + i }

// Coordinates maps a node index back to its (x, y) point.
func (g *Grid) Coordinates(k int) (x, y float64) {
	return g.x[k%len(g.x)], g.y[k/len(g.x)]
}

// StencilPoint is one node of an interpolation stencil with its weight.
type StencilPoint struct {
	Index  int
	Weight float64
}

// Stencil returns the bilinear interpolation stencil for an arbitrary point:
// the four surrounding nodes and their weights. Weights are non-negative and
// sum to one. Points outside the grid hull are clamped onto it.
func (g *Grid) Stencil(x, y float64) [4]StencilPoint {
	i, wx := g.x.interval(x)
	j, wy := g.y.interval(y)
	return [4]StencilPoint{
		{g.Index(i, j), wx * wy},
		{g.Index(i, j+1), wx * (1 - wy)},
		{g.Index(i+1, j), (1 - wx) * wy},
		{g.Index(i+1, j+1), (1 - wx) * (1 - wy)},
	}
}

// Refine returns a new grid with one tick inserted between each adjacent pair
// on both axes. The refinement is deterministic and preserves existing ticks.
func (g *Grid) Refine() *Grid {
	return &Grid{x: g.x.Refine(), y: g.y.Refine()}
}
