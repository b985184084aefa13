// Package sparse provides the small amount of sparse linear algebra the
// pricing engine needs: triplet accumulation into compressed sparse row
// form, matrix-vector products, and the masked row combinations used by the
// penalty coupling. Matrices satisfy the matrix-vector interface expected by
// gonum's iterative solvers.
package sparse

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Matrix is an immutable sparse matrix in compressed sparse row form.
// Column indices within each row are strictly increasing.
type Matrix struct {
	rows, cols int
	ptr        []int
	ind        []int
	val        []float64
}

// Builder accumulates (row, col, value) triplets. Duplicate entries for the
// same position are summed when the matrix is built.
type Builder struct {
	rows, cols int
	ind        [][]int
	val        [][]float64
}

// NewBuilder creates a builder for a rows x cols matrix. rowBudget is a
// capacity hint for the expected number of nonzeros per row.
func NewBuilder(rows, cols, rowBudget int) *Builder {
	b := &Builder{
		rows: rows,
		cols: cols,
		ind:  make([][]int, rows),
		val:  make([][]float64, rows),
	}
	if rowBudget > 0 {
		for i := range b.ind {
			b.ind[i] = make([]int, 0, rowBudget)
			b.val[i] = make([]float64, 0, rowBudget)
		}
	}
	return b
}

// Add accumulates v at position (i, j).
func (b *Builder) Add(i, j int, v float64) {
	b.ind[i] = append(b.ind[i], j)
	b.val[i] = append(b.val[i], v)
}

// Build converts the accumulated triplets to compressed form, sorting each
// row by column and merging duplicates.
func (b *Builder) Build() *Matrix {
	nnz := 0
	for i := range b.ind {
		nnz += len(b.ind[i])
	}
	m := &Matrix{
		rows: b.rows,
		cols: b.cols,
		ptr:  make([]int, b.rows+1),
		ind:  make([]int, 0, nnz),
		val:  make([]float64, 0, nnz),
	}
	for i := 0; i < b.rows; i++ {
		ind, val := b.ind[i], b.val[i]
		sort.Sort(&rowSorter{ind: ind, val: val})
		for k := 0; k < len(ind); k++ {
			if n := len(m.ind); n > m.ptr[i] && m.ind[n-1] == ind[k] {
				m.val[n-1] += val[k]
				continue
			}
			m.ind = append(m.ind, ind[k])
			m.val = append(m.val, val[k])
		}
		m.ptr[i+1] = len(m.ind)
	}
	return m
}

type rowSorter struct {
	ind []int
	val []float64
}

func (s *rowSorter) Len() int           { return len(s.ind) }
func (s *rowSorter) Less(i, j int) bool { return s.ind[i] < s.ind[j] }
func (s *rowSorter) Swap(i, j int) {
	s.ind[i], s.ind[j] = s.ind[j], s.ind[i]
	s.val[i], s.val[j] = s.val[j], s.val[i]
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	m := &Matrix{
		rows: n,
		cols: n,
		ptr:  make([]int, n+1),
		ind:  make([]int, n),
		val:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		m.ptr[i+1] = i + 1
		m.ind[i] = i
		m.val[i] = 1
	}
	return m
}

// Dims returns the matrix dimensions.
func (m *Matrix) Dims() (r, c int) { return m.rows, m.cols }

// NonZeros returns the number of stored entries.
func (m *Matrix) NonZeros() int { return len(m.ind) }

// At returns the entry at (i, j).
func (m *Matrix) At(i, j int) float64 {
	lo, hi := m.ptr[i], m.ptr[i+1]
	k := lo + sort.SearchInts(m.ind[lo:hi], j)
	if k < hi && m.ind[k] == j {
		return m.val[k]
	}
	return 0
}

// MulVec computes dst = M x. dst must not alias x.
func (m *Matrix) MulVec(dst, x []float64) {
	for i := 0; i < m.rows; i++ {
		var s float64
		for k := m.ptr[i]; k < m.ptr[i+1]; k++ {
			s += m.val[k] * x[m.ind[k]]
		}
		dst[i] = s
	}
}

// MulVecTo computes dst = M x (or Mᵀ x when trans is set). It implements the
// matrix-vector interface of gonum.org/v1/exp/linsolve.
func (m *Matrix) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	if !trans {
		for i := 0; i < m.rows; i++ {
			var s float64
			for k := m.ptr[i]; k < m.ptr[i+1]; k++ {
				s += m.val[k] * x.AtVec(m.ind[k])
			}
			dst.SetVec(i, s)
		}
		return
	}
	for j := 0; j < m.cols; j++ {
		dst.SetVec(j, 0)
	}
	for i := 0; i < m.rows; i++ {
		xi := x.AtVec(i)
		for k := m.ptr[i]; k < m.ptr[i+1]; k++ {
			j := m.ind[k]
			dst.SetVec(j, dst.At(j, 0)+m.val[k]*xi)
		}
	}
}

// Residual computes dst = M x - b.
func (m *Matrix) Residual(dst, x, b []float64) {
	m.MulVec(dst, x)
	for i := range dst {
		dst[i] -= b[i]
	}
}

// Add returns a + alpha*b.
func Add(a, b *Matrix, alpha float64) *Matrix {
	return merge(a, b, alpha, nil)
}

// Sub returns a - b.
func Sub(a, b *Matrix) *Matrix { return Add(a, b, -1) }

// AddMasked returns a + alpha*D*b where D is the diagonal 0/1 matrix with
// D[i][i] = 1 exactly when mask[i] is set. This is the row combination used
// by the penalty method.
func AddMasked(a, b *Matrix, alpha float64, mask []bool) *Matrix {
	return merge(a, b, alpha, mask)
}

func merge(a, b *Matrix, alpha float64, mask []bool) *Matrix {
	m := &Matrix{
		rows: a.rows,
		cols: a.cols,
		ptr:  make([]int, a.rows+1),
		ind:  make([]int, 0, len(a.ind)+len(b.ind)),
		val:  make([]float64, 0, len(a.val)+len(b.val)),
	}
	for i := 0; i < a.rows; i++ {
		ka, ea := a.ptr[i], a.ptr[i+1]
		kb, eb := b.ptr[i], b.ptr[i+1]
		if mask != nil && !mask[i] {
			kb = eb
		}
		for ka < ea || kb < eb {
			switch {
			case kb == eb || (ka < ea && a.ind[ka] < b.ind[kb]):
				m.ind = append(m.ind, a.ind[ka])
				m.val = append(m.val, a.val[ka])
				ka++
			case ka == ea || b.ind[kb] < a.ind[ka]:
				m.ind = append(m.ind, b.ind[kb])
				m.val = append(m.val, alpha*b.val[kb])
				kb++
			default:
				m.ind = append(m.ind, a.ind[ka])
				m.val = append(m.val, a.val[ka]+alpha*b.val[kb])
				ka++
				kb++
			}
		}
		m.ptr[i+1] = len(m.ind)
	}
	return m
}
