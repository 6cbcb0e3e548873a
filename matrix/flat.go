package matrix

import (
	"iter"

	"github.com/aerius-labs/arith-go/field"
)

// FlatMatrixView presents a matrix over an extension EF of F as a matrix over
// F, replacing each extension element by its Dimension() basis coefficients
// side by side. Row r of the view is
//
//	c(0,0) .. c(0,D-1), c(1,0) .. c(1,D-1), ...
//
// where c(j,i) is coefficient i of inner element (r, j).
//
// The view borrows inner and copies nothing. It must not be used after inner
// is released or mutated, and it is only as safe for concurrent use as inner's
// read methods.
type FlatMatrixView[F any, EF field.Extension[F]] struct {
	inner Matrix[EF]
	dim   int
}

// NewFlatMatrixView wraps inner. Empty matrices are accepted.
func NewFlatMatrixView[F any, EF field.Extension[F]](inner Matrix[EF]) *FlatMatrixView[F, EF] {
	var zero EF
	return &FlatMatrixView[F, EF]{inner: inner, dim: zero.Dimension()}
}

// Inner returns the wrapped matrix.
func (v *FlatMatrixView[F, EF]) Inner() Matrix[EF] { return v.inner }

// Width returns the inner width times the extension degree.
func (v *FlatMatrixView[F, EF]) Width() int { return v.inner.Width() * v.dim }

// Height returns the inner height.
func (v *FlatMatrixView[F, EF]) Height() int { return v.inner.Height() }

// Get returns coefficient c mod D of inner element (r, c / D).
func (v *FlatMatrixView[F, EF]) Get(r, c int) F {
	return v.inner.Get(r, c/v.dim).BasisCoefficient(c % v.dim)
}

// Row lazily yields the coefficients of row r. Every call walks the inner row
// afresh and recomputes the coefficients.
func (v *FlatMatrixView[F, EF]) Row(r int) iter.Seq[F] {
	return func(yield func(F) bool) {
		for e := range v.inner.Row(r) {
			for i := 0; i < v.dim; i++ {
				if !yield(e.BasisCoefficient(i)) {
					return
				}
			}
		}
	}
}

// RowIter returns a pull cursor over row r. The cursor is single use and
// belongs to the caller; Stop must be called if it is abandoned before Next
// reports the end.
func (v *FlatMatrixView[F, EF]) RowIter(r int) *FlatIter[F, EF] {
	next, stop := iter.Pull(v.inner.Row(r))
	it := &FlatIter[F, EF]{next: next, stop: stop, dim: v.dim}
	it.advance()
	return it
}

// RowSlice materialises row r into a new slice.
func (v *FlatMatrixView[F, EF]) RowSlice(r int) []F {
	row := v.inner.RowSlice(r)
	out := make([]F, 0, len(row)*v.dim)
	for _, e := range row {
		for i := 0; i < v.dim; i++ {
			out = append(out, e.BasisCoefficient(i))
		}
	}
	return out
}

// FlatIter walks an inner row with a cursor on the current extension element
// and a sub-index into its coefficients.
type FlatIter[F any, EF field.Extension[F]] struct {
	next func() (EF, bool)
	stop func()
	cur  EF
	ok   bool
	idx  int
	dim  int
}

func (it *FlatIter[F, EF]) advance() {
	it.cur, it.ok = it.next()
	if !it.ok {
		it.stop()
	}
}

// Next returns the next base field element, or false once the inner row is
// exhausted.
func (it *FlatIter[F, EF]) Next() (F, bool) {
	for it.ok && it.idx == it.dim {
		it.idx = 0
		it.advance()
	}
	if !it.ok {
		var zero F
		return zero, false
	}
	f := it.cur.BasisCoefficient(it.idx)
	it.idx++
	return f, true
}

// Stop releases the cursor. Next reports the end afterwards.
func (it *FlatIter[F, EF]) Stop() {
	it.ok = false
	it.stop()
}

var _ Matrix[field.Element] = (*FlatMatrixView[field.Element, field.Ext2])(nil)
