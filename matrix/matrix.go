// Package matrix defines the row-oriented matrix abstraction used by
// arithmetization code and views over it.
package matrix

import (
	"fmt"
	"iter"
)

// Matrix is a Width x Height container with ordered rows. Callers must not
// pass r >= Height() or c >= Width().
type Matrix[T any] interface {
	Width() int
	Height() int
	Get(r, c int) T
	// Row yields the elements of row r in column order.
	Row(r int) iter.Seq[T]
	// RowSlice returns row r as a slice. Implementations may return a view of
	// their storage; callers must not modify it.
	RowSlice(r int) []T
}

// RowMajorMatrix stores rows back to back in a single slice.
type RowMajorMatrix[T any] struct {
	Values []T
	width  int
}

// NewRowMajorMatrix wraps values as a matrix of the given width. len(values)
// must be a multiple of width.
func NewRowMajorMatrix[T any](values []T, width int) *RowMajorMatrix[T] {
	if width < 0 || (width == 0 && len(values) != 0) || (width > 0 && len(values)%width != 0) {
		panic(fmt.Sprintf("matrix: %d values do not fill rows of width %d", len(values), width))
	}
	return &RowMajorMatrix[T]{Values: values, width: width}
}

// Width returns the number of columns.
func (m *RowMajorMatrix[T]) Width() int { return m.width }

// Height returns the number of rows; zero when the width is zero.
func (m *RowMajorMatrix[T]) Height() int {
	if m.width == 0 {
		return 0
	}
	return len(m.Values) / m.width
}

// Get returns the element at row r, column c.
func (m *RowMajorMatrix[T]) Get(r, c int) T {
	return m.Values[r*m.width+c]
}

// Row yields row r in column order.
func (m *RowMajorMatrix[T]) Row(r int) iter.Seq[T] {
	row := m.RowSlice(r)
	return func(yield func(T) bool) {
		for _, v := range row {
			if !yield(v) {
				return
			}
		}
	}
}

// RowSlice returns row r as a view of Values with capacity clipped to the row.
func (m *RowMajorMatrix[T]) RowSlice(r int) []T {
	return m.Values[r*m.width : (r+1)*m.width : (r+1)*m.width]
}
