package matrix

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aerius-labs/arith-go/field"
)

type (
	F  = field.Element
	EF = field.Ext2
)

func ext(base uint64) EF {
	return field.Ext2FromFn(func(i int) F { return field.NewElement(base + uint64(i)) })
}

func elems(vs ...uint64) []F {
	return field.NewElements(vs)
}

// ext3 is a degree-3 extension carried only as coefficients.
type ext3 [3]F

func (ext3) Dimension() int { return 3 }

func (e ext3) BasisCoefficient(i int) F { return e[i] }

func newExt3(base uint64) ext3 {
	return ext3{field.NewElement(base), field.NewElement(base + 1), field.NewElement(base + 2)}
}

func sampleView() *FlatMatrixView[F, EF] {
	inner := NewRowMajorMatrix([]EF{ext(10), ext(20), ext(30), ext(40)}, 2)
	return NewFlatMatrixView[F, EF](inner)
}

func TestFlatMatrix(t *testing.T) {
	flat := sampleView()
	require.Equal(t, 4, flat.Width())
	require.Equal(t, 2, flat.Height())
	require.Equal(t, elems(10, 11, 20, 21), flat.RowSlice(0))
	require.Equal(t, elems(30, 31, 40, 41), flat.RowSlice(1))
}

func TestFlatMatrixRowMatchesRowSlice(t *testing.T) {
	flat := sampleView()
	for r := 0; r < flat.Height(); r++ {
		require.Equal(t, flat.RowSlice(r), slices.Collect(flat.Row(r)))

		var pulled []F
		it := flat.RowIter(r)
		for {
			f, ok := it.Next()
			if !ok {
				break
			}
			pulled = append(pulled, f)
		}
		require.Equal(t, flat.RowSlice(r), pulled)

		// Exhausted cursors stay exhausted.
		_, ok := it.Next()
		require.False(t, ok)
	}
}

func TestFlatMatrixDimensionThree(t *testing.T) {
	cases := []struct {
		name   string
		values []ext3
		width  int
		rows   [][]F
	}{
		{
			name:   "single column",
			values: []ext3{newExt3(10), newExt3(20)},
			width:  1,
			rows:   [][]F{elems(10, 11, 12), elems(20, 21, 22)},
		},
		{
			name:   "two columns",
			values: []ext3{newExt3(10), newExt3(20), newExt3(30), newExt3(40)},
			width:  2,
			rows:   [][]F{elems(10, 11, 12, 20, 21, 22), elems(30, 31, 32, 40, 41, 42)},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			flat := NewFlatMatrixView[F, ext3](NewRowMajorMatrix(c.values, c.width))
			require.Equal(t, 3*c.width, flat.Width())
			require.Equal(t, len(c.rows), flat.Height())
			for r, want := range c.rows {
				require.Equal(t, want, flat.RowSlice(r))
				require.Equal(t, want, slices.Collect(flat.Row(r)))

				it := flat.RowIter(r)
				var pulled []F
				for f, ok := it.Next(); ok; f, ok = it.Next() {
					pulled = append(pulled, f)
				}
				require.Equal(t, want, pulled)

				for col := range want {
					require.Equal(t, want[col], flat.Get(r, col))
				}
			}
		})
	}
}

func TestFlatMatrixGet(t *testing.T) {
	flat := sampleView()
	inner := flat.Inner()
	for r := 0; r < flat.Height(); r++ {
		for c := 0; c < flat.Width(); c++ {
			want := inner.RowSlice(r)[c/2].BasisCoefficient(c % 2)
			require.Equal(t, want, flat.Get(r, c), "(%d,%d)", r, c)
		}
	}
}

func TestFlatMatrixEmpty(t *testing.T) {
	flat := NewFlatMatrixView[F, EF](NewRowMajorMatrix[EF](nil, 0))
	require.Equal(t, 0, flat.Width())
	require.Equal(t, 0, flat.Height())

	noCols := NewFlatMatrixView[F, EF](NewRowMajorMatrix(make([]EF, 0), 3))
	require.Equal(t, 6, noCols.Width())
	require.Equal(t, 0, noCols.Height())
}

func TestFlatMatrixEarlyStop(t *testing.T) {
	flat := sampleView()

	var got []F
	for f := range flat.Row(0) {
		got = append(got, f)
		if len(got) == 3 {
			break
		}
	}
	require.Equal(t, elems(10, 11, 20), got)

	it := flat.RowIter(1)
	f, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, field.NewElement(30), f)
	it.Stop()
	_, ok = it.Next()
	require.False(t, ok)
}

func TestFlatMatrixNoCopy(t *testing.T) {
	values := []EF{ext(10), ext(20)}
	inner := NewRowMajorMatrix(values, 2)
	flat := NewFlatMatrixView[F, EF](inner)

	// Reads go through to the borrowed storage.
	values[1] = ext(50)
	require.Equal(t, elems(10, 11, 50, 51), flat.RowSlice(0))
}

func TestFlatMatrixConcurrentRows(t *testing.T) {
	values := make([]EF, 0, 64*8)
	for i := 0; i < 64*8; i++ {
		values = append(values, ext(uint64(100*i)))
	}
	flat := NewFlatMatrixView[F, EF](NewRowMajorMatrix(values, 8))

	var wg sync.WaitGroup
	errs := make(chan string, flat.Height())
	for r := 0; r < flat.Height(); r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			got := slices.Collect(flat.Row(r))
			if !slices.Equal(got, flat.RowSlice(r)) {
				errs <- "row mismatch"
			}
		}(r)
	}
	wg.Wait()
	close(errs)
	require.Empty(t, errs)
}

func TestRowMajorMatrix(t *testing.T) {
	m := NewRowMajorMatrix([]int{1, 2, 3, 4, 5, 6}, 3)
	require.Equal(t, 3, m.Width())
	require.Equal(t, 2, m.Height())
	require.Equal(t, 6, m.Get(1, 2))
	require.Equal(t, []int{4, 5, 6}, m.RowSlice(1))
	require.Equal(t, []int{1, 2, 3}, slices.Collect(m.Row(0)))

	require.Panics(t, func() { NewRowMajorMatrix([]int{1, 2, 3}, 2) })
	require.Panics(t, func() { NewRowMajorMatrix([]int{1}, 0) })
}

func BenchmarkFlatRow(b *testing.B) {
	values := make([]EF, 1<<10)
	for i := range values {
		values[i] = ext(uint64(i))
	}
	flat := NewFlatMatrixView[F, EF](NewRowMajorMatrix(values, len(values)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range flat.Row(0) {
		}
	}
}
