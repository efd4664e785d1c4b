package labels

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmera/chemrep/errs"
)

func TestBuilder(Te *testing.T) {
	B := NewBuilder("structure", "center")
	B.Add(0, 1)
	B.Add(0, 0)
	B.Add(1, 0)
	require.True(Te, B.Contains(0, 0))
	require.Equal(Te, 3, B.Count())
	L := B.Finish()

	require.Equal(Te, []string{"structure", "center"}, L.Names())
	require.True(Te, L.HasNames("structure", "center"))
	require.False(Te, L.HasNames("center", "structure"))
	require.Equal(Te, 2, L.Size())
	require.Equal(Te, 3, L.Count())
	//insertion order is kept
	require.Equal(Te, [][]Value{{0, 1}, {0, 0}, {1, 0}}, L.Rows())
	p, ok := L.Position(1, 0)
	require.True(Te, ok)
	require.Equal(Te, 2, p)
	require.False(Te, L.Contains(2, 0))
	require.False(Te, L.Contains(0))

	col, ok := L.Column("center")
	require.True(Te, ok)
	require.Equal(Te, []Value{1, 0, 0}, col)
	_, ok = L.Column("neighbor")
	require.False(Te, ok)
}

func TestBuilderPanics(Te *testing.T) {
	B := NewBuilder("species")
	B.Add(1)
	require.PanicsWithValue(Te, ErrDuplicate, func() { B.Add(1) })
	require.PanicsWithValue(Te, ErrArity, func() { B.Add(1, 2) })
	require.PanicsWithValue(Te, ErrNames, func() { NewBuilder() })
	require.PanicsWithValue(Te, ErrNames, func() { NewBuilder("a", "a") })
}

func TestNew(Te *testing.T) {
	L, err := New([]string{"structure"}, [][]Value{{2}, {0}})
	require.NoError(Te, err)
	require.Equal(Te, 2, L.Count())

	_, err = New([]string{"structure"}, [][]Value{{2}, {2}})
	require.True(Te, errs.Is(err, errs.InvalidParameter))
	_, err = New([]string{"structure"}, [][]Value{{2, 1}})
	require.True(Te, errs.Is(err, errs.InvalidParameter))
	_, err = New([]string{"bad name"}, nil)
	require.True(Te, errs.Is(err, errs.InvalidParameter))
}

func TestSelect(Te *testing.T) {
	L, err := New([]string{"structure"}, [][]Value{{0}, {1}, {2}, {3}})
	require.NoError(Te, err)
	S, err := L.Select([]int{2, 0})
	require.NoError(Te, err)
	require.Equal(Te, [][]Value{{2}, {0}}, S.Rows())

	_, err = L.Select([]int{4})
	require.True(Te, errs.Is(err, errs.InvalidParameter))
	_, err = L.Select([]int{1, 1})
	require.True(Te, errs.Is(err, errs.InvalidParameter))

	same, _ := New([]string{"structure"}, [][]Value{{2}, {0}})
	require.True(Te, S.Equal(same))
	require.False(Te, S.Equal(L))
}

func TestCompare(Te *testing.T) {
	require.Equal(Te, 0, Compare([]Value{1, 2}, []Value{1, 2}))
	require.Equal(Te, -1, Compare([]Value{1, 2}, []Value{1, 3}))
	require.Equal(Te, 1, Compare([]Value{2, 0}, []Value{1, 3}))
	require.Equal(Te, -1, Compare([]Value{1}, []Value{1, 0}))
	require.Equal(Te, -1, Compare([]Value{-1}, []Value{0}))
}

func TestSortedSet(Te *testing.T) {
	S := NewSortedSet(2)
	require.True(Te, S.Insert(8, 1))
	require.True(Te, S.Insert(1, 8))
	require.True(Te, S.Insert(1, 1))
	require.False(Te, S.Insert(8, 1))
	O := NewSortedSet(2)
	O.Insert(6, 1)
	O.Insert(1, 1)
	S.Merge(O)
	require.Equal(Te, 4, S.Len())
	L := S.Labels("species_center", "species_neighbor")
	require.Equal(Te, [][]Value{{1, 1}, {1, 8}, {6, 1}, {8, 1}}, L.Rows())
}

func TestOrderedSet(Te *testing.T) {
	O := NewOrderedSet(3)
	require.True(Te, O.Insert(0, 2, 0))
	require.True(Te, O.Insert(0, 0, 1))
	require.False(Te, O.Insert(0, 2, 0))
	require.True(Te, O.Insert(0, 0, 2))
	require.Equal(Te, 3, O.Len())
	L := O.Labels("structure", "center", "neighbor")
	require.Equal(Te, [][]Value{{0, 2, 0}, {0, 0, 1}, {0, 0, 2}}, L.Rows())
}
