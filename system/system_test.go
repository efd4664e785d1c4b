/*
 * system_test.go, part of chemrep.
 *
 * Copyright 2024 The chemrep authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package system

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/rmera/chemrep/errs"
	v3 "github.com/rmera/chemrep/v3"
)

func readOne(Te *testing.T, name string) *SimpleSystem {
	systems, err := ReadXYZ("../testdata/" + name)
	require.NoError(Te, err)
	require.Len(Te, systems, 1)
	return systems[0]
}

func TestReadXYZ(Te *testing.T) {
	methane := readOne(Te, "methane.xyz")
	n, _ := methane.Size()
	require.Equal(Te, 5, n)
	species, _ := methane.Species()
	require.Equal(Te, []int32{6, 1, 1, 1, 1}, species)
	cell, _ := methane.Cell()
	require.True(Te, cell.IsInfinite())
	pos, _ := methane.Positions()
	require.InDelta(Te, -0.629118, pos.At(2, 0), 1e-9)

	periodic, err := ReadXYZ("../testdata/periodic.xyz")
	require.NoError(Te, err)
	require.Len(Te, periodic, 2)
	cell, _ = periodic[1].Cell()
	require.False(Te, cell.IsInfinite())
	require.InDelta(Te, 64.0, cell.Volume(), 1e-9)
}

func TestParseXYZErrors(Te *testing.T) {
	bad := []string{
		"two\n\nC 0 0 0\n",
		"2\n\nC 0 0 0\n",
		"1\n\nC 0 0\n",
		"1\n\nXx 0 0 0\n",
		"1\nLattice=\"1 0 0 0 1 0\"\nC 0 0 0\n",
		"1\nLattice=\"1 0 0 0 1 0 0 0 1\nC 0 0 0\n",
		"1\nLattice=\"1 0 0 2 0 0 0 0 1\"\nC 0 0 0\n",
	}
	for _, b := range bad {
		_, err := ParseXYZ(strings.NewReader(b))
		require.True(Te, errs.Is(err, errs.InvalidParameter), "input %q gave %v", b, err)
	}
	systems, err := ParseXYZ(strings.NewReader("0\nempty\n\n1\n\n8 0 0 0\n"))
	require.NoError(Te, err)
	require.Len(Te, systems, 2)
	n, _ := systems[0].Size()
	require.Equal(Te, 0, n)
	species, _ := systems[1].Species()
	require.Equal(Te, []int32{8}, species)
}

func TestAtomicNumber(Te *testing.T) {
	for symbol, n := range map[string]int32{"H": 1, "c": 6, "CL": 17, "Si": 14, "120": 120} {
		got, err := AtomicNumber(symbol)
		require.NoError(Te, err)
		require.Equal(Te, n, got)
	}
	for _, symbol := range []string{"", "Qq", "0", "-3"} {
		_, err := AtomicNumber(symbol)
		require.Error(Te, err)
	}
	require.Equal(Te, "O", Symbol(8))
	require.Equal(Te, "200", Symbol(200))
}

func TestNewSimpleSystem(Te *testing.T) {
	pos, err := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0})
	require.NoError(Te, err)
	_, err = NewSimpleSystem([]int32{1}, pos, nil)
	require.True(Te, errs.Is(err, errs.InvalidParameter))
	S, err := NewSimpleSystem([]int32{1, 1}, pos, nil)
	require.NoError(Te, err)
	//positions are copied
	pos.Set(1, 0, 5)
	p, _ := S.Positions()
	require.Equal(Te, 1.0, p.At(1, 0))
}

func TestNeighbors(Te *testing.T) {
	methane := readOne(Te, "methane.xyz")
	_, err := methane.Pairs()
	require.True(Te, errs.Is(err, errs.InvalidParameter))

	require.NoError(Te, methane.ComputeNeighbors(1.5))
	pairs, err := methane.Pairs()
	require.NoError(Te, err)
	require.Len(Te, pairs, 4)
	for _, p := range pairs {
		require.Equal(Te, 0, p.First)
		require.InDelta(Te, 1.0897, p.Distance, 1e-3)
		o, ok := p.Other(0)
		require.True(Te, ok)
		require.Equal(Te, p.Second, o)
	}
	around, err := methane.PairsContaining(3)
	require.NoError(Te, err)
	require.Len(Te, around, 1)
	_, err = methane.PairsContaining(5)
	require.True(Te, errs.Is(err, errs.InvalidParameter))

	require.NoError(Te, methane.ComputeNeighbors(2.0))
	pairs, _ = methane.Pairs()
	require.Len(Te, pairs, 10)
	around, _ = methane.PairsContaining(3)
	require.Len(Te, around, 4)
	for _, p := range pairs {
		require.LessOrEqual(Te, p.First, p.Second)
	}

	for _, c := range []float64{0, -1, math.Inf(1), math.NaN()} {
		err = methane.ComputeNeighbors(c)
		require.True(Te, errs.Is(err, errs.InvalidCutoff), "cutoff %g", c)
	}
}

func TestPeriodicNeighbors(Te *testing.T) {
	systems, err := ReadXYZ("../testdata/periodic.xyz")
	require.NoError(Te, err)

	//a single atom only sees its own images, each of them listed once.
	require.NoError(Te, systems[0].ComputeNeighbors(3.5))
	pairs, _ := systems[0].Pairs()
	require.Len(Te, pairs, 3)
	shifts := map[[3]int32]bool{}
	for _, p := range pairs {
		require.Equal(Te, 0, p.First)
		require.Equal(Te, 0, p.Second)
		require.InDelta(Te, 3.0, p.Distance, 1e-9)
		shifts[p.CellShift] = true
	}
	require.True(Te, shifts[[3]int32{1, 0, 0}])
	require.True(Te, shifts[[3]int32{0, 1, 0}])
	require.True(Te, shifts[[3]int32{0, 0, 1}])

	require.NoError(Te, systems[1].ComputeNeighbors(3.5))
	pairs, _ = systems[1].Pairs()
	require.Len(Te, pairs, 2)
	dists := []float64{pairs[0].Distance, pairs[1].Distance}
	require.ElementsMatch(Te, []float64{1.6, 2.4}, []float64{math.Round(dists[0]*10) / 10, math.Round(dists[1]*10) / 10})
}

func TestCell(Te *testing.T) {
	vecs, _ := v3.NewMatrix([]float64{3, 0, 0, 0, 3, 0, 0, 0, 3})
	C, err := NewCell(vecs)
	require.NoError(Te, err)
	require.InDelta(Te, 27.0, C.Volume(), 1e-9)
	w := C.Widths()
	require.InDeltaSlice(Te, []float64{3, 3, 3}, w[:], 1e-9)
	f := C.Fractional([3]float64{1.5, 3, -3})
	require.InDeltaSlice(Te, []float64{0.5, 1, -1}, f[:], 1e-9)
	s := C.Shift([3]int32{1, -1, 2})
	require.InDeltaSlice(Te, []float64{3, -3, 6}, s[:], 1e-9)

	zero, _ := v3.NewMatrix(make([]float64, 9))
	C, err = NewCell(zero)
	require.NoError(Te, err)
	require.True(Te, C.IsInfinite())
	require.Nil(Te, C.Vectors())

	flat, _ := v3.NewMatrix([]float64{1, 0, 0, 0, 1, 0, 1, 1, 0})
	_, err = NewCell(flat)
	require.True(Te, errs.Is(err, errs.InvalidParameter))
}

func TestWithNeighbors(Te *testing.T) {
	methane := readOne(Te, "methane.xyz")
	expected := map[float64]int{1.5: 4, 2.0: 10}
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		cutoff := 1.5
		if i%2 == 1 {
			cutoff = 2.0
		}
		g.Go(func() error {
			return WithNeighbors(methane, cutoff, func() error {
				pairs, err := methane.Pairs()
				if err != nil {
					return err
				}
				if len(pairs) != expected[cutoff] {
					return errs.New(errs.InvalidParameter, "%d pairs at cutoff %g", len(pairs), cutoff)
				}
				return nil
			})
		})
	}
	require.NoError(Te, g.Wait())
	err := WithNeighbors(methane, -1, func() error { return nil })
	require.True(Te, errs.Is(err, errs.InvalidCutoff))
}

func TestTriplets(Te *testing.T) {
	water := readOne(Te, "water.xyz")
	_, err := NewTripletNeighborList(0, 1)
	require.True(Te, errs.Is(err, errs.InvalidCutoff))

	T, err := NewTripletNeighborList(1.0, 1.0)
	require.NoError(Te, err)
	triplets, err := T.Triplets(water)
	require.NoError(Te, err)
	require.Len(Te, triplets, 4)
	for _, t := range triplets {
		require.Equal(Te, 0, t.I)
		require.True(Te, t.IsSelfContrib)
	}

	T, _ = NewTripletNeighborList(1.0, 1.5)
	triplets, err = T.Triplets(water)
	require.NoError(Te, err)
	require.Len(Te, triplets, 6)
	others := 0
	for _, t := range triplets {
		if !t.IsSelfContrib {
			others++
			require.NotEqual(Te, t.J, t.K)
		}
	}
	require.Equal(Te, 2, others)
	//cached
	again, _ := T.Triplets(water)
	require.Equal(Te, len(triplets), len(again))

	systems, err := ReadXYZ("../testdata/periodic.xyz")
	require.NoError(Te, err)
	T, _ = NewTripletNeighborList(3.5, 2.0)
	triplets, err = T.Triplets(systems[0])
	require.NoError(Te, err)
	require.Len(Te, triplets, 6)
	for _, t := range triplets {
		require.True(Te, t.IsSelfContrib)
	}
}

//taggedSystem is a System whose type is not comparable.
type taggedSystem struct {
	*SimpleSystem
	tags []string
}

func TestTripletCache(Te *testing.T) {
	water := readOne(Te, "water.xyz")
	T, err := NewTripletNeighborList(1.0, 1.5)
	require.NoError(Te, err)
	first, err := T.Triplets(water)
	require.NoError(Te, err)
	require.Len(Te, T.cache, 1)

	tagged := taggedSystem{SimpleSystem: water, tags: []string{"water"}}
	triplets, err := T.Triplets(tagged)
	require.NoError(Te, err)
	require.Equal(Te, first, triplets)
	require.Len(Te, T.cache, 1)

	T.Reset()
	require.Empty(Te, T.cache)
	again, err := T.Triplets(water)
	require.NoError(Te, err)
	require.Equal(Te, first, again)
}

func TestLocks(Te *testing.T) {
	water := readOne(Te, "water.xyz")
	methane := readOne(Te, "methane.xyz")
	tagged := taggedSystem{SimpleSystem: water}
	L := NewLocks([]System{water, methane, water, tagged, tagged})
	require.Same(Te, L.mu[0], L.mu[2])
	require.NotSame(Te, L.mu[0], L.mu[1])
	require.NotSame(Te, L.mu[3], L.mu[4])

	calls := 0
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			return L.Do(2, func() error {
				calls++
				return nil
			})
		})
	}
	require.NoError(Te, g.Wait())
	require.Equal(Te, 50, calls)
}
