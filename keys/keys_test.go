/*
 * keys_test.go, part of chemrep.
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

package keys

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/labels"
	"github.com/rmera/chemrep/system"
	v3 "github.com/rmera/chemrep/v3"
)

func testSystems(Te *testing.T, names ...string) []system.System {
	ret := make([]system.System, 0, len(names))
	for _, name := range names {
		s, err := system.ReadXYZ("../testdata/" + name + ".xyz")
		require.NoError(Te, err)
		ret = append(ret, s[0])
	}
	return ret
}

func TestCenterSpecies(Te *testing.T) {
	K, err := CenterSpecies{}.Keys(testSystems(Te, "methane", "water"))
	require.NoError(Te, err)
	require.Equal(Te, []string{"species_center"}, K.Names())
	require.Equal(Te, [][]labels.Value{{1}, {6}, {8}}, K.Rows())
}

func TestAllSpeciesPairs(Te *testing.T) {
	K, err := AllSpeciesPairs{Options: DefaultOptions()}.Keys(testSystems(Te, "methane", "water"))
	require.NoError(Te, err)
	require.Equal(Te, []string{"species_center", "species_neighbor"}, K.Names())
	//no (6, 8), carbon and oxygen are never in the same structure
	require.Equal(Te, [][]labels.Value{{1, 1}, {1, 6}, {1, 8}, {6, 1}, {6, 6}, {8, 1}, {8, 8}}, K.Rows())
}

func TestCenterSingleNeighborsSpecies(Te *testing.T) {
	systems := testSystems(Te, "methane", "water")
	B, err := NewCenterSingleNeighborsSpecies(1.5, false)
	require.NoError(Te, err)
	require.Equal(Te, 1.5, B.Cutoff())
	K, err := B.Keys(systems)
	require.NoError(Te, err)
	require.Equal(Te, [][]labels.Value{{1, 6}, {1, 8}, {6, 1}, {8, 1}}, K.Rows())

	B, _ = NewCenterSingleNeighborsSpecies(1.5, true)
	K, err = B.Keys(systems)
	require.NoError(Te, err)
	require.Equal(Te, [][]labels.Value{{1, 1}, {1, 6}, {1, 8}, {6, 1}, {6, 6}, {8, 1}, {8, 8}}, K.Rows())
}

func TestCenterTwoNeighborsSpecies(Te *testing.T) {
	systems := testSystems(Te, "methane")
	B, err := NewCenterTwoNeighborsSpecies(1.5, false, false)
	require.NoError(Te, err)
	K, err := B.Keys(systems)
	require.NoError(Te, err)
	require.Equal(Te, []string{"species_center", "species_neighbor_1", "species_neighbor_2"}, K.Names())
	require.Equal(Te, [][]labels.Value{{1, 6, 6}, {6, 1, 1}}, K.Rows())

	B, _ = NewCenterTwoNeighborsSpecies(1.5, true, true)
	K, err = B.Keys(systems)
	require.NoError(Te, err)
	require.Equal(Te, [][]labels.Value{{1, 1, 1}, {1, 1, 6}, {1, 6, 6}, {6, 1, 1}, {6, 1, 6}, {6, 6, 6}}, K.Rows())

	B, _ = NewCenterTwoNeighborsSpecies(1.5, true, false)
	K, err = B.Keys(systems)
	require.NoError(Te, err)
	require.Equal(Te, [][]labels.Value{{1, 1, 1}, {1, 1, 6}, {1, 6, 1}, {1, 6, 6}, {6, 1, 1}, {6, 1, 6}, {6, 6, 1}, {6, 6, 6}}, K.Rows())
}

func TestTwoCentersSingleNeighborsSpecies(Te *testing.T) {
	systems := testSystems(Te, "water")
	B, err := NewTwoCentersSingleNeighborsSpecies(1.0, 1.5, false)
	require.NoError(Te, err)
	require.Equal(Te, 1.0, B.BondCutoff())
	require.Equal(Te, 1.5, B.ThirdCutoff())
	K, err := B.Keys(systems)
	require.NoError(Te, err)
	require.Equal(Te, []string{"species_center_1", "species_center_2", "species_neighbor"}, K.Names())
	require.Equal(Te, [][]labels.Value{{1, 8, 1}, {8, 1, 1}}, K.Rows())

	B, _ = NewTwoCentersSingleNeighborsSpecies(1.0, 1.5, true)
	K, err = B.Keys(systems)
	require.NoError(Te, err)
	require.Equal(Te, [][]labels.Value{{1, 8, 1}, {1, 8, 8}, {8, 1, 1}, {8, 1, 8}}, K.Rows())
}

func TestInvalidCutoffs(Te *testing.T) {
	for _, c := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err := NewCenterSingleNeighborsSpecies(c, false)
		require.True(Te, errs.Is(err, errs.InvalidCutoff))
		_, err = NewCenterTwoNeighborsSpecies(c, false, true)
		require.True(Te, errs.Is(err, errs.InvalidCutoff))
		_, err = NewTwoCentersSingleNeighborsSpecies(c, 1, false)
		require.True(Te, errs.Is(err, errs.InvalidCutoff))
		_, err = NewTwoCentersSingleNeighborsSpecies(1, c, false)
		require.True(Te, errs.Is(err, errs.InvalidCutoff))
	}
}

//builders returns one builder of each kind.
func builders(Te *testing.T) []Builder {
	single, err := NewCenterSingleNeighborsSpecies(2.0, true)
	require.NoError(Te, err)
	two, err := NewCenterTwoNeighborsSpecies(2.0, false, true)
	require.NoError(Te, err)
	three, err := NewTwoCentersSingleNeighborsSpecies(1.2, 2.0, false)
	require.NoError(Te, err)
	return []Builder{CenterSpecies{}, AllSpeciesPairs{}, single, two, three}
}

func TestDeterminism(Te *testing.T) {
	systems := testSystems(Te, "methane", "water", "periodic", "water", "methane")
	permuted := []system.System{systems[3], systems[2], systems[4], systems[0], systems[1]}
	for _, B := range builders(Te) {
		first, err := B.Keys(systems)
		require.NoError(Te, err)
		again, err := B.Keys(systems)
		require.NoError(Te, err)
		other, err := B.Keys(permuted)
		require.NoError(Te, err)
		require.True(Te, first.Equal(again), "%T", B)
		require.True(Te, first.Equal(other), "%T", B)
		require.True(Te, first.HasNames(B.Names()...))
		rows := first.Rows()
		for i := 1; i < len(rows); i++ {
			require.Equal(Te, -1, labels.Compare(rows[i-1], rows[i]), "%T", B)
		}
	}
}

var errBroken = errors.New("broken structure")

type brokenSystem struct {
	*system.SimpleSystem
}

func (brokenSystem) Species() ([]int32, error) { return nil, errBroken }

func TestSystemErrors(Te *testing.T) {
	water := testSystems(Te, "water")[0].(*system.SimpleSystem)
	systems := []system.System{water, brokenSystem{water}}
	for _, B := range builders(Te) {
		K, err := B.Keys(systems)
		require.Nil(Te, K)
		require.ErrorIs(Te, err, errBroken, "%T", B)
	}
}

//plainSystem forwards the System methods of a SimpleSystem, without being a
//sync.Locker. It records whether two goroutines ever computed its neighbors at once.
type plainSystem struct {
	s       *system.SimpleSystem
	busy    int32
	overlap int32
}

func (p *plainSystem) Size() (int, error)                           { return p.s.Size() }
func (p *plainSystem) Species() ([]int32, error)                    { return p.s.Species() }
func (p *plainSystem) Positions() (*v3.Matrix, error)               { return p.s.Positions() }
func (p *plainSystem) Cell() (*system.Cell, error)                  { return p.s.Cell() }
func (p *plainSystem) Pairs() ([]system.Pair, error)                { return p.s.Pairs() }
func (p *plainSystem) PairsContaining(c int) ([]system.Pair, error) { return p.s.PairsContaining(c) }

func (p *plainSystem) ComputeNeighbors(cutoff float64) error {
	if atomic.AddInt32(&p.busy, 1) > 1 {
		atomic.StoreInt32(&p.overlap, 1)
	}
	defer atomic.AddInt32(&p.busy, -1)
	time.Sleep(time.Millisecond)
	return p.s.ComputeNeighbors(cutoff)
}

func TestRepeatedNotLocker(Te *testing.T) {
	water := &plainSystem{s: testSystems(Te, "water")[0].(*system.SimpleSystem)}
	systems := []system.System{water, water, water, water}
	single, err := NewCenterSingleNeighborsSpecies(1.5, false)
	require.NoError(Te, err)
	single.Workers = 8
	two, err := NewCenterTwoNeighborsSpecies(1.5, false, false)
	require.NoError(Te, err)
	two.Workers = 8
	three, err := NewTwoCentersSingleNeighborsSpecies(1.0, 1.5, false)
	require.NoError(Te, err)
	three.Workers = 8
	expected := map[Builder][][]labels.Value{
		single: {{1, 8}, {8, 1}},
		two:    {{1, 8, 8}, {8, 1, 1}},
		three:  {{1, 8, 1}, {8, 1, 1}},
	}
	for B, rows := range expected {
		K, err := B.Keys(systems)
		require.NoError(Te, err)
		require.Equal(Te, rows, K.Rows(), "%T", B)
	}
	require.Zero(Te, atomic.LoadInt32(&water.overlap))
}
