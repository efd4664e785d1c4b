/*
 * simple.go, part of chemrep.
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
	"sync"

	"github.com/rmera/chemrep/errs"
	v3 "github.com/rmera/chemrep/v3"
)

//SimpleSystem is a System keeping everything in memory. The neighbor list is
//computed by checking every pair of atoms (and every periodic image
//that can be within the cutoff), which is fine for the small and medium
//structures used to train potentials, but it will get slow for very large ones.
//
//SimpleSystem is a sync.Locker. Its methods do not lock by themselves: use
//WithNeighbors to share it between goroutines.
type SimpleSystem struct {
	sync.Mutex
	species   []int32
	positions *v3.Matrix
	cell      *Cell

	cutoff float64 //cutoff of the current neighbor list, 0 if none
	pairs  []Pair
	byAtom [][]int //for each atom, indexes in pairs of the pairs containing it
}

//NewSimpleSystem returns a system with the given species and positions (one vector per
//atom). cell can be nil for non-periodic structures. Positions are copied.
func NewSimpleSystem(species []int32, positions *v3.Matrix, cell *Cell) (*SimpleSystem, error) {
	npos := 0
	if positions != nil {
		npos = positions.NVecs()
	}
	if npos != len(species) {
		return nil, errs.New(errs.InvalidParameter, "%d species given for %d positions", len(species), npos)
	}
	if cell == nil {
		cell = InfiniteCell()
	}
	S := &SimpleSystem{species: append([]int32(nil), species...), cell: cell}
	//gonum does not allow empty matrices, so an empty system has nil positions.
	if npos > 0 {
		S.positions = v3.Zeros(npos)
		S.positions.Copy(positions)
	}
	return S, nil
}

//Size returns the number of atoms. It never fails.
func (S *SimpleSystem) Size() (int, error) {
	return len(S.species), nil
}

//Species returns the atomic species. The slice must not be modified.
func (S *SimpleSystem) Species() ([]int32, error) {
	return S.species, nil
}

//Positions returns the positions of the atoms, nil if there are no atoms.
//The matrix must not be modified.
func (S *SimpleSystem) Positions() (*v3.Matrix, error) {
	return S.positions, nil
}

//Cell returns the unit cell.
func (S *SimpleSystem) Cell() (*Cell, error) {
	return S.cell, nil
}

//ComputeNeighbors computes the list of pairs closer than cutoff. It does nothing
//if the current list was computed with the same cutoff.
func (S *SimpleSystem) ComputeNeighbors(cutoff float64) error {
	if err := CheckCutoff(cutoff); err != nil {
		return errs.Decorate(err, "SimpleSystem.ComputeNeighbors")
	}
	if cutoff == S.cutoff {
		return nil
	}
	n := len(S.species)
	pairs := make([]Pair, 0, 4*n)
	for i := 0; i < n; i++ {
		ri := S.positions.Vec(i)
		for j := i; j < n; j++ {
			rj := S.positions.Vec(j)
			d := [3]float64{rj[0] - ri[0], rj[1] - ri[1], rj[2] - ri[2]}
			pairs = S.appendImages(pairs, i, j, d, cutoff)
		}
	}
	byAtom := make([][]int, n)
	for k, p := range pairs {
		byAtom[p.First] = append(byAtom[p.First], k)
		if p.Second != p.First {
			byAtom[p.Second] = append(byAtom[p.Second], k)
		}
	}
	S.pairs = pairs
	S.byAtom = byAtom
	S.cutoff = cutoff
	return nil
}

//appendImages appends to pairs all the images of j, at distance d of i, that are within
//cutoff. An atom is never paired with itself, and the pairs between an atom and its own
//images are only listed once (with a positive cell shift), since the shift -n gives the same pair.
func (S *SimpleSystem) appendImages(pairs []Pair, i, j int, d [3]float64, cutoff float64) []Pair {
	lo, hi := S.cell.imageRange(d, cutoff)
	for a := lo[0]; a <= hi[0]; a++ {
		for b := lo[1]; b <= hi[1]; b++ {
			for c := lo[2]; c <= hi[2]; c++ {
				n := [3]int32{a, b, c}
				if i == j && !positiveShift(n) {
					continue
				}
				s := S.cell.Shift(n)
				v := [3]float64{d[0] + s[0], d[1] + s[1], d[2] + s[2]}
				dist := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
				if dist < cutoff {
					pairs = append(pairs, Pair{First: i, Second: j, Distance: dist, Vector: v, CellShift: n})
				}
			}
		}
	}
	return pairs
}

//positiveShift returns true if the first non-zero element of n is positive.
func positiveShift(n [3]int32) bool {
	for _, v := range n {
		if v != 0 {
			return v > 0
		}
	}
	return false
}

//Pairs returns the pairs computed in the last call to ComputeNeighbors.
func (S *SimpleSystem) Pairs() ([]Pair, error) {
	if S.cutoff == 0 {
		return nil, errs.New(errs.InvalidParameter, "neighbor list requested before calling ComputeNeighbors")
	}
	return S.pairs, nil
}

//PairsContaining returns the pairs computed in the last call to ComputeNeighbors that
//contain the atom center.
func (S *SimpleSystem) PairsContaining(center int) ([]Pair, error) {
	if S.cutoff == 0 {
		return nil, errs.New(errs.InvalidParameter, "neighbor list requested before calling ComputeNeighbors")
	}
	if center < 0 || center >= len(S.species) {
		return nil, errs.New(errs.InvalidParameter, "atom %d out of range for a system with %d atoms", center, len(S.species))
	}
	ret := make([]Pair, 0, len(S.byAtom[center]))
	for _, k := range S.byAtom[center] {
		ret = append(ret, S.pairs[k])
	}
	return ret, nil
}
