/*
 * triplets.go, part of chemrep.
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
)

//Triplet is a bond between atoms I and J, plus a third atom K close to the
//middle of the bond.
type Triplet struct {
	I, J, K int
	//Vector from I to the image of J
	BondVector [3]float64
	//Vector from the middle of the bond to the image of K
	ThirdVector [3]float64
	CellShiftIJ [3]int32
	CellShiftK  [3]int32
	//True if K is the same atom (same image) as one of the bond atoms.
	IsSelfContrib bool
}

//TripletNeighborList finds bond-atom triplets: every pair of atoms closer than
//BondCutoff, together with every atom closer than ThirdCutoff to the middle
//of the pair. The triplets of each system are computed once and cached, so the
//systems should not change while the list is in use (or Reset must be called after
//they do). Systems of a type that is not comparable can't be cached, and their
//triplets are computed on every call.
type TripletNeighborList struct {
	bondCutoff  float64
	thirdCutoff float64

	mu    sync.Mutex
	cache map[interface{}][]Triplet
}

//NewTripletNeighborList returns a list with the given cutoffs. Both must be positive
//and finite.
func NewTripletNeighborList(bondCutoff, thirdCutoff float64) (*TripletNeighborList, error) {
	if err := CheckCutoff(bondCutoff); err != nil {
		return nil, errs.Decorate(err, "NewTripletNeighborList (bond cutoff)")
	}
	if err := CheckCutoff(thirdCutoff); err != nil {
		return nil, errs.Decorate(err, "NewTripletNeighborList (third cutoff)")
	}
	return &TripletNeighborList{bondCutoff: bondCutoff, thirdCutoff: thirdCutoff, cache: make(map[interface{}][]Triplet)}, nil
}

//BondCutoff returns the cutoff for the bond atoms.
func (T *TripletNeighborList) BondCutoff() float64 { return T.bondCutoff }

//ThirdCutoff returns the cutoff for the third atom.
func (T *TripletNeighborList) ThirdCutoff() float64 { return T.thirdCutoff }

//Triplets returns the triplets of sys. It is safe to call from several goroutines,
//even for the same system. The returned slice must not be modified.
func (T *TripletNeighborList) Triplets(sys System) ([]Triplet, error) {
	key, cacheable := identity(sys)
	if cacheable {
		T.mu.Lock()
		ret, ok := T.cache[key]
		T.mu.Unlock()
		if ok {
			return ret, nil
		}
	}
	ret, err := T.compute(sys)
	if err != nil {
		return nil, errs.Decorate(err, "TripletNeighborList.Triplets")
	}
	if cacheable {
		T.mu.Lock()
		T.cache[key] = ret
		T.mu.Unlock()
	}
	return ret, nil
}

//Reset empties the cache.
func (T *TripletNeighborList) Reset() {
	T.mu.Lock()
	T.cache = make(map[interface{}][]Triplet)
	T.mu.Unlock()
}

func (T *TripletNeighborList) compute(sys System) ([]Triplet, error) {
	var ret []Triplet
	err := WithNeighbors(sys, T.bondCutoff, func() error {
		n, err := sys.Size()
		if err != nil {
			return err
		}
		pairs, err := sys.Pairs()
		if err != nil || len(pairs) == 0 {
			return err
		}
		pos, err := sys.Positions()
		if err != nil {
			return err
		}
		cell, err := sys.Cell()
		if err != nil {
			return err
		}
		for _, p := range pairs {
			ri := pos.Vec(p.First)
			var mid [3]float64
			for a := 0; a < 3; a++ {
				mid[a] = ri[a] + p.Vector[a]/2
			}
			for k := 0; k < n; k++ {
				rk := pos.Vec(k)
				d := [3]float64{rk[0] - mid[0], rk[1] - mid[1], rk[2] - mid[2]}
				ret = T.appendThird(ret, cell, p, k, d)
			}
		}
		return nil
	})
	return ret, err
}

//appendThird appends the triplets formed by the pair p with the images of k within
//the third cutoff of the middle of p. d is the vector from the middle of p to k.
func (T *TripletNeighborList) appendThird(ret []Triplet, cell *Cell, p Pair, k int, d [3]float64) []Triplet {
	lo, hi := cell.imageRange(d, T.thirdCutoff)
	for a := lo[0]; a <= hi[0]; a++ {
		for b := lo[1]; b <= hi[1]; b++ {
			for c := lo[2]; c <= hi[2]; c++ {
				n := [3]int32{a, b, c}
				s := cell.Shift(n)
				v := [3]float64{d[0] + s[0], d[1] + s[1], d[2] + s[2]}
				if math.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2]) >= T.thirdCutoff {
					continue
				}
				self := (k == p.First && n == [3]int32{}) || (k == p.Second && n == p.CellShift)
				ret = append(ret, Triplet{
					I:             p.First,
					J:             p.Second,
					K:             k,
					BondVector:    p.Vector,
					ThirdVector:   v,
					CellShiftIJ:   p.CellShift,
					CellShiftK:    n,
					IsSelfContrib: self,
				})
			}
		}
	}
	return ret
}
