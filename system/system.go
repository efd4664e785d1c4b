/*
 * system.go, part of chemrep.
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

//Package system defines the System interface through which chemrep reads atomic
//structures and their neighbor lists, and provides a reference implementation,
//SimpleSystem, together with an XYZ reader and a bond-atom triplet neighbor list.
package system

import (
	"math"
	"sync"

	"github.com/rmera/chemrep/errs"
	v3 "github.com/rmera/chemrep/v3"
)

//Pair is a pair of atoms within a cutoff of each other. Each pair is only
//listed once (First <= Second). In periodic systems, the same two atoms can
//form more than one pair, one for each periodic image of Second that is within
//the cutoff of First.
type Pair struct {
	First  int
	Second int
	//Distance between the atoms
	Distance float64
	//Vector from First to the image of Second
	Vector [3]float64
	//Number of cell vectors added to the position of Second to get its image
	CellShift [3]int32
}

//System is the interface for a structure. Implementations are expected to cache
//the neighbor list computed by ComputeNeighbors, so calling it again with the same
//cutoff should be cheap.
//
//ComputeNeighbors changes the result of Pairs and PairsContaining, so a System
//shared between goroutines must be used through WithNeighbors, which serializes
//the computation and the reading of the list if the System is also a sync.Locker,
//or through Locks, which does it for any System.
type System interface {
	//Size returns the number of atoms in the structure
	Size() (int, error)

	//Species returns the atomic species of each atom, usually the atomic numbers.
	Species() ([]int32, error)

	//Positions returns the cartesian coordinates of the atoms, one vector per atom.
	Positions() (*v3.Matrix, error)

	//Cell returns the unit cell of the structure.
	Cell() (*Cell, error)

	//ComputeNeighbors computes the neighbor list with the given cutoff. It must
	//fail with an errs.InvalidCutoff error if cutoff is not positive and finite.
	ComputeNeighbors(cutoff float64) error

	//Pairs returns all the pairs within the cutoff given in the last call to ComputeNeighbors
	Pairs() ([]Pair, error)

	//PairsContaining returns all the pairs in which center participates, either as First
	//or Second.
	PairsContaining(center int) ([]Pair, error)
}

//CheckCutoff returns an error if cutoff is not positive and finite.
func CheckCutoff(cutoff float64) error {
	if !(cutoff > 0) || math.IsInf(cutoff, 0) || math.IsNaN(cutoff) {
		return errs.New(errs.InvalidCutoff, "cutoff must be positive and finite, got %g", cutoff)
	}
	return nil
}

//WithNeighbors computes the neighbor list of sys with the given cutoff and
//then calls f, which can read the list through sys.Pairs and sys.PairsContaining.
//If sys is a sync.Locker, it stays locked from the computation until f returns,
//so other goroutines can't change the cutoff in between.
func WithNeighbors(sys System, cutoff float64, f func() error) error {
	if l, ok := sys.(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}
	if err := sys.ComputeNeighbors(cutoff); err != nil {
		return errs.Decorate(err, "WithNeighbors")
	}
	return f()
}

//Other returns the atom paired with center in the pair p, and false if center is not part of p.
func (p Pair) Other(center int) (int, bool) {
	if p.First == center {
		return p.Second, true
	}
	if p.Second == center {
		return p.First, true
	}
	return -1, false
}
