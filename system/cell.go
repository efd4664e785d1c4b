/*
 * cell.go, part of chemrep.
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

	"gonum.org/v1/gonum/mat"

	"github.com/rmera/chemrep/errs"
	v3 "github.com/rmera/chemrep/v3"
)

//volumes smaller than this are considered degenerate cells.
const minVolume = 1e-8

//Cell is the unit cell of a periodic structure. A Cell with no vectors is
//"infinite", i.e. the structure is not periodic.
type Cell struct {
	vectors *v3.Matrix //one cell vector per row, nil if infinite
	inverse *mat.Dense
	widths  [3]float64
}

//InfiniteCell returns a Cell for non-periodic structures.
func InfiniteCell() *Cell {
	return &Cell{}
}

//NewCell returns a Cell from the three vectors in the rows of vectors. A nil or all-zero
//matrix gives an infinite cell. The vectors are copied.
func NewCell(vectors *v3.Matrix) (*Cell, error) {
	if vectors == nil {
		return InfiniteCell(), nil
	}
	if vectors.NVecs() != 3 {
		return nil, errs.New(errs.InvalidParameter, "a cell needs exactly 3 vectors, got %d", vectors.NVecs())
	}
	if mat.Norm(vectors.Dense, 2) == 0 {
		return InfiniteCell(), nil
	}
	C := &Cell{vectors: v3.Zeros(3)}
	C.vectors.Copy(vectors)
	vol := math.Abs(C.vectors.Det())
	if vol < minVolume {
		return nil, errs.New(errs.InvalidParameter, "cell vectors are linearly dependent (volume %g)", vol)
	}
	C.inverse = mat.NewDense(3, 3, nil)
	if err := C.inverse.Inverse(C.vectors.Dense); err != nil {
		return nil, errs.New(errs.InvalidParameter, "can't invert cell matrix: %v", err)
	}
	//The distance between opposite faces of the cell. A sphere of radius r
	//touches at most ceil(r/width) images along each direction.
	cross := v3.Zeros(1)
	for i := 0; i < 3; i++ {
		cross.Cross(C.vectors.VecView((i+1)%3), C.vectors.VecView((i+2)%3))
		C.widths[i] = vol / cross.Norm()
	}
	return C, nil
}

//IsInfinite returns true if the cell has no periodicity.
func (C *Cell) IsInfinite() bool {
	return C.vectors == nil
}

//Vectors returns a copy of the cell vectors, or nil for an infinite cell.
func (C *Cell) Vectors() *v3.Matrix {
	if C.IsInfinite() {
		return nil
	}
	ret := v3.Zeros(3)
	ret.Copy(C.vectors)
	return ret
}

//Volume returns the volume of the cell, 0 for infinite cells.
func (C *Cell) Volume() float64 {
	if C.IsInfinite() {
		return 0
	}
	return math.Abs(C.vectors.Det())
}

//Widths returns the distances between opposite faces of the cell.
func (C *Cell) Widths() [3]float64 {
	return C.widths
}

//Shift returns the cartesian vector corresponding to the given number
//of cell vectors along each direction.
func (C *Cell) Shift(n [3]int32) [3]float64 {
	var ret [3]float64
	if C.IsInfinite() {
		return ret
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ret[j] += float64(n[i]) * C.vectors.At(i, j)
		}
	}
	return ret
}

//Fractional returns the fractional coordinates of the cartesian vector v, i.e. the
//f such that v = f0*a + f1*b + f2*c. Returns v for infinite cells.
func (C *Cell) Fractional(v [3]float64) [3]float64 {
	if C.IsInfinite() {
		return v
	}
	var f [3]float64
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			f[j] += v[i] * C.inverse.At(i, j)
		}
	}
	return f
}

//imageRange returns, for each cell direction, the smallest and largest number
//of cell vectors that can be added to v so the result is shorter than cutoff.
//Since the length of a vector is at least its distance to the cell faces
//spanned by the other two directions, no other image needs to be checked.
func (C *Cell) imageRange(v [3]float64, cutoff float64) (lo, hi [3]int32) {
	if C.IsInfinite() {
		return
	}
	f := C.Fractional(v)
	for i := 0; i < 3; i++ {
		span := cutoff / C.widths[i]
		lo[i] = int32(math.Ceil(-f[i] - span))
		hi[i] = int32(math.Floor(-f[i] + span))
	}
	return
}
