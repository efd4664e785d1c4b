/*
 * splined.go, part of chemrep.
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

package radial

import (
	"gonum.org/v1/gonum/mat"

	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/spline"
)

//Splined evaluates another radial function through a cubic Hermite spline,
//which is usually much faster than the function itself.
type Splined struct {
	rows, cols int
	spline     *spline.Hermite
}

//NewSplined builds a spline of raw over [0, params.Cutoff) with the given accuracy.
//The shape of raw must match params.
func NewSplined(params Parameters, accuracy float64, raw Integral, opts ...spline.Option) (*Splined, error) {
	if err := params.Check(); err != nil {
		return nil, errs.Decorate(err, "NewSplined")
	}
	rows, cols := params.Shape()
	if r, c := raw.Shape(); r != rows || c != cols {
		return nil, errs.New(errs.InvalidParameter, "radial function has shape (%d, %d), expected (%d, %d)", r, c, rows, cols)
	}
	sp, err := spline.WithAccuracy(accuracy, spline.Parameters{Start: 0, Stop: params.Cutoff, Shape: []int{rows, cols}}, Function(raw), opts...)
	if err != nil {
		return nil, errs.Decorate(err, "NewSplined")
	}
	return &Splined{rows: rows, cols: cols, spline: sp}, nil
}

//Function returns raw as a function that can be splined, with the
//values and gradients flattened in row-major order.
func Function(raw Integral) spline.Function {
	rows, cols := raw.Shape()
	return func(x float64, values, gradients []float64) error {
		var g *mat.Dense
		if gradients != nil {
			g = mat.NewDense(rows, cols, gradients)
		}
		return raw.Compute(x, mat.NewDense(rows, cols, values), g)
	}
}

//Shape returns the number of angular and radial channels.
func (S *Splined) Shape() (int, int) {
	return S.rows, S.cols
}

//Spline returns the underlying spline.
func (S *Splined) Spline() *spline.Hermite {
	return S.spline
}

//Compute evaluates the spline at x. It returns an errs.OutOfDomain error
//if x is not in [0, cutoff).
func (S *Splined) Compute(x float64, values, gradients *mat.Dense) error {
	checkShape(S.rows, S.cols, values, gradients)
	v, vdirect := flat(values)
	var g []float64
	gdirect := true
	if gradients != nil {
		g, gdirect = flat(gradients)
	}
	if err := S.spline.Compute(x, v, g); err != nil {
		return errs.Decorate(err, "Splined.Compute")
	}
	if !vdirect {
		values.Copy(mat.NewDense(S.rows, S.cols, v))
	}
	if !gdirect {
		gradients.Copy(mat.NewDense(S.rows, S.cols, g))
	}
	return nil
}

//flat returns the row-major data of m, and true if it is the backing
//array of m, or a new slice and false if m is a view with a different stride.
func flat(m *mat.Dense) ([]float64, bool) {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols], true
	}
	return make([]float64, raw.Rows*raw.Cols), false
}
