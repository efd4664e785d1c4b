/*
 * radial.go, part of chemrep.
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

//Package radial contains the radial functions used to expand atomic
//environments, and a wrapper that replaces any of them with a spline.
package radial

import (
	"gonum.org/v1/gonum/mat"

	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/spline"
	"github.com/rmera/chemrep/system"
)

//Integral is a radial function of the distance between two atoms, with one
//value per angular channel (rows) and radial channel (columns).
type Integral interface {
	//Compute puts the values at distance x in values and, if gradients is not nil, their
	//derivatives with respect to x in gradients. Both must have the dimensions returned by Shape.
	Compute(x float64, values, gradients *mat.Dense) error
	//Shape returns the number of angular and radial channels.
	Shape() (int, int)
}

//Parameters define the size and range of a radial basis.
type Parameters struct {
	MaxRadial  int
	MaxAngular int
	Cutoff     float64
}

//Check returns an error if the parameters are not valid.
func (P Parameters) Check() error {
	if P.MaxRadial < 1 {
		return errs.New(errs.InvalidParameter, "max_radial must be at least 1, got %d", P.MaxRadial)
	}
	if P.MaxAngular < 0 {
		return errs.New(errs.InvalidParameter, "max_angular can't be negative, got %d", P.MaxAngular)
	}
	return errs.Decorate(system.CheckCutoff(P.Cutoff), "radial.Parameters")
}

//Shape returns the number of angular channels (MaxAngular+1) and radial channels (MaxRadial).
func (P Parameters) Shape() (int, int) {
	return P.MaxAngular + 1, P.MaxRadial
}

//Basis selects how a radial function is evaluated.
type Basis struct {
	//Replace the function with a spline
	Splined bool
	//Accuracy requested to the spline
	Accuracy float64
}

//DefaultBasis returns a splined basis with an accuracy of 1e-8.
func DefaultBasis() Basis {
	return Basis{Splined: true, Accuracy: 1e-8}
}

//Integral returns raw itself, or a spline of raw over [0, cutoff) if
//the basis is splined.
func (B Basis) Integral(params Parameters, raw Integral, opts ...spline.Option) (Integral, error) {
	if !B.Splined {
		return raw, nil
	}
	ret, err := NewSplined(params, B.Accuracy, raw, opts...)
	if err != nil {
		return nil, errs.Decorate(err, "Basis.Integral")
	}
	return ret, nil
}

//checkShape panics if values or (not nil) gradients don't have the given dimensions.
func checkShape(r, c int, values, gradients *mat.Dense) {
	if vr, vc := values.Dims(); vr != r || vc != c {
		panic(ErrShape)
	}
	if gradients == nil {
		return
	}
	if gr, gc := gradients.Dims(); gr != r || gc != c {
		panic(ErrShape)
	}
}

//PanicMsg is the type of the messages used in panics by this package.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const ErrShape PanicMsg = "radial: matrices don't match the shape of the radial function"
