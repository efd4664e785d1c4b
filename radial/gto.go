/*
 * gto.go, part of chemrep.
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
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rmera/chemrep/errs"
)

//GTO contains Gaussian type orbitals
//
//	R_n(r) = N_n r^n exp(-r^2/(2 sigma_n^2))
//
//for n = 0 ... MaxRadial-1, with sigma_n = Cutoff*max(sqrt(n), 1)/MaxRadial, normalized so the
//integral of r^2 R_n^2 from 0 to infinity is 1. The same values are given for every
//angular channel.
type GTO struct {
	params Parameters
	sigmas []float64
	norms  []float64
}

//NewGTO returns the GTO basis with the given parameters.
func NewGTO(params Parameters) (*GTO, error) {
	if err := params.Check(); err != nil {
		return nil, errs.Decorate(err, "NewGTO")
	}
	G := &GTO{params: params, sigmas: make([]float64, params.MaxRadial), norms: make([]float64, params.MaxRadial)}
	for n := range G.sigmas {
		s := params.Cutoff * math.Max(math.Sqrt(float64(n)), 1) / float64(params.MaxRadial)
		G.sigmas[n] = s
		G.norms[n] = math.Sqrt(2 / (math.Pow(s, float64(2*n+3)) * math.Gamma(float64(n)+1.5)))
	}
	return G, nil
}

//Shape returns the number of angular and radial channels.
func (G *GTO) Shape() (int, int) {
	return G.params.Shape()
}

//Parameters returns the parameters of the basis.
func (G *GTO) Parameters() Parameters {
	return G.params
}

//Compute puts the values of the GTOs at distance x in every row of values, and
//the derivatives in gradients, if not nil. x must not be negative.
func (G *GTO) Compute(x float64, values, gradients *mat.Dense) error {
	rows, cols := G.Shape()
	checkShape(rows, cols, values, gradients)
	if !(x >= 0) || math.IsInf(x, 0) {
		return errs.New(errs.OutOfDomain, "GTO radial functions need a non-negative distance, got %g", x)
	}
	for n, s := range G.sigmas {
		e := G.norms[n] * math.Exp(-x*x/(2*s*s))
		rn := math.Pow(x, float64(n))
		v := rn * e
		var g float64
		if n > 0 {
			g = float64(n) * math.Pow(x, float64(n-1)) * e
		}
		g -= x * v / (s * s)
		for l := 0; l < rows; l++ {
			values.Set(l, n, v)
			if gradients != nil {
				gradients.Set(l, n, g)
			}
		}
	}
	return nil
}
