/*
 * hermite.go, part of chemrep.
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

//Package spline approximates expensive functions of one variable, which
//return a tensor of values and its derivative, with cubic Hermite splines.
//The number of points in the spline is chosen automatically to reach a given
//accuracy.
package spline

import (
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rmera/chemrep/errs"
)

//PanicMsg is the type of the messages used in panics by this package.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const ErrShape PanicMsg = "spline: output slices don't match the spline shape"

//Defaults for the construction.
const (
	DefaultIntervals = 10
	DefaultMaxPoints = 10000
)

//The relative errors are computed dividing by max(|f(x)|, relFloor*mean(|f|)), so
//components of the function that are zero don't make the relative error blow up.
const relFloor = 1e-8

//Function is the function to approximate. It must write the values of the function
//at x in values and, if gradients is not nil, the derivatives with respect to x in
//gradients. Both slices have the size of the spline Shape, in row-major order, and
//are zeroed before the call.
type Function func(x float64, values, gradients []float64) error

//Parameters define the domain and the shape of the output of a spline.
type Parameters struct {
	//The spline can be evaluated in [Start, Stop)
	Start, Stop float64
	//Shape of the tensor returned by the function
	Shape []int
}

//Size returns the number of elements in a tensor with the shape of the parameters.
func (P Parameters) Size() int {
	if len(P.Shape) == 0 {
		return 0
	}
	n := 1
	for _, v := range P.Shape {
		n *= v
	}
	return n
}

func (P Parameters) check() error {
	if math.IsNaN(P.Start) || math.IsNaN(P.Stop) || math.IsInf(P.Start, 0) || math.IsInf(P.Stop, 0) {
		return errs.New(errs.InvalidParameter, "spline domain must be finite, got [%g, %g)", P.Start, P.Stop)
	}
	if P.Stop <= P.Start {
		return errs.New(errs.InvalidParameter, "spline domain [%g, %g) is empty", P.Start, P.Stop)
	}
	if len(P.Shape) == 0 {
		return errs.New(errs.InvalidParameter, "spline shape can't be empty")
	}
	for _, v := range P.Shape {
		if v <= 0 {
			return errs.New(errs.InvalidParameter, "invalid spline shape %v", P.Shape)
		}
	}
	return nil
}

//point is a node of the spline.
type point struct {
	x         float64
	values    []float64
	gradients []float64
}

//Hermite is a cubic Hermite spline over a uniform grid. It is immutable once
//built, and can be used from several goroutines at the same time.
type Hermite struct {
	params  Parameters
	size    int
	spacing float64
	points  []point
}

//Option modifies the construction of a spline.
type Option func(*options)

type options struct {
	spacing   float64
	maxPoints int
	verbose   bool
}

//InitialSpacing sets the spacing of the first grid tried. The spacing is reduced
//slightly if needed so the grid covers the domain exactly. The default is a tenth of the domain.
func InitialSpacing(h float64) Option {
	return func(o *options) { o.spacing = h }
}

//MaxPoints sets the maximum number of points in the spline. Reaching it
//before the requested accuracy is a *BudgetError.
func MaxPoints(n int) Option {
	return func(o *options) { o.maxPoints = n }
}

//Verbose makes the construction log the final size and errors of the spline.
func Verbose(v bool) Option {
	return func(o *options) { o.verbose = v }
}

//WithAccuracy builds a spline of fn over the domain in params. Starting from a coarse uniform
//grid, the spacing is halved until either the mean absolute error or the mean relative
//error of the spline at the middle of each interval is smaller than accuracy. The values
//of fn at those middle points become nodes of the next grid, so they are computed
//only once. If accuracy can't be reached without going over the maximum number of points, a
//*BudgetError is returned. An accuracy <= 0 can only end in a *BudgetError.
func WithAccuracy(accuracy float64, params Parameters, fn Function, opts ...Option) (*Hermite, error) {
	if err := params.check(); err != nil {
		return nil, errs.Decorate(err, "spline.WithAccuracy")
	}
	if fn == nil {
		return nil, errs.New(errs.InvalidParameter, "nil function given to spline.WithAccuracy")
	}
	if math.IsNaN(accuracy) {
		return nil, errs.New(errs.InvalidParameter, "spline accuracy can't be NaN")
	}
	o := options{spacing: (params.Stop - params.Start) / DefaultIntervals, maxPoints: DefaultMaxPoints}
	for _, f := range opts {
		f(&o)
	}
	if !(o.spacing > 0) || math.IsInf(o.spacing, 0) {
		return nil, errs.New(errs.InvalidParameter, "invalid initial spline spacing %g", o.spacing)
	}
	if accuracy <= 0 {
		log.Printf("spline: accuracy %g can never be reached, the spline will grow up to %d points and fail", accuracy, o.maxPoints)
	}
	intervals := int(math.Ceil((params.Stop-params.Start)/o.spacing - 1e-9))
	if intervals < 1 {
		intervals = 1
	}
	if intervals+1 > o.maxPoints {
		return nil, errs.New(errs.InvalidParameter, "initial spline grid has %d points, more than the maximum of %d", intervals+1, o.maxPoints)
	}
	H := &Hermite{params: params, size: params.Size()}
	H.params.Shape = append([]int(nil), params.Shape...)
	H.spacing = (params.Stop - params.Start) / float64(intervals)
	H.points = make([]point, 0, intervals+1)
	for i := 0; i <= intervals; i++ {
		p, err := H.evaluate(fn, params.Start+float64(i)*H.spacing)
		if err != nil {
			return nil, err
		}
		H.points = append(H.points, p)
	}
	predicted := make([]float64, H.size)
	for {
		mids := make([]point, len(H.points)-1)
		absErr := make([]float64, 0, len(mids)*H.size)
		scale := make([]float64, 0, len(mids)*H.size)
		for i := range mids {
			var err error
			mids[i], err = H.evaluate(fn, H.points[i].x+H.spacing/2)
			if err != nil {
				return nil, err
			}
			H.interpolate(i, 0.5, predicted, nil)
			for k, v := range mids[i].values {
				absErr = append(absErr, math.Abs(predicted[k]-v))
				scale = append(scale, math.Abs(v))
			}
		}
		meanAbs, meanRel := meanErrors(absErr, scale)
		if meanAbs < accuracy || meanRel < accuracy {
			if o.verbose {
				log.Printf("spline: %d points with spacing %g, mean absolute error %g, mean relative error %g", len(H.points), H.spacing, meanAbs, meanRel)
			}
			return H, nil
		}
		if 2*len(H.points)-1 > o.maxPoints {
			return nil, &BudgetError{
				Accuracy:     accuracy,
				Points:       len(H.points),
				MaxPoints:    o.maxPoints,
				Spacing:      H.spacing,
				MeanAbsolute: meanAbs,
				MeanRelative: meanRel,
				deco:         []string{"spline.WithAccuracy"},
			}
		}
		H.refine(mids)
	}
}

//meanErrors returns the mean absolute error and the mean relative error,
//given the absolute errors and the magnitudes of the reference values.
func meanErrors(absErr, scale []float64) (float64, float64) {
	meanAbs := stat.Mean(absErr, nil)
	floor := relFloor * stat.Mean(scale, nil)
	if floor == 0 {
		floor = math.SmallestNonzeroFloat64
	}
	rel := make([]float64, len(absErr))
	for i, v := range absErr {
		rel[i] = v / math.Max(scale[i], floor)
	}
	return meanAbs, stat.Mean(rel, nil)
}

//refine interleaves the midpoints mids with the current points, halving the spacing.
func (H *Hermite) refine(mids []point) {
	points := make([]point, 0, len(H.points)+len(mids))
	for i, m := range mids {
		points = append(points, H.points[i], m)
	}
	points = append(points, H.points[len(H.points)-1])
	H.points = points
	H.spacing /= 2
}

func (H *Hermite) evaluate(fn Function, x float64) (point, error) {
	p := point{x: x, values: make([]float64, H.size), gradients: make([]float64, H.size)}
	if err := fn(x, p.values, p.gradients); err != nil {
		return p, errs.Decorate(err, "spline.Function")
	}
	return p, nil
}

//Compute evaluates the spline at x, putting the values in values and, if gradients
//is not nil, the derivatives in gradients. Both must have the size of the spline shape.
//It returns an errs.OutOfDomain error if x is not in [Start, Stop).
func (H *Hermite) Compute(x float64, values, gradients []float64) error {
	if !(x >= H.params.Start && x < H.params.Stop) {
		return errs.New(errs.OutOfDomain, "%g is outside the spline domain [%g, %g)", x, H.params.Start, H.params.Stop)
	}
	if len(values) != H.size || (gradients != nil && len(gradients) != H.size) {
		panic(ErrShape)
	}
	i := int((x - H.params.Start) / H.spacing)
	if i > len(H.points)-2 {
		i = len(H.points) - 2
	}
	t := (x - H.points[i].x) / H.spacing
	H.interpolate(i, t, values, gradients)
	return nil
}

//interpolate puts in values (and gradients, if not nil) the Hermite polynomial between
//points i and i+1, at the fractional position t in the interval.
func (H *Hermite) interpolate(i int, t float64, values, gradients []float64) {
	p0, p1 := H.points[i], H.points[i+1]
	h := H.spacing
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	floats.ScaleTo(values, h00, p0.values)
	floats.AddScaled(values, h10*h, p0.gradients)
	floats.AddScaled(values, h01, p1.values)
	floats.AddScaled(values, h11*h, p1.gradients)
	if gradients == nil {
		return
	}
	//d/dx = (1/h) d/dt
	dh00 := (6*t2 - 6*t) / h
	dh10 := 3*t2 - 4*t + 1
	dh01 := (-6*t2 + 6*t) / h
	dh11 := 3*t2 - 2*t
	floats.ScaleTo(gradients, dh00, p0.values)
	floats.AddScaled(gradients, dh10, p0.gradients)
	floats.AddScaled(gradients, dh01, p1.values)
	floats.AddScaled(gradients, dh11, p1.gradients)
}

//Parameters returns the parameters of the spline.
func (H *Hermite) Parameters() Parameters {
	P := H.params
	P.Shape = append([]int(nil), H.params.Shape...)
	return P
}

//Len returns the number of points in the spline.
func (H *Hermite) Len() int {
	return len(H.points)
}

//Spacing returns the distance between consecutive points.
func (H *Hermite) Spacing() float64 {
	return H.spacing
}

//Points returns the positions of the points of the spline.
func (H *Hermite) Points() []float64 {
	ret := make([]float64, len(H.points))
	for i, p := range H.points {
		ret[i] = p.x
	}
	return ret
}

//Size returns the number of elements in the values returned by the spline.
func (H *Hermite) Size() int {
	return H.size
}
