/*
 * diagnose.go, part of chemrep.
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

package spline

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rmera/chemrep/errs"
)

//Report contains the errors of a spline against the function it approximates,
//measured on a dense grid.
type Report struct {
	Points       int //points in the spline
	Samples      int //points where the errors were measured
	MeanAbsolute float64
	MaxAbsolute  float64
	StdAbsolute  float64
	MeanRelative float64
}

func (R Report) String() string {
	return fmt.Sprintf("spline points: %d\nsamples: %d\nmean absolute error: %.3e\nmax absolute error: %.3e\nstd. dev. absolute error: %.3e\nmean relative error: %.3e\n",
		R.Points, R.Samples, R.MeanAbsolute, R.MaxAbsolute, R.StdAbsolute, R.MeanRelative)
}

//samplePositions returns n points evenly distributed in the domain, each in the middle of its
//slice of the domain, so none of them falls on the domain end.
func (H *Hermite) samplePositions(n int) []float64 {
	ret := make([]float64, n)
	w := (H.params.Stop - H.params.Start) / float64(n)
	for i := range ret {
		ret[i] = H.params.Start + (float64(i)+0.5)*w
	}
	return ret
}

//Diagnose compares the spline H with the function fn at samples points
//spread over the domain of the spline.
func Diagnose(H *Hermite, fn Function, samples int) (Report, error) {
	if samples < 1 {
		return Report{}, errs.New(errs.InvalidParameter, "at least 1 sample is needed, got %d", samples)
	}
	absErr := make([]float64, 0, samples*H.size)
	scale := make([]float64, 0, samples*H.size)
	predicted := make([]float64, H.size)
	for _, x := range H.samplePositions(samples) {
		p, err := H.evaluate(fn, x)
		if err != nil {
			return Report{}, errs.Decorate(err, "spline.Diagnose")
		}
		if err := H.Compute(x, predicted, nil); err != nil {
			return Report{}, errs.Decorate(err, "spline.Diagnose")
		}
		for k, v := range p.values {
			absErr = append(absErr, math.Abs(predicted[k]-v))
			scale = append(scale, math.Abs(v))
		}
	}
	R := Report{Points: len(H.points), Samples: samples}
	R.MeanAbsolute, R.MeanRelative = meanErrors(absErr, scale)
	R.MaxAbsolute = floats.Max(absErr)
	R.StdAbsolute = stat.StdDev(absErr, nil)
	return R, nil
}

//PlotErrors plots the given component (index in the flattened output) of the function fn and
//of the spline H, along with the absolute difference between them, at samples points.
//The format of the figure is given by the extension of filename (png, svg, pdf...).
func PlotErrors(H *Hermite, fn Function, samples, component int, filename string) error {
	if component < 0 || component >= H.size {
		return errs.New(errs.InvalidParameter, "component %d out of range for a spline of size %d", component, H.size)
	}
	if samples < 2 {
		return errs.New(errs.InvalidParameter, "at least 2 samples are needed to plot, got %d", samples)
	}
	exact := make(plotter.XYs, samples)
	splined := make(plotter.XYs, samples)
	diff := make(plotter.XYs, samples)
	predicted := make([]float64, H.size)
	for i, x := range H.samplePositions(samples) {
		p, err := H.evaluate(fn, x)
		if err != nil {
			return errs.Decorate(err, "spline.PlotErrors")
		}
		if err := H.Compute(x, predicted, nil); err != nil {
			return errs.Decorate(err, "spline.PlotErrors")
		}
		exact[i].X, exact[i].Y = x, p.values[component]
		splined[i].X, splined[i].Y = x, predicted[component]
		diff[i].X, diff[i].Y = x, math.Abs(predicted[component]-p.values[component])
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = fmt.Sprintf("Spline with %d points, component %d", len(H.points), component)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "f(x)"
	p.Add(plotter.NewGrid())
	lines := []struct {
		name string
		data plotter.XYs
		c    color.RGBA
	}{
		{"function", exact, color.RGBA{R: 30, G: 30, B: 200, A: 255}},
		{"spline", splined, color.RGBA{R: 200, G: 30, B: 30, A: 255}},
		{"|error|", diff, color.RGBA{R: 30, G: 160, B: 30, A: 255}},
	}
	for _, l := range lines {
		line, err := plotter.NewLine(l.data)
		if err != nil {
			return err
		}
		line.LineStyle.Color = l.c
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(l.name, line)
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
