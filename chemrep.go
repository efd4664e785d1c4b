/*
 * chemrep.go, part of chemrep.
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

package chemrep

import (
	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/labels"
	"github.com/rmera/chemrep/spline"
	"github.com/rmera/chemrep/system"
)

//BuildKeys returns the keys for systems with the scheme selected in cfg.
func BuildKeys(cfg KeysConfig, systems []system.System) (*labels.Labels, error) {
	B, err := cfg.Builder()
	if err != nil {
		return nil, errs.Decorate(err, "BuildKeys")
	}
	K, err := B.Keys(systems)
	if err != nil {
		return nil, errs.Decorate(err, "BuildKeys")
	}
	return K, nil
}

//BuildSamples returns the samples for systems with the environment selected in cfg.
func BuildSamples(cfg EnvironmentConfig, systems []system.System) (*labels.Labels, error) {
	env, err := cfg.Environment()
	if err != nil {
		return nil, errs.Decorate(err, "BuildSamples")
	}
	S, err := env.Samples(systems)
	if err != nil {
		return nil, errs.Decorate(err, "BuildSamples")
	}
	return S, nil
}

//BuildGradients returns the gradients matching samples, which can be any subset of
//the samples of systems, in any order.
func BuildGradients(cfg EnvironmentConfig, systems []system.System, samples *labels.Labels) (*labels.Labels, error) {
	env, err := cfg.Environment()
	if err != nil {
		return nil, errs.Decorate(err, "BuildGradients")
	}
	G, err := env.GradientsFor(systems, samples)
	if err != nil {
		return nil, errs.Decorate(err, "BuildGradients")
	}
	return G, nil
}

//BuildSpline returns a spline of fn over [start, stop), with the given output shape and accuracy.
func BuildSpline(accuracy, start, stop float64, shape []int, fn spline.Function, opts ...spline.Option) (*spline.Hermite, error) {
	H, err := spline.WithAccuracy(accuracy, spline.Parameters{Start: start, Stop: stop, Shape: shape}, fn, opts...)
	if err != nil {
		return nil, errs.Decorate(err, "BuildSpline")
	}
	return H, nil
}

//Evaluate returns the values of the spline H at x, and their derivatives.
func Evaluate(H *spline.Hermite, x float64) ([]float64, []float64, error) {
	values := make([]float64, H.Size())
	gradients := make([]float64, H.Size())
	if err := H.Compute(x, values, gradients); err != nil {
		return nil, nil, errs.Decorate(err, "Evaluate")
	}
	return values, gradients, nil
}
