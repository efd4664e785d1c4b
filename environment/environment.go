/*
 * environment.go, part of chemrep.
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

//Package environment builds the sample labels of a descriptor, and the
//labels of its gradients, for environments that are either full structures
//or spheres around each atom.
package environment

import (
	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/labels"
	"github.com/rmera/chemrep/system"
)

//Environment is the definition of what a sample describes. The only
//implementations are Structure and Atom.
type Environment interface {
	//Names of the sample labels
	Names() []string
	//Names of the gradient labels
	GradientNames() []string
	//Samples returns the samples for systems, in the order of systems.
	Samples(systems []system.System) (*labels.Labels, error)
	//GradientsFor returns the gradients for the given samples, which can be
	//any subset of the samples for systems, in any order. The gradients follow the
	//order of samples.
	GradientsFor(systems []system.System, samples *labels.Labels) (*labels.Labels, error)

	environment()
}

//WithGradients returns the samples of env for systems, and the matching gradients.
func WithGradients(env Environment, systems []system.System) (*labels.Labels, *labels.Labels, error) {
	samples, err := env.Samples(systems)
	if err != nil {
		return nil, nil, errs.Decorate(err, "WithGradients")
	}
	gradients, err := env.GradientsFor(systems, samples)
	if err != nil {
		return nil, nil, errs.Decorate(err, "WithGradients")
	}
	return samples, gradients, nil
}

//checkSamples verifies that samples have the names of env and refer to
//structures in systems.
func checkSamples(env Environment, systems []system.System, samples *labels.Labels) error {
	if samples == nil {
		return errs.New(errs.InvalidParameter, "nil samples")
	}
	if !samples.HasNames(env.Names()...) {
		return errs.New(errs.InvalidParameter, "samples have names %v, expected %v", samples.Names(), env.Names())
	}
	for i := 0; i < samples.Count(); i++ {
		if s := samples.Row(i)[0]; s < 0 || int(s) >= len(systems) {
			return errs.New(errs.InvalidParameter, "sample %d refers to structure %d, but there are %d structures", i, s, len(systems))
		}
	}
	return nil
}

//Structure is an environment where each sample is a full structure.
type Structure struct{}

func (Structure) environment() {}

//Names returns ["structure"].
func (Structure) Names() []string { return []string{"structure"} }

//GradientNames returns ["structure", "atom", "spatial"].
func (Structure) GradientNames() []string { return []string{"structure", "atom", "spatial"} }

//Samples returns one sample per structure.
func (Structure) Samples(systems []system.System) (*labels.Labels, error) {
	B := labels.NewBuilder("structure")
	for i := range systems {
		B.Add(labels.Value(i))
	}
	return B.Finish(), nil
}

//GradientsFor returns, for each sample, the 3 spatial components of the gradient with respect
//to the position of each atom in the structure.
func (S Structure) GradientsFor(systems []system.System, samples *labels.Labels) (*labels.Labels, error) {
	if err := checkSamples(S, systems, samples); err != nil {
		return nil, errs.Decorate(err, "Structure.GradientsFor")
	}
	B := labels.NewBuilder(S.GradientNames()...)
	for i := 0; i < samples.Count(); i++ {
		s := samples.Row(i)[0]
		n, err := systems[s].Size()
		if err != nil {
			return nil, err
		}
		for atom := 0; atom < n; atom++ {
			for axis := labels.Value(0); axis < 3; axis++ {
				B.Add(s, labels.Value(atom), axis)
			}
		}
	}
	return B.Finish(), nil
}
