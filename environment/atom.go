/*
 * atom.go, part of chemrep.
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

package environment

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/labels"
	"github.com/rmera/chemrep/system"
)

//Atom is an environment where each sample is the sphere of radius Cutoff
//around one atom.
type Atom struct {
	cutoff  float64
	species map[int32]bool
	//Workers is the maximum number of structures processed at the same time by GradientsFor.
	Workers int
}

//NewAtom returns an atom-centered environment with the given cutoff. If species are given,
//only atoms of those species are used as centers.
func NewAtom(cutoff float64, species ...int32) (*Atom, error) {
	if err := system.CheckCutoff(cutoff); err != nil {
		return nil, errs.Decorate(err, "NewAtom")
	}
	A := &Atom{cutoff: cutoff, Workers: runtime.NumCPU()}
	if len(species) > 0 {
		A.species = make(map[int32]bool, len(species))
		for _, s := range species {
			A.species[s] = true
		}
	}
	return A, nil
}

func (*Atom) environment() {}

//Cutoff returns the radius of the environments.
func (A *Atom) Cutoff() float64 { return A.cutoff }

//Names returns ["structure", "center"].
func (*Atom) Names() []string { return []string{"structure", "center"} }

//GradientNames returns ["structure", "center", "neighbor", "spatial"].
func (*Atom) GradientNames() []string { return []string{"structure", "center", "neighbor", "spatial"} }

//Samples returns one sample per atom, in the order of the structures and then of the atoms.
func (A *Atom) Samples(systems []system.System) (*labels.Labels, error) {
	B := labels.NewBuilder(A.Names()...)
	for i, sys := range systems {
		species, err := sys.Species()
		if err != nil {
			return nil, err
		}
		for center, s := range species {
			if A.species != nil && !A.species[s] {
				continue
			}
			B.Add(labels.Value(i), labels.Value(center))
		}
	}
	return B.Finish(), nil
}

//GradientsFor returns, for each sample, the 3 spatial components of the gradient with respect
//to each neighbor of the center. A center and a neighbor appear only once even if they are
//paired more than once (which happens with periodic images), in the order in which they are first
//found going through samples.
func (A *Atom) GradientsFor(systems []system.System, samples *labels.Labels) (*labels.Labels, error) {
	if err := checkSamples(A, systems, samples); err != nil {
		return nil, errs.Decorate(err, "Atom.GradientsFor")
	}
	neighbors := make([][]int, samples.Count())
	//positions of the samples of each structure, in the order given
	byStructure := make(map[int][]int)
	var order []int
	for i := 0; i < samples.Count(); i++ {
		s := int(samples.Row(i)[0])
		if _, ok := byStructure[s]; !ok {
			order = append(order, s)
		}
		byStructure[s] = append(byStructure[s], i)
	}
	locks := system.NewLocks(systems)
	var g errgroup.Group
	if A.Workers > 0 {
		g.SetLimit(A.Workers)
	}
	for _, s := range order {
		sys, positions := systems[s], byStructure[s]
		g.Go(func() error {
			return locks.Do(s, func() error {
				return system.WithNeighbors(sys, A.cutoff, func() error {
					n, err := sys.Size()
					if err != nil {
						return err
					}
					for _, i := range positions {
						center := int(samples.Row(i)[1])
						if center < 0 || center >= n {
							return errs.New(errs.InvalidParameter, "center %d out of range for structure %d with %d atoms", center, s, n)
						}
						pairs, err := sys.PairsContaining(center)
						if err != nil {
							return err
						}
						for _, p := range pairs {
							if other, ok := p.Other(center); ok {
								neighbors[i] = append(neighbors[i], other)
							}
						}
					}
					return nil
				})
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs.Decorate(err, "Atom.GradientsFor")
	}
	triplets := labels.NewOrderedSet(3)
	for i, list := range neighbors {
		row := samples.Row(i)
		for _, other := range list {
			triplets.Insert(row[0], row[1], labels.Value(other))
		}
	}
	B := labels.NewBuilder(A.GradientNames()...)
	triplets.Each(func(t []labels.Value) bool {
		for axis := labels.Value(0); axis < 3; axis++ {
			B.Add(t[0], t[1], t[2], axis)
		}
		return true
	})
	return B.Finish(), nil
}
