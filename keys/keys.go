/*
 * keys.go, part of chemrep.
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

//Package keys builds the keys of a descriptor: the combinations of atomic species
//that identify each block of the output. Keys are always sorted and unique, and
//don't depend on the order in which the structures are given.
package keys

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/labels"
	"github.com/rmera/chemrep/system"
)

//Builder computes the keys for a set of structures. The implementations in this
//package are the only ones.
type Builder interface {
	//Names of the keys
	Names() []string
	//Keys returns the sorted keys found in systems.
	Keys(systems []system.System) (*labels.Labels, error)

	builder()
}

//Options contains the options shared by all the key builders.
type Options struct {
	//Maximum number of structures processed at the same time. 0 or less means no limit.
	Workers int
}

//DefaultOptions returns options using one worker per CPU.
func DefaultOptions() Options {
	return Options{Workers: runtime.NumCPU()}
}

//collect runs perSystem for each structure, in parallel, and merges the keys
//found into a single set. A structure given more than once is never processed by
//two goroutines at the same time.
func collect(systems []system.System, arity int, O Options, perSystem func(sys system.System, set *labels.SortedSet) error) (*labels.SortedSet, error) {
	found := make([]*labels.SortedSet, len(systems))
	var g errgroup.Group
	if O.Workers > 0 {
		g.SetLimit(O.Workers)
	}
	locks := system.NewLocks(systems)
	for i, sys := range systems {
		g.Go(func() error {
			set := labels.NewSortedSet(arity)
			err := locks.Do(i, func() error { return perSystem(sys, set) })
			if err != nil {
				return err
			}
			found[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	all := labels.NewSortedSet(arity)
	for _, set := range found {
		all.Merge(set)
	}
	return all, nil
}

//distinct returns the species in species, without repetitions.
func distinct(species []int32) []int32 {
	seen := make(map[int32]bool)
	ret := make([]int32, 0, 4)
	for _, s := range species {
		if !seen[s] {
			seen[s] = true
			ret = append(ret, s)
		}
	}
	return ret
}

//CenterSpecies produces one key per species found in the structures.
type CenterSpecies struct {
	Options
}

func (CenterSpecies) builder() {}

//Names returns ["species_center"].
func (CenterSpecies) Names() []string { return []string{"species_center"} }

//Keys returns the species in systems.
func (C CenterSpecies) Keys(systems []system.System) (*labels.Labels, error) {
	set, err := collect(systems, 1, C.Options, func(sys system.System, set *labels.SortedSet) error {
		species, err := sys.Species()
		if err != nil {
			return err
		}
		for _, s := range species {
			set.Insert(labels.Value(s))
		}
		return nil
	})
	if err != nil {
		return nil, errs.Decorate(err, "CenterSpecies.Keys")
	}
	return set.Labels(C.Names()...), nil
}

//AllSpeciesPairs produces a key for every pair of species that are present in the same
//structure, regardless of their distance.
type AllSpeciesPairs struct {
	Options
}

func (AllSpeciesPairs) builder() {}

//Names returns ["species_center", "species_neighbor"].
func (AllSpeciesPairs) Names() []string { return []string{"species_center", "species_neighbor"} }

//Keys returns the pairs of species in systems.
func (A AllSpeciesPairs) Keys(systems []system.System) (*labels.Labels, error) {
	set, err := collect(systems, 2, A.Options, func(sys system.System, set *labels.SortedSet) error {
		species, err := sys.Species()
		if err != nil {
			return err
		}
		d := distinct(species)
		for _, a := range d {
			for _, b := range d {
				set.Insert(labels.Value(a), labels.Value(b))
			}
		}
		return nil
	})
	if err != nil {
		return nil, errs.Decorate(err, "AllSpeciesPairs.Keys")
	}
	return set.Labels(A.Names()...), nil
}
