/*
 * neighbors.go, part of chemrep.
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

package keys

import (
	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/labels"
	"github.com/rmera/chemrep/system"
)

//CenterSingleNeighborsSpecies produces a key for every pair of species found
//within a cutoff of each other.
type CenterSingleNeighborsSpecies struct {
	Options
	cutoff    float64
	selfPairs bool
}

//NewCenterSingleNeighborsSpecies returns a builder with the given cutoff. If selfPairs is true, each
//atom is considered its own neighbor, so there is a (s, s) key for every species s.
func NewCenterSingleNeighborsSpecies(cutoff float64, selfPairs bool) (*CenterSingleNeighborsSpecies, error) {
	if err := system.CheckCutoff(cutoff); err != nil {
		return nil, errs.Decorate(err, "NewCenterSingleNeighborsSpecies")
	}
	return &CenterSingleNeighborsSpecies{Options: DefaultOptions(), cutoff: cutoff, selfPairs: selfPairs}, nil
}

func (*CenterSingleNeighborsSpecies) builder() {}

//Cutoff returns the cutoff used to find neighbors.
func (C *CenterSingleNeighborsSpecies) Cutoff() float64 { return C.cutoff }

//Names returns ["species_center", "species_neighbor"].
func (*CenterSingleNeighborsSpecies) Names() []string {
	return []string{"species_center", "species_neighbor"}
}

//Keys returns the pairs of neighbor species in systems.
func (C *CenterSingleNeighborsSpecies) Keys(systems []system.System) (*labels.Labels, error) {
	set, err := collect(systems, 2, C.Options, func(sys system.System, set *labels.SortedSet) error {
		return system.WithNeighbors(sys, C.cutoff, func() error {
			species, err := sys.Species()
			if err != nil {
				return err
			}
			pairs, err := sys.Pairs()
			if err != nil {
				return err
			}
			for _, p := range pairs {
				a, b := labels.Value(species[p.First]), labels.Value(species[p.Second])
				set.Insert(a, b)
				set.Insert(b, a)
			}
			if C.selfPairs {
				for _, s := range species {
					set.Insert(labels.Value(s), labels.Value(s))
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, errs.Decorate(err, "CenterSingleNeighborsSpecies.Keys")
	}
	return set.Labels(C.Names()...), nil
}

//CenterTwoNeighborsSpecies produces keys with the species of an atom and the species
//of two of its neighbors within a cutoff.
type CenterTwoNeighborsSpecies struct {
	Options
	cutoff    float64
	selfPairs bool
	symmetric bool
}

//NewCenterTwoNeighborsSpecies returns a builder with the given cutoff. If selfPairs is true, each
//atom is considered its own neighbor. If symmetric is true, the two neighbor species are
//interchangeable, and only keys with species_neighbor_1 <= species_neighbor_2 are produced.
func NewCenterTwoNeighborsSpecies(cutoff float64, selfPairs, symmetric bool) (*CenterTwoNeighborsSpecies, error) {
	if err := system.CheckCutoff(cutoff); err != nil {
		return nil, errs.Decorate(err, "NewCenterTwoNeighborsSpecies")
	}
	return &CenterTwoNeighborsSpecies{Options: DefaultOptions(), cutoff: cutoff, selfPairs: selfPairs, symmetric: symmetric}, nil
}

func (*CenterTwoNeighborsSpecies) builder() {}

//Cutoff returns the cutoff used to find neighbors.
func (C *CenterTwoNeighborsSpecies) Cutoff() float64 { return C.cutoff }

//Names returns ["species_center", "species_neighbor_1", "species_neighbor_2"].
func (*CenterTwoNeighborsSpecies) Names() []string {
	return []string{"species_center", "species_neighbor_1", "species_neighbor_2"}
}

//Keys returns the combinations of a center species with two neighbor species found in systems.
func (C *CenterTwoNeighborsSpecies) Keys(systems []system.System) (*labels.Labels, error) {
	set, err := collect(systems, 3, C.Options, func(sys system.System, set *labels.SortedSet) error {
		return system.WithNeighbors(sys, C.cutoff, func() error {
			species, err := sys.Species()
			if err != nil {
				return err
			}
			for center, sc := range species {
				pairs, err := sys.PairsContaining(center)
				if err != nil {
					return err
				}
				around := make([]int32, 0, len(pairs)+1)
				for _, p := range pairs {
					if other, ok := p.Other(center); ok {
						around = append(around, species[other])
					}
				}
				if C.selfPairs {
					around = append(around, sc)
				}
				around = distinct(around)
				for _, n1 := range around {
					for _, n2 := range around {
						if C.symmetric && n2 < n1 {
							continue
						}
						set.Insert(labels.Value(sc), labels.Value(n1), labels.Value(n2))
					}
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, errs.Decorate(err, "CenterTwoNeighborsSpecies.Keys")
	}
	return set.Labels(C.Names()...), nil
}

//TwoCentersSingleNeighborsSpecies produces keys with the species of two atoms bonded to
//each other and of a third atom close to the bond, using bond-atom triplets.
type TwoCentersSingleNeighborsSpecies struct {
	Options
	triplets          *system.TripletNeighborList
	selfContributions bool
}

//NewTwoCentersSingleNeighborsSpecies returns a builder for bonds shorter than bondCutoff and third
//atoms within thirdCutoff of the middle of the bond. Unless selfContributions is true, triplets
//where the third atom is one of the bond atoms are ignored.
func NewTwoCentersSingleNeighborsSpecies(bondCutoff, thirdCutoff float64, selfContributions bool) (*TwoCentersSingleNeighborsSpecies, error) {
	T, err := system.NewTripletNeighborList(bondCutoff, thirdCutoff)
	if err != nil {
		return nil, errs.Decorate(err, "NewTwoCentersSingleNeighborsSpecies")
	}
	return &TwoCentersSingleNeighborsSpecies{Options: DefaultOptions(), triplets: T, selfContributions: selfContributions}, nil
}

func (*TwoCentersSingleNeighborsSpecies) builder() {}

//BondCutoff returns the cutoff for the bond atoms.
func (T *TwoCentersSingleNeighborsSpecies) BondCutoff() float64 { return T.triplets.BondCutoff() }

//ThirdCutoff returns the cutoff for the third atom.
func (T *TwoCentersSingleNeighborsSpecies) ThirdCutoff() float64 { return T.triplets.ThirdCutoff() }

//Names returns ["species_center_1", "species_center_2", "species_neighbor"].
func (*TwoCentersSingleNeighborsSpecies) Names() []string {
	return []string{"species_center_1", "species_center_2", "species_neighbor"}
}

//Keys returns the species of the bond-atom triplets in systems. Both orders of the bond
//atoms give a key.
func (T *TwoCentersSingleNeighborsSpecies) Keys(systems []system.System) (*labels.Labels, error) {
	set, err := collect(systems, 3, T.Options, func(sys system.System, set *labels.SortedSet) error {
		triplets, err := T.triplets.Triplets(sys)
		if err != nil {
			return err
		}
		species, err := sys.Species()
		if err != nil {
			return err
		}
		for _, t := range triplets {
			if t.IsSelfContrib && !T.selfContributions {
				continue
			}
			si, sj, sk := labels.Value(species[t.I]), labels.Value(species[t.J]), labels.Value(species[t.K])
			set.Insert(si, sj, sk)
			set.Insert(sj, si, sk)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Decorate(err, "TwoCentersSingleNeighborsSpecies.Keys")
	}
	return set.Labels(T.Names()...), nil
}
