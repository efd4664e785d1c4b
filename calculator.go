/*
 * calculator.go, part of chemrep.
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
	"github.com/rmera/chemrep/environment"
	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/keys"
	"github.com/rmera/chemrep/labels"
	"github.com/rmera/chemrep/radial"
	"github.com/rmera/chemrep/system"
)

//Calculator puts together the key builder, the environment and the radial
//function of a configuration. It can be used from several goroutines.
type Calculator struct {
	keys   keys.Builder
	env    environment.Environment
	radial radial.Integral
}

//Indexes are the labels of a calculation.
type Indexes struct {
	Keys    *labels.Labels
	Samples *labels.Labels
	//nil if the environment has no gradients
	Gradients *labels.Labels
}

//Block contains the samples and gradients that belong to a key.
type Block struct {
	Key       []labels.Value
	Samples   *labels.Labels
	Gradients *labels.Labels
}

//NewCalculator builds everything cfg asks for. Errors in cfg, including a spline that can't
//reach the requested accuracy, are reported here.
func NewCalculator(cfg *Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errs.Decorate(err, "NewCalculator")
	}
	C := new(Calculator)
	var err error
	if C.keys, err = cfg.Keys.Builder(); err != nil {
		return nil, errs.Decorate(err, "NewCalculator")
	}
	if C.env, err = cfg.Environment.Environment(); err != nil {
		return nil, errs.Decorate(err, "NewCalculator")
	}
	if cfg.Workers > 0 {
		C.keys = setWorkers(C.keys, C.env, cfg.Workers)
	}
	if cfg.Radial != nil {
		params := cfg.Radial.Parameters()
		gto, err := radial.NewGTO(params)
		if err != nil {
			return nil, errs.Decorate(err, "NewCalculator")
		}
		if C.radial, err = cfg.Radial.Basis().Integral(params, gto); err != nil {
			return nil, errs.Decorate(err, "NewCalculator")
		}
	}
	return C, nil
}

//setWorkers sets the number of workers of K and E, and returns K, which
//is a new value for the builders that are not pointers.
func setWorkers(K keys.Builder, E environment.Environment, n int) keys.Builder {
	if A, ok := E.(*environment.Atom); ok {
		A.Workers = n
	}
	switch B := K.(type) {
	case keys.CenterSpecies:
		B.Workers = n
		return B
	case keys.AllSpeciesPairs:
		B.Workers = n
		return B
	case *keys.CenterSingleNeighborsSpecies:
		B.Workers = n
	case *keys.CenterTwoNeighborsSpecies:
		B.Workers = n
	case *keys.TwoCentersSingleNeighborsSpecies:
		B.Workers = n
	}
	return K
}

//Keys returns the key builder.
func (C *Calculator) Keys() keys.Builder { return C.keys }

//Environment returns the environment.
func (C *Calculator) Environment() environment.Environment { return C.env }

//Radial returns the radial function, or nil if the configuration had none.
func (C *Calculator) Radial() radial.Integral { return C.radial }

//Indexes returns the keys, samples and gradients for systems. If selected is not nil, only those
//samples, in that order, are used. All of them must be valid samples for systems.
func (C *Calculator) Indexes(systems []system.System, selected *labels.Labels) (*Indexes, error) {
	I := new(Indexes)
	var err error
	if I.Keys, err = C.keys.Keys(systems); err != nil {
		return nil, errs.Decorate(err, "Calculator.Indexes")
	}
	all, err := C.env.Samples(systems)
	if err != nil {
		return nil, errs.Decorate(err, "Calculator.Indexes")
	}
	I.Samples = all
	if selected != nil {
		if !selected.HasNames(all.Names()...) {
			return nil, errs.New(errs.InvalidParameter, "selected samples have names %v, expected %v", selected.Names(), all.Names())
		}
		for i := 0; i < selected.Count(); i++ {
			if !all.Contains(selected.Row(i)...) {
				return nil, errs.New(errs.InvalidParameter, "selected sample %v does not exist", selected.Row(i))
			}
		}
		I.Samples = selected
	}
	if I.Gradients, err = C.env.GradientsFor(systems, I.Samples); err != nil {
		return nil, errs.Decorate(err, "Calculator.Indexes")
	}
	return I, nil
}

//Blocks splits the samples and gradients in I among the keys. The first variable of every key
//is the species of the center, so a sample of an atom-centered environment goes to the blocks
//of the species of its center, and a whole structure goes to the block of every species it contains.
//Samples and gradients keep their order inside each block.
func (C *Calculator) Blocks(systems []system.System, I *Indexes) ([]Block, error) {
	species := make([][]int32, len(systems))
	for i, sys := range systems {
		s, err := sys.Species()
		if err != nil {
			return nil, err
		}
		species[i] = s
	}
	//species of each sample
	sampleSpecies := make([]map[int32]bool, I.Samples.Count())
	for i := range sampleSpecies {
		row := I.Samples.Row(i)
		if row[0] < 0 || int(row[0]) >= len(systems) {
			return nil, errs.New(errs.InvalidParameter, "sample %v refers to a missing structure", row)
		}
		s := species[row[0]]
		sampleSpecies[i] = make(map[int32]bool)
		if len(row) > 1 {
			if row[1] < 0 || int(row[1]) >= len(s) {
				return nil, errs.New(errs.InvalidParameter, "sample %v refers to a missing atom", row)
			}
			sampleSpecies[i][s[row[1]]] = true
			continue
		}
		for _, v := range s {
			sampleSpecies[i][v] = true
		}
	}
	nsample := I.Samples.Size()
	ret := make([]Block, I.Keys.Count())
	for k := range ret {
		key := I.Keys.Row(k)
		ret[k].Key = append([]labels.Value(nil), key...)
		samples := labels.NewBuilder(I.Samples.Names()...)
		for i, sp := range sampleSpecies {
			if sp[int32(key[0])] {
				samples.Add(I.Samples.Row(i)...)
			}
		}
		ret[k].Samples = samples.Finish()
		if I.Gradients == nil {
			continue
		}
		gradients := labels.NewBuilder(I.Gradients.Names()...)
		for i := 0; i < I.Gradients.Count(); i++ {
			row := I.Gradients.Row(i)
			if ret[k].Samples.Contains(row[:nsample]...) {
				gradients.Add(row...)
			}
		}
		ret[k].Gradients = gradients.Finish()
	}
	return ret, nil
}
