/*
 * config.go, part of chemrep.
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
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rmera/chemrep/environment"
	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/keys"
	"github.com/rmera/chemrep/radial"
)

//Config contains all the parameters of a calculation.
type Config struct {
	Keys        KeysConfig        `yaml:"keys"`
	Environment EnvironmentConfig `yaml:"environment"`
	//Optional, without it the calculator has no radial function.
	Radial *RadialConfig `yaml:"radial"`
	//Maximum number of structures (or samples) processed at the same time.
	//0 means one per CPU.
	Workers int `yaml:"workers"`
}

//KeysConfig selects the key builder. Exactly one of the fields must be set.
type KeysConfig struct {
	CenterSpecies      *struct{}                 `yaml:"center_species"`
	AllSpeciesPairs    *struct{}                 `yaml:"all_species_pairs"`
	CenterNeighbor     *CenterNeighborConfig     `yaml:"center_neighbor"`
	CenterTwoNeighbors *CenterTwoNeighborsConfig `yaml:"center_two_neighbors"`
	TwoCentersNeighbor *TwoCentersNeighborConfig `yaml:"two_centers_neighbor"`
}

//CenterNeighborConfig are the parameters for keys.CenterSingleNeighborsSpecies.
type CenterNeighborConfig struct {
	Cutoff    float64 `yaml:"cutoff"`
	SelfPairs bool    `yaml:"self_pairs"`
}

//CenterTwoNeighborsConfig are the parameters for keys.CenterTwoNeighborsSpecies.
type CenterTwoNeighborsConfig struct {
	Cutoff    float64 `yaml:"cutoff"`
	SelfPairs bool    `yaml:"self_pairs"`
	Symmetric bool    `yaml:"symmetric"`
}

//TwoCentersNeighborConfig are the parameters for keys.TwoCentersSingleNeighborsSpecies.
type TwoCentersNeighborConfig struct {
	BondCutoff        float64 `yaml:"bond_cutoff"`
	ThirdCutoff       float64 `yaml:"third_cutoff"`
	SelfContributions bool    `yaml:"self_contributions"`
}

//EnvironmentConfig selects the environment. Exactly one of the fields must be set.
type EnvironmentConfig struct {
	Structure *struct{}   `yaml:"structure"`
	Atom      *AtomConfig `yaml:"atom"`
}

//AtomConfig are the parameters of an atom-centered environment.
type AtomConfig struct {
	Cutoff float64 `yaml:"cutoff"`
	//If not empty, only atoms of these species are centers.
	Species []int32 `yaml:"species"`
}

//RadialConfig are the parameters of the radial basis.
type RadialConfig struct {
	MaxRadial  int     `yaml:"max_radial"`
	MaxAngular int     `yaml:"max_angular"`
	Cutoff     float64 `yaml:"cutoff"`
	//Defaults to true
	Splined *bool `yaml:"splined"`
	//Defaults to 1e-8
	SplineAccuracy *float64 `yaml:"spline_accuracy"`
}

//ParseConfig reads a configuration in YAML (or JSON) format. Unknown fields are errors. The
//configuration is validated, so any error in it is reported here.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	C := new(Config)
	if err := dec.Decode(C); err != nil {
		return nil, errs.New(errs.InvalidParameter, "can't parse configuration: %v", err)
	}
	if err := C.Validate(); err != nil {
		return nil, errs.Decorate(err, "ParseConfig")
	}
	return C, nil
}

//LoadConfig reads the configuration in the file name.
func LoadConfig(name string) (*Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	C, err := ParseConfig(data)
	if err != nil {
		return nil, errs.Decorate(err, "LoadConfig "+name)
	}
	return C, nil
}

//Validate checks the whole configuration.
func (C *Config) Validate() error {
	if C.Workers < 0 {
		return errs.New(errs.InvalidParameter, "workers can't be negative, got %d", C.Workers)
	}
	if _, err := C.Keys.Builder(); err != nil {
		return errs.Decorate(err, "Config.Validate")
	}
	if _, err := C.Environment.Environment(); err != nil {
		return errs.Decorate(err, "Config.Validate")
	}
	if C.Radial != nil {
		if err := C.Radial.Parameters().Check(); err != nil {
			return errs.Decorate(err, "Config.Validate")
		}
		if b := C.Radial.Basis(); b.Splined && !(b.Accuracy > 0) {
			return errs.New(errs.InvalidParameter, "spline_accuracy must be positive, got %g", b.Accuracy)
		}
	}
	return nil
}

//count returns the number of true values.
func count(set ...bool) int {
	n := 0
	for _, v := range set {
		if v {
			n++
		}
	}
	return n
}

//Builder returns the key builder selected.
func (K KeysConfig) Builder() (keys.Builder, error) {
	n := count(K.CenterSpecies != nil, K.AllSpeciesPairs != nil, K.CenterNeighbor != nil, K.CenterTwoNeighbors != nil, K.TwoCentersNeighbor != nil)
	if n != 1 {
		return nil, errs.New(errs.InvalidParameter, "exactly one key scheme must be given, got %d", n)
	}
	var ret keys.Builder
	var err error
	switch {
	case K.CenterSpecies != nil:
		ret = keys.CenterSpecies{Options: keys.DefaultOptions()}
	case K.AllSpeciesPairs != nil:
		ret = keys.AllSpeciesPairs{Options: keys.DefaultOptions()}
	case K.CenterNeighbor != nil:
		ret, err = keys.NewCenterSingleNeighborsSpecies(K.CenterNeighbor.Cutoff, K.CenterNeighbor.SelfPairs)
	case K.CenterTwoNeighbors != nil:
		c := K.CenterTwoNeighbors
		ret, err = keys.NewCenterTwoNeighborsSpecies(c.Cutoff, c.SelfPairs, c.Symmetric)
	default:
		c := K.TwoCentersNeighbor
		ret, err = keys.NewTwoCentersSingleNeighborsSpecies(c.BondCutoff, c.ThirdCutoff, c.SelfContributions)
	}
	if err != nil {
		return nil, errs.Decorate(err, "KeysConfig.Builder")
	}
	return ret, nil
}

//Environment returns the environment selected.
func (E EnvironmentConfig) Environment() (environment.Environment, error) {
	n := count(E.Structure != nil, E.Atom != nil)
	if n != 1 {
		return nil, errs.New(errs.InvalidParameter, "exactly one environment must be given, got %d", n)
	}
	if E.Structure != nil {
		return environment.Structure{}, nil
	}
	A, err := environment.NewAtom(E.Atom.Cutoff, E.Atom.Species...)
	if err != nil {
		return nil, errs.Decorate(err, "EnvironmentConfig.Environment")
	}
	return A, nil
}

//Parameters returns the parameters of the radial basis.
func (R *RadialConfig) Parameters() radial.Parameters {
	return radial.Parameters{MaxRadial: R.MaxRadial, MaxAngular: R.MaxAngular, Cutoff: R.Cutoff}
}

//Basis returns the way the radial functions are evaluated, filling the defaults.
func (R *RadialConfig) Basis() radial.Basis {
	B := radial.DefaultBasis()
	if R.Splined != nil {
		B.Splined = *R.Splined
	}
	if R.SplineAccuracy != nil {
		B.Accuracy = *R.SplineAccuracy
	}
	return B
}
