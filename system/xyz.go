/*
 * xyz.go, part of chemrep.
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

package system

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/chemrep/errs"
	v3 "github.com/rmera/chemrep/v3"
)

//ReadXYZ reads all the frames in the XYZ file xyzname. Each frame becomes a separate
//structure. The comment line of each frame can contain an extended-XYZ
//Lattice="ax ay az bx by bz cx cy cz" entry, which gives the structure a periodic cell.
func ReadXYZ(xyzname string) ([]*SimpleSystem, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, err
	}
	defer xyzfile.Close()
	ret, err := ParseXYZ(xyzfile)
	if err != nil {
		return nil, errs.Decorate(err, "ReadXYZ "+xyzname)
	}
	return ret, nil
}

//ParseXYZ reads all the XYZ frames from r. Blank lines between frames are ignored.
func ParseXYZ(r io.Reader) ([]*SimpleSystem, error) {
	xyz := bufio.NewScanner(r)
	var ret []*SimpleSystem
	lineno := 0
	next := func() (string, bool) {
		if !xyz.Scan() {
			return "", false
		}
		lineno++
		return xyz.Text(), true
	}
	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		natoms, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || natoms < 0 {
			return nil, errs.New(errs.InvalidParameter, "ill formatted XYZ: line %d should contain the number of atoms", lineno)
		}
		comment, ok := next()
		if !ok {
			return nil, errs.New(errs.InvalidParameter, "ill formatted XYZ: missing comment line after line %d", lineno)
		}
		cell, err := parseLattice(comment)
		if err != nil {
			return nil, errs.Decorate(err, "ParseXYZ")
		}
		species := make([]int32, natoms)
		coords := make([]float64, 3*natoms)
		for i := 0; i < natoms; i++ {
			line, ok = next()
			if !ok {
				return nil, errs.New(errs.InvalidParameter, "ill formatted XYZ: frame %d has less than %d atoms", len(ret), natoms)
			}
			fields := strings.Fields(line)
			if len(fields) < 4 {
				return nil, errs.New(errs.InvalidParameter, "ill formatted XYZ: line %d should have a symbol and 3 coordinates", lineno)
			}
			species[i], err = AtomicNumber(fields[0])
			if err != nil {
				return nil, errs.Decorate(err, "ParseXYZ")
			}
			for j := 0; j < 3; j++ {
				coords[3*i+j], err = strconv.ParseFloat(fields[j+1], 64)
				if err != nil {
					return nil, errs.New(errs.InvalidParameter, "ill formatted XYZ: bad coordinate in line %d: %v", lineno, err)
				}
			}
		}
		var positions *v3.Matrix
		if natoms > 0 {
			positions, err = v3.NewMatrix(coords)
			if err != nil {
				return nil, errs.Decorate(err, "ParseXYZ")
			}
		}
		sys, err := NewSimpleSystem(species, positions, cell)
		if err != nil {
			return nil, errs.Decorate(err, "ParseXYZ")
		}
		ret = append(ret, sys)
	}
	if err := xyz.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

//parseLattice returns the cell given in a Lattice="..." entry of the comment line,
//or an infinite cell if there is none.
func parseLattice(comment string) (*Cell, error) {
	const key = `Lattice="`
	start := strings.Index(comment, key)
	if start < 0 {
		return InfiniteCell(), nil
	}
	rest := comment[start+len(key):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return nil, errs.New(errs.InvalidParameter, "unterminated Lattice entry in XYZ comment")
	}
	fields := strings.Fields(rest[:end])
	if len(fields) != 9 {
		return nil, errs.New(errs.InvalidParameter, "Lattice entry needs 9 numbers, got %d", len(fields))
	}
	data := make([]float64, 9)
	for i, f := range fields {
		var err error
		data[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errs.New(errs.InvalidParameter, "bad number in Lattice entry: %v", err)
		}
	}
	vectors, err := v3.NewMatrix(data)
	if err != nil {
		return nil, err
	}
	return NewCell(vectors)
}
