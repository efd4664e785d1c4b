/*
 * atomicdata.go, part of chemrep.
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
	"strconv"
	"strings"

	"github.com/rmera/chemrep/errs"
)

//The elements up to Kr, plus a few heavier ones common in materials.
var symbolNumber = map[string]int32{
	"H": 1, "He": 2,
	"Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9, "Ne": 10,
	"Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16, "Cl": 17, "Ar": 18,
	"K": 19, "Ca": 20, "Sc": 21, "Ti": 22, "V": 23, "Cr": 24, "Mn": 25, "Fe": 26,
	"Co": 27, "Ni": 28, "Cu": 29, "Zn": 30, "Ga": 31, "Ge": 32, "As": 33, "Se": 34,
	"Br": 35, "Kr": 36,
	"Rb": 37, "Sr": 38, "Zr": 40, "Mo": 42, "Ru": 44, "Pd": 46, "Ag": 47, "Cd": 48,
	"Sn": 50, "I": 53, "Xe": 54, "Cs": 55, "Ba": 56, "W": 74, "Pt": 78, "Au": 79,
	"Hg": 80, "Pb": 82,
}

//AtomicNumber returns the atomic number for a chemical symbol. The symbol
//is case-insensitive, and a plain integer is accepted as the number itself, which
//allows using arbitrary species in XYZ files.
func AtomicNumber(symbol string) (int32, error) {
	if n, err := strconv.Atoi(symbol); err == nil {
		if n <= 0 {
			return 0, errs.New(errs.InvalidParameter, "species must be positive, got %d", n)
		}
		return int32(n), nil
	}
	if symbol == "" {
		return 0, errs.New(errs.InvalidParameter, "empty chemical symbol")
	}
	s := strings.ToUpper(symbol[:1]) + strings.ToLower(symbol[1:])
	n, ok := symbolNumber[s]
	if !ok {
		return 0, errs.New(errs.InvalidParameter, "unknown chemical symbol %q", symbol)
	}
	return n, nil
}

//Symbol returns the chemical symbol for an atomic number, or the number itself
//as a string if the element is not known.
func Symbol(number int32) string {
	for k, v := range symbolNumber {
		if v == number {
			return k
		}
	}
	return strconv.Itoa(int(number))
}
