/*
 * labels.go, part of chemrep.
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

//Package labels implements the index sets used to describe the rows of a descriptor
//(samples), its gradients, and the blocks it is partitioned into (keys).
//
//A Labels is an ordered sequence of tuples of integer values, all the tuples
//sharing the same set of named variables (e.g. "structure", "center").
//The order of the tuples is meaningful, and no tuple appears twice.
//Once built, a Labels is never modified, so it can be shared freely.
package labels

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/rmera/chemrep/errs"
)

//Value is a single index, for instance a structure index, an atom index,
//an atomic species or a spatial axis.
type Value int32

//Labels is an immutable, ordered set of index tuples with named variables.
type Labels struct {
	names     []string
	values    []Value //row-major, count*len(names) elements
	positions map[string]int
}

//New builds a Labels from the given names and rows, checking that the
//names are valid, that all the rows have the right number of values
//and that there are no repeated rows.
func New(names []string, rows [][]Value) (*Labels, error) {
	if err := checkNames(names); err != nil {
		return nil, errs.Decorate(err, "labels.New")
	}
	L := &Labels{
		names:     append([]string(nil), names...),
		values:    make([]Value, 0, len(rows)*len(names)),
		positions: make(map[string]int, len(rows)),
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, errs.New(errs.InvalidParameter, "row %d has %d values, expected %d (%s)", i, len(row), len(names), strings.Join(names, ", "))
		}
		k := tupleKey(row)
		if prev, ok := L.positions[k]; ok {
			return nil, errs.New(errs.InvalidParameter, "row %d %v repeats row %d", i, row, prev)
		}
		L.positions[k] = i
		L.values = append(L.values, row...)
	}
	return L, nil
}

func checkNames(names []string) error {
	if len(names) == 0 {
		return errs.New(errs.InvalidParameter, "labels need at least one variable name")
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" || strings.ContainsAny(n, " \t\n,") {
			return errs.New(errs.InvalidParameter, "invalid variable name %q", n)
		}
		if seen[n] {
			return errs.New(errs.InvalidParameter, "variable name %q given twice", n)
		}
		seen[n] = true
	}
	return nil
}

//Names returns a copy of the names of the variables.
func (L *Labels) Names() []string {
	return append([]string(nil), L.names...)
}

//HasNames returns true if the variables of L are exactly names, in the same order.
func (L *Labels) HasNames(names ...string) bool {
	if len(names) != len(L.names) {
		return false
	}
	for i, v := range names {
		if L.names[i] != v {
			return false
		}
	}
	return true
}

//Size returns the number of variables in each tuple.
func (L *Labels) Size() int {
	return len(L.names)
}

//Count returns the number of tuples.
func (L *Labels) Count() int {
	return len(L.values) / len(L.names)
}

//Row returns the ith tuple. The returned slice is a view of the
//Labels storage, and must not be modified.
func (L *Labels) Row(i int) []Value {
	s := len(L.names)
	return L.values[i*s : (i+1)*s : (i+1)*s]
}

//Rows returns a copy of all the tuples.
func (L *Labels) Rows() [][]Value {
	ret := make([][]Value, L.Count())
	for i := range ret {
		ret[i] = append([]Value(nil), L.Row(i)...)
	}
	return ret
}

//Column returns a copy of the values of the variable name in every tuple, and
//false if there is no such variable.
func (L *Labels) Column(name string) ([]Value, bool) {
	c := -1
	for i, v := range L.names {
		if v == name {
			c = i
		}
	}
	if c < 0 {
		return nil, false
	}
	ret := make([]Value, L.Count())
	for i := range ret {
		ret[i] = L.values[i*len(L.names)+c]
	}
	return ret, true
}

//Position returns the position of the given tuple in L, and false if
//it is not present.
func (L *Labels) Position(values ...Value) (int, bool) {
	if len(values) != len(L.names) {
		return 0, false
	}
	p, ok := L.positions[tupleKey(values)]
	return p, ok
}

//Contains returns true if the tuple is present in L.
func (L *Labels) Contains(values ...Value) bool {
	_, ok := L.Position(values...)
	return ok
}

//Equal returns true if both Labels have the same names and the same
//tuples in the same order.
func (L *Labels) Equal(O *Labels) bool {
	if L == nil || O == nil {
		return L == O
	}
	if !L.HasNames(O.names...) || len(L.values) != len(O.values) {
		return false
	}
	for i, v := range L.values {
		if O.values[i] != v {
			return false
		}
	}
	return true
}

//Select returns a new Labels containing the tuples of L at the given
//positions, in the order given. This allows both filtering and reordering.
func (L *Labels) Select(positions []int) (*Labels, error) {
	B := NewBuilder(L.names...)
	for _, p := range positions {
		if p < 0 || p >= L.Count() {
			return nil, errs.New(errs.InvalidParameter, "position %d out of range for labels with %d entries", p, L.Count())
		}
		if B.Contains(L.Row(p)...) {
			return nil, errs.New(errs.InvalidParameter, "position %d selected twice", p)
		}
		B.Add(L.Row(p)...)
	}
	return B.Finish(), nil
}

func (L *Labels) String() string {
	var sb strings.Builder
	sb.WriteString("(" + strings.Join(L.names, ", ") + ")\n")
	for i := 0; i < L.Count(); i++ {
		fmt.Fprintf(&sb, "%v\n", L.Row(i))
	}
	return sb.String()
}

//Builder accumulates tuples to create a Labels.
type Builder struct {
	names     []string
	values    []Value
	positions map[string]int
}

//NewBuilder returns a builder for labels with the given variable names. It panics
//if the names are not valid.
func NewBuilder(names ...string) *Builder {
	if err := checkNames(names); err != nil {
		panic(ErrNames)
	}
	return &Builder{
		names:     append([]string(nil), names...),
		positions: make(map[string]int),
	}
}

//Add appends a tuple. It panics if the tuple has the wrong number of values
//or if it was already added. Those are programming errors; use New to
//validate tuples coming from the outside.
func (B *Builder) Add(values ...Value) {
	if len(values) != len(B.names) {
		panic(ErrArity)
	}
	k := tupleKey(values)
	if _, ok := B.positions[k]; ok {
		panic(ErrDuplicate)
	}
	B.positions[k] = len(B.values) / len(B.names)
	B.values = append(B.values, values...)
}

//Contains returns true if the tuple was already added.
func (B *Builder) Contains(values ...Value) bool {
	_, ok := B.positions[tupleKey(values)]
	return ok
}

//Count returns the number of tuples added so far.
func (B *Builder) Count() int {
	return len(B.values) / len(B.names)
}

//Finish returns the Labels. The builder must not be used afterwards.
func (B *Builder) Finish() *Labels {
	L := &Labels{names: B.names, values: B.values, positions: B.positions}
	B.names, B.values, B.positions = nil, nil, nil
	return L
}

//tupleKey encodes a tuple as a string, so it can be used as a map key.
func tupleKey(values []Value) string {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint32(b[4*i:], uint32(v))
	}
	return string(b)
}

//Compare compares two tuples lexicographically. It returns -1, 0 or 1.
func Compare(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use errs.Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNames     = PanicMsg("chemrep/labels: invalid variable names")
	ErrArity     = PanicMsg("chemrep/labels: wrong number of values in tuple")
	ErrDuplicate = PanicMsg("chemrep/labels: tuple added twice")
)
