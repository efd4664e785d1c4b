/*
 * sets.go, part of chemrep.
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

package labels

import (
	"github.com/google/btree"
)

//The two sets below look alike but are not interchangeable. SortedSet always
//iterates in ascending lexicographic order, no matter the insertion order,
//and it is used for keys. OrderedSet iterates in the order in which tuples were
//first inserted, and it is used for gradients, which must follow the samples.

const btreeDegree = 16

//SortedSet is a set of tuples of fixed arity, iterated in ascending
//lexicographic order.
type SortedSet struct {
	arity int
	tree  *btree.BTreeG[[]Value]
}

//NewSortedSet returns an empty set for tuples with arity values.
func NewSortedSet(arity int) *SortedSet {
	less := func(a, b []Value) bool { return Compare(a, b) < 0 }
	return &SortedSet{arity: arity, tree: btree.NewG[[]Value](btreeDegree, less)}
}

//Insert adds the tuple to the set, if it is not already there.
//It returns true if the tuple was not in the set.
func (S *SortedSet) Insert(values ...Value) bool {
	if len(values) != S.arity {
		panic(ErrArity)
	}
	if S.tree.Has(values) {
		return false
	}
	S.tree.ReplaceOrInsert(append([]Value(nil), values...))
	return true
}

//Merge inserts all the tuples of O in S.
func (S *SortedSet) Merge(O *SortedSet) {
	O.Ascend(func(t []Value) bool {
		S.Insert(t...)
		return true
	})
}

//Len returns the number of tuples in the set.
func (S *SortedSet) Len() int {
	return S.tree.Len()
}

//Ascend calls f for each tuple, in ascending order, until f returns false.
//The tuples passed to f must not be modified.
func (S *SortedSet) Ascend(f func(tuple []Value) bool) {
	S.tree.Ascend(func(t []Value) bool { return f(t) })
}

//Labels returns the content of the set as Labels with the given variable names.
func (S *SortedSet) Labels(names ...string) *Labels {
	if len(names) != S.arity {
		panic(ErrArity)
	}
	B := NewBuilder(names...)
	S.Ascend(func(t []Value) bool {
		B.Add(t...)
		return true
	})
	return B.Finish()
}

//OrderedSet is a set of tuples of fixed arity, iterated in the order in which
//each tuple was first inserted.
type OrderedSet struct {
	arity  int
	seen   map[string]struct{}
	values []Value
}

//NewOrderedSet returns an empty set for tuples with arity values.
func NewOrderedSet(arity int) *OrderedSet {
	return &OrderedSet{arity: arity, seen: make(map[string]struct{})}
}

//Insert adds the tuple at the end of the set, unless it is already
//there, in which case the set is not modified and false is returned.
func (O *OrderedSet) Insert(values ...Value) bool {
	if len(values) != O.arity {
		panic(ErrArity)
	}
	k := tupleKey(values)
	if _, ok := O.seen[k]; ok {
		return false
	}
	O.seen[k] = struct{}{}
	O.values = append(O.values, values...)
	return true
}

//Len returns the number of tuples in the set.
func (O *OrderedSet) Len() int {
	return len(O.values) / O.arity
}

//Each calls f for each tuple, in insertion order, until f returns false.
//The tuples passed to f must not be modified.
func (O *OrderedSet) Each(f func(tuple []Value) bool) {
	for i := 0; i < len(O.values); i += O.arity {
		if !f(O.values[i : i+O.arity : i+O.arity]) {
			return
		}
	}
}

//Labels returns the content of the set as Labels with the given variable names.
func (O *OrderedSet) Labels(names ...string) *Labels {
	if len(names) != O.arity {
		panic(ErrArity)
	}
	B := NewBuilder(names...)
	O.Each(func(t []Value) bool {
		B.Add(t...)
		return true
	})
	return B.Finish()
}
