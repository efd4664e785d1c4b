/*
 * locks.go, part of chemrep.
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
	"reflect"
	"sync"
)

//identity returns a map key that is the same for two System values only if they
//are the same structure, and false if sys can't be used as a key (its dynamic type
//is not comparable).
func identity(sys System) (interface{}, bool) {
	if sys == nil || !reflect.TypeOf(sys).Comparable() {
		return nil, false
	}
	return sys, true
}

//Locks gives one mutex to each distinct System in a slice. A System that appears
//more than once in the slice gets the same mutex every time. Locks lets goroutines work
//on different structures at the same time, while the work on each structure happens
//one goroutine at a time, even for systems that are not sync.Lockers.
type Locks struct {
	mu []*sync.Mutex
}

//NewLocks returns the locks for systems.
func NewLocks(systems []System) *Locks {
	L := &Locks{mu: make([]*sync.Mutex, len(systems))}
	seen := make(map[interface{}]*sync.Mutex, len(systems))
	for i, sys := range systems {
		key, ok := identity(sys)
		if !ok {
			L.mu[i] = new(sync.Mutex)
			continue
		}
		if m, ok := seen[key]; ok {
			L.mu[i] = m
			continue
		}
		L.mu[i] = new(sync.Mutex)
		seen[key] = L.mu[i]
	}
	return L
}

//Do calls f holding the lock of the i-th system.
func (L *Locks) Do(i int, f func() error) error {
	L.mu[i].Lock()
	defer L.mu[i].Unlock()
	return f()
}
