/*
 * doc.go, part of chemrep.
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

/*
Package chemrep builds the bookkeeping of atomic-environment descriptors: which
blocks (keys) the output has, which samples each block contains, and which
gradient rows go with those samples. It also builds the splined radial
functions used to fill the blocks.

	**chemrep Capabilities**

	Keys from the species of atoms, pairs of neighbors, pairs of neighbors
	around an atom, and bond-atom triplets (package keys).

	Samples and gradients for whole structures or atom-centered
	environments, for any subset of samples, in any order (package environment).

	Cubic Hermite splines built to a requested accuracy, which can be saved,
	loaded, checked against the original function and plotted (package spline).

	Gaussian type radial functions, raw or splined (package radial).

	Structures read from (extended) XYZ files, with periodic neighbor
	lists (package system).

A calculation is usually driven by a YAML (or JSON) configuration:

	keys:
	  center_two_neighbors: {cutoff: 3.5, self_pairs: true, symmetric: true}
	environment:
	  atom: {cutoff: 3.5}
	radial:
	  max_radial: 6
	  max_angular: 4
	  cutoff: 3.5

which is read with LoadConfig and given to NewCalculator.

All errors returned by chemrep packages implement errs.Kinder, and can be classified
with errs.Is. Errors coming from a system.System implementation are returned as they are.
*/
package chemrep
