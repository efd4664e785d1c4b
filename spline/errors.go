/*
 * errors.go, part of chemrep.
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

package spline

import (
	"fmt"
	"strings"

	"github.com/rmera/chemrep/errs"
)

//BudgetError is returned when a spline can't reach the requested accuracy
//without using more than the allowed number of points. It contains the state
//of the spline when the construction stopped.
type BudgetError struct {
	Accuracy  float64
	Points    int
	MaxPoints int
	Spacing   float64
	//Errors of the last spline tried
	MeanAbsolute float64
	MeanRelative float64
	deco         []string
}

func (err *BudgetError) Error() string {
	return fmt.Sprintf("%s: accuracy %g not reached with %d points (maximum %d, spacing %g, mean absolute error %g, mean relative error %g) (%s)",
		errs.SplineBudgetExceeded, err.Accuracy, err.Points, err.MaxPoints, err.Spacing, err.MeanAbsolute, err.MeanRelative, strings.Join(err.deco, " <- "))
}

//Kind returns errs.SplineBudgetExceeded.
func (err *BudgetError) Kind() errs.Kind { return errs.SplineBudgetExceeded }

//Decorate adds dec to the decoration slice of the error, and returns the resulting slice.
func (err *BudgetError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical always returns true. A spline that can't be built can't be used.
func (err *BudgetError) Critical() bool { return true }
