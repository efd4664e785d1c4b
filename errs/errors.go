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

//Package errs contains the error type shared by all the chemrep packages.
//Errors carry a Kind, so callers can tell configuration errors from domain
//errors and from budget exhaustion in the spline construction, and a
//"decoration" slice with the names of the functions the error went through.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

//Kind classifies an error.
type Kind int

const (
	//InvalidParameter means an inconsistent or out-of-domain configuration.
	InvalidParameter Kind = iota + 1
	//InvalidCutoff means a cutoff that is not positive, or not finite.
	InvalidCutoff
	//OutOfDomain means an evaluation outside the valid range of a function.
	OutOfDomain
	//SplineBudgetExceeded means the spline refinement ran out of points
	//before reaching the requested accuracy.
	SplineBudgetExceeded
)

func (K Kind) String() string {
	switch K {
	case InvalidParameter:
		return "invalid parameter"
	case InvalidCutoff:
		return "invalid cutoff"
	case OutOfDomain:
		return "out of domain"
	case SplineBudgetExceeded:
		return "spline budget exceeded"
	}
	return "unknown error"
}

//Kinder is implemented by every error in this module.
type Kinder interface {
	error
	Kind() Kind
	Decorate(string) []string
	Critical() bool
}

//Error is the general error type of chemrep.
type Error struct {
	kind     Kind
	message  string
	deco     []string
	critical bool
}

//New returns a new error of the given kind. Domain errors are not critical,
//everything else is.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		kind:     kind,
		message:  fmt.Sprintf(format, args...),
		critical: kind != OutOfDomain,
	}
}

//Error returns a string with an error message, including the
//functions that decorated the error, if any.
func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("%s: %s", err.kind, err.message)
	}
	return fmt.Sprintf("%s: %s (%s)", err.kind, err.message, strings.Join(err.deco, " <- "))
}

//Kind returns the kind of the error.
func (err *Error) Kind() Kind { return err.kind }

//Message returns the message of the error, without kind or decorations.
func (err *Error) Message() string { return err.message }

//Decorate adds dec to the decoration slice of the error, and returns the resulting slice.
//If dec is empty, it just returns the current decorations.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err *Error) Critical() bool { return err.critical }

//Decorate adds caller to the decorations of err if it is an error from this module.
//Other errors (for instance, those coming from a System implementation) are returned
//unchanged.
func Decorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var k Kinder
	if errors.As(err, &k) {
		k.Decorate(caller)
	}
	return err
}

//Is returns true if err, or any error it wraps, is a chemrep error of the given kind.
func Is(err error, kind Kind) bool {
	var k Kinder
	if errors.As(err, &k) {
		return k.Kind() == kind
	}
	return false
}
