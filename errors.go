/*
 * errors.go, part of gocenter.
 *
 * Copyright 2023 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package center

//Messages for the error conditions detected by this package. They appear
//verbatim in the corresponding CError, possibly with extra context appended.
const (
	EmptySelection      = "Selection contains no atoms, or its total weight is zero"
	InvalidSelection    = "Selection contains out-of-range or repeated atom indexes"
	MissingMass         = "Mass-weighted centering requested, but masses are not available"
	MissingConnectivity = "Whole-molecule wrapping requested without a molecule partition"
	NotOrthogonal       = "Simulation box is not orthogonal; this is not supported"
	BoxNotValid         = "Simulation box has non-positive dimensions"
	NonFinite           = "Non-finite coordinate or weight"
)

//CError is the concrete error type of the package. It implements
//center.Error.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

//Decorate adds new information to the error.
func (err CError) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//errDecorate asserts that err implements center.Error and decorates it with
//the caller's name before returning it. Calling it on any other error type
//is a programming mistake and panics.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
