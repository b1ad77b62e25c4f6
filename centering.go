/*
 * centering.go, part of gocenter.
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

import (
	"fmt"
	"math"

	v3 "github.com/rmera/gocenter/v3"
)

//degenEpsilon bounds the normalized sine/cosine sums below which a group
//counts as perfectly balanced around the periodic axis.
const degenEpsilon = 1e-12

//CircularMean returns the center of the atoms listed in indexes along the
//given axis (0, 1 or 2), for a periodic axis of the given length, using the
//Bai & Breen circular-mean algorithm: each coordinate is mapped to an angle
//on a circle of circumference length, the weighted mean of the sines and
//cosines is accumulated, and the mean angle is mapped back to a coordinate.
//This gives the correct center even when the group straddles the periodic
//boundary, where the arithmetic mean would land on the far side of the box.
//
//weights is a per-atom column for the whole system (indexed by atom index);
//a nil weights means unit weights, i.e. the center of geometry. The returned
//center is always in [0, length).
//
//When the group is perfectly balanced around the circle the sine and cosine
//sums both vanish and the mean angle is ill-defined. The convention here is
//that of math.Atan2(0, 0) == 0: such a group centers at length/2. The case
//is detected explicitly (resultant below degenEpsilon) rather than left to
//atan2 on floating-point dust, whose sign would make the answer flip
//between 0 and length/2 from rounding alone. Pinned by the package tests.
func CircularMean(coords *v3.Matrix, indexes []int, weights []float64, axis int, length float64) (float64, error) {
	if len(indexes) == 0 {
		return 0, CError{EmptySelection, []string{"CircularMean"}}
	}
	var s, c, w float64
	for _, i := range indexes {
		x := coords.At(i, axis)
		wi := 1.0
		if weights != nil {
			wi = weights[i]
		}
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(wi) || math.IsInf(wi, 0) {
			return 0, CError{fmt.Sprintf("%s: atom %d, axis %d", NonFinite, i, axis), []string{"CircularMean"}}
		}
		theta := 2 * math.Pi * x / length
		s += wi * math.Sin(theta)
		c += wi * math.Cos(theta)
		w += wi
	}
	if w == 0 {
		return 0, CError{EmptySelection, []string{"CircularMean"}}
	}
	ns, nc := -s/w, -c/w
	if math.Abs(ns) < degenEpsilon && math.Abs(nc) < degenEpsilon {
		//ill-defined mean angle, see above.
		return Wrap(length/2, length), nil
	}
	mean := math.Atan2(ns, nc) + math.Pi
	return Wrap(length*mean/(2*math.Pi), length), nil
}

//Reference holds the selections that define the center of the system: a
//default selection, used for every centered axis, plus an optional override
//per axis. An override governs only the center computation for its own axis;
//axes without one keep using the default.
type Reference struct {
	Default []int
	X       []int
	Y       []int
	Z       []int
}

//ForAxis returns the effective selection for the given axis.
func (R *Reference) ForAxis(axis int) []int {
	var over []int
	switch axis {
	case 0:
		over = R.X
	case 1:
		over = R.Y
	case 2:
		over = R.Z
	default:
		panic(fmt.Sprintf("gocenter: no axis %d", axis))
	}
	if over != nil {
		return over
	}
	return R.Default
}

//checkSelection verifies that a selection is non-empty, in range and
//duplicate-free.
func checkSelection(sel []int, natoms int, name string) error {
	if len(sel) == 0 {
		return CError{fmt.Sprintf("%s (%s)", EmptySelection, name), []string{"checkSelection"}}
	}
	seen := make(map[int]bool, len(sel))
	for _, i := range sel {
		if i < 0 || i >= natoms || seen[i] {
			return CError{fmt.Sprintf("%s (%s, atom %d of %d)", InvalidSelection, name, i, natoms), []string{"checkSelection"}}
		}
		seen[i] = true
	}
	return nil
}

//Check verifies the Reference against the number of atoms in the system.
//Overrides are only checked if present.
func (R *Reference) Check(natoms int) error {
	if err := checkSelection(R.Default, natoms, "default"); err != nil {
		return errDecorate(err, "Reference.Check")
	}
	for axis, sel := range [3][]int{R.X, R.Y, R.Z} {
		if sel == nil {
			continue
		}
		name := string("xyz"[axis])
		if err := checkSelection(sel, natoms, name); err != nil {
			return errDecorate(err, "Reference.Check")
		}
	}
	return nil
}

//Centerer computes, per frame, the translation that brings the reference
//selection's circular-mean center to the middle of the box, for every
//enabled axis. It is read-only after construction, so one Centerer serves a
//whole trajectory run.
type Centerer struct {
	ref    *Reference
	dims   [3]bool
	masses []float64 //nil means geometric (unit) weights
}

//NewCenterer returns a Centerer for the given reference, enabled axes and
//weighting. If no axis is enabled, all three are, which is the default
//behavior of the command surface. A nil masses column means center of
//geometry; otherwise masses must hold one value per atom of the system and
//the Centerer computes centers of mass.
func NewCenterer(ref *Reference, dims [3]bool, masses []float64) (*Centerer, error) {
	if ref == nil {
		return nil, CError{"Nil reference given", []string{"NewCenterer"}}
	}
	if !dims[0] && !dims[1] && !dims[2] {
		dims = [3]bool{true, true, true}
	}
	return &Centerer{ref: ref, dims: dims, masses: masses}, nil
}

//Dims returns the enabled axes.
func (C *Centerer) Dims() [3]bool {
	return C.dims
}

//Check validates the Centerer against the number of atoms in the system:
//the reference selections must be well-formed, and, if mass weighting is
//requested, every atom of every active selection must have a finite,
//strictly positive mass. A zero or negative mass is an error rather than a
//silent zero weight, which would skew the center.
func (C *Centerer) Check(natoms int) error {
	if err := C.ref.Check(natoms); err != nil {
		return errDecorate(err, "Centerer.Check")
	}
	if C.masses == nil {
		return nil
	}
	if len(C.masses) != natoms {
		return CError{fmt.Sprintf("%s: %d masses for %d atoms", MissingMass, len(C.masses), natoms), []string{"Centerer.Check"}}
	}
	for axis := 0; axis < 3; axis++ {
		if !C.dims[axis] {
			continue
		}
		for _, i := range C.ref.ForAxis(axis) {
			m := C.masses[i]
			if !(m > 0) || math.IsInf(m, 0) || math.IsNaN(m) {
				return CError{fmt.Sprintf("%s: atom %d has mass %v", MissingMass, i, m), []string{"Centerer.Check"}}
			}
		}
	}
	return nil
}

//Centers returns the circular-mean center of the effective reference
//selection along each enabled axis. Disabled axes are left at zero.
func (C *Centerer) Centers(coords *v3.Matrix, box *Box) ([3]float64, error) {
	var cen [3]float64
	for axis := 0; axis < 3; axis++ {
		if !C.dims[axis] {
			continue
		}
		c, err := CircularMean(coords, C.ref.ForAxis(axis), C.masses, axis, box.Length(axis))
		if err != nil {
			return cen, errDecorate(err, "Centers")
		}
		cen[axis] = c
	}
	return cen, nil
}

//Translation returns the per-axis translation that moves the reference
//center to the box midpoint. Disabled axes get a zero translation. Since the
//circular-mean center lies in [0, L) and the target is L/2, the translation
//magnitude never exceeds half a box length, so translating and then
//wrapping moves no atom by more than one box length.
func (C *Centerer) Translation(coords *v3.Matrix, box *Box) ([3]float64, error) {
	cen, err := C.Centers(coords, box)
	if err != nil {
		return [3]float64{}, errDecorate(err, "Translation")
	}
	var t [3]float64
	for axis := 0; axis < 3; axis++ {
		if C.dims[axis] {
			t[axis] = box.Mid(axis) - cen[axis]
		}
	}
	return t, nil
}
