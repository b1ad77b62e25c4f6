/*
 * transform.go, part of gocenter.
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
	v3 "github.com/rmera/gocenter/v3"
)

//WrapMode selects how atoms are put back into the primary box after the
//centering translation.
type WrapMode int

const (
	//WrapPerAtom wraps every atom independently. Molecules crossing a
	//boundary end up split between the two sides of the box.
	WrapPerAtom WrapMode = iota
	//WrapWhole moves every atom of a molecule by the same whole number of
	//box lengths, so molecules are never split. Requires a Partition.
	WrapWhole
)

//Translate adds the given per-axis offsets to the position of every atom in
//coords, in place.
func Translate(coords *v3.Matrix, trans [3]float64) {
	n := coords.NVecs()
	for axis := 0; axis < 3; axis++ {
		if trans[axis] == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			coords.Set(i, axis, coords.At(i, axis)+trans[axis])
		}
	}
}

//WrapAtoms wraps every atom position into [0, L) independently along each
//axis, in place.
func WrapAtoms(coords *v3.Matrix, box *Box) {
	n := coords.NVecs()
	for i := 0; i < n; i++ {
		for axis := 0; axis < 3; axis++ {
			coords.Set(i, axis, box.Wrap(coords.At(i, axis), axis))
		}
	}
}

//WrapMolecules wraps every molecule of the partition into the box as a
//rigid unit: per axis, the whole-box-length shift that brings the
//molecule's first atom into [0, L) is applied to all of its atoms. Atom
//positions within a molecule keep their exact relative displacements; a
//molecule whose anchor is inside the box is not touched at all.
func WrapMolecules(coords *v3.Matrix, box *Box, part *Partition) error {
	if part == nil {
		return CError{MissingConnectivity, []string{"WrapMolecules"}}
	}
	for m := 0; m < part.Mols(); m++ {
		mol := part.Mol(m)
		anchor := mol[0]
		for axis := 0; axis < 3; axis++ {
			n := MinImageShift(coords.At(anchor, axis), box.Length(axis))
			if n == 0 {
				continue
			}
			off := float64(n) * box.Length(axis)
			for _, i := range mol {
				coords.Set(i, axis, coords.At(i, axis)+off)
			}
		}
	}
	return nil
}

//CenterFrame applies the full per-frame transform to coords, in place: it
//computes the translation that centers the reference selection, translates
//every atom, and rewraps positions into the box according to mode. The
//frame's box, time and step are not touched. This is also the whole
//operation for a structure-only run, where the "trajectory" is a single
//frame.
func CenterFrame(coords *v3.Matrix, box *Box, cent *Centerer, mode WrapMode, part *Partition) error {
	trans, err := cent.Translation(coords, box)
	if err != nil {
		return errDecorate(err, "CenterFrame")
	}
	Translate(coords, trans)
	if mode == WrapWhole {
		if err := WrapMolecules(coords, box, part); err != nil {
			return errDecorate(err, "CenterFrame")
		}
		return nil
	}
	WrapAtoms(coords, box)
	return nil
}
