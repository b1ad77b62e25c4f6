/*
 * box.go, part of gocenter.
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
)

//boxEpsilon is the largest absolute value an off-diagonal box-vector
//component may have for the box to still count as orthogonal.
const boxEpsilon = 1e-8

//Box is an orthogonal simulation box: three positive edge lengths along the
//x, y and z axes. A Box is never mutated; trajectories under pressure
//coupling simply carry a new Box in every frame.
type Box struct {
	l [3]float64
}

//NewBox returns a Box with the given edge lengths. All lengths must be
//positive and finite.
func NewBox(lx, ly, lz float64) (*Box, error) {
	B := &Box{l: [3]float64{lx, ly, lz}}
	for _, v := range B.l {
		if !(v > 0) || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, CError{fmt.Sprintf("%s: %.3f %.3f %.3f", BoxNotValid, lx, ly, lz), []string{"NewBox"}}
		}
	}
	return B, nil
}

//BoxFromVectors builds a Box from the 9-element, row-major box-vector
//matrix carried by trajectory formats (vectors as rows). Any non-zero
//off-diagonal element means a triclinic box, which is rejected.
func BoxFromVectors(v []float64) (*Box, error) {
	if len(v) < 9 {
		return nil, CError{fmt.Sprintf("Expected 9 box-vector components, got %d", len(v)), []string{"BoxFromVectors"}}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i != j && math.Abs(v[3*i+j]) > boxEpsilon {
				return nil, CError{NotOrthogonal, []string{"BoxFromVectors"}}
			}
		}
	}
	B, err := NewBox(v[0], v[4], v[8])
	if err != nil {
		return nil, errDecorate(err, "BoxFromVectors")
	}
	return B, nil
}

//Length returns the edge length along the given axis (0, 1 or 2).
func (B *Box) Length(axis int) float64 {
	return B.l[axis]
}

//Mid returns the midpoint of the box along the given axis, which is the
//target point of the centering transform.
func (B *Box) Mid(axis int) float64 {
	return B.l[axis] / 2
}

//Vectors returns the box as a 9-element row-major box-vector matrix, for
//writing to trajectory formats.
func (B *Box) Vectors() []float64 {
	return []float64{B.l[0], 0, 0, 0, B.l[1], 0, 0, 0, B.l[2]}
}

//Wrap maps x into [0, l) under periodicity l. It is correct for arbitrarily
//negative or large x, not just coordinates one box length away.
func Wrap(x, l float64) float64 {
	w := math.Mod(x, l)
	if w < 0 {
		w += l
	}
	//math.Mod can return a negative value so small that adding l lands
	//exactly on l, which is outside the half-open interval.
	if w >= l {
		w = 0
	}
	return w
}

//Wrap maps x into [0, L) for the box length along the given axis.
func (B *Box) Wrap(x float64, axis int) float64 {
	return Wrap(x, B.l[axis])
}

//MinImageShift returns the integer number of box lengths that must be added
//to x so that the result lies in [0, l). Moving a whole molecule by this
//multiple of the box length, computed from a single anchor atom, keeps the
//molecule rigid.
func MinImageShift(x, l float64) int {
	n := -int(math.Floor(x / l))
	//the shifted value of a coordinate infinitesimally below a box face can
	//round to exactly l, past the half-open interval, like in Wrap.
	if x+float64(n)*l >= l {
		n--
	}
	return n
}
