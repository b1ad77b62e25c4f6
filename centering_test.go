/*
 * centering_test.go, part of gocenter.
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
 */

package center

import (
	"fmt"
	"math"
	"testing"

	v3 "github.com/rmera/gocenter/v3"
)

//coordsAlongX builds a one-atom-per-value matrix with the given x
//coordinates and constant y, z.
func coordsAlongX(xs []float64, y, z float64) *v3.Matrix {
	data := make([]float64, 0, 3*len(xs))
	for _, x := range xs {
		data = append(data, x, y, z)
	}
	m, err := v3.NewMatrix(data)
	if err != nil {
		panic(err.Error())
	}
	return m
}

func seq(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

//For a group that does not straddle the boundary, the circular mean must
//match the arithmetic mean.
func TestCircularMeanPlain(Te *testing.T) {
	coords := coordsAlongX([]float64{2, 3, 4}, 1, 1)
	c, err := CircularMean(coords, seq(3), nil, 0, 10)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(c-3) > 1e-9 {
		Te.Errorf("Circular mean of {2,3,4} in L=10: got %g, want 3", c)
	}
	//a tight off-center cluster, compared against the weighted arithmetic mean
	xs := []float64{70.0, 70.1, 70.3}
	ws := []float64{1, 2, 16}
	coords = coordsAlongX(xs, 0, 0)
	var wsum, xsum float64
	for i, x := range xs {
		xsum += ws[i] * x
		wsum += ws[i]
	}
	c, err = CircularMean(coords, seq(3), ws, 0, 100)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(c-xsum/wsum) > 1e-3 {
		Te.Errorf("Weighted circular mean: got %g, want about %g", c, xsum/wsum)
	}
	fmt.Println("Plain and weighted circular means agree with arithmetic means")
}

//The defining property of the algorithm: a group split across the periodic
//boundary centers at the boundary, not at the middle of the box.
func TestCircularMeanSplit(Te *testing.T) {
	coords := coordsAlongX([]float64{9.9, 0.1}, 5, 5)
	c, err := CircularMean(coords, seq(2), nil, 0, 10)
	if err != nil {
		Te.Fatal(err)
	}
	distToBoundary := math.Min(c, 10-c)
	if distToBoundary > 1e-8 {
		Te.Errorf("Split group centered at %g, want the boundary (0 or 10)", c)
	}
	if math.Abs(c-5) < 1 {
		Te.Error("Split group centered like a naive mean")
	}
}

//A perfectly balanced group has an ill-defined center; the documented
//convention is the box midpoint.
func TestCircularMeanBalanced(Te *testing.T) {
	for _, xs := range [][]float64{{0, 5}, {2.5, 7.5}, {0, 2.5, 5, 7.5}} {
		coords := coordsAlongX(xs, 0, 0)
		c, err := CircularMean(coords, seq(len(xs)), nil, 0, 10)
		if err != nil {
			Te.Fatal(err)
		}
		if c != 5 {
			Te.Errorf("Balanced group %v centered at %g, want 5", xs, c)
		}
	}
}

func TestCircularMeanErrors(Te *testing.T) {
	coords := coordsAlongX([]float64{1, 2}, 0, 0)
	if _, err := CircularMean(coords, nil, nil, 0, 10); err == nil {
		Te.Error("Empty selection was accepted")
	}
	if _, err := CircularMean(coords, seq(2), []float64{0, 0}, 0, 10); err == nil {
		Te.Error("Zero total weight was accepted")
	}
	bad := coordsAlongX([]float64{1, math.NaN()}, 0, 0)
	if _, err := CircularMean(bad, seq(2), nil, 0, 10); err == nil {
		Te.Error("Non-finite coordinate was accepted")
	}
}

//A per-axis reference override must govern only its own axis.
func TestTranslationOverrides(Te *testing.T) {
	//atoms 0,1 cluster at x=2, y=2; atoms 2,3 at x=8, y=8
	data := []float64{
		1.9, 2.1, 5,
		2.1, 1.9, 5,
		7.9, 8.1, 5,
		8.1, 7.9, 5,
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		Te.Fatal(err)
	}
	box, err := NewBox(10, 10, 10)
	if err != nil {
		Te.Fatal(err)
	}
	ref := &Reference{Default: []int{0, 1}, X: []int{2, 3}}
	cent, err := NewCenterer(ref, [3]bool{true, true, false}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if err := cent.Check(coords.NVecs()); err != nil {
		Te.Fatal(err)
	}
	trans, err := cent.Translation(coords, box)
	if err != nil {
		Te.Fatal(err)
	}
	//x follows the override (center 8), y the default (center 2), z is disabled
	if math.Abs(trans[0]-(5-8)) > 1e-9 {
		Te.Errorf("x translation %g, want -3", trans[0])
	}
	if math.Abs(trans[1]-(5-2)) > 1e-9 {
		Te.Errorf("y translation %g, want 3", trans[1])
	}
	if trans[2] != 0 {
		Te.Errorf("Disabled axis got translation %g", trans[2])
	}
}

func TestCentererCheck(Te *testing.T) {
	ref := &Reference{Default: []int{0, 1, 5}}
	cent, err := NewCenterer(ref, [3]bool{}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if d := cent.Dims(); !d[0] || !d[1] || !d[2] {
		Te.Error("No requested axes should enable all three")
	}
	if err := cent.Check(4); err == nil {
		Te.Error("Out-of-range selection was accepted")
	}
	if err := cent.Check(6); err != nil {
		Te.Error(err)
	}
	//repeated index
	bad, _ := NewCenterer(&Reference{Default: []int{0, 0}}, [3]bool{}, nil)
	if err := bad.Check(4); err == nil {
		Te.Error("Repeated index was accepted")
	}
	//mass weighting needs positive finite masses for the active selections
	mw, _ := NewCenterer(ref, [3]bool{}, []float64{1, 0, 1, 1, 1, 1})
	if err := mw.Check(6); err == nil {
		Te.Error("Zero mass in an active selection was accepted")
	}
	mw, _ = NewCenterer(ref, [3]bool{}, []float64{12, 1, 16, 1, 1, 14})
	if err := mw.Check(6); err != nil {
		Te.Error(err)
	}
}

func TestGuessMasses(Te *testing.T) {
	m, err := GuessMasses([]string{"C", "H", "O"})
	if err != nil {
		Te.Fatal(err)
	}
	if m[0] != 12.01 || m[1] != 1.0 || m[2] != 16.00 {
		Te.Errorf("Wrong guessed masses: %v", m)
	}
	if _, err := GuessMasses([]string{"C", "Xx"}); err == nil {
		Te.Error("Unknown element was accepted")
	}
}
