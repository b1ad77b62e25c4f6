/*
 * transform_test.go, part of gocenter.
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

func TestWrapAtoms(Te *testing.T) {
	coords, err := v3.NewMatrix([]float64{
		-1, 11, 5,
		25, -0.1, 9.99,
	})
	if err != nil {
		Te.Fatal(err)
	}
	box, err := NewBox(10, 10, 10)
	if err != nil {
		Te.Fatal(err)
	}
	WrapAtoms(coords, box)
	for i := 0; i < coords.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			v := coords.At(i, j)
			if v < 0 || v >= 10 {
				Te.Errorf("Atom %d axis %d not wrapped: %g", i, j, v)
			}
		}
	}
	if math.Abs(coords.At(0, 0)-9) > 1e-12 {
		Te.Errorf("Wrong wrap: %g, want 9", coords.At(0, 0))
	}
}

//pairwise displacement vectors within a molecule must survive the transform
//exactly (up to rounding): the molecule moves as a rigid body.
func TestWholeMoleculeRigidity(Te *testing.T) {
	//a three-atom molecule dangling across the x boundary, plus a free atom
	data := []float64{
		9.5, 5, 5,
		10.2, 5.3, 5,
		10.9, 5.6, 5,
		2, 2, 2,
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		Te.Fatal(err)
	}
	box, err := NewBox(10, 10, 10)
	if err != nil {
		Te.Fatal(err)
	}
	part, err := NewPartition([][]int{{0, 1, 2}, {3}}, 4)
	if err != nil {
		Te.Fatal(err)
	}
	mol := []int{0, 1, 2}
	before := make([][3]float64, 0)
	for a := 0; a < len(mol); a++ {
		for b := a + 1; b < len(mol); b++ {
			var d [3]float64
			for j := 0; j < 3; j++ {
				d[j] = coords.At(mol[b], j) - coords.At(mol[a], j)
			}
			before = append(before, d)
		}
	}
	Translate(coords, [3]float64{-9.7, 1.1, 0})
	if err := WrapMolecules(coords, box, part); err != nil {
		Te.Fatal(err)
	}
	k := 0
	for a := 0; a < len(mol); a++ {
		for b := a + 1; b < len(mol); b++ {
			for j := 0; j < 3; j++ {
				d := coords.At(mol[b], j) - coords.At(mol[a], j)
				if math.Abs(d-before[k][j]) > 1e-9 {
					Te.Errorf("Molecule deformed: pair %d-%d axis %d was %g, now %g", mol[a], mol[b], j, before[k][j], d)
				}
			}
			k++
		}
	}
	//the anchor atom must be inside the box
	for j := 0; j < 3; j++ {
		v := coords.At(0, j)
		if v < 0 || v >= 10 {
			Te.Errorf("Anchor atom outside the box on axis %d: %g", j, v)
		}
	}
}

func TestWrapMoleculesNeedsPartition(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{1, 1, 1})
	box, _ := NewBox(10, 10, 10)
	if err := WrapMolecules(coords, box, nil); err == nil {
		Te.Error("Whole-molecule wrapping without a partition was accepted")
	}
}

//The scenario from the original tool: a 10-atom group straddling the x
//boundary of an L=10 box, centered along x only. Afterwards the group's
//circular-mean center must sit exactly on the box midpoint and every
//x coordinate must be inside the box.
func TestCenterFrameScenario(Te *testing.T) {
	xs := []float64{-1, -0.8, -0.6, -0.4, -0.2, 9.0, 9.2, 9.4, 9.6, 9.8}
	coords := coordsAlongX(xs, 5, 5)
	box, err := NewBox(10, 10, 10)
	if err != nil {
		Te.Fatal(err)
	}
	cent, err := NewCenterer(&Reference{Default: seq(10)}, [3]bool{true, false, false}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if err := CenterFrame(coords, box, cent, WrapPerAtom, nil); err != nil {
		Te.Fatal(err)
	}
	c, err := CircularMean(coords, seq(10), nil, 0, 10)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(c-5) > 1e-9 {
		Te.Errorf("Group centered at %g after the transform, want 5", c)
	}
	for i := 0; i < 10; i++ {
		if x := coords.At(i, 0); x < 0 || x >= 10 {
			Te.Errorf("Atom %d outside the box: %g", i, x)
		}
		if y := coords.At(i, 1); y != 5 {
			Te.Errorf("Atom %d moved along a disabled axis: %g", i, y)
		}
	}
	fmt.Println("Scenario group centered at", c)
}

func TestPartition(Te *testing.T) {
	if _, err := NewPartition([][]int{{0, 1}, {2}}, 4); err == nil {
		Te.Error("Partition not covering all atoms was accepted")
	}
	if _, err := NewPartition([][]int{{0, 1}, {1, 2, 3}}, 4); err == nil {
		Te.Error("Overlapping partition was accepted")
	}
	if _, err := NewPartition([][]int{{0, 1}, {}, {2, 3}}, 4); err == nil {
		Te.Error("Partition with an empty molecule was accepted")
	}
	p, err := NewPartition([][]int{{0, 1}, {2, 3}}, 4)
	if err != nil {
		Te.Fatal(err)
	}
	if p.Mols() != 2 || p.Len() != 4 {
		Te.Errorf("Wrong partition shape: %d molecules, %d atoms", p.Mols(), p.Len())
	}
}

func TestPartitionFromBonds(Te *testing.T) {
	//water-like: two 3-atom molecules and a lone ion
	bonds := [][2]int{{0, 1}, {0, 2}, {4, 3}, {4, 5}}
	p, err := PartitionFromBonds(7, bonds)
	if err != nil {
		Te.Fatal(err)
	}
	if p.Mols() != 3 {
		Te.Fatalf("Got %d molecules, want 3", p.Mols())
	}
	want := [][]int{{0, 1, 2}, {3, 4, 5}, {6}}
	for m := 0; m < p.Mols(); m++ {
		mol := p.Mol(m)
		if len(mol) != len(want[m]) {
			Te.Fatalf("Molecule %d is %v, want %v", m, mol, want[m])
		}
		for i, a := range mol {
			if a != want[m][i] {
				Te.Errorf("Molecule %d is %v, want %v", m, mol, want[m])
				break
			}
		}
	}
	if _, err := PartitionFromBonds(3, [][2]int{{0, 5}}); err == nil {
		Te.Error("Bond to a non-existing atom was accepted")
	}
}
