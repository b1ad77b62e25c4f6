/*
 * molecules.go, part of gocenter.
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
	"sort"
)

//Partition divides the atoms of a system into disjoint, non-empty molecular
//units. It is built once, before streaming, and reused for every frame of a
//whole-molecule run. Atom indexes are referenced, never copied per frame, so
//the rigid-shift step allocates nothing.
type Partition struct {
	mols   [][]int
	natoms int
}

//NewPartition builds a Partition from explicit molecule index lists. The
//lists must be disjoint, non-empty, and together cover every atom index in
//[0, natoms).
func NewPartition(mols [][]int, natoms int) (*Partition, error) {
	seen := make([]bool, natoms)
	count := 0
	for m, mol := range mols {
		if len(mol) == 0 {
			return nil, CError{fmt.Sprintf("Molecule %d of the partition is empty", m), []string{"NewPartition"}}
		}
		for _, i := range mol {
			if i < 0 || i >= natoms {
				return nil, CError{fmt.Sprintf("Molecule %d contains the out-of-range atom %d", m, i), []string{"NewPartition"}}
			}
			if seen[i] {
				return nil, CError{fmt.Sprintf("Atom %d appears in more than one molecule", i), []string{"NewPartition"}}
			}
			seen[i] = true
			count++
		}
	}
	if count != natoms {
		return nil, CError{fmt.Sprintf("Partition covers %d of %d atoms", count, natoms), []string{"NewPartition"}}
	}
	return &Partition{mols: mols, natoms: natoms}, nil
}

//PartitionFromBonds builds a Partition by grouping atoms into the connected
//components of the given bond list. An atom with no bonds becomes a
//single-atom molecule. Molecules are ordered by their lowest atom index, and
//atoms within a molecule are sorted, so the first atom of each molecule is a
//stable anchor for the rigid shift.
func PartitionFromBonds(natoms int, bonds [][2]int) (*Partition, error) {
	parent := make([]int, natoms)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for b, bond := range bonds {
		i, j := bond[0], bond[1]
		if i < 0 || i >= natoms || j < 0 || j >= natoms {
			return nil, CError{fmt.Sprintf("Bond %d (%d-%d) references a non-existing atom", b, i, j), []string{"PartitionFromBonds"}}
		}
		parent[find(i)] = find(j)
	}
	groups := make(map[int][]int)
	for i := 0; i < natoms; i++ {
		r := find(i)
		groups[r] = append(groups[r], i)
	}
	mols := make([][]int, 0, len(groups))
	for _, mol := range groups {
		sort.Ints(mol)
		mols = append(mols, mol)
	}
	sort.Slice(mols, func(i, j int) bool { return mols[i][0] < mols[j][0] })
	return NewPartition(mols, natoms)
}

//Mols returns the number of molecules in the partition.
func (P *Partition) Mols() int {
	return len(P.mols)
}

//Mol returns the atom indexes of the ith molecule. The returned slice is
//owned by the Partition and must not be modified.
func (P *Partition) Mol(i int) []int {
	return P.mols[i]
}

//Len returns the number of atoms covered by the partition.
func (P *Partition) Len() int {
	return P.natoms
}
