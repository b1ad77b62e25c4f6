/*
 * doc.go, part of gocenter.
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

//Package center repositions a selected group of atoms in a molecular
//dynamics trajectory so that the group's geometric or mass-weighted center
//sits at the center of the simulation box. The center of a group is computed
//with the Bai & Breen circular-mean algorithm, which remains correct when
//the group straddles a periodic boundary. The package also provides a
//streaming pipeline that applies the centering transform across one or more
//concatenated trajectory files, with time-window and stride filtering and
//deduplication of repeated frames at file boundaries.
//
//Only orthogonal (rectangular, axis-aligned) simulation boxes are supported.
//Coordinates are handled as gocenter/v3 matrices, one row per atom.
package center
