/*
 * interfaces.go, part of gocenter.
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

import v3 "github.com/rmera/gocenter/v3"

//FrameInfo carries the metadata of one trajectory frame: the simulation
//box, the simulation time in ps and the simulation step. A Source fills it
//on every call to Next; the Box may be left nil if the frame carries no box
//information, in which case the frame cannot be centered.
type FrameInfo struct {
	Box  *Box
	Time float64
	Step int
}

//Source is the interface for anything that produces a finite, forward-only
//sequence of trajectory frames. A Source is consumed once and is not
//restartable. The normal end of the sequence is signaled by returning an
//error that implements LastFrameError.
type Source interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into c, which must have room for Len()
	//atoms, and fills info with the frame's box, time and step. If c is
	//nil the frame is read and discarded. info may be nil.
	Next(c *v3.Matrix, info *FrameInfo) error

	//Returns the number of atoms per frame
	Len() int

	//Close closes the trajectory. The Source cannot be used afterwards.
	Close()
}

//Sink is the interface for anything that persists transformed frames, in
//the order they are given.
type Sink interface {

	//WNext writes the next frame.
	WNext(c *v3.Matrix, info *FrameInfo) error

	//Close closes the sink, flushing any buffered data.
	Close()
}

//Masser can return a slice with the masses of each atom in the system.
type Masser interface {

	//Returns a column with the massess of all atoms
	Masses() ([]float64, error)
}

//Resolver turns a selection expression, or the name of an index group, into
//a list of atom indexes. The selection language itself is not part of this
//package; implementations live with whatever topology format provides them.
type Resolver interface {

	//Resolve returns the 0-based, duplicate-free atom indexes selected by
	//the given expression, or an error if the expression is malformed,
	//names an unknown group, or selects nothing.
	Resolve(expression string) ([]int, error)
}

//Errors

//Error is the interface for errors that all packages in this module
//implement. The Decorate method allows to add and retrieve info from the
//error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Decorate adds the given string (normally the caller's name) to the error's decoration slice, and returns the slice. An empty string adds nothing.
}

//TrajError is the interface for errors in trajectory sources and sinks.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

//LastFrameError has a useless function to distinguish the harmless errors
//(i.e. last frame) so they can be filtered in a typeswitch that looks for
//this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
