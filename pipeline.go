/*
 * pipeline.go, part of gocenter.
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

//Stats reports what a pipeline run did: frames read from all sources,
//frames written after centering, and frames skipped by the boundary
//deduplication, the time window or the stride filter.
type Stats struct {
	Read    int
	Written int
	Skipped int
}

//Pipeline streams frames from one or more concatenated trajectory sources
//through the centering transform into a sink. It filters by time window and
//stride, and suppresses the duplicate frame that appears at the boundary
//between two concatenated files written by a restarted simulation.
//
//The zero value is not usable; NewPipeline sets the defaults (all frames,
//stride 1, per-atom wrapping).
type Pipeline struct {
	Cent   *Centerer
	Mode   WrapMode
	Part   *Partition //only used with WrapWhole
	Begin  float64    //ps
	End    float64    //ps; math.Inf(1) means unbounded
	Stride int
	trace  *Trace
}

//NewPipeline returns a Pipeline around the given Centerer with an unbounded
//time window, stride 1 and per-atom wrapping. The remaining fields can be
//set directly before calling Run.
func NewPipeline(cent *Centerer) *Pipeline {
	return &Pipeline{Cent: cent, End: math.Inf(1), Stride: 1}
}

//SetTrace attaches a Trace that will record the pre-transform center of the
//reference selection for every written frame.
func (P *Pipeline) SetTrace(t *Trace) {
	t.dims = P.Cent.Dims()
	P.trace = t
}

//check validates the whole run configuration before any frame is
//transformed.
func (P *Pipeline) check(natoms int) error {
	if P.Cent == nil {
		return CError{"Nil Centerer given", []string{"Pipeline.check"}}
	}
	if P.Stride < 1 {
		return CError{fmt.Sprintf("Stride must be positive, got %d", P.Stride), []string{"Pipeline.check"}}
	}
	if math.IsNaN(P.Begin) || math.IsNaN(P.End) || P.End < P.Begin {
		return CError{fmt.Sprintf("Bad time window: %.3f to %.3f ps", P.Begin, P.End), []string{"Pipeline.check"}}
	}
	if P.Mode == WrapWhole {
		if P.Part == nil {
			return CError{MissingConnectivity, []string{"Pipeline.check"}}
		}
		if P.Part.Len() != natoms {
			return CError{fmt.Sprintf("Partition covers %d atoms but frames have %d", P.Part.Len(), natoms), []string{"Pipeline.check"}}
		}
	}
	if err := P.Cent.Check(natoms); err != nil {
		return errDecorate(err, "Pipeline.check")
	}
	return nil
}

//Run streams every frame of the given sources, in order, through the
//centering transform and into out. Sources are read once, sequentially;
//only one frame is live at a time, so memory stays bounded regardless of
//trajectory length. Output order is exactly the filtered input order.
//
//Run takes ownership of the sources and the sink: all of them are closed
//before it returns, on every path, including early termination at the end
//of the time window and errors. Any error is fatal for the run; frames are
//never silently dropped or retried, and no partially transformed frame is
//ever written.
func (P *Pipeline) Run(sources []Source, out Sink) (*Stats, error) {
	st := new(Stats)
	defer func() {
		for _, s := range sources {
			s.Close()
		}
		if out != nil {
			out.Close()
		}
	}()
	if len(sources) == 0 {
		return st, CError{"No trajectory sources given", []string{"Pipeline.Run"}}
	}
	if out == nil {
		return st, CError{"Nil sink given", []string{"Pipeline.Run"}}
	}
	natoms := sources[0].Len()
	for n, s := range sources {
		if s.Len() != natoms {
			return st, CError{fmt.Sprintf("Source %d has %d atoms per frame, the first has %d", n, s.Len(), natoms), []string{"Pipeline.Run"}}
		}
	}
	if err := P.check(natoms); err != nil {
		return st, errDecorate(err, "Pipeline.Run")
	}
	coords := v3.Zeros(natoms)
	info := new(FrameInfo)
	kept := 0 //index over frames surviving dedup and the time window, for the stride filter
	var lastStep int
	var haveLast bool
	for nsrc, src := range sources {
		first := true
		for {
			err := src.Next(coords, info)
			if err != nil {
				if _, ok := err.(LastFrameError); ok {
					break
				}
				return st, CError{fmt.Sprintf("Reading frame %d: %s", st.Read, err.Error()), []string{"Pipeline.Run"}}
			}
			st.Read++
			//The first frame of every source after the first may repeat the
			//last frame of the previous file (a simulation restarted from
			//its final step). That frame has already been centered and
			//written, so it is dropped here.
			dup := first && nsrc > 0 && haveLast && info.Step == lastStep
			first = false
			lastStep = info.Step
			haveLast = true
			if dup || info.Time < P.Begin {
				st.Skipped++
				continue
			}
			if info.Time > P.End {
				//end of the requested window: the whole run stops, even if
				//more sources remain.
				return st, nil
			}
			keep := kept%P.Stride == 0
			kept++
			if !keep {
				st.Skipped++
				continue
			}
			if info.Box == nil {
				return st, CError{fmt.Sprintf("Frame %d (step %d) carries no box", st.Read-1, info.Step), []string{"Pipeline.Run"}}
			}
			cen, err := P.Cent.Centers(coords, info.Box)
			if err != nil {
				return st, CError{fmt.Sprintf("Frame %d (%.3f ps): %s", st.Read-1, info.Time, err.Error()), []string{"Pipeline.Run"}}
			}
			var trans [3]float64
			for axis, on := range P.Cent.Dims() {
				if on {
					trans[axis] = info.Box.Mid(axis) - cen[axis]
				}
			}
			Translate(coords, trans)
			if P.Mode == WrapWhole {
				if err := WrapMolecules(coords, info.Box, P.Part); err != nil {
					return st, errDecorate(err, "Pipeline.Run")
				}
			} else {
				WrapAtoms(coords, info.Box)
			}
			if err := out.WNext(coords, info); err != nil {
				return st, CError{fmt.Sprintf("Writing frame %d (%.3f ps): %s", st.Read-1, info.Time, err.Error()), []string{"Pipeline.Run"}}
			}
			if P.trace != nil {
				P.trace.add(info.Time, cen)
			}
			st.Written++
		}
	}
	return st, nil
}
