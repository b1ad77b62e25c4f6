/*
 * trace.go, part of gocenter.
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
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Trace records, for every written frame, the pre-transform circular-mean
//center of the reference selection along each enabled axis. Plotting it
//shows how much the reference drifted through the box before centering,
//which is the usual sanity check after a run. A Trace is purely
//observational: it never changes what the pipeline emits.
type Trace struct {
	dims    [3]bool
	times   []float64
	centers [3][]float64
}

//NewTrace returns an empty Trace. Attach it to a pipeline with SetTrace,
//which also tells it which axes are enabled.
func NewTrace() *Trace {
	return new(Trace)
}

func (T *Trace) add(time float64, cen [3]float64) {
	T.times = append(T.times, time)
	for axis := 0; axis < 3; axis++ {
		if T.dims[axis] {
			T.centers[axis] = append(T.centers[axis], cen[axis])
		}
	}
}

//Frames returns the number of recorded frames.
func (T *Trace) Frames() int {
	return len(T.times)
}

//Plot renders the recorded centers against simulation time, one line per
//enabled axis, and saves the result to filename (the format follows the
//extension, e.g. .png or .svg).
func (T *Trace) Plot(filename string) error {
	p := plot.New()
	p.Title.Text = "Reference center before centering"
	p.X.Label.Text = "time (ps)"
	p.Y.Label.Text = "center"
	p.Add(plotter.NewGrid())
	names := [3]string{"x", "y", "z"}
	colors := [3]color.RGBA{
		{R: 255, A: 255},
		{G: 170, A: 255},
		{B: 255, A: 255},
	}
	for axis := 0; axis < 3; axis++ {
		if !T.dims[axis] {
			continue
		}
		pts := make(plotter.XYs, len(T.times))
		for i, t := range T.times {
			pts[i].X = t
			pts[i].Y = T.centers[axis][i]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = colors[axis]
		p.Add(l)
		p.Legend.Add(names[axis], l)
	}
	return p.Save(5*vg.Inch, 4*vg.Inch, filename)
}
