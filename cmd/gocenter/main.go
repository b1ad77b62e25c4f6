package main

import (
	"log"
	"os"

	center "github.com/rmera/gocenter"
	"github.com/rmera/gocenter/cfg"
	"github.com/rmera/gocenter/traj/ztf"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("The path of the configuration file must be specified in the arguments")
	}

	log.Printf("Reading configuration file `%s`\n", os.Args[1])
	c, err := cfg.New(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	sources := make([]center.Source, 0, len(c.Trajs))
	for _, t := range c.Trajs {
		r, _, err := ztf.New(t)
		if err != nil {
			for _, s := range sources {
				s.Close()
			}
			log.Fatal(err)
		}
		sources = append(sources, r)
	}
	natoms := sources[0].Len()

	masses, err := c.BuildMasses()
	if err != nil {
		log.Fatal(err)
	}
	dims, err := c.DimsArray()
	if err != nil {
		log.Fatal(err)
	}
	cent, err := center.NewCenterer(c.BuildReference(natoms), dims, masses)
	if err != nil {
		log.Fatal(err)
	}
	part, err := c.BuildPartition(natoms)
	if err != nil {
		log.Fatal(err)
	}

	out, err := ztf.NewWriter(c.Output, natoms, nil)
	if err != nil {
		log.Fatal(err)
	}

	pipe := center.NewPipeline(cent)
	pipe.Begin = c.Begin
	pipe.End = c.EndTime()
	pipe.Stride = c.Stride
	if c.Whole {
		pipe.Mode = center.WrapWhole
		pipe.Part = part
	}
	var trace *center.Trace
	if c.Trace != "" {
		trace = center.NewTrace()
		pipe.SetTrace(trace)
	}

	log.Println("Centering")
	st, err := pipe.Run(sources, out)
	if err != nil {
		log.Fatal(err)
	}
	if trace != nil {
		log.Printf("Plotting the reference center to `%s`\n", c.Trace)
		if err := trace.Plot(c.Trace); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("Done. %d frames read, %d written, %d skipped\n", st.Read, st.Written, st.Skipped)
}
