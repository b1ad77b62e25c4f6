//Package cfg reads and validates the configuration file of the gocenter
//command. The file is YAML; every value of the centering run (inputs,
//output, reference selections, axes, weighting, wrap mode, time window and
//stride) is given there, so the command line itself only carries the path
//to the configuration.
package cfg

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	center "github.com/rmera/gocenter"
)

//Cfg is a structure containing the parameters specified in the
//configuration file. It can be instanced through the New function or by
//"hand". If it is instanced by hand, please use the Check method to check
//that the Cfg meets the requirements.
type Cfg struct {
	//Trajs are the input trajectory files, processed in the given order as
	//one concatenated trajectory. A structure-only run uses a single
	//one-frame file.
	Trajs []string `yaml:"trajs"`

	//Output is the file the centered trajectory is written to.
	Output string `yaml:"output"`

	//Reference is the default selection to center: 0-based atom indexes.
	//An empty list selects all atoms.
	Reference []int `yaml:"reference"`

	//XRef, YRef and ZRef override the reference for a single axis each.
	XRef []int `yaml:"xref"`
	YRef []int `yaml:"yref"`
	ZRef []int `yaml:"zref"`

	//Dims names the axes to center, e.g. "xz". Empty means all three.
	Dims string `yaml:"dims"`

	//COM requests mass-weighted centering (center of mass instead of
	//center of geometry). It needs Masses or Symbols.
	COM bool `yaml:"com"`

	//Masses is an explicit per-atom mass column.
	Masses []float64 `yaml:"masses"`

	//Symbols are per-atom element symbols; masses are guessed from them
	//when Masses is not given.
	Symbols []string `yaml:"symbols"`

	//Whole requests whole-molecule wrapping. It needs Molecules or Bonds.
	Whole bool `yaml:"whole"`

	//Molecules is an explicit partition of the atoms into molecules.
	Molecules [][]int `yaml:"molecules"`

	//Bonds is a bond list from which molecules are derived as connected
	//components, when Molecules is not given.
	Bonds [][2]int `yaml:"bonds"`

	//Begin and End delimit the time window in ps. A nil End means
	//unbounded.
	Begin float64  `yaml:"begin"`
	End   *float64 `yaml:"end"`

	//Stride keeps only every Stride-th frame of the filtered stream.
	//Zero is treated as the default, 1.
	Stride int `yaml:"stride"`

	//Trace, if non-empty, is the file the reference-center diagnostic plot
	//is saved to after the run.
	Trace string `yaml:"trace"`
}

//New reads and validates a configuration file.
func New(path string) (*Cfg, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := new(Cfg)
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("cfg: %w", err)
	}
	if c.Stride == 0 {
		c.Stride = 1
	}
	if c.Dims == "" {
		c.Dims = "xyz"
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return c, nil
}

//Check verifies that the configuration is complete and consistent. It
//covers everything that can be rejected before any trajectory I/O: missing
//files and selections are only detected later, when the run is set up.
func (c *Cfg) Check() error {
	if len(c.Trajs) == 0 {
		return fmt.Errorf("cfg: no input trajectories given")
	}
	if c.Output == "" {
		return fmt.Errorf("cfg: no output file given")
	}
	for _, t := range c.Trajs {
		if t == c.Output {
			return fmt.Errorf("cfg: output %s matches an input file", c.Output)
		}
	}
	if c.Stride < 1 {
		return fmt.Errorf("cfg: stride must be positive, got %d", c.Stride)
	}
	if _, err := c.DimsArray(); err != nil {
		return err
	}
	if c.End != nil && *c.End < c.Begin {
		return fmt.Errorf("cfg: end time %.3f before begin time %.3f", *c.End, c.Begin)
	}
	if c.COM && len(c.Masses) == 0 && len(c.Symbols) == 0 {
		return fmt.Errorf("cfg: %s", center.MissingMass)
	}
	if c.Whole && len(c.Molecules) == 0 && len(c.Bonds) == 0 {
		return fmt.Errorf("cfg: %s", center.MissingConnectivity)
	}
	return nil
}

//DimsArray returns the enabled axes as the [x,y,z] flags used by the center
//package.
func (c *Cfg) DimsArray() ([3]bool, error) {
	var dims [3]bool
	for _, r := range c.Dims {
		i := strings.IndexRune("xyz", r)
		if i < 0 || dims[i] {
			return dims, fmt.Errorf("cfg: bad dims %q: want a subset of \"xyz\"", c.Dims)
		}
		dims[i] = true
	}
	return dims, nil
}

//BuildReference returns the center.Reference described by the
//configuration, for a system of natoms atoms. An empty reference selection
//means every atom.
func (c *Cfg) BuildReference(natoms int) *center.Reference {
	def := c.Reference
	if len(def) == 0 {
		def = make([]int, natoms)
		for i := range def {
			def[i] = i
		}
	}
	return &center.Reference{Default: def, X: c.XRef, Y: c.YRef, Z: c.ZRef}
}

//BuildMasses returns the mass column to weight the centering with, or nil
//for geometric centering.
func (c *Cfg) BuildMasses() ([]float64, error) {
	if !c.COM {
		return nil, nil
	}
	if len(c.Masses) > 0 {
		return c.Masses, nil
	}
	return center.GuessMasses(c.Symbols)
}

//BuildPartition returns the molecule partition for whole-molecule runs, or
//nil when per-atom wrapping was requested.
func (c *Cfg) BuildPartition(natoms int) (*center.Partition, error) {
	if !c.Whole {
		return nil, nil
	}
	if len(c.Molecules) > 0 {
		return center.NewPartition(c.Molecules, natoms)
	}
	return center.PartitionFromBonds(natoms, c.Bonds)
}

//EndTime returns the end of the time window, +Inf when unbounded.
func (c *Cfg) EndTime() float64 {
	if c.End == nil {
		return math.Inf(1)
	}
	return *c.End
}
