package cfg

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCfg(Te *testing.T, text string) string {
	name := filepath.Join(Te.TempDir(), "center.yaml")
	if err := os.WriteFile(name, []byte(text), 0644); err != nil {
		Te.Fatal(err)
	}
	return name
}

func TestNewDefaults(Te *testing.T) {
	c, err := New(writeCfg(Te, `
trajs: [a.ztf, b.ztf]
output: centered.ztf
`))
	if err != nil {
		Te.Fatal(err)
	}
	if c.Stride != 1 {
		Te.Errorf("Default stride is %d, want 1", c.Stride)
	}
	if c.Dims != "xyz" {
		Te.Errorf("Default dims is %q, want xyz", c.Dims)
	}
	if !math.IsInf(c.EndTime(), 1) {
		Te.Errorf("Default end time is %v, want +Inf", c.EndTime())
	}
	dims, err := c.DimsArray()
	if err != nil {
		Te.Fatal(err)
	}
	if dims != [3]bool{true, true, true} {
		Te.Errorf("Default axes are %v, want all enabled", dims)
	}
	ref := c.BuildReference(3)
	if len(ref.Default) != 3 || ref.Default[2] != 2 {
		Te.Errorf("Empty reference should select every atom, got %v", ref.Default)
	}
	m, err := c.BuildMasses()
	if err != nil || m != nil {
		Te.Errorf("Geometric centering should carry no masses, got %v, %v", m, err)
	}
	p, err := c.BuildPartition(3)
	if err != nil || p != nil {
		Te.Errorf("Per-atom wrapping should carry no partition, got %v, %v", p, err)
	}
}

func TestNewFull(Te *testing.T) {
	c, err := New(writeCfg(Te, `
trajs: [a.ztf]
output: centered.ztf
reference: [0, 1]
xref: [2]
dims: xz
com: true
symbols: [O, H, H]
whole: true
bonds: [[0, 1], [0, 2]]
begin: 10
end: 50.5
stride: 2
trace: centers.png
`))
	if err != nil {
		Te.Fatal(err)
	}
	dims, err := c.DimsArray()
	if err != nil {
		Te.Fatal(err)
	}
	if dims != [3]bool{true, false, true} {
		Te.Errorf("dims xz parsed as %v", dims)
	}
	if c.EndTime() != 50.5 {
		Te.Errorf("End time parsed as %v", c.EndTime())
	}
	ref := c.BuildReference(3)
	if len(ref.Default) != 2 || len(ref.X) != 1 || ref.X[0] != 2 {
		Te.Errorf("Reference parsed as %+v", ref)
	}
	m, err := c.BuildMasses()
	if err != nil {
		Te.Fatal(err)
	}
	if len(m) != 3 || m[0] < m[1] {
		Te.Errorf("Water masses guessed as %v", m)
	}
	p, err := c.BuildPartition(3)
	if err != nil {
		Te.Fatal(err)
	}
	if p.Mols() != 1 || len(p.Mol(0)) != 3 {
		Te.Errorf("A single water should be one molecule, got %d", p.Mols())
	}
}

func TestCheckErrors(Te *testing.T) {
	bad := []string{
		"output: out.ztf\n", //no inputs
		"trajs: [a.ztf]\n",  //no output
		"trajs: [a.ztf]\noutput: a.ztf\n",                //output overwrites an input
		"trajs: [a.ztf]\noutput: o.ztf\nstride: -1\n",    //negative stride
		"trajs: [a.ztf]\noutput: o.ztf\ndims: xw\n",      //unknown axis
		"trajs: [a.ztf]\noutput: o.ztf\ndims: xx\n",      //repeated axis
		"trajs: [a.ztf]\noutput: o.ztf\nbegin: 50\nend: 10\n", //inverted window
		"trajs: [a.ztf]\noutput: o.ztf\ncom: true\n",     //COM without masses or symbols
		"trajs: [a.ztf]\noutput: o.ztf\nwhole: true\n",   //whole without connectivity
	}
	for _, text := range bad {
		if _, err := New(writeCfg(Te, text)); err == nil {
			Te.Errorf("Bad configuration was accepted:\n%s", text)
		}
	}
	if _, err := New(filepath.Join(Te.TempDir(), "nonexistent.yaml")); err == nil {
		Te.Error("A missing configuration file was accepted")
	}
}
