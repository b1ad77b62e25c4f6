//Package ztf reads and writes the ztf trajectory format: a line-oriented,
//compressed text format where every frame carries its own simulation time,
//step and box. The format exists so that centered trajectories can be
//streamed through a single pair of Source/Sink implementations without
//depending on any particular MD engine's binary format.
//
//Layout: any number of key=value header lines, a "** natoms" line, then,
//per frame, a "# time step" line, natoms lines of scaled-integer
//coordinates, and a "* v1 ... v9" line with the row-major box vectors.
//Coordinates are stored as integers scaled by 10^prec, with prec taken from
//the "prec" header key (default 2).
//
//The compression codec is chosen from the last letter of the filename:
//'z' means gzip, 'r' means flate, anything else (including the normal
//".ztf" extension) means zstd.
package ztf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	center "github.com/rmera/gocenter"
	v3 "github.com/rmera/gocenter/v3"
)

//Write!
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
}

//NewWriter creates a ztf file for writing frames of natoms atoms. The
//header map, if non-nil, is written as key=value lines before the atom
//count; the "prec" key also sets the coordinate precision. Only the first
//compressionLevel is used, and only by codecs that take a level.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*Writer, error) {
	level := 9
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	W := new(Writer)
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	zwriter := func(a io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(a, level)
	}
	gzipwriter := func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'z':
		AnyNewWriter = gzipwriter
	case 'r':
		AnyNewWriter = zwriter
	default:
		AnyNewWriter = zstdwriter
	}
	W.h, err = AnyNewWriter(W.f)
	if err != nil {
		W.f.Close()
		return nil, Error{"Can't set up compression: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	W.natoms = natoms
	W.filename = name
	W.writeable = true
	W.prec = 2 //the default
	if header != nil {
		if p, ok := header["prec"]; ok {
			prec, err := strconv.Atoi(p)
			if err == nil {
				W.prec = prec
			} else {
				log.Printf("Invalid precision for trajectory %s. Will use the default", W.filename)
			}
		}
		for k, v := range header {
			fmt.Fprintf(W.h, "%s=%v\n", k, v)
		}
	}
	fmt.Fprintf(W.h, "** %d\n", W.natoms)
	return W, nil
}

//Len returns the number of atoms per frame.
func (W *Writer) Len() int {
	return W.natoms
}

//WNext writes the next frame. info must carry at least the frame's time and
//step; if info.Box is nil the frame is written without box vectors, and will
//not be centerable when read back.
func (W *Writer) WNext(coord *v3.Matrix, info *center.FrameInfo) error {
	if !W.writeable {
		return Error{TrajUnIniWrite, W.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, W.filename, []string{"WNext"}, true}
	}
	if info == nil {
		return Error{NilInfo, W.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	if v != W.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, W.natoms), W.filename, []string{"WNext"}, true}
	}
	if _, err := fmt.Fprintf(W.h, "# %.4f %d\n", info.Time, info.Step); err != nil {
		return Error{err.Error(), W.filename, []string{"WNext"}, true}
	}
	p := math.Pow(10.0, float64(W.prec))
	var temp [3]int
	for i := 0; i < v; i++ {
		for j := 0; j < 3; j++ {
			temp[j] = int(math.RoundToEven(coord.At(i, j) * p))
		}
		if _, err := fmt.Fprintf(W.h, "%d %d %d\n", temp[0], temp[1], temp[2]); err != nil {
			return Error{err.Error(), W.filename, []string{"WNext"}, true}
		}
	}
	if info.Box != nil {
		b := info.Box.Vectors()
		fmt.Fprintf(W.h, "* %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f\n", b[0],
			b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		fmt.Fprint(W.h, "*\n")
	}
	return nil
}

//Close closes the writer, flushing the compressor. The Writer cannot be
//used after this call.
func (W *Writer) Close() {
	if W == nil || !W.writeable {
		return
	}
	if err := W.h.Close(); err != nil {
		log.Printf("Error flushing trajectory %s: %v", W.filename, err)
	}
	W.f.Close()
	W.writeable = false
}

//Read!
type Reader struct {
	f            *os.File
	z            io.ReadCloser
	h            *bufio.Reader
	intermediate *bufio.Reader
	natoms       int
	filename     string
	prec         int
	readable     bool
}

//Why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

//Close closes the object. It can not be used after this call.
func (z zstdql) Close() error {
	z.closeql()
	return nil
}

//New opens a ztf trajectory for reading, and returns a pointer to the
//handle, a map with the header metadata (or nil, if no metadata is found)
//and error or nil.
func New(name string) (*Reader, map[string]string, error) {
	R := new(Reader)
	R.natoms = -1 //just so we know if things don't work
	var m map[string]string
	var err error
	R.filename = name
	R.f, err = os.Open(R.filename)
	if err != nil {
		return nil, nil, err
	}
	zreader := func(a io.Reader) (io.ReadCloser, error) {
		return flate.NewReader(a), nil
	}
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &zstdql{r.Close, r}, nil
	}
	gzreader := func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'z':
		AnyNewReader = gzreader
	case 'r':
		AnyNewReader = zreader
	default:
		AnyNewReader = zstdreader
	}
	R.intermediate = bufio.NewReader(R.f)
	R.z, err = AnyNewReader(R.intermediate)
	if err != nil {
		R.f.Close()
		return nil, nil, Error{"Can't read header: " + err.Error(), R.filename, []string{"New"}, true}
	}
	R.h = bufio.NewReader(R.z)
	headererr := func(message string) error {
		R.z.Close()
		R.f.Close()
		return Error{message, R.filename, []string{"New"}, true}
	}
	for {
		str, err := R.h.ReadString('\n')
		if err != nil {
			return nil, nil, headererr("Can't read header: " + err.Error())
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return nil, nil, headererr(fmt.Sprintf("Can't read atom number from %q", str))
			}
			R.natoms, err = strconv.Atoi(nat[1])
			if err != nil {
				return nil, nil, headererr(fmt.Sprintf("Can't read atom number from %q: %s", nat[1], err.Error()))
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, headererr(fmt.Sprintf("Malformed header line %q", str))
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[kv[0]] = kv[1]
	}
	R.readable = true
	R.prec = 2 //the default
	if m != nil {
		if p, ok := m["prec"]; ok {
			prec, err := strconv.Atoi(p)
			if err == nil {
				R.prec = prec
			} else {
				log.Printf("Invalid precision for trajectory %s. Will assume the default", R.filename)
			}
		}
	}
	return R, m, nil
}

//Readable returns true if the handle is readable (if it is possible to call
//Next on it).
func (R *Reader) Readable() bool {
	return R.readable
}

func (R *Reader) decodeCoords(str string, temp *[3]float64) error {
	p := math.Pow(10.0, float64(R.prec))
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill-formed coordinate line, %d fields: %q", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%q): %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//Next reads the next frame of the trajectory into c and fills info with the
//frame's time, step and box. If c is nil the frame is read and checked but
//its coordinates are discarded; if info is nil the metadata is discarded. A
//frame whose box vectors describe a non-orthogonal box is an error, as such
//boxes are not supported anywhere in this module.
func (R *Reader) Next(c *v3.Matrix, info *center.FrameInfo) error {
	if !R.readable {
		return Error{TrajUnIniRead, R.filename, []string{"Next"}, true}
	}
	head, err := R.h.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			//nothing bad happened here, the trajectory just ended.
			R.Close()
			return newlastFrameError(R.filename, "Next")
		}
		return Error{err.Error(), R.filename, []string{"Next"}, true}
	}
	fields := strings.Fields(head)
	if len(fields) != 3 || fields[0] != "#" {
		return Error{fmt.Sprintf("Malformed frame header %q", strings.TrimSuffix(head, "\n")), R.filename, []string{"Next"}, true}
	}
	time, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Error{"Can't parse frame time: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	step, err := strconv.Atoi(fields[2])
	if err != nil {
		return Error{"Can't parse frame step: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < R.natoms; i++ {
		b, err := R.h.ReadBytes('\n')
		if err != nil {
			return Error{err.Error(), R.filename, []string{"Next"}, true}
		}
		if err := R.decodeCoords(string(b[:len(b)-1]), &temp); err != nil {
			return Error{err.Error(), R.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue //we ignore this whole frame, reading the content but not saving it.
		}
		for j, v := range temp {
			c.Set(i, j, v)
		}
	}
	s, err := R.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the frame termination mark: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	if s[0] != '*' {
		return Error{fmt.Sprintf("Wrong number of atoms in frame, got %q instead of the termination mark", strings.TrimSuffix(s, "\n")), R.filename, []string{"Next"}, true}
	}
	if info == nil {
		return nil
	}
	info.Time = time
	info.Step = step
	info.Box = nil
	boxfields := strings.Fields(strings.TrimSpace(s))
	if len(boxfields) >= 10 { //the "*" and the 9 numbers
		v := make([]float64, 9)
		for j, f := range boxfields[1:10] {
			v[j], err = strconv.ParseFloat(f, 64)
			if err != nil {
				return Error{"Can't parse box vectors: " + err.Error(), R.filename, []string{"Next"}, true}
			}
		}
		box, err := center.BoxFromVectors(v)
		if err != nil {
			return Error{err.Error(), R.filename, []string{"Next"}, true}
		}
		info.Box = box
	}
	return nil
}

//Close closes the trajectory, and marks it as unreadable.
func (R *Reader) Close() {
	if !R.readable {
		return
	}
	R.z.Close()
	R.f.Close()
	R.readable = false
}

//Len returns the number of atoms in each frame of the trajectory.
func (R *Reader) Len() int {
	return R.natoms
}

//Errors

//Error is the general structure for ztf trajectory errors. It fulfills
//center.Error and center.TrajError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("ztf file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file to which the failing trajectory was associated.
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file associated to the error.
func (err Error) Format() string { return "ztf" }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilCoordinates = "Given nil coordinates"
	NilInfo        = "Given nil frame info"
)

//lastFrameError implements center.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing
func (e lastFrameError) NormalLastFrameTermination() {}

func (e lastFrameError) FileName() string { return e.fileName }

func (e lastFrameError) Error() string { return "EOF" }

func (e lastFrameError) Critical() bool { return false }

func (e lastFrameError) Format() string { return "ztf" }

func (e lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		e.deco = append(e.deco, deco)
	}
	return e.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
