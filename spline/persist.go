/*
 * persist.go, part of chemrep.
 *
 * Copyright 2024 The chemrep authors
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

package spline

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/rmera/chemrep/errs"
)

/*
Splines are saved as zstd-compressed text. The file starts with a header of
key=value lines:

	start=0
	stop=5
	shape=9,8
	spacing=0.0390625

followed by a line "** n", where n is the number of points, and then one line per
point, with the position of the point, the values and the gradients, separated by spaces.
Numbers are written with the shortest representation that reads back exactly.
*/

//Save writes the spline to w.
func (H *Hermite) Save(w io.Writer) error {
	z, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	out := bufio.NewWriter(z)
	shape := make([]string, len(H.params.Shape))
	for i, v := range H.params.Shape {
		shape[i] = strconv.Itoa(v)
	}
	fmt.Fprintf(out, "start=%s\n", ftoa(H.params.Start))
	fmt.Fprintf(out, "stop=%s\n", ftoa(H.params.Stop))
	fmt.Fprintf(out, "shape=%s\n", strings.Join(shape, ","))
	fmt.Fprintf(out, "spacing=%s\n", ftoa(H.spacing))
	fmt.Fprintf(out, "** %d\n", len(H.points))
	fields := make([]string, 0, 1+2*H.size)
	for _, p := range H.points {
		fields = append(fields[:0], ftoa(p.x))
		for _, v := range p.values {
			fields = append(fields, ftoa(v))
		}
		for _, v := range p.gradients {
			fields = append(fields, ftoa(v))
		}
		out.WriteString(strings.Join(fields, " "))
		out.WriteByte('\n')
	}
	if err := out.Flush(); err != nil {
		z.Close()
		return err
	}
	return z.Close()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

//SaveFile writes the spline to the file name, which is created or truncated.
func (H *Hermite) SaveFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := H.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//Load reads a spline written by Save.
func Load(r io.Reader) (*Hermite, error) {
	z, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer z.Close()
	in := bufio.NewReader(z)
	header := make(map[string]string)
	npoints := -1
	for npoints < 0 {
		str, err := in.ReadString('\n')
		if err != nil {
			return nil, loadError("can't read header: %v", err)
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			f := strings.Fields(str)
			if len(f) != 2 {
				return nil, loadError("malformed point count line %q", str)
			}
			npoints, err = strconv.Atoi(f[1])
			if err != nil || npoints < 2 {
				return nil, loadError("invalid number of points in %q", str)
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, loadError("malformed header line %q", str)
		}
		header[kv[0]] = kv[1]
	}
	H, err := fromHeader(header)
	if err != nil {
		return nil, err
	}
	H.points = make([]point, npoints)
	for i := range H.points {
		str, err := in.ReadString('\n')
		if err != nil && !(err == io.EOF && str != "") {
			return nil, loadError("can't read point %d: %v", i, err)
		}
		f := strings.Fields(str)
		if len(f) != 1+2*H.size {
			return nil, loadError("point %d has %d fields, expected %d", i, len(f), 1+2*H.size)
		}
		nums := make([]float64, len(f))
		for j, s := range f {
			nums[j], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, loadError("bad number in point %d: %v", i, err)
			}
		}
		H.points[i] = point{x: nums[0], values: nums[1 : 1+H.size], gradients: nums[1+H.size:]}
	}
	if err := H.checkGrid(); err != nil {
		return nil, err
	}
	return H, nil
}

//checkGrid returns an error unless the points are evenly spaced by H.spacing,
//from the start to the end of the domain.
func (H *Hermite) checkGrid() error {
	n := len(H.points)
	tol := 1e-6 * H.spacing
	if expected := (H.params.Stop - H.params.Start) / float64(n-1); math.Abs(expected-H.spacing) > tol {
		return loadError("spacing %g does not match %d points in [%g, %g]", H.spacing, n, H.params.Start, H.params.Stop)
	}
	for i, p := range H.points {
		if x := H.params.Start + float64(i)*H.spacing; math.Abs(p.x-x) > tol {
			return loadError("point %d is at %g, expected %g", i, p.x, x)
		}
	}
	return nil
}

//fromHeader builds an empty spline with the parameters in the header.
func fromHeader(header map[string]string) (*Hermite, error) {
	var P Parameters
	var err error
	var spacing float64
	for _, k := range []string{"start", "stop", "shape", "spacing"} {
		if _, ok := header[k]; !ok {
			return nil, loadError("missing %q in header", k)
		}
	}
	if P.Start, err = strconv.ParseFloat(header["start"], 64); err != nil {
		return nil, loadError("bad start: %v", err)
	}
	if P.Stop, err = strconv.ParseFloat(header["stop"], 64); err != nil {
		return nil, loadError("bad stop: %v", err)
	}
	if spacing, err = strconv.ParseFloat(header["spacing"], 64); err != nil || !(spacing > 0) {
		return nil, loadError("bad spacing %q", header["spacing"])
	}
	for _, s := range strings.Split(header["shape"], ",") {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, loadError("bad shape: %v", err)
		}
		P.Shape = append(P.Shape, v)
	}
	if err := P.check(); err != nil {
		return nil, errs.Decorate(err, "spline.Load")
	}
	return &Hermite{params: P, size: P.Size(), spacing: spacing}, nil
}

func loadError(format string, args ...interface{}) error {
	err := errs.New(errs.InvalidParameter, "spline file: "+format, args...)
	err.Decorate("spline.Load")
	return err
}

//LoadFile reads a spline from the file name.
func LoadFile(name string) (*Hermite, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
