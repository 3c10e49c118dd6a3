package vtk

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

const version = "# vtk DataFile Version 3.0"

// VTK cell type ids.
const (
	cellLine = 3
)

type encoder struct {
	w   *bufio.Writer
	err error
}

func newEncoder(w io.Writer, title, dataset string) *encoder {
	e := &encoder{w: bufio.NewWriter(w)}
	e.line(version)
	e.line(title)
	e.line("ASCII")
	e.line("DATASET " + dataset)
	return e
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s + "\n")
}

func (e *encoder) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *encoder) floats(vs ...float64) {
	if e.err != nil {
		return
	}
	buf := make([]byte, 0, 32*len(vs))
	for i, v := range vs {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	buf = append(buf, '\n')
	_, e.err = e.w.Write(buf)
}

func (e *encoder) ints(vs ...int) {
	if e.err != nil {
		return
	}
	buf := make([]byte, 0, 8*len(vs))
	for i, v := range vs {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	buf = append(buf, '\n')
	_, e.err = e.w.Write(buf)
}

func (e *encoder) points(ps []r3.Vec) {
	e.printf("POINTS %d double\n", len(ps))
	for _, p := range ps {
		e.floats(p.X, p.Y, p.Z)
	}
}

func (e *encoder) close() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}
