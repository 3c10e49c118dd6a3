package vtk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxCount bounds every count read from a file.
const maxCount = 1 << 28

// initialCap limits preallocation so slice growth follows the data actually read.
func initialCap(n int) int { return min(n, 1<<12) }

type decoder struct {
	s *bufio.Scanner
}

// newDecoder consumes the header and checks the dataset type.
func newDecoder(r io.Reader, dataset string) (*decoder, error) {
	br := bufio.NewReader(r)
	for i, want := range []string{version, "", "ASCII"} {
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, fmt.Errorf("%w: header: %v", ErrFormat, err)
		}
		line = strings.TrimSpace(line)
		switch {
		case i == 0 && !strings.HasPrefix(line, "# vtk DataFile Version"):
			return nil, fmt.Errorf("%w: not a legacy vtk file", ErrFormat)
		case i == 2 && line != want:
			return nil, fmt.Errorf("%w: unsupported encoding %q", ErrFormat, line)
		}
	}

	s := bufio.NewScanner(br)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)
	d := &decoder{s: s}
	if err := d.expect("DATASET", dataset); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *decoder) token() (string, error) {
	if !d.s.Scan() {
		if err := d.s.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrFormat, io.ErrUnexpectedEOF)
	}
	return d.s.Text(), nil
}

// next returns the next token, or false at the end of the input.
func (d *decoder) next() (string, bool, error) {
	if !d.s.Scan() {
		return "", false, d.s.Err()
	}
	return d.s.Text(), true, nil
}

func (d *decoder) expect(words ...string) error {
	for _, want := range words {
		got, err := d.token()
		if err != nil {
			return err
		}
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("%w: expected %q, got %q", ErrFormat, want, got)
		}
	}
	return nil
}

func (d *decoder) int() (int, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return v, nil
}

// count reads a non-negative integer no larger than maxCount.
func (d *decoder) count() (int, error) {
	v, err := d.int()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative count %d", ErrFormat, v)
	}
	if v > maxCount {
		return 0, fmt.Errorf("%w: count %d exceeds %d", ErrFormat, v, maxCount)
	}
	return v, nil
}

func (d *decoder) float() (float64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return v, nil
}

func (d *decoder) floats(dst []float64) error {
	for i := range dst {
		v, err := d.float()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func (d *decoder) vec() (r3.Vec, error) {
	var v [3]float64
	if err := d.floats(v[:]); err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// dataType reads a VTK data type name.
func (d *decoder) dataType() error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	switch strings.ToLower(tok) {
	case "float", "double", "int", "long", "short", "char",
		"unsigned_char", "unsigned_short", "unsigned_int", "unsigned_long", "vtkidtype":
		return nil
	}
	return fmt.Errorf("%w: unknown data type %q", ErrFormat, tok)
}

// points reads a POINTS section.
func (d *decoder) points() ([]r3.Vec, error) {
	if err := d.expect("POINTS"); err != nil {
		return nil, err
	}
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	if err := d.dataType(); err != nil {
		return nil, err
	}
	ps := make([]r3.Vec, 0, initialCap(n))
	for range n {
		p, err := d.vec()
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

// scalars reads a SCALARS block with one integer component per tuple.
func (d *decoder) scalars(name string, n int) ([]int, error) {
	if err := d.expect("SCALARS", name); err != nil {
		return nil, err
	}
	if err := d.dataType(); err != nil {
		return nil, err
	}
	// Optional component count before LOOKUP_TABLE.
	tok, err := d.token()
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(tok, "LOOKUP_TABLE") {
		if tok != "1" {
			return nil, fmt.Errorf("%w: %s must have one component", ErrFormat, name)
		}
		if err := d.expect("LOOKUP_TABLE"); err != nil {
			return nil, err
		}
	}
	if _, err := d.token(); err != nil {
		return nil, err
	}
	out := make([]int, 0, initialCap(n))
	for range n {
		v, err := d.int()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
