package tablevet

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Frame is an in-memory table with named, ordered, equal-length
// columns. At most one column is designated the geometry column and
// holds orb.Geometry values. How a Frame gets populated (file formats,
// loaders) is a caller concern.
type Frame struct {
	order    []string
	cols     map[string][]any
	geometry string
	rows     int
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{cols: map[string][]any{}}
}

// AddColumn appends an attribute column. All columns must share the
// same length; the first column fixes it.
func (f *Frame) AddColumn(name string, values []any) error {
	if err := f.check(name, len(values)); err != nil {
		return err
	}
	col := make([]any, len(values))
	copy(col, values)
	f.order = append(f.order, name)
	f.cols[name] = col
	return nil
}

// AddGeometry appends the geometry column. A frame carries at most
// one.
func (f *Frame) AddGeometry(name string, geoms []orb.Geometry) error {
	if f.geometry != "" {
		return fmt.Errorf("frame: geometry column already set to %q", f.geometry)
	}
	if err := f.check(name, len(geoms)); err != nil {
		return err
	}
	col := make([]any, len(geoms))
	for i, g := range geoms {
		if g == nil {
			col[i] = nil
			continue
		}
		col[i] = g
	}
	f.order = append(f.order, name)
	f.cols[name] = col
	f.geometry = name
	return nil
}

func (f *Frame) check(name string, n int) error {
	if name == "" {
		return fmt.Errorf("frame: column name must not be empty")
	}
	if _, dup := f.cols[name]; dup {
		return fmt.Errorf("frame: duplicate column %q", name)
	}
	if len(f.order) > 0 && n != f.rows {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d", name, n, f.rows)
	}
	f.rows = n
	return nil
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]any, bool) {
	col, ok := f.cols[name]
	if !ok {
		return nil, false
	}
	out := make([]any, len(col))
	copy(out, col)
	return out, true
}

// GeometryColumn returns the designated geometry column name, or ""
// when the frame has none.
func (f *Frame) GeometryColumn() string { return f.geometry }

// Len reports the number of rows.
func (f *Frame) Len() int { return f.rows }

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		order:    append([]string(nil), f.order...),
		cols:     make(map[string][]any, len(f.cols)),
		geometry: f.geometry,
		rows:     f.rows,
	}
	for name, col := range f.cols {
		c := make([]any, len(col))
		copy(c, col)
		out.cols[name] = c
	}
	return out
}

// setColumn replaces a column's values on an already-cloned frame.
func (f *Frame) setColumn(name string, values []any) {
	f.cols[name] = values
}
