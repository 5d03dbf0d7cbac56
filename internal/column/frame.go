package column

import "github.com/reifydb/reifydb/internal/diagnostic"

// ColumnRef names a column, optionally source-qualified.
type ColumnRef struct {
	Source string // optional, "" if unqualified
	Name   string
}

// Frame is an immutable mapping from column name to Data, with all columns
// of equal length. Operators build new Frames; they never mutate
// one they received.
type Frame struct {
	names []string
	cols  []*Data
	rows  int
}

// NewFrame builds a Frame from parallel names/columns slices. All columns
// must have equal length, or NewFrame returns a diagnostic error.
func NewFrame(names []string, cols []*Data) (*Frame, error) {
	if len(names) != len(cols) {
		return nil, diagnostic.FrameShapeMismatch(len(names), len(cols))
	}
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
		for i, c := range cols {
			if c.Len() != rows {
				return nil, diagnostic.FrameColumnLengthMismatch(names[i], c.Len(), rows)
			}
		}
	}
	return &Frame{names: append([]string(nil), names...), cols: append([]*Data(nil), cols...), rows: rows}, nil
}

// Empty returns a zero-row, zero-column frame.
func Empty() *Frame { return &Frame{} }

func (f *Frame) Rows() int          { return f.rows }
func (f *Frame) ColumnCount() int   { return len(f.cols) }
func (f *Frame) Names() []string    { return f.names }
func (f *Frame) ColumnAt(i int) *Data { return f.cols[i] }

// Column returns the column named name, searching unqualified names first
// and then "source.name" qualified names.
func (f *Frame) Column(name string) (*Data, bool) {
	for i, n := range f.names {
		if n == name {
			return f.cols[i], true
		}
	}
	for i, n := range f.names {
		if f.cols[i].SourceQualifier != "" && f.cols[i].SourceQualifier+"."+n == name {
			return f.cols[i], true
		}
	}
	return nil, false
}

// WithColumn returns a new Frame with an additional (or replaced) column.
func (f *Frame) WithColumn(name string, d *Data) *Frame {
	names := append([]string(nil), f.names...)
	cols := append([]*Data(nil), f.cols...)
	for i, n := range names {
		if n == name {
			cols[i] = d
			return &Frame{names: names, cols: cols, rows: d.Len()}
		}
	}
	names = append(names, name)
	cols = append(cols, d)
	rows := f.rows
	if len(f.cols) == 0 {
		rows = d.Len()
	}
	return &Frame{names: names, cols: cols, rows: rows}
}

// Project returns a new Frame containing only the named columns, in order.
func (f *Frame) Project(names []string) (*Frame, error) {
	cols := make([]*Data, 0, len(names))
	for _, n := range names {
		c, ok := f.Column(n)
		if !ok {
			return nil, diagnostic.ColumnNotFound(diagnostic.InternalFragment(), "<frame>", n)
		}
		cols = append(cols, c)
	}
	return NewFrame(names, cols)
}

// SelectRows returns a new Frame containing only the rows at indices, in
// the given order — the shared primitive behind Filter/Take/Offset/Sort.
func (f *Frame) SelectRows(indices []int) *Frame {
	cols := make([]*Data, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Slice(indices)
	}
	rows := len(indices)
	return &Frame{names: append([]string(nil), f.names...), cols: cols, rows: rows}
}
