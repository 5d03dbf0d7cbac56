// Package expr implements the compiled expression engine: column
// references, typed constants, unary/binary operators, three-mode casts,
// and a scalar/aggregate/generator function registry, evaluated against a
// column.Frame to produce a new column.Data.
package expr

import (
	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// Expr is one node of a compiled expression tree.
type Expr interface {
	Eval(frame *column.Frame) (*column.Data, error)
}

// ColumnRef resolves to the named column of the frame being evaluated,
// preserving its source qualification unchanged.
type ColumnRef struct {
	Name     string
	Fragment diagnostic.Fragment
}

func (c ColumnRef) Eval(frame *column.Frame) (*column.Data, error) {
	d, ok := frame.Column(c.Name)
	if !ok {
		return nil, diagnostic.ColumnNotFoundInFrame(c.Fragment, c.Name)
	}
	return d, nil
}

// Constant broadcasts a single typed value across every row of the frame.
type Constant struct {
	Value value.Value
}

func (c Constant) Eval(frame *column.Frame) (*column.Data, error) {
	rows := frame.Rows()
	out := column.NewData(c.Value.Type(), rows)
	for i := 0; i < rows; i++ {
		out.Push(c.Value)
	}
	return out, nil
}
