package expr

import (
	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// Cast wraps CastValue as a tree node, applying it row by row to Operand's
// evaluated column.
type Cast struct {
	Operand  Expr
	Target   value.Type
	Mode     CastMode
	Fragment diagnostic.Fragment
}

func (c Cast) Eval(frame *column.Frame) (*column.Data, error) {
	in, err := c.Operand.Eval(frame)
	if err != nil {
		return nil, err
	}
	out := column.NewData(c.Target, in.Len())
	for i := 0; i < in.Len(); i++ {
		v, err := CastValue(in.Get(i), c.Target, c.Mode, c.Fragment)
		if err != nil {
			return nil, err
		}
		out.Push(v)
	}
	return out, nil
}
