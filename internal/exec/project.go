package exec

import (
	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/expr"
)

// ProjectColumn names one output column of a Project and the expression
// that computes it.
type ProjectColumn struct {
	Name string
	Expr expr.Expr
}

// Project evaluates a fixed list of expressions against every upstream
// batch and emits a new Frame of exactly those output columns, in order —
// the operator behind both column selection and computed-column projection
// (§4.8).
type Project struct {
	Upstream Operator
	Columns  []ProjectColumn
}

func (p *Project) Next(ctx *Context) (*column.Frame, error) {
	if ctx.Canceled() {
		return nil, nil
	}
	in, err := p.Upstream.Next(ctx)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, nil
	}
	names := make([]string, len(p.Columns))
	cols := make([]*column.Data, len(p.Columns))
	for i, c := range p.Columns {
		d, err := c.Expr.Eval(in)
		if err != nil {
			return nil, err
		}
		names[i] = c.Name
		cols[i] = d
	}
	return column.NewFrame(names, cols)
}
