package exec

import (
	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/expr"
	"github.com/reifydb/reifydb/internal/value"
)

// Filter evaluates Predicate against each upstream batch and passes through
// only the rows for which it is true; undefined and false rows are
// dropped, matching three-valued predicate semantics (§4.3). A batch that
// filters down to zero rows is skipped rather than forwarded empty —
// Filter only ever returns nil once Upstream is exhausted or ctx is
// canceled.
type Filter struct {
	Upstream  Operator
	Predicate expr.Expr
}

func (f *Filter) Next(ctx *Context) (*column.Frame, error) {
	for {
		if ctx.Canceled() {
			return nil, nil
		}
		in, err := f.Upstream.Next(ctx)
		if err != nil {
			return nil, err
		}
		if in == nil {
			return nil, nil
		}
		mask, err := f.Predicate.Eval(in)
		if err != nil {
			return nil, err
		}
		if mask.Typ != value.Bool {
			return nil, diagnostic.LogicalOperandNotBoolean(diagnostic.InternalFragment(), "filter", mask.Typ.String())
		}
		indices := make([]int, 0, in.Rows())
		for i := 0; i < in.Rows(); i++ {
			v := mask.Get(i)
			if !value.IsUndefined(v) && v.Bool() {
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 {
			continue
		}
		return in.SelectRows(indices), nil
	}
}
