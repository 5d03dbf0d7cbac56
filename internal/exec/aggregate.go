package exec

import (
	"strings"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/expr"
	"github.com/reifydb/reifydb/internal/value"
)

// AggSpec names one output aggregate column: which registered function
// computes it and, for every function but a bare count(*), which input
// column it accumulates. Arg == "" means count(*).
type AggSpec struct {
	Output string
	Func   string
	Arg    string
}

// Aggregate materializes its entire input, groups rows by GroupBy's column
// values, and emits one row per distinct group holding the group key
// columns followed by each Aggs result, in order. An ungrouped aggregate
// (GroupBy empty) over zero input rows still emits exactly one row, so
// count() over an empty table reads 0 rather than disappearing.
type Aggregate struct {
	Upstream Operator
	GroupBy  []string
	Aggs     []AggSpec

	done bool
}

type aggGroup struct {
	key     []value.Value
	aggs    []expr.Aggregator
	results []value.Value
}

func (a *Aggregate) Next(ctx *Context) (*column.Frame, error) {
	if a.done {
		return nil, nil
	}
	a.done = true
	full, err := drainAll(a.Upstream, ctx)
	if err != nil {
		return nil, err
	}
	if full == nil {
		full = column.Empty()
	}

	groupCols := make([]*column.Data, len(a.GroupBy))
	for i, name := range a.GroupBy {
		c, ok := full.Column(name)
		if !ok {
			return nil, diagnostic.ColumnNotFoundInFrame(diagnostic.InternalFragment(), name)
		}
		groupCols[i] = c
	}

	defs := make([]*expr.FuncDef, len(a.Aggs))
	argCols := make([]*column.Data, len(a.Aggs))
	for i, spec := range a.Aggs {
		def, ok := expr.Lookup(spec.Func)
		if !ok {
			return nil, diagnostic.FunctionNotFound(diagnostic.InternalFragment(), spec.Func)
		}
		defs[i] = def
		if spec.Arg != "" {
			c, ok := full.Column(spec.Arg)
			if !ok {
				return nil, diagnostic.ColumnNotFoundInFrame(diagnostic.InternalFragment(), spec.Arg)
			}
			argCols[i] = c
		}
	}

	order := make([]string, 0)
	groups := make(map[string]*aggGroup)

	rows := full.Rows()
	if rows == 0 && len(a.GroupBy) == 0 {
		rows = 1
	}

	var keyBuf strings.Builder
	for r := 0; r < rows; r++ {
		keyBuf.Reset()
		keyVals := make([]value.Value, len(groupCols))
		for i, c := range groupCols {
			v := value.Undef()
			if r < full.Rows() {
				v = c.Get(r)
			}
			keyVals[i] = v
			keyBuf.WriteString(v.String())
			keyBuf.WriteByte(0)
		}
		k := keyBuf.String()
		g, ok := groups[k]
		if !ok {
			g = &aggGroup{key: keyVals, aggs: make([]expr.Aggregator, len(a.Aggs))}
			for i, def := range defs {
				g.aggs[i] = def.NewAggregate()
			}
			groups[k] = g
			order = append(order, k)
		}
		for i := range a.Aggs {
			if argCols[i] == nil {
				if r < full.Rows() {
					g.aggs[i].Accumulate(value.Int8Value(1))
				}
				continue
			}
			if r < full.Rows() {
				g.aggs[i].Accumulate(argCols[i].Get(r))
			}
		}
	}

	for _, k := range order {
		g := groups[k]
		g.results = make([]value.Value, len(a.Aggs))
		for i, agg := range g.aggs {
			g.results[i] = agg.Result()
		}
	}

	aggTypes := make([]value.Type, len(a.Aggs))
	for i := range a.Aggs {
		aggTypes[i] = value.Undefined
		for _, k := range order {
			if t := groups[k].results[i].Type(); t != value.Undefined {
				aggTypes[i] = t
				break
			}
		}
	}

	names := append(append([]string(nil), a.GroupBy...), aggOutputNames(a.Aggs)...)
	cols := make([]*column.Data, len(names))
	for i, c := range groupCols {
		cols[i] = column.NewData(c.Typ, len(order))
	}
	for i := range a.Aggs {
		cols[len(a.GroupBy)+i] = column.NewData(aggTypes[i], len(order))
	}

	for _, k := range order {
		g := groups[k]
		for i := range a.GroupBy {
			cols[i].Push(g.key[i])
		}
		for i := range a.Aggs {
			cols[len(a.GroupBy)+i].Push(g.results[i])
		}
	}
	return column.NewFrame(names, cols)
}

func aggOutputNames(specs []AggSpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Output
	}
	return names
}
