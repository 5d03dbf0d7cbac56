package exec

import (
	"strings"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
)

// Distinct materializes its entire input and keeps the first row of each
// distinct combination of Columns' values, preserving input order among
// the survivors — deduplication is a whole-stream property, not something
// a batch-local pass could get right.
type Distinct struct {
	Upstream Operator
	Columns  []string

	done bool
}

func (d *Distinct) Next(ctx *Context) (*column.Frame, error) {
	if d.done {
		return nil, nil
	}
	d.done = true
	full, err := drainAll(d.Upstream, ctx)
	if err != nil {
		return nil, err
	}
	if full == nil || full.Rows() == 0 {
		return nil, nil
	}

	cols := make([]*column.Data, len(d.Columns))
	for i, name := range d.Columns {
		c, ok := full.Column(name)
		if !ok {
			return nil, diagnostic.ColumnNotFoundInFrame(diagnostic.InternalFragment(), name)
		}
		cols[i] = c
	}

	seen := make(map[string]struct{}, full.Rows())
	indices := make([]int, 0, full.Rows())
	var key strings.Builder
	for r := 0; r < full.Rows(); r++ {
		key.Reset()
		for _, c := range cols {
			key.WriteString(c.Get(r).String())
			key.WriteByte(0)
		}
		k := key.String()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		indices = append(indices, r)
	}
	return full.SelectRows(indices), nil
}
