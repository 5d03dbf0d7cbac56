package exec

import "github.com/reifydb/reifydb/internal/column"

// Take passes through at most N rows total across every batch it forwards,
// then reports exhausted.
type Take struct {
	Upstream Operator
	N        int

	taken int
}

func (t *Take) Next(ctx *Context) (*column.Frame, error) {
	if t.taken >= t.N || ctx.Canceled() {
		return nil, nil
	}
	in, err := t.Upstream.Next(ctx)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, nil
	}
	remain := t.N - t.taken
	if in.Rows() <= remain {
		t.taken += in.Rows()
		return in, nil
	}
	indices := make([]int, remain)
	for i := range indices {
		indices[i] = i
	}
	t.taken = t.N
	return in.SelectRows(indices), nil
}

// Offset discards the first N rows across every batch it sees, then passes
// through everything after unchanged.
type Offset struct {
	Upstream Operator
	N        int

	skipped int
}

func (o *Offset) Next(ctx *Context) (*column.Frame, error) {
	for {
		if ctx.Canceled() {
			return nil, nil
		}
		in, err := o.Upstream.Next(ctx)
		if err != nil {
			return nil, err
		}
		if in == nil {
			return nil, nil
		}
		if o.skipped >= o.N {
			return in, nil
		}
		remain := o.N - o.skipped
		if in.Rows() <= remain {
			o.skipped += in.Rows()
			continue
		}
		indices := make([]int, 0, in.Rows()-remain)
		for i := remain; i < in.Rows(); i++ {
			indices = append(indices, i)
		}
		o.skipped = o.N
		return in.SelectRows(indices), nil
	}
}
