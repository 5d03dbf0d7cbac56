package exec

import "github.com/reifydb/reifydb/internal/column"

// drainAll pulls every batch from op until exhausted and concatenates them
// into a single Frame. Sort, Distinct and Aggregate all need the whole
// input at once, and Join its whole Right (build) side, so each calls this
// before doing its own work; everything else in the package stays streaming.
func drainAll(op Operator, ctx *Context) (*column.Frame, error) {
	var frames []*column.Frame
	for {
		if ctx.Canceled() {
			break
		}
		f, err := op.Next(ctx)
		if err != nil {
			return nil, err
		}
		if f == nil {
			break
		}
		if f.Rows() > 0 {
			frames = append(frames, f)
		}
	}
	return concatFrames(frames)
}

// concatFrames stacks same-shaped frames row-wise into one. Frames of a
// stream always share the shape their upstream operator produces, so this
// never needs to reconcile differing column sets.
func concatFrames(frames []*column.Frame) (*column.Frame, error) {
	if len(frames) == 0 {
		return column.Empty(), nil
	}
	if len(frames) == 1 {
		return frames[0], nil
	}
	names := frames[0].Names()
	total := 0
	for _, f := range frames {
		total += f.Rows()
	}
	cols := make([]*column.Data, len(names))
	for i := range names {
		src := frames[0].ColumnAt(i)
		cols[i] = column.NewData(src.Typ, total)
		cols[i].SourceQualifier = src.SourceQualifier
	}
	for _, f := range frames {
		for i := range names {
			c := f.ColumnAt(i)
			n := c.Len()
			for r := 0; r < n; r++ {
				cols[i].Push(c.Get(r))
			}
		}
	}
	return column.NewFrame(names, cols)
}
