package exec

import (
	"strings"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// JoinKind selects inner or left-outer join semantics.
type JoinKind uint8

const (
	JoinInner JoinKind = iota
	JoinLeft
)

// Join builds a hash index over Right (materialized once, on first Next)
// keyed by Using's column values, then probes it with each batch pulled
// from Left — the smaller side belongs on Right so the build side stays
// cheap (§4.8). An inner join drops unmatched left rows; a left join keeps
// them with every right-side column undefined.
type Join struct {
	Kind  JoinKind
	Left  Operator
	Right Operator
	Using []string

	built      bool
	rightFrame *column.Frame
	rightIndex map[string][]int
}

func rowKey(cols []*column.Data, r int) string {
	var sb strings.Builder
	for _, c := range cols {
		sb.WriteString(c.Get(r).String())
		sb.WriteByte(0)
	}
	return sb.String()
}

func (j *Join) build(ctx *Context) error {
	full, err := drainAll(j.Right, ctx)
	if err != nil {
		return err
	}
	if full == nil {
		full = column.Empty()
	}
	cols := make([]*column.Data, len(j.Using))
	for i, name := range j.Using {
		c, ok := full.Column(name)
		if !ok {
			return diagnostic.ColumnNotFoundInFrame(diagnostic.InternalFragment(), name)
		}
		cols[i] = c
	}
	idx := make(map[string][]int, full.Rows())
	for r := 0; r < full.Rows(); r++ {
		k := rowKey(cols, r)
		idx[k] = append(idx[k], r)
	}
	j.rightFrame = full
	j.rightIndex = idx
	j.built = true
	return nil
}

func (j *Join) Next(ctx *Context) (*column.Frame, error) {
	if ctx.Canceled() {
		return nil, nil
	}
	if !j.built {
		if err := j.build(ctx); err != nil {
			return nil, err
		}
	}
	left, err := j.Left.Next(ctx)
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, nil
	}
	return j.probe(left)
}

func (j *Join) probe(left *column.Frame) (*column.Frame, error) {
	leftKeyCols := make([]*column.Data, len(j.Using))
	for i, name := range j.Using {
		c, ok := left.Column(name)
		if !ok {
			return nil, diagnostic.ColumnNotFoundInFrame(diagnostic.InternalFragment(), name)
		}
		leftKeyCols[i] = c
	}

	using := make(map[string]bool, len(j.Using))
	for _, c := range j.Using {
		using[c] = true
	}

	rightNames := j.rightFrame.Names()
	keptRightNames := make([]string, 0, len(rightNames))
	for _, n := range rightNames {
		if using[n] {
			continue
		}
		name := n
		for _, ln := range left.Names() {
			if ln == name {
				name = "right." + name
				break
			}
		}
		keptRightNames = append(keptRightNames, name)
	}

	leftIdx := make([]int, 0, left.Rows())
	rightIdx := make([]int, 0, left.Rows())
	for r := 0; r < left.Rows(); r++ {
		matches := j.rightIndex[rowKey(leftKeyCols, r)]
		if len(matches) == 0 {
			if j.Kind == JoinLeft {
				leftIdx = append(leftIdx, r)
				rightIdx = append(rightIdx, -1)
			}
			continue
		}
		for _, m := range matches {
			leftIdx = append(leftIdx, r)
			rightIdx = append(rightIdx, m)
		}
	}

	names := append(append([]string(nil), left.Names()...), keptRightNames...)
	cols := make([]*column.Data, 0, len(names))
	for i := range left.Names() {
		cols = append(cols, left.ColumnAt(i).Slice(leftIdx))
	}
	for _, n := range rightNames {
		if using[n] {
			continue
		}
		src, _ := j.rightFrame.Column(n)
		out := column.NewData(src.Typ, len(rightIdx))
		for _, idx := range rightIdx {
			if idx < 0 {
				out.Push(value.Undef())
			} else {
				out.Push(src.Get(idx))
			}
		}
		cols = append(cols, out)
	}
	return column.NewFrame(names, cols)
}
