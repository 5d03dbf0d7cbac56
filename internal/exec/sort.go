package exec

import (
	"sort"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// SortKey names one column to order by and its direction. Direction
// defaults to descending absent an explicit ascending request, matching
// §4.8's stated default.
type SortKey struct {
	Column    string
	Ascending bool
}

// Sort materializes its entire input, orders it stably by Keys in
// left-to-right priority, and emits the result as a single batch.
// Undefined values sort last regardless of direction (§4.8 edge case f).
type Sort struct {
	Upstream Operator
	Keys     []SortKey

	done bool
}

func (s *Sort) Next(ctx *Context) (*column.Frame, error) {
	if s.done {
		return nil, nil
	}
	s.done = true
	full, err := drainAll(s.Upstream, ctx)
	if err != nil {
		return nil, err
	}
	if full == nil || full.Rows() == 0 {
		return nil, nil
	}

	cols := make([]*column.Data, len(s.Keys))
	for i, k := range s.Keys {
		c, ok := full.Column(k.Column)
		if !ok {
			return nil, diagnostic.ColumnNotFoundInFrame(diagnostic.InternalFragment(), k.Column)
		}
		cols[i] = c
	}

	indices := make([]int, full.Rows())
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(x, y int) bool {
		a, b := indices[x], indices[y]
		for i, k := range s.Keys {
			va, vb := cols[i].Get(a), cols[i].Get(b)
			ua, ub := value.IsUndefined(va), value.IsUndefined(vb)
			if ua && ub {
				continue
			}
			if ua {
				return false
			}
			if ub {
				return true
			}
			c := compareValues(va, vb)
			if c == 0 {
				continue
			}
			if k.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return full.SelectRows(indices), nil
}
