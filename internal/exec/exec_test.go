package exec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/exec"
	"github.com/reifydb/reifydb/internal/mvs"
	"github.com/reifydb/reifydb/internal/storage/memstore"
	"github.com/reifydb/reifydb/internal/txn"
	"github.com/reifydb/reifydb/internal/value"
)

func newManager() *txn.Manager {
	return txn.New(mvs.New(memstore.New(), nil, nil))
}

func usersSchema() *value.Schema {
	return value.NewSchema([]value.Field{
		{Name: "id", Type: value.Int8},
		{Name: "name", Type: value.Utf8},
		{Name: "age", Type: value.Int8},
	})
}

// seedUsers inserts rows [id name age]... directly under sourceID, keyed by
// id, bypassing the Mutator so scan tests don't depend on mutation.go.
func seedUsers(t *testing.T, mgr *txn.Manager, sourceID uint64, schema *value.Schema, rows [][3]any) {
	t.Helper()
	cmd := mgr.BeginCommand()
	for _, r := range rows {
		b := value.NewRowBuilder(schema)
		b.Set(0, value.Int8Value(r[0].(int64)))
		b.Set(1, value.Utf8Value(r[1].(string)))
		b.Set(2, value.Int8Value(r[2].(int64)))
		row := b.Build()
		key := encoding.NewBuilder().U64(sourceID).I64(r[0].(int64)).Build()
		require.NoError(t, cmd.Set(key, row.Bytes()))
	}
	_, err := cmd.Commit()
	require.NoError(t, err)
}

func drainOperator(t *testing.T, op exec.Operator) *column.Frame {
	t.Helper()
	ctx := &exec.Context{}
	var frames []*column.Frame
	for {
		f, err := op.Next(ctx)
		require.NoError(t, err)
		if f == nil {
			break
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		return column.Empty()
	}
	merged := frames[0]
	for _, f := range frames[1:] {
		names := merged.Names()
		cols := make([]*column.Data, len(names))
		for i, n := range names {
			c, _ := merged.Column(n)
			cols[i] = c
		}
		other := make([]*column.Data, len(names))
		for i, n := range names {
			c, _ := f.Column(n)
			other[i] = c
		}
		for i := range cols {
			for r := 0; r < other[i].Len(); r++ {
				cols[i].Push(other[i].Get(r))
			}
		}
		var err error
		merged, err = column.NewFrame(names, cols)
		require.NoError(t, err)
	}
	return merged
}

func rowKeyFor(sourceID uint64, seq int64) encoding.Key {
	return encoding.NewBuilder().U64(sourceID).I64(seq).Build()
}

func columnInts(t *testing.T, f *column.Frame, name string) []int64 {
	t.Helper()
	c, ok := f.Column(name)
	require.True(t, ok, "missing column %s", name)
	out := make([]int64, c.Len())
	for i := range out {
		out[i] = c.Get(i).Int64()
	}
	return out
}
