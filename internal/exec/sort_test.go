package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/exec"
	"github.com/reifydb/reifydb/internal/value"
)

func TestSortAscendingByColumn(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{
		{int64(1), "carol", int64(40)},
		{int64(2), "alice", int64(10)},
		{int64(3), "bob", int64(25)},
	})
	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	s := &exec.Sort{Upstream: scan, Keys: []exec.SortKey{{Column: "age", Ascending: true}}}
	frame := drainOperator(t, s)
	require.Equal(t, 3, frame.Rows())
	assert.Equal(t, []int64{10, 25, 40}, columnInts(t, frame, "age"))
}

func TestSortDefaultsToDescending(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{
		{int64(1), "a", int64(1)},
		{int64(2), "b", int64(3)},
		{int64(3), "c", int64(2)},
	})
	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	s := &exec.Sort{Upstream: scan, Keys: []exec.SortKey{{Column: "age"}}}
	frame := drainOperator(t, s)
	assert.Equal(t, []int64{3, 2, 1}, columnInts(t, frame, "age"))
}

func TestSortUndefinedValuesSortLastRegardlessOfDirection(t *testing.T) {
	names := []string{"a"}
	data := column.NewData(value.Int8, 3)
	data.Push(value.Int8Value(2))
	data.Push(value.Undef())
	data.Push(value.Int8Value(1))
	frame, err := column.NewFrame(names, []*column.Data{data})
	require.NoError(t, err)

	asc := &exec.Sort{Upstream: &staticOperator{frame: frame}, Keys: []exec.SortKey{{Column: "a", Ascending: true}}}
	got := drainOperator(t, asc)
	require.Equal(t, 3, got.Rows())
	c, _ := got.Column("a")
	assert.Equal(t, int64(1), c.Get(0).Int64())
	assert.Equal(t, int64(2), c.Get(1).Int64())
	assert.True(t, value.IsUndefined(c.Get(2)))

	desc := &exec.Sort{Upstream: &staticOperator{frame: frame}, Keys: []exec.SortKey{{Column: "a", Ascending: false}}}
	got2 := drainOperator(t, desc)
	c2, _ := got2.Column("a")
	assert.Equal(t, int64(2), c2.Get(0).Int64())
	assert.Equal(t, int64(1), c2.Get(1).Int64())
	assert.True(t, value.IsUndefined(c2.Get(2)))
}

// staticOperator yields frame exactly once, then is exhausted.
type staticOperator struct {
	frame *column.Frame
	done  bool
}

func (s *staticOperator) Next(ctx *exec.Context) (*column.Frame, error) {
	if s.done {
		return nil, nil
	}
	s.done = true
	return s.frame, nil
}
