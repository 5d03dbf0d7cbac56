package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/exec"
	"github.com/reifydb/reifydb/internal/expr"
	"github.com/reifydb/reifydb/internal/value"
)

func TestFilterKeepsOnlyMatchingRows(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{
		{int64(1), "alice", int64(30)},
		{int64(2), "bob", int64(17)},
		{int64(3), "carol", int64(40)},
	})
	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	pred := expr.Binary{
		Op:    expr.OpGe,
		Left:  expr.ColumnRef{Name: "age", Fragment: diagnostic.InternalFragment()},
		Right: expr.Constant{Value: value.Int8Value(18)},
	}
	f := &exec.Filter{Upstream: scan, Predicate: pred}

	frame := drainOperator(t, f)
	require.Equal(t, 2, frame.Rows())
	assert.ElementsMatch(t, []int64{1, 3}, columnInts(t, frame, "id"))
}

func TestFilterDropsAllMatchesNoRows(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{{int64(1), "alice", int64(10)}})
	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	pred := expr.Binary{
		Op:    expr.OpGe,
		Left:  expr.ColumnRef{Name: "age", Fragment: diagnostic.InternalFragment()},
		Right: expr.Constant{Value: value.Int8Value(18)},
	}
	f := &exec.Filter{Upstream: scan, Predicate: pred}

	frame := drainOperator(t, f)
	assert.Equal(t, 0, frame.Rows())
}
