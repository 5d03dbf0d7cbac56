package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/exec"
)

func TestDistinctKeepsFirstOccurrenceOnly(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{
		{int64(1), "alice", int64(30)},
		{int64(2), "alice", int64(30)},
		{int64(3), "bob", int64(25)},
	})
	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	d := &exec.Distinct{Upstream: scan, Columns: []string{"name", "age"}}
	frame := drainOperator(t, d)
	require.Equal(t, 2, frame.Rows())
	assert.ElementsMatch(t, []int64{1, 3}, columnInts(t, frame, "id"))
}
