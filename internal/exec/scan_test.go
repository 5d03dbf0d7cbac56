package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/exec"
)

func TestTableScanReadsAllRows(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{
		{int64(1), "alice", int64(30)},
		{int64(2), "bob", int64(25)},
		{int64(3), "carol", int64(40)},
	})

	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	frame := drainOperator(t, scan)
	require.Equal(t, 3, frame.Rows())
	assert.ElementsMatch(t, []int64{1, 2, 3}, columnInts(t, frame, "id"))
}

func TestTableScanIsolatesSourceByPrefix(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{{int64(1), "alice", int64(30)}})
	seedUsers(t, mgr, 2, schema, [][3]any{{int64(9), "zeta", int64(99)}})

	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	frame := drainOperator(t, scan)
	require.Equal(t, 1, frame.Rows())
	assert.Equal(t, int64(1), columnInts(t, frame, "id")[0])
}

func TestTableScanRespectsBatching(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	rows := make([][3]any, 0, 5)
	for i := int64(1); i <= 5; i++ {
		rows = append(rows, [3]any{i, "user", i})
	}
	seedUsers(t, mgr, 1, schema, rows)

	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	ctx := &exec.Context{}
	first, err := scan.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, first.Rows())

	second, err := scan.Next(ctx)
	require.NoError(t, err)
	require.Nil(t, second)
}
