package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/exec"
)

func TestTakeCapsTotalRowsAcrossBatches(t *testing.T) {
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
	take := &exec.Take{Upstream: scan, N: 3}
	frame := drainOperator(t, take)
	require.Equal(t, 3, frame.Rows())
}

func TestOffsetSkipsLeadingRows(t *testing.T) {
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
	offset := &exec.Offset{Upstream: scan, N: 3}
	frame := drainOperator(t, offset)
	require.Equal(t, 2, frame.Rows())
}

func TestTakeZeroYieldsNoRows(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{{int64(1), "a", int64(1)}})
	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	take := &exec.Take{Upstream: scan, N: 0}
	frame := drainOperator(t, take)
	assert.Equal(t, 0, frame.Rows())
}
