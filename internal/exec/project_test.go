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

func TestProjectComputesAndRenamesColumns(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{{int64(1), "alice", int64(30)}})
	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	p := &exec.Project{
		Upstream: scan,
		Columns: []exec.ProjectColumn{
			{Name: "identifier", Expr: expr.ColumnRef{Name: "id", Fragment: diagnostic.InternalFragment()}},
			{Name: "next_age", Expr: expr.Binary{
				Op:       expr.OpAdd,
				Left:     expr.ColumnRef{Name: "age", Fragment: diagnostic.InternalFragment()},
				Right:    expr.Constant{Value: value.Int8Value(1)},
				Fragment: diagnostic.InternalFragment(),
			}},
		},
	}

	frame := drainOperator(t, p)
	require.Equal(t, 1, frame.Rows())
	assert.Equal(t, []string{"identifier", "next_age"}, frame.Names())
	assert.Equal(t, int64(31), columnInts(t, frame, "next_age")[0])
}
