package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/exec"
	"github.com/reifydb/reifydb/internal/stream"
)

func TestRunDeliversFramesThenCloses(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	seedUsers(t, mgr, 1, schema, [][3]any{
		{int64(1), "alice", int64(30)},
		{int64(2), "bob", int64(25)},
	})
	q := mgr.BeginQuery()
	defer q.Close()

	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	token := stream.NewToken()
	s := stream.New(4, token)
	exec.Run(scan, s)

	item, ok := <-s.Chan()
	require.True(t, ok)
	require.NoError(t, item.Err)
	assert.Equal(t, 2, item.Frame.Rows())

	_, ok = <-s.Chan()
	assert.False(t, ok)
}

func TestRunSurfacesOperatorError(t *testing.T) {
	token := stream.NewToken()
	s := stream.New(1, token)
	exec.Run(failingOperator{}, s)

	item, ok := <-s.Chan()
	require.True(t, ok)
	require.Error(t, item.Err)

	_, ok = <-s.Chan()
	assert.False(t, ok)
}
