package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/change"
	"github.com/reifydb/reifydb/internal/exec"
	"github.com/reifydb/reifydb/internal/intercept"
	"github.com/reifydb/reifydb/internal/value"
)

func TestBulkInsertValidatedRejectsEmptyPrimaryKey(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	cmd := mgr.BeginCommand()
	mutator := exec.NewMutator(cmd, intercept.SourceTable, nil, nil)
	bi, err := exec.NewBulkInsert(mutator, exec.TableDef{SourceID: 1, Schema: schema}, []string{"id"}, exec.InsertValidated)
	require.NoError(t, err)

	err = bi.Append([]value.Value{value.Undef(), value.Utf8Value("alice"), value.Int8Value(30)})
	assert.Error(t, err)
}

func TestBulkInsertWritesRowsVisibleAfterCommit(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	cmd := mgr.BeginCommand()
	mutator := exec.NewMutator(cmd, intercept.SourceTable, nil, nil)
	bi, err := exec.NewBulkInsert(mutator, exec.TableDef{SourceID: 1, Schema: schema}, []string{"id"}, exec.InsertTrusted)
	require.NoError(t, err)

	require.NoError(t, bi.Append([]value.Value{value.Int8Value(1), value.Utf8Value("alice"), value.Int8Value(30)}))
	require.NoError(t, bi.Append([]value.Value{value.Int8Value(2), value.Utf8Value("bob"), value.Int8Value(25)}))
	_, err = cmd.Commit()
	require.NoError(t, err)

	q := mgr.BeginQuery()
	defer q.Close()
	scan := exec.NewTableScan(exec.TableDef{SourceID: 1, Schema: schema}, exec.NewQueryReader(q))
	frame := drainOperator(t, scan)
	require.Equal(t, 2, frame.Rows())
}

func TestMutatorRecordsChangesForCDC(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	cmd := mgr.BeginCommand()
	recorder := change.NewRecorder()
	mutator := exec.NewMutator(cmd, intercept.SourceTable, nil, recorder)
	bi, err := exec.NewBulkInsert(mutator, exec.TableDef{SourceID: 1, Schema: schema}, []string{"id"}, exec.InsertTrusted)
	require.NoError(t, err)
	require.NoError(t, bi.Append([]value.Value{value.Int8Value(1), value.Utf8Value("alice"), value.Int8Value(30)}))

	changes := recorder.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, uint64(1), changes[0].SourceID)
	assert.Equal(t, intercept.OpInsert, changes[0].Op)
}

func TestMutatorPreMutationChainCanAbort(t *testing.T) {
	mgr := newManager()
	schema := usersSchema()
	cmd := mgr.BeginCommand()
	inter := intercept.New()
	inter.PreMutation(intercept.SourceTable, intercept.OpInsert).Append(func(ctx *intercept.MutationContext) error {
		return assertErrMutation{}
	})
	mutator := exec.NewMutator(cmd, intercept.SourceTable, inter, nil)
	bi, err := exec.NewBulkInsert(mutator, exec.TableDef{SourceID: 1, Schema: schema}, []string{"id"}, exec.InsertTrusted)
	require.NoError(t, err)

	err = bi.Append([]value.Value{value.Int8Value(1), value.Utf8Value("alice"), value.Int8Value(30)})
	assert.ErrorIs(t, err, assertErrMutation{})
}

type assertErrMutation struct{}

func (assertErrMutation) Error() string { return "rejected" }
