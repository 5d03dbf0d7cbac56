package intercept_test

import (
	"errors"
	"testing"

	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/intercept"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) encoding.Key { return encoding.NewKey([]byte(s)) }

func TestPreMutationChainRunsInAppendOrder(t *testing.T) {
	var order []string
	ic := intercept.New()
	ic.PreMutation(intercept.SourceTable, intercept.OpInsert).Append(func(ctx *intercept.MutationContext) error {
		order = append(order, "first")
		return nil
	})
	ic.PreMutation(intercept.SourceTable, intercept.OpInsert).Append(func(ctx *intercept.MutationContext) error {
		order = append(order, "second")
		return nil
	})

	err := ic.RunPreMutation(&intercept.MutationContext{Source: intercept.SourceTable, Op: intercept.OpInsert, Key: key("a")})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPreMutationChainStopsAtFirstError(t *testing.T) {
	var ran []string
	ic := intercept.New()
	boom := errors.New("rejected")
	ic.PreMutation(intercept.SourceTable, intercept.OpUpdate).Append(func(ctx *intercept.MutationContext) error {
		ran = append(ran, "a")
		return boom
	})
	ic.PreMutation(intercept.SourceTable, intercept.OpUpdate).Append(func(ctx *intercept.MutationContext) error {
		ran = append(ran, "b")
		return nil
	})

	err := ic.RunPreMutation(&intercept.MutationContext{Source: intercept.SourceTable, Op: intercept.OpUpdate, Key: key("a")})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, ran, "second stage must not run once the first aborts")
}

func TestChainsAreScopedPerSourceAndOp(t *testing.T) {
	var tableInserts, viewInserts int
	ic := intercept.New()
	ic.PreMutation(intercept.SourceTable, intercept.OpInsert).Append(func(ctx *intercept.MutationContext) error {
		tableInserts++
		return nil
	})
	ic.PreMutation(intercept.SourceView, intercept.OpInsert).Append(func(ctx *intercept.MutationContext) error {
		viewInserts++
		return nil
	})

	require.NoError(t, ic.RunPreMutation(&intercept.MutationContext{Source: intercept.SourceTable, Op: intercept.OpInsert}))
	assert.Equal(t, 1, tableInserts)
	assert.Equal(t, 0, viewInserts)
}

func TestPostMutationChainRunsAllStagesEvenWithoutResult(t *testing.T) {
	count := 0
	ic := intercept.New()
	ic.PostMutation(intercept.SourceRingBuffer, intercept.OpDelete).Append(func(ctx *intercept.MutationContext) {
		count++
	})
	ic.PostMutation(intercept.SourceRingBuffer, intercept.OpDelete).Append(func(ctx *intercept.MutationContext) {
		count++
	})

	ic.RunPostMutation(&intercept.MutationContext{Source: intercept.SourceRingBuffer, Op: intercept.OpDelete})
	assert.Equal(t, 2, count)
}

func TestPreCommitInterceptorCanAppendWrites(t *testing.T) {
	ic := intercept.New()
	ic.PreCommit.Append(func(ctx *intercept.PreCommitContext) error {
		ctx.Append(key("derived"), []byte("v"), false)
		return nil
	})

	ctx := &intercept.PreCommitContext{TransactionWrites: []intercept.PendingWrite{{Key: key("a"), Value: []byte("1")}}}
	require.NoError(t, ic.PreCommit.Execute(ctx))
	require.Len(t, ctx.PendingWrites, 1)
	assert.Equal(t, "derived", ctx.PendingWrites[0].Key.String())
}

func TestPreCommitInterceptorCanAbort(t *testing.T) {
	ic := intercept.New()
	boom := errors.New("constraint violated")
	ic.PreCommit.Append(func(ctx *intercept.PreCommitContext) error {
		return boom
	})

	err := ic.PreCommit.Execute(&intercept.PreCommitContext{})
	assert.ErrorIs(t, err, boom)
}

func TestPostCommitInterceptorObservesVersionAndChanges(t *testing.T) {
	var gotVersion uint64
	var gotChanges int
	ic := intercept.New()
	ic.PostCommit.Append(func(ctx *intercept.PostCommitContext) {
		gotVersion = ctx.Version
		gotChanges = len(ctx.RowChanges)
	})

	ic.PostCommit.Execute(&intercept.PostCommitContext{
		Version:    7,
		RowChanges: []intercept.RowChange{{Key: key("a")}, {Key: key("b")}},
	})
	assert.Equal(t, uint64(7), gotVersion)
	assert.Equal(t, 2, gotChanges)
}
