package change

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/intercept"
)

func key(s string) encoding.Key { return encoding.NewKey([]byte(s)) }

func TestPreCommitStageFoldsTranslatedWrites(t *testing.T) {
	recorder := NewRecorder()
	recorder.Record(RowChange{SourceID: 1, Key: key("a"), After: []byte("v1"), Op: intercept.OpInsert})

	translator := func(changes []RowChange) ([]Write, error) {
		require.Len(t, changes, 1)
		return []Write{{Key: key("view/a"), Value: []byte("derived")}}, nil
	}

	stage := PreCommitStage(recorder, []FlowTranslator{translator})
	ctx := &intercept.PreCommitContext{}
	require.NoError(t, stage(ctx))
	require.Len(t, ctx.PendingWrites, 1)
	require.Equal(t, "view/a", string(ctx.PendingWrites[0].Key.Bytes()))
	require.Equal(t, "derived", string(ctx.PendingWrites[0].Value))
}

func TestPreCommitStageAbortsOnTranslatorError(t *testing.T) {
	recorder := NewRecorder()
	boom := errBoom{}
	stage := PreCommitStage(recorder, []FlowTranslator{
		func(changes []RowChange) ([]Write, error) { return nil, boom },
	})
	require.ErrorIs(t, stage(&intercept.PreCommitContext{}), boom)
}

func TestLogPublishDeliversToSubscribers(t *testing.T) {
	log := NewLog()
	ch := log.Subscribe()

	log.Publish(Commit{Version: 1, Changes: []RowChange{{SourceID: 1, Key: key("a")}}})

	got := <-ch
	require.Equal(t, uint64(1), got.Version)
	require.Len(t, got.Changes, 1)

	log.Unsubscribe(ch)
	_, ok := <-ch
	require.False(t, ok)
}

func TestLogPublishDropsOnFullSubscriberBuffer(t *testing.T) {
	log := NewLog()
	ch := log.Subscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		log.Publish(Commit{Version: uint64(i)})
	}
	require.Len(t, ch, subscriberBuffer)
}

func TestPostCommitStageResetsRecorder(t *testing.T) {
	recorder := NewRecorder()
	recorder.Record(RowChange{SourceID: 1, Key: key("a")})
	log := NewLog()
	ch := log.Subscribe()

	stage := PostCommitStage(recorder, log)
	stage(&intercept.PostCommitContext{Version: 7})

	got := <-ch
	require.Equal(t, uint64(7), got.Version)
	require.Len(t, got.Changes, 1)
	require.Empty(t, recorder.Changes())
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
