package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/column"
)

func TestFrameStreamSendReceive(t *testing.T) {
	token := NewToken()
	s := New(2, token)

	f := column.Empty()
	go func() {
		require.True(t, s.Send(f))
		s.Close()
	}()

	item, ok := <-s.Chan()
	require.True(t, ok)
	require.Nil(t, item.Err)
	require.Same(t, f, item.Frame)

	_, ok = <-s.Chan()
	require.False(t, ok)
}

func TestFrameStreamCancelUnblocksSend(t *testing.T) {
	token := NewToken()
	s := New(1, token)
	// Fill the single buffer slot so the next Send blocks until receive or cancel.
	require.True(t, s.Send(column.Empty()))

	done := make(chan bool, 1)
	go func() {
		done <- s.Send(column.Empty())
	}()

	token.Cancel()
	require.False(t, <-done)
	require.True(t, token.Canceled())
}

func TestFrameStreamSendErrClosesChannel(t *testing.T) {
	token := NewToken()
	s := New(1, token)

	s.SendErr(assertErr{})

	item, ok := <-s.Chan()
	require.True(t, ok)
	require.Error(t, item.Err)

	_, ok = <-s.Chan()
	require.False(t, ok)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
