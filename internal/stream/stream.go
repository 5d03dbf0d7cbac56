// Package stream implements the streaming API every query and command
// result travels through: a bounded channel of column.Frame batches plus a
// cancellation token checked at batch boundaries, matching the teacher's
// own channel-plus-stopCh pattern for background work (see
// pkg/events.Broker, pkg/scheduler.Scheduler) generalized to a cancellable
// single-consumer stream instead of a broadcast bus.
package stream

import (
	"sync"

	"github.com/reifydb/reifydb/internal/column"
)

// DefaultCapacity is the frame channel's buffer size absent an explicit
// override.
const DefaultCapacity = 8

// Token is a cancellation token shared by every operator in one pipeline
// and, for a parallel statement batch, by every pipeline in the batch.
// Cancel is idempotent and safe to call from any goroutine.
type Token struct {
	done chan struct{}
	once sync.Once
}

// NewToken returns a Token in the not-canceled state.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel marks the token canceled. Safe to call more than once.
func (t *Token) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Canceled reports whether Cancel has been called.
func (t *Token) Canceled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the token is canceled, for use in a
// select alongside a channel send/receive.
func (t *Token) Done() <-chan struct{} { return t.done }

// Item is one value delivered on a FrameStream: either a Frame or a
// terminal error. After an Err item, the stream is closed and no further
// items follow.
type Item struct {
	Frame *column.Frame
	Err   error
}

// FrameStream is a bounded, cancellable, single-producer/single-consumer
// channel of Items. The executor's root operator is the producer; the
// query or command caller is the consumer.
type FrameStream struct {
	ch    chan Item
	token *Token
	once  sync.Once
}

// New returns a FrameStream with the given buffer capacity, backed by
// token for cancellation. Use DefaultCapacity absent a specific reason to
// deviate.
func New(capacity int, token *Token) *FrameStream {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FrameStream{ch: make(chan Item, capacity), token: token}
}

// Chan exposes the receive side for range/select by the stream's consumer.
func (s *FrameStream) Chan() <-chan Item { return s.ch }

// Token returns the cancellation token this stream was built with.
func (s *FrameStream) Token() *Token { return s.token }

// Send delivers f to the consumer, blocking under backpressure until there
// is room or the token is canceled. It reports false if the token was
// canceled before delivery — callers must stop producing in that case.
func (s *FrameStream) Send(f *column.Frame) bool {
	select {
	case s.ch <- Item{Frame: f}:
		return true
	case <-s.token.Done():
		return false
	}
}

// SendErr delivers a terminal error and closes the stream. After SendErr,
// any further Send/SendErr is a no-op: the channel closes exactly once.
func (s *FrameStream) SendErr(err error) {
	select {
	case s.ch <- Item{Err: err}:
	case <-s.token.Done():
	}
	s.Close()
}

// Close closes the channel. Safe to call more than once; only the first
// call has effect.
func (s *FrameStream) Close() {
	s.once.Do(func() { close(s.ch) })
}
