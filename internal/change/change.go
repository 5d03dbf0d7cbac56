// Package change implements row-change capture and flow materialization
// plumbing: every table/view/ring-buffer mutation records a RowChange
// (source, key, before/after image) on a per-transaction Recorder; at
// pre-commit, registered FlowTranslators observe the recorded changes and
// may produce further writes (materialized view rows) that re-enter the
// commit batch before conflict validation; at post-commit, the same
// changes are published to a CDC Log for external consumers.
package change

import (
	"sync"

	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/intercept"
)

// RowChange is one logical row mutation: which source it belongs to, its
// key, and its before/after images. Before is nil for an insert, After is
// nil for a delete.
type RowChange struct {
	SourceID uint64
	Key      encoding.Key
	Before   []byte
	After    []byte
	Op       intercept.Op
}

// Recorder accumulates the RowChanges of one in-flight command transaction.
// The executor's mutation path calls Record as part of each insert/update/
// delete; the pre-commit and post-commit stages built from the same
// Recorder read it back once the transaction reaches commit.
type Recorder struct {
	mu      sync.Mutex
	changes []RowChange
}

// NewRecorder returns an empty Recorder, one per command transaction.
func NewRecorder() *Recorder { return &Recorder{} }

// Record appends c. Safe for concurrent use, though a single command
// transaction is ordinarily single-threaded.
func (r *Recorder) Record(c RowChange) {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
}

// Changes returns a snapshot of everything recorded so far.
func (r *Recorder) Changes() []RowChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RowChange(nil), r.changes...)
}

// Reset clears the recorder, for reuse across transactions from a pool (the
// executor does not currently pool recorders, but Reset keeps the option
// open without an API change).
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.changes = r.changes[:0]
	r.mu.Unlock()
}

// Write is one key/value (or tombstone) pair a FlowTranslator wants added
// to the same commit batch as the table writes that produced it.
type Write struct {
	Key       encoding.Key
	Value     []byte
	Tombstone bool
}

// FlowTranslator observes the full set of row changes recorded so far in a
// transaction and derives additional writes from them — the mechanism
// materialized views use to stay consistent with their upstream table
// inside the same transaction and commit version.
type FlowTranslator func(changes []RowChange) ([]Write, error)

// PreCommitStage builds the intercept.PreCommitInterceptor that runs every
// registered translator over recorder's current changes and folds the
// results into the commit batch. A translator error aborts the commit,
// matching interceptor semantics generally (§4.6).
func PreCommitStage(recorder *Recorder, translators []FlowTranslator) intercept.PreCommitInterceptor {
	return func(ctx *intercept.PreCommitContext) error {
		if len(translators) == 0 {
			return nil
		}
		changes := recorder.Changes()
		for _, translate := range translators {
			writes, err := translate(changes)
			if err != nil {
				return err
			}
			for _, w := range writes {
				ctx.Append(w.Key, w.Value, w.Tombstone)
			}
		}
		return nil
	}
}

// Commit is one durable (CommitVersion, changes) entry published to a Log.
type Commit struct {
	Version uint64
	Changes []RowChange
}

// subscriberBuffer bounds how many undelivered Commits a slow CDC consumer
// may accumulate before further publishes to it are dropped, matching the
// teacher's own per-subscriber buffered-channel broker (pkg/events.Broker)
// rather than blocking the commit path on a slow reader.
const subscriberBuffer = 256

// Log is the CDC stream: a publish/subscribe broker of Commits, monotonic
// in CommitVersion, fed by one PostCommitStage per engine instance.
type Log struct {
	mu          sync.RWMutex
	subscribers map[chan Commit]struct{}
}

// NewLog returns an empty Log with no subscribers.
func NewLog() *Log {
	return &Log{subscribers: make(map[chan Commit]struct{})}
}

// Subscribe registers a new consumer and returns its receive channel. The
// caller must Unsubscribe when done to release the buffer.
func (l *Log) Subscribe() <-chan Commit {
	ch := make(chan Commit, subscriberBuffer)
	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe. Passing a
// channel not currently subscribed is a no-op.
func (l *Log) Unsubscribe(ch <-chan Commit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for sub := range l.subscribers {
		if sub == ch {
			delete(l.subscribers, sub)
			close(sub)
			return
		}
	}
}

// Publish fans c out to every current subscriber. A subscriber whose
// buffer is full is skipped rather than blocking the post-commit chain —
// CDC delivery is best-effort past the done-until watermark, not a
// guaranteed-delivery queue.
func (l *Log) Publish(c Commit) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for sub := range l.subscribers {
		select {
		case sub <- c:
		default:
		}
	}
}

// PostCommitStage builds the intercept.PostCommitInterceptor that publishes
// recorder's changes (as observed at the moment the chain runs, which is
// after the commit version is durable) to log, then resets recorder for
// the transaction object's next use.
func PostCommitStage(recorder *Recorder, log *Log) intercept.PostCommitInterceptor {
	return func(ctx *intercept.PostCommitContext) {
		log.Publish(Commit{Version: ctx.Version, Changes: recorder.Changes()})
		recorder.Reset()
	}
}
