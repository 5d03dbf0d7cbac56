package txn

import (
	"github.com/reifydb/reifydb/internal/conflict"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/intercept"
	"github.com/reifydb/reifydb/internal/metrics"
	"github.com/reifydb/reifydb/internal/mvs"
)

// CommandTransaction is an active read-write transaction: reads check its
// own pending-writes buffer first (read-your-writes), then fall back to the
// store at its read snapshot; every read and write is tracked by a conflict
// manager that's validated against concurrently committed transactions at
// commit time.
type CommandTransaction struct {
	m        *Manager
	id       uint64
	snapshot uint64
	pending  *PendingWrites
	conflict *conflict.Manager
	state    txnState
}

// Version returns the snapshot this transaction reads against. Note this is
// the *read* snapshot, not the eventual commit version (only known once
// Commit succeeds).
func (t *CommandTransaction) Version() uint64 { return t.snapshot }

func (t *CommandTransaction) checkActive() error {
	switch t.state {
	case txnCommitted:
		return diagnostic.AlreadyCommitted()
	case txnRolledBack:
		return diagnostic.AlreadyRolledBack()
	default:
		return nil
	}
}

// Get reads key, checking the pending-writes buffer first.
func (t *CommandTransaction) Get(key encoding.Key) ([]byte, bool, error) {
	if err := t.checkActive(); err != nil {
		return nil, false, err
	}
	t.conflict.MarkRead(key)
	if d, ok := t.pending.get(key); ok {
		if d.Tombstone {
			return nil, false, nil
		}
		return d.Value, true, nil
	}
	return t.m.store.Get(key, t.snapshot)
}

// ContainsKey reports whether key has a live value, checking pending writes
// first.
func (t *CommandTransaction) ContainsKey(key encoding.Key) (bool, error) {
	if err := t.checkActive(); err != nil {
		return false, err
	}
	t.conflict.MarkRead(key)
	if d, ok := t.pending.get(key); ok {
		return !d.Tombstone, nil
	}
	return t.m.store.Contains(key, t.snapshot)
}

// Set buffers a write to key.
func (t *CommandTransaction) Set(key encoding.Key, value []byte) error {
	if err := t.checkActive(); err != nil {
		return err
	}
	t.pending.set(Delta{Key: key, Value: value})
	t.conflict.MarkWrite(key)
	return nil
}

// Unset buffers a tombstone for key, capturing previousValue so CDC can
// report what was deleted.
func (t *CommandTransaction) Unset(key encoding.Key, previousValue []byte) error {
	if err := t.checkActive(); err != nil {
		return err
	}
	t.pending.set(Delta{Key: key, Tombstone: true, Previous: previousValue})
	t.conflict.MarkWrite(key)
	return nil
}

// Remove buffers a tombstone for key without capturing a previous value —
// for callers that only need the key gone (index entries, catalog rows)
// and have no use for its prior contents.
func (t *CommandTransaction) Remove(key encoding.Key) error {
	if err := t.checkActive(); err != nil {
		return err
	}
	t.pending.set(Delta{Key: key, Tombstone: true})
	t.conflict.MarkWrite(key)
	return nil
}

// RangeCommandCursor carries continuation state for a chunked range/prefix
// read issued against a CommandTransaction, whose result merges the
// transaction's own pending writes into the store's view.
type RangeCommandCursor struct {
	merged []Entry
	pos    int
	ready  bool
}

// RangeBatched fetches up to batchSize entries within r, merging this
// transaction's own pending writes (which take precedence) over the
// store's view at its read snapshot. The merged result is materialized on
// the cursor's first use and paginated from there.
func (t *CommandTransaction) RangeBatched(cursor *RangeCommandCursor, r encoding.Range, batchSize int) ([]Entry, bool, error) {
	return t.rangeBatched(cursor, r, batchSize, false)
}

// RangeRevBatched is the descending-order counterpart of RangeBatched.
func (t *CommandTransaction) RangeRevBatched(cursor *RangeCommandCursor, r encoding.Range, batchSize int) ([]Entry, bool, error) {
	return t.rangeBatched(cursor, r, batchSize, true)
}

// Prefix fetches up to batchSize entries under the byte-prefix of key.
func (t *CommandTransaction) Prefix(key encoding.Key, cursor *RangeCommandCursor, batchSize int) ([]Entry, bool, error) {
	return t.RangeBatched(cursor, encoding.Prefix(key.Bytes()), batchSize)
}

// PrefixRev is the descending-order counterpart of Prefix.
func (t *CommandTransaction) PrefixRev(key encoding.Key, cursor *RangeCommandCursor, batchSize int) ([]Entry, bool, error) {
	return t.RangeRevBatched(cursor, encoding.Prefix(key.Bytes()), batchSize)
}

func (t *CommandTransaction) rangeBatched(cursor *RangeCommandCursor, r encoding.Range, batchSize int, reverse bool) ([]Entry, bool, error) {
	if err := t.checkActive(); err != nil {
		return nil, false, err
	}
	if !cursor.ready {
		t.conflict.MarkRange(r)
		merged, err := t.mergeRange(r, reverse)
		if err != nil {
			return nil, false, err
		}
		cursor.merged = merged
		cursor.ready = true
	}
	end := cursor.pos + batchSize
	if end > len(cursor.merged) {
		end = len(cursor.merged)
	}
	batch := cursor.merged[cursor.pos:end]
	cursor.pos = end
	return batch, cursor.pos < len(cursor.merged), nil
}

// mergeRange drains the store's view of r at this transaction's snapshot in
// full, overlays pending writes that fall within r (a pending tombstone
// removes a store entry, a pending set overrides or adds one), and returns
// the result sorted for the requested direction.
func (t *CommandTransaction) mergeRange(r encoding.Range, reverse bool) ([]Entry, error) {
	byKey := make(map[string]Entry)
	var storeCursor RangeCursor
	qtx := QueryTransaction{store: t.m.store, snapshot: t.snapshot}
	for {
		var (
			batch   []Entry
			hasMore bool
			err     error
		)
		if reverse {
			batch, hasMore, err = qtx.RangeRevBatched(&storeCursor, r, tierScanPageSize)
		} else {
			batch, hasMore, err = qtx.RangeBatched(&storeCursor, r, tierScanPageSize)
		}
		if err != nil {
			return nil, err
		}
		for _, e := range batch {
			byKey[string(e.Key.Bytes())] = e
		}
		if !hasMore {
			break
		}
	}

	for _, d := range t.pending.Deltas() {
		if !r.Contains(d.Key) {
			continue
		}
		k := string(d.Key.Bytes())
		if d.Tombstone {
			delete(byKey, k)
			continue
		}
		byKey[k] = Entry{Key: d.Key, Value: d.Value}
	}

	out := make([]Entry, 0, len(byKey))
	for _, e := range byKey {
		out = append(out, e)
	}
	sortEntries(out, reverse)
	return out, nil
}

// tierScanPageSize bounds how many entries mergeRange pulls from the store
// per round trip while materializing a command transaction's merged range
// view.
const tierScanPageSize = 4096

// Commit runs the pre-commit chain, validates this transaction against
// every transaction committed since its read snapshot, assigns the next
// commit version under the manager's ordering lock, persists its pending
// writes (plus anything the pre-commit chain appended), publishes the new
// done-until watermark, and runs the post-commit chain. On conflict, or if
// a pre-commit interceptor rejects the commit, the transaction is left
// rolled back; callers should not retry the same CommandTransaction value.
func (t *CommandTransaction) Commit() (uint64, error) {
	if err := t.checkActive(); err != nil {
		return 0, err
	}

	deltas := t.pending.Deltas()

	if t.m.interceptors != nil && t.m.interceptors.PreCommit.Len() > 0 {
		preCtx := &intercept.PreCommitContext{TransactionWrites: toPendingWrites(deltas)}
		if err := t.m.interceptors.PreCommit.Execute(preCtx); err != nil {
			t.state = txnRolledBack
			t.m.finishActive(t.id)
			return 0, diagnostic.PreCommitAbort(err)
		}
		for _, w := range preCtx.PendingWrites {
			t.pending.set(Delta{Key: w.Key, Value: w.Value, Tombstone: w.Tombstone})
			t.conflict.MarkWrite(w.Key)
		}
		deltas = t.pending.Deltas()
	}

	writeKeys := t.pending.Keys()

	t.m.commitMu.Lock()
	t.m.nextVersion++
	version := t.m.nextVersion

	if t.m.conflictsSinceLocked(t.conflict, t.snapshot) {
		t.m.commitMu.Unlock()
		t.state = txnRolledBack
		t.m.finishActive(t.id)
		metrics.CommitsTotal.WithLabelValues("conflict").Inc()
		return 0, diagnostic.ConflictDetected()
	}

	if len(deltas) > 0 {
		writes := make([]mvs.Write, 0, len(deltas))
		for _, d := range deltas {
			writes = append(writes, mvs.Write{Key: d.Key, Value: d.Value, Tombstone: d.Tombstone})
		}
		if err := t.m.store.Commit(writes, version); err != nil {
			t.m.commitMu.Unlock()
			t.state = txnRolledBack
			t.m.finishActive(t.id)
			return 0, err
		}
	}

	t.m.history = append(t.m.history, committedEntry{version: version, conflict: t.conflict})
	t.m.publishDoneUntil(version)
	t.m.commitMu.Unlock()

	t.state = txnCommitted
	t.m.finishActive(t.id)
	t.m.scheduleGC(writeKeys)

	if t.m.interceptors != nil && t.m.interceptors.PostCommit.Len() > 0 {
		postCtx := &intercept.PostCommitContext{Version: version, RowChanges: toRowChanges(deltas)}
		t.m.interceptors.PostCommit.Execute(postCtx)
	}

	return version, nil
}

func toPendingWrites(deltas []Delta) []intercept.PendingWrite {
	out := make([]intercept.PendingWrite, 0, len(deltas))
	for _, d := range deltas {
		out = append(out, intercept.PendingWrite{Key: d.Key, Value: d.Value, Tombstone: d.Tombstone})
	}
	return out
}

func toRowChanges(deltas []Delta) []intercept.RowChange {
	out := make([]intercept.RowChange, 0, len(deltas))
	for _, d := range deltas {
		out = append(out, intercept.RowChange{Key: d.Key, Value: d.Value, Tombstone: d.Tombstone})
	}
	return out
}

// Rollback discards pending state. No store interaction occurs.
func (t *CommandTransaction) Rollback() error {
	if err := t.checkActive(); err != nil {
		return err
	}
	t.state = txnRolledBack
	t.m.finishActive(t.id)
	return nil
}
