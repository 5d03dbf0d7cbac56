package txn

import (
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/mvs"
)

// QueryTransaction is a read-only view of the multi-version store pinned
// to a fixed snapshot version, so every read it performs — no matter how
// many concurrent commits happen in the meantime — sees the same data.
//
// A QueryTransaction holds its snapshot registered as active until Close,
// which keeps background version GC from reclaiming a version it might
// still read; callers must Close every QueryTransaction they begin.
type QueryTransaction struct {
	m        *Manager
	store    *mvs.Store
	id       uint64
	snapshot uint64
	closed   bool
}

// Version returns the snapshot version this transaction reads at.
func (t *QueryTransaction) Version() uint64 { return t.snapshot }

// Close releases this transaction's hold on its snapshot. Safe to call
// once; a second call is a no-op.
func (t *QueryTransaction) Close() {
	if t.closed {
		return
	}
	t.closed = true
	if t.m != nil {
		t.m.finishActive(t.id)
	}
}

// Get returns the value visible at this transaction's snapshot.
func (t *QueryTransaction) Get(key encoding.Key) ([]byte, bool, error) {
	return t.store.Get(key, t.snapshot)
}

// ContainsKey reports whether key has a live value at this snapshot.
func (t *QueryTransaction) ContainsKey(key encoding.Key) (bool, error) {
	return t.store.Contains(key, t.snapshot)
}

// RangeCursor carries continuation state for a chunked range/prefix read.
type RangeCursor struct {
	inner mvs.RangeCursor
}

// RangeBatched fetches up to batchSize entries within r, in ascending key
// order, visible at this transaction's snapshot.
func (t *QueryTransaction) RangeBatched(cursor *RangeCursor, r encoding.Range, batchSize int) ([]Entry, bool, error) {
	raw, hasMore, err := t.store.RangeNext(&cursor.inner, r, t.snapshot, batchSize)
	if err != nil {
		return nil, false, err
	}
	return toEntries(raw), hasMore, nil
}

// RangeRevBatched is the descending-order counterpart of RangeBatched.
func (t *QueryTransaction) RangeRevBatched(cursor *RangeCursor, r encoding.Range, batchSize int) ([]Entry, bool, error) {
	raw, hasMore, err := t.store.RangeRevNext(&cursor.inner, r, t.snapshot, batchSize)
	if err != nil {
		return nil, false, err
	}
	return toEntries(raw), hasMore, nil
}

// Prefix fetches up to batchSize entries under the byte-prefix of key.
func (t *QueryTransaction) Prefix(key encoding.Key, cursor *RangeCursor, batchSize int) ([]Entry, bool, error) {
	return t.RangeBatched(cursor, encoding.Prefix(key.Bytes()), batchSize)
}

// PrefixRev is the descending-order counterpart of Prefix.
func (t *QueryTransaction) PrefixRev(key encoding.Key, cursor *RangeCursor, batchSize int) ([]Entry, bool, error) {
	return t.RangeRevBatched(cursor, encoding.Prefix(key.Bytes()), batchSize)
}

func toEntries(raw []mvs.Entry) []Entry {
	out := make([]Entry, 0, len(raw))
	for _, e := range raw {
		out = append(out, Entry{Key: e.Key, Value: e.Value})
	}
	return out
}
