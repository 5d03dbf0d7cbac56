// Package memstore is the in-memory tier storage backend: a sorted map
// with reader-writer locking on the whole map per kind, writes replace
// entries, tombstones are stored as nil values.
package memstore

import (
	"sync"

	"github.com/google/btree"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/storage"
)

type item struct {
	key   encoding.Key
	value []byte // nil means tombstone
}

func less(a, b item) bool { return a.key.Compare(b.key) < 0 }

// Store is the in-memory Backend implementation.
type Store struct {
	mu    sync.RWMutex
	kinds map[storage.Kind]*btree.BTreeG[item]
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{kinds: make(map[storage.Kind]*btree.BTreeG[item])}
}

func (s *Store) treeLocked(kind storage.Kind) *btree.BTreeG[item] {
	t, ok := s.kinds[kind]
	if !ok {
		t = btree.NewG(32, less)
		s.kinds[kind] = t
	}
	return t
}

func (s *Store) Get(kind storage.Kind, key encoding.Key) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.kinds[kind]
	if !ok {
		return nil, false, nil
	}
	it, found := t.Get(item{key: key})
	if !found || it.value == nil {
		return nil, false, nil
	}
	return it.value, true, nil
}

func (s *Store) Contains(kind storage.Kind, key encoding.Key) (bool, error) {
	_, ok, err := s.Get(kind, key)
	return ok, err
}

func (s *Store) Set(batch map[storage.Kind][]storage.Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for kind, writes := range batch {
		t := s.treeLocked(kind)
		for _, w := range writes {
			t.ReplaceOrInsert(item{key: w.Key, value: w.Value})
		}
	}
	return nil
}

// rangeLocked scans kind's tree in ascending (or, if reverse, descending)
// key order over r, skipping past cursor's last-seen key, collecting up to
// batchSize live entries (tombstones are skipped and don't count against
// the batch). It walks the whole tree with Ascend/Descend rather than a
// bounded pivot scan because Bound's Included/Excluded distinction doesn't
// map onto btree's plain key pivots.
func (s *Store) rangeLocked(kind storage.Kind, cursor *storage.Cursor, r encoding.Range, batchSize int, reverse bool) ([]storage.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.kinds[kind]
	if !ok {
		cursor.Exhausted = true
		return nil, false, nil
	}

	effective := r
	if cursor.LastKey != nil {
		if reverse {
			effective = effective.WithExcludedEnd(*cursor.LastKey)
		} else {
			effective = effective.WithExcludedStart(*cursor.LastKey)
		}
	}

	entries := make([]storage.Entry, 0, batchSize)
	more := false

	visit := func(it item) bool {
		if !effective.Contains(it.key) {
			return true
		}
		if len(entries) >= batchSize {
			more = true
			return false
		}
		if it.value != nil {
			entries = append(entries, storage.Entry{Key: it.key, Value: it.value})
		}
		return true
	}

	if reverse {
		t.Descend(visit)
	} else {
		t.Ascend(visit)
	}

	if len(entries) > 0 {
		last := entries[len(entries)-1].Key
		cursor.LastKey = &last
	}
	if !more {
		cursor.Exhausted = true
	}
	return entries, more, nil
}

func (s *Store) RangeNext(kind storage.Kind, cursor *storage.Cursor, r encoding.Range, batchSize int) ([]storage.Entry, bool, error) {
	return s.rangeLocked(kind, cursor, r, batchSize, false)
}

func (s *Store) RangeRevNext(kind storage.Kind, cursor *storage.Cursor, r encoding.Range, batchSize int) ([]storage.Entry, bool, error) {
	return s.rangeLocked(kind, cursor, r, batchSize, true)
}

func (s *Store) EnsureKind(kind storage.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.treeLocked(kind)
	return nil
}

func (s *Store) ClearKind(kind storage.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kinds, kind)
	return nil
}

func (s *Store) Drop(batch map[storage.Kind][]encoding.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for kind, keys := range batch {
		t, ok := s.kinds[kind]
		if !ok {
			continue
		}
		for _, k := range keys {
			t.Delete(item{key: k})
		}
	}
	return nil
}

func (s *Store) Close() error { return nil }

var _ storage.Backend = (*Store)(nil)
