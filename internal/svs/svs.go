// Package svs implements the single-version store's strict two-phase
// locking transaction manager: each transaction declares its keyset
// upfront, locks are acquired in sorted key order to avoid deadlock, and
// held until commit or rollback.
package svs

import (
	"sort"
	"sync"

	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/storage"
)

// Manager owns the single-version keyspace and the per-key locks used to
// implement strict 2PL over a caller-declared keyset.
type Manager struct {
	backend storage.Backend

	locksMu  sync.Mutex
	keyLocks map[string]*sync.RWMutex
}

// New returns a Manager backed by backend, which must have
// storage.KindSingleVersion available (EnsureKind is called for you by
// the caller wiring the engine together).
func New(backend storage.Backend) *Manager {
	return &Manager{backend: backend, keyLocks: make(map[string]*sync.RWMutex)}
}

func (m *Manager) lockFor(key encoding.Key) *sync.RWMutex {
	k := string(key.Bytes())
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.keyLocks[k]
	if !ok {
		l = &sync.RWMutex{}
		m.keyLocks[k] = l
	}
	return l
}

func sortedKeys(keys []encoding.Key) []encoding.Key {
	out := append([]encoding.Key(nil), keys...)
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

func declared(keys []encoding.Key, key encoding.Key) bool {
	for _, k := range keys {
		if k.Equal(key) {
			return true
		}
	}
	return false
}

// QueryTransaction is a read-only transaction scoped to a declared keyset,
// holding a read lock on each declared key for its lifetime.
type QueryTransaction struct {
	m     *Manager
	keys  []encoding.Key
	locks []*sync.RWMutex
	done  bool
}

// BeginQuery declares keys as this query's scope, sorts them for a
// deadlock-free acquisition order, and takes a read lock on each.
func (m *Manager) BeginQuery(keys []encoding.Key) (*QueryTransaction, error) {
	if len(keys) == 0 {
		return nil, diagnostic.EmptyKeyset()
	}
	sorted := sortedKeys(keys)
	locks := make([]*sync.RWMutex, 0, len(sorted))
	for _, k := range sorted {
		l := m.lockFor(k)
		l.RLock()
		locks = append(locks, l)
	}
	return &QueryTransaction{m: m, keys: sorted, locks: locks}, nil
}

// Get reads key, which must be in the declared keyset.
func (t *QueryTransaction) Get(key encoding.Key) ([]byte, bool, error) {
	if !declared(t.keys, key) {
		return nil, false, diagnostic.KeyNotInDeclaredSet()
	}
	return t.m.backend.Get(storage.KindSingleVersion, key)
}

// Close releases all locks held by this query. Safe to call once; a
// second call is a no-op.
func (t *QueryTransaction) Close() {
	if t.done {
		return
	}
	t.done = true
	for _, l := range t.locks {
		l.RUnlock()
	}
}

// CommandTransaction is a read-write transaction scoped to a declared
// keyset, holding a write lock on each declared key until Commit or
// Rollback.
type CommandTransaction struct {
	m       *Manager
	keys    []encoding.Key
	locks   []*sync.RWMutex
	pending []storage.Write
	done    bool
}

// BeginCommand declares keys as this command's scope, sorts them for a
// deadlock-free acquisition order, and takes a write lock on each.
func (m *Manager) BeginCommand(keys []encoding.Key) (*CommandTransaction, error) {
	if len(keys) == 0 {
		return nil, diagnostic.EmptyKeyset()
	}
	sorted := sortedKeys(keys)
	locks := make([]*sync.RWMutex, 0, len(sorted))
	for _, k := range sorted {
		l := m.lockFor(k)
		l.Lock()
		locks = append(locks, l)
	}
	return &CommandTransaction{m: m, keys: sorted, locks: locks}, nil
}

// Get reads key, seeing this transaction's own uncommitted writes first.
func (t *CommandTransaction) Get(key encoding.Key) ([]byte, bool, error) {
	if !declared(t.keys, key) {
		return nil, false, diagnostic.KeyNotInDeclaredSet()
	}
	for i := len(t.pending) - 1; i >= 0; i-- {
		if t.pending[i].Key.Equal(key) {
			if t.pending[i].IsTombstone() {
				return nil, false, nil
			}
			return t.pending[i].Value, true, nil
		}
	}
	return t.m.backend.Get(storage.KindSingleVersion, key)
}

// Set buffers a write to key, which must be in the declared keyset.
func (t *CommandTransaction) Set(key encoding.Key, value []byte) error {
	if !declared(t.keys, key) {
		return diagnostic.KeyNotInDeclaredSet()
	}
	t.pending = append(t.pending, storage.Write{Key: key, Value: value})
	return nil
}

// Delete buffers a tombstone for key, which must be in the declared
// keyset.
func (t *CommandTransaction) Delete(key encoding.Key) error {
	return t.Set(key, nil)
}

// Commit applies all buffered writes atomically and releases the
// transaction's locks.
func (t *CommandTransaction) Commit() error {
	defer t.release()
	if t.done {
		return diagnostic.AlreadyCommitted()
	}
	if len(t.pending) == 0 {
		return nil
	}
	return t.m.backend.Set(map[storage.Kind][]storage.Write{storage.KindSingleVersion: t.pending})
}

// Rollback discards buffered writes and releases the transaction's locks.
func (t *CommandTransaction) Rollback() error {
	defer t.release()
	t.pending = nil
	return nil
}

func (t *CommandTransaction) release() {
	if t.done {
		return
	}
	t.done = true
	for _, l := range t.locks {
		l.Unlock()
	}
}
