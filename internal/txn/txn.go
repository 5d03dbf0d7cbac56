// Package txn implements the multi-version transaction manager: snapshot
// reads, a pending-writes buffer with read-your-writes semantics, optimistic
// conflict checking against transactions committed since the reader's
// snapshot, monotonic commit-version assignment, and a done-until watermark
// that both bounds CDC polling and drives internal/mvs's background version
// garbage collection.
package txn

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/reifydb/reifydb/internal/conflict"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/intercept"
	"github.com/reifydb/reifydb/internal/mvs"
)

// Manager owns the commit-version counter, the done-until watermark, and
// the recent history of committed transactions' read/write footprints used
// to validate new commits.
type Manager struct {
	store *mvs.Store

	// commitMu is the ordering lock: held across version assignment,
	// conflict checking and persistence, so commits are fully serialized
	// and doneUntil always advances in step with the version counter.
	commitMu    sync.Mutex
	nextVersion uint64

	doneMu    sync.RWMutex
	doneUntil uint64

	activeMu  sync.Mutex
	nextTxnID uint64
	active    map[uint64]uint64 // txn id (command or query) -> read snapshot
	history   []committedEntry

	interceptors *intercept.Interceptors
}

type committedEntry struct {
	version  uint64
	conflict *conflict.Manager
}

// New returns a Manager over store. The initial done-until watermark is 0:
// nothing has committed yet.
func New(store *mvs.Store) *Manager {
	return &Manager{store: store, active: make(map[uint64]uint64)}
}

// DoneUntil returns the highest contiguous commit version known to have
// finished writing. CDC polling and new query snapshots are bounded by it.
func (m *Manager) DoneUntil() uint64 {
	m.doneMu.RLock()
	defer m.doneMu.RUnlock()
	return m.doneUntil
}

// SetInterceptors attaches the pre-commit and post-commit chains every
// future CommandTransaction.Commit runs. A nil or never-set Interceptors
// means commit runs no hooks at all.
func (m *Manager) SetInterceptors(ic *intercept.Interceptors) {
	m.interceptors = ic
}

func (m *Manager) publishDoneUntil(v uint64) {
	m.doneMu.Lock()
	m.doneUntil = v
	m.doneMu.Unlock()
}

// BeginQuery starts a read-only transaction at the current done-until
// snapshot.
func (m *Manager) BeginQuery() *QueryTransaction {
	return m.BeginQueryAtVersion(m.DoneUntil())
}

// BeginQueryAtVersion starts a read-only transaction pinned to version,
// letting multiple query transactions observe the exact same snapshot (used
// by the parallel statement scheduler). The snapshot is registered as active
// until Close, so background version GC never reclaims a version this
// transaction might still read.
func (m *Manager) BeginQueryAtVersion(version uint64) *QueryTransaction {
	id := m.registerActive(version)
	return &QueryTransaction{m: m, store: m.store, id: id, snapshot: version}
}

func (m *Manager) registerActive(snapshot uint64) uint64 {
	id := atomic.AddUint64(&m.nextTxnID, 1)
	m.activeMu.Lock()
	m.active[id] = snapshot
	m.activeMu.Unlock()
	return id
}

// BeginCommand starts a read-write transaction at the current done-until
// snapshot.
func (m *Manager) BeginCommand() *CommandTransaction {
	snapshot := m.DoneUntil()
	id := m.registerActive(snapshot)

	return &CommandTransaction{
		m:        m,
		id:       id,
		snapshot: snapshot,
		pending:  newPendingWrites(),
		conflict: conflict.New(),
		state:    txnActive,
	}
}

// lowWatermarkLocked returns the minimum read snapshot across active
// transactions (command and query), or the current done-until version if none are
// active. Must be called with activeMu held.
func (m *Manager) lowWatermarkLocked() uint64 {
	if len(m.active) == 0 {
		return m.DoneUntil()
	}
	low := uint64(0)
	first := true
	for _, snapshot := range m.active {
		if first || snapshot < low {
			low = snapshot
			first = false
		}
	}
	return low
}

// finishActive unregisters a transaction (a command on commit or rollback,
// a query on Close) and retires committed-history entries no active transaction can possibly
// need anymore.
func (m *Manager) finishActive(id uint64) {
	m.activeMu.Lock()
	delete(m.active, id)
	low := m.lowWatermarkLocked()
	m.activeMu.Unlock()

	m.commitMu.Lock()
	kept := m.history[:0]
	for _, e := range m.history {
		if e.version > low {
			kept = append(kept, e)
		}
	}
	m.history = kept
	m.commitMu.Unlock()
}

// scheduleGC asks the store to reclaim versions of keys older than what any
// currently active transaction could still need.
func (m *Manager) scheduleGC(keys []encoding.Key) {
	if len(keys) == 0 {
		return
	}
	m.activeMu.Lock()
	low := m.lowWatermarkLocked()
	m.activeMu.Unlock()
	m.store.ScheduleVersionGC(keys, low)
}

// conflictsSince reports whether candidate (a not-yet-committed
// transaction's footprint, read at readSnapshot) conflicts with any
// transaction recorded as committed after readSnapshot. Must be called
// with commitMu held.
func (m *Manager) conflictsSinceLocked(candidate *conflict.Manager, readSnapshot uint64) bool {
	for _, e := range m.history {
		if e.version <= readSnapshot {
			continue
		}
		if candidate.HasConflict(e.conflict) {
			return true
		}
	}
	return false
}

type txnState int

const (
	txnActive txnState = iota
	txnCommitted
	txnRolledBack
)

// Entry is one (key, value) pair returned from a range or prefix read.
type Entry struct {
	Key   encoding.Key
	Value []byte
}

func sortEntries(entries []Entry, reverse bool) {
	sort.Slice(entries, func(i, j int) bool {
		c := entries[i].Key.Compare(entries[j].Key)
		if reverse {
			return c > 0
		}
		return c < 0
	})
}
