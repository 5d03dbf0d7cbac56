// Package mvs implements the multi-version store: a tiered (hot/warm/cold)
// versioned keyspace built on top of internal/storage.Backend. Versions
// are folded into the physical key so that each tier's backend needs no
// version awareness of its own; mvs owns the version-comparison logic,
// tier waterfall lookup, tier-merging range scans, and background
// version garbage collection.
package mvs

import (
	"math"
	"sort"

	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/metrics"
	"github.com/reifydb/reifydb/internal/storage"
)

// tierScanChunkSize bounds how many physical (versioned) entries a single
// tier scan step fetches before mvs checks whether it has enough unique
// logical keys yet.
const tierScanChunkSize = 4096

// Write is one logical mutation to commit: a tombstone clears the key at
// the given commit version rather than storing an empty value, which
// otherwise would be indistinguishable from "key never written".
type Write struct {
	Key       encoding.Key
	Value     []byte
	Tombstone bool
}

// Entry is one logical (key, value, version) triple returned from a read.
type Entry struct {
	Key     encoding.Key
	Value   []byte
	Version uint64
}

// Store is the tiered multi-version store. hot is required; warm and cold
// may be nil, in which case they're simply skipped in the waterfall.
type Store struct {
	hot, warm, cold storage.Backend
	gc              *gcWorker
}

// New builds a Store over the given tiers. warm and cold may be nil.
func New(hot, warm, cold storage.Backend) *Store {
	s := &Store{hot: hot, warm: warm, cold: cold}
	s.gc = newGCWorker(hot)
	return s
}

// Close stops the background version-GC worker. It does not close the
// underlying tier backends.
func (s *Store) Close() { s.gc.stop() }

func (s *Store) tiers() []storage.Backend {
	tiers := make([]storage.Backend, 0, 3)
	for _, t := range []storage.Backend{s.hot, s.warm, s.cold} {
		if t != nil {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

// namedTiers pairs each configured tier backend with its name, in
// waterfall order, for metrics labeling.
func (s *Store) namedTiers() []struct {
	name string
	tier storage.Backend
} {
	all := []struct {
		name string
		tier storage.Backend
	}{{"hot", s.hot}, {"warm", s.warm}, {"cold", s.cold}}
	out := make([]struct {
		name string
		tier storage.Backend
	}, 0, 3)
	for _, t := range all {
		if t.tier != nil {
			out = append(out, t)
		}
	}
	return out
}

// versionKey builds the physical key for (key, version): the logical key
// bytes followed by the bitwise-inverted version as an 8-byte big-endian
// suffix. Inverting the version means ascending physical-key order for a
// fixed logical key corresponds to descending version order, so "the
// latest version <= V" is the first physical key >= versionKey(key, V).
func versionKey(key encoding.Key, version uint64) encoding.Key {
	return encoding.NewBuilderWithCapacity(key.Len() + 8).Raw(key.Bytes()).U64(invertVersion(version)).Build()
}

func invertVersion(version uint64) uint64 { return math.MaxUint64 - version }

// splitVersionKey recovers (logicalKey, version) from a physical key,
// assuming it was built by versionKey.
func splitVersionKey(physical encoding.Key) (encoding.Key, uint64) {
	raw := physical.Bytes()
	n := len(raw)
	logical := raw[:n-8]
	var inv uint64
	for _, b := range raw[n-8:] {
		inv = inv<<8 | uint64(b)
	}
	return encoding.NewKey(append([]byte(nil), logical...)), math.MaxUint64 - inv
}

// encodeStored wraps a logical value with a tombstone marker byte so a
// tombstone is a distinguishable, non-nil physical value: mvs needs
// tombstones to survive a tier's own range scan (which silently drops
// physical nils), since a tombstone at the latest visible version must
// still shadow older versions rather than being skipped.
func encodeStored(value []byte, tombstone bool) []byte {
	if tombstone {
		return []byte{0}
	}
	out := make([]byte, len(value)+1)
	out[0] = 1
	copy(out[1:], value)
	return out
}

func decodeStored(raw []byte) (value []byte, tombstone bool) {
	if len(raw) == 0 || raw[0] == 0 {
		return nil, true
	}
	return raw[1:], false
}

// Commit writes all of writes at version atomically to the hot tier. It
// does not by itself reclaim older versions of the written keys — callers
// that track a read-snapshot watermark (internal/txn's transaction
// managers) call ScheduleVersionGC once they know it's safe to do so.
func (s *Store) Commit(writes []Write, version uint64) error {
	if len(writes) == 0 {
		return nil
	}
	timer := metrics.NewTimer()
	batch := make([]storage.Write, 0, len(writes))
	var byteTotal int
	for _, w := range writes {
		batch = append(batch, storage.Write{
			Key:   versionKey(w.Key, version),
			Value: encodeStored(w.Value, w.Tombstone),
		})
		byteTotal += len(w.Value)
	}
	if err := s.hot.Set(map[storage.Kind][]storage.Write{storage.KindMultiVersion: batch}); err != nil {
		metrics.CommitsTotal.WithLabelValues("error").Inc()
		return diagnostic.StorageIOFailure(err)
	}
	timer.ObserveDuration(metrics.CommitDuration)
	metrics.CommitsTotal.WithLabelValues("ok").Inc()
	metrics.StorageStatsWritesTotal.Add(float64(len(writes)))
	metrics.StorageStatsBytesTotal.Add(float64(byteTotal))
	metrics.StorageStatsEventsTotal.Inc()
	return nil
}

// ScheduleVersionGC asks the background worker to drop, for each of keys,
// every physical version older than the one visible at watermark (the
// largest version <= watermark is kept; everything below it is reclaimed).
// watermark should be the lowest read snapshot among currently active
// transactions, so no live reader loses a version it might still need.
// Scheduling is best-effort and non-blocking: a request is silently
// dropped if the queue is full, on the assumption that a later commit of
// the same key will schedule another.
func (s *Store) ScheduleVersionGC(keys []encoding.Key, watermark uint64) {
	for _, k := range keys {
		s.gc.schedule(dropRequest{key: k, watermark: watermark})
	}
}

// Get returns the value visible to a reader at version, trying tiers in
// hot/warm/cold order and stopping at the first tier that has an answer
// for key at that version. Store itself never moves versions between
// tiers: Commit writes only to hot, and version GC only drops from hot.
func (s *Store) Get(key encoding.Key, version uint64) ([]byte, bool, error) {
	for _, nt := range s.namedTiers() {
		value, found, tombstone, err := getAtVersion(nt.tier, key, version)
		if err != nil {
			return nil, false, err
		}
		if found {
			metrics.TierReadsTotal.WithLabelValues(nt.name, "hit").Inc()
			if tombstone {
				return nil, false, nil
			}
			return value, true, nil
		}
		metrics.TierReadsTotal.WithLabelValues(nt.name, "miss").Inc()
	}
	return nil, false, nil
}

// GetPrevious returns the value visible at the last committed version
// strictly before beforeVersion, or not-found if there is none (including
// when beforeVersion is 0).
func (s *Store) GetPrevious(key encoding.Key, beforeVersion uint64) ([]byte, bool, error) {
	if beforeVersion == 0 {
		return nil, false, nil
	}
	return s.Get(key, beforeVersion-1)
}

// getAtVersion finds, within a single tier, the entry for key with the
// largest version <= version, if any.
func getAtVersion(tier storage.Backend, key encoding.Key, version uint64) (value []byte, found, tombstone bool, err error) {
	pfx := encoding.Prefix(key.Bytes())
	start := versionKey(key, version)
	r := encoding.NewRange(encoding.IncludedBound(start), pfx.End)

	cursor := &storage.Cursor{}
	entries, _, err := tier.RangeNext(storage.KindMultiVersion, cursor, r, 1)
	if err != nil {
		return nil, false, false, diagnostic.StorageIOFailure(err)
	}
	if len(entries) == 0 {
		return nil, false, false, nil
	}

	logical, _ := splitVersionKey(entries[0].Key)
	if !logical.Equal(key) {
		return nil, false, false, nil
	}
	v, tomb := decodeStored(entries[0].Value)
	return v, true, tomb, nil
}

// Contains reports whether key has a live (non-tombstone) value visible
// at version.
func (s *Store) Contains(key encoding.Key, version uint64) (bool, error) {
	_, found, err := s.Get(key, version)
	return found, err
}

// RangeCursor carries independent per-tier continuation state for a
// chunked multi-version range scan.
type RangeCursor struct {
	hot, warm, cold storage.Cursor
	exhausted       bool
	// pending holds logical keys a prior call already merged from a
	// tier chunk but couldn't fit under that call's batchSize. A single
	// tier fetch can resolve far more unique logical keys than a
	// caller's batch budget (tierScanChunkSize vs. the caller's
	// batchSize), and the per-tier cursor has already moved past all of
	// them by the time that's known, so anything not emitted has to be
	// kept here or it's gone for the cursor's lifetime.
	pending map[string]versionedValue
}

type versionedValue struct {
	version uint64
	value   []byte
	dropped bool
}

// RangeNext fetches up to batchSize unique logical keys visible at
// version within r, merging physical entries across tiers by keeping,
// per logical key, whichever tier's scan has produced the highest
// version so far. It keeps pulling chunks from every unexhausted tier
// until batchSize unique keys have been collected or every tier is
// exhausted. A single tier chunk can resolve more unique keys than
// batchSize; whatever doesn't fit in this call's result is kept on
// cursor.pending and emitted first on the next call, so nothing pulled
// from a tier is ever discarded.
func (s *Store) RangeNext(cursor *RangeCursor, r encoding.Range, version uint64, batchSize int) ([]Entry, bool, error) {
	if cursor.exhausted && len(cursor.pending) == 0 {
		return nil, false, nil
	}

	collected := cursor.pending
	if collected == nil {
		collected = make(map[string]versionedValue)
	}
	cursor.pending = nil

	tierCursors := []*storage.Cursor{&cursor.hot, &cursor.warm, &cursor.cold}
	tiers := []storage.Backend{s.hot, s.warm, s.cold}

	for len(collected) < batchSize && !cursor.exhausted {
		anyProgress := false
		for i, tier := range tiers {
			if tier == nil || tierCursors[i].Exhausted {
				continue
			}
			progressed, err := s.scanTierChunk(tier, tierCursors[i], r, version, collected)
			if err != nil {
				return nil, false, err
			}
			anyProgress = anyProgress || progressed
		}
		if !anyProgress {
			cursor.exhausted = true
			break
		}
	}

	keys := make([]string, 0, len(collected))
	for k := range collected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, batchSize)
	for _, k := range keys {
		vv := collected[k]
		if len(entries) >= batchSize {
			if cursor.pending == nil {
				cursor.pending = make(map[string]versionedValue)
			}
			cursor.pending[k] = vv
			continue
		}
		if vv.dropped {
			continue
		}
		entries = append(entries, Entry{Key: encoding.NewKey([]byte(k)), Value: vv.value, Version: vv.version})
	}

	hasMore := len(cursor.pending) > 0 || !cursor.exhausted
	return entries, hasMore, nil
}

func (s *Store) scanTierChunk(tier storage.Backend, cursor *storage.Cursor, r encoding.Range, version uint64, collected map[string]versionedValue) (bool, error) {
	physicalRange := physicalRangeFor(r)
	entries, _, err := tier.RangeNext(storage.KindMultiVersion, cursor, physicalRange, tierScanChunkSize)
	if err != nil {
		return false, diagnostic.StorageIOFailure(err)
	}
	if len(entries) == 0 {
		return false, nil
	}

	for _, e := range entries {
		logical, entryVersion := splitVersionKey(e.Key)
		if entryVersion > version {
			continue
		}
		if !r.Contains(logical) {
			continue
		}
		k := string(logical.Bytes())
		existing, ok := collected[k]
		if ok && existing.version >= entryVersion {
			continue
		}
		value, tomb := decodeStored(e.Value)
		collected[k] = versionedValue{version: entryVersion, value: value, dropped: tomb}
	}
	return true, nil
}

// RangeRevNext is the descending-order counterpart of RangeNext.
func (s *Store) RangeRevNext(cursor *RangeCursor, r encoding.Range, version uint64, batchSize int) ([]Entry, bool, error) {
	if cursor.exhausted && len(cursor.pending) == 0 {
		return nil, false, nil
	}

	collected := cursor.pending
	if collected == nil {
		collected = make(map[string]versionedValue)
	}
	cursor.pending = nil

	tierCursors := []*storage.Cursor{&cursor.hot, &cursor.warm, &cursor.cold}
	tiers := []storage.Backend{s.hot, s.warm, s.cold}

	for len(collected) < batchSize && !cursor.exhausted {
		anyProgress := false
		for i, tier := range tiers {
			if tier == nil || tierCursors[i].Exhausted {
				continue
			}
			progressed, err := s.scanTierChunkRev(tier, tierCursors[i], r, version, collected)
			if err != nil {
				return nil, false, err
			}
			anyProgress = anyProgress || progressed
		}
		if !anyProgress {
			cursor.exhausted = true
			break
		}
	}

	keys := make([]string, 0, len(collected))
	for k := range collected {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	entries := make([]Entry, 0, batchSize)
	for _, k := range keys {
		vv := collected[k]
		if len(entries) >= batchSize {
			if cursor.pending == nil {
				cursor.pending = make(map[string]versionedValue)
			}
			cursor.pending[k] = vv
			continue
		}
		if vv.dropped {
			continue
		}
		entries = append(entries, Entry{Key: encoding.NewKey([]byte(k)), Value: vv.value, Version: vv.version})
	}

	hasMore := len(cursor.pending) > 0 || !cursor.exhausted
	return entries, hasMore, nil
}

func (s *Store) scanTierChunkRev(tier storage.Backend, cursor *storage.Cursor, r encoding.Range, version uint64, collected map[string]versionedValue) (bool, error) {
	physicalRange := physicalRangeFor(r)
	entries, _, err := tier.RangeRevNext(storage.KindMultiVersion, cursor, physicalRange, tierScanChunkSize)
	if err != nil {
		return false, diagnostic.StorageIOFailure(err)
	}
	if len(entries) == 0 {
		return false, nil
	}

	for _, e := range entries {
		logical, entryVersion := splitVersionKey(e.Key)
		if entryVersion > version {
			continue
		}
		if !r.Contains(logical) {
			continue
		}
		k := string(logical.Bytes())
		existing, ok := collected[k]
		if ok && existing.version >= entryVersion {
			continue
		}
		value, tomb := decodeStored(e.Value)
		collected[k] = versionedValue{version: entryVersion, value: value, dropped: tomb}
	}
	return true, nil
}

// physicalRangeFor widens a logical-key range into the physical-key range
// that covers every version suffix of every logical key in it.
func physicalRangeFor(r encoding.Range) encoding.Range {
	start := r.Start
	if start.Kind != encoding.Unbounded {
		start = encoding.IncludedBound(start.Key)
	}
	end := r.End
	if end.Kind != encoding.Unbounded {
		// Any bound on logical key k must still admit every physical
		// version suffix of k, so widen to the byte-prefix range's end.
		end = encoding.Prefix(r.End.Key.Bytes()).End
	}
	return encoding.NewRange(start, end)
}
