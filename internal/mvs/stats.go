package mvs

import (
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/storage"
)

// TierStats summarizes one configured tier's physical version count and
// byte volume, as observed by a full scan of its multi-version keyspace.
type TierStats struct {
	Name  string
	Keys  int
	Bytes int64
}

// Stats scans every configured tier and returns one TierStats per tier, in
// waterfall order (hot, then warm, then cold). It is a maintenance
// operation, not part of the hot read/write path: cmd/reifydb's inspect
// subcommand is its only caller.
func (s *Store) Stats() ([]TierStats, error) {
	out := make([]TierStats, 0, 3)
	for _, nt := range s.namedTiers() {
		keys, bytes, err := scanTierStats(nt.tier)
		if err != nil {
			return nil, err
		}
		out = append(out, TierStats{Name: nt.name, Keys: keys, Bytes: bytes})
	}
	return out, nil
}

// GCAll schedules version garbage collection for every logical key
// currently visible at watermark, keeping the version each key would show
// a reader at watermark, plus every newer version, and reclaiming
// everything older. It
// is the batch counterpart to the per-commit scheduling transaction
// managers normally do incrementally; cmd/reifydb's gc subcommand is its
// only caller, for forcing a GC pass outside the commit hot path.
func (s *Store) GCAll(watermark uint64) (int, error) {
	cursor := &RangeCursor{}
	var scheduled int
	for {
		entries, hasMore, err := s.RangeNext(cursor, encoding.All(), watermark, tierScanChunkSize)
		if err != nil {
			return scheduled, err
		}
		keys := make([]encoding.Key, len(entries))
		for i, e := range entries {
			keys[i] = e.Key
		}
		s.ScheduleVersionGC(keys, watermark)
		scheduled += len(keys)
		if !hasMore {
			break
		}
	}
	return scheduled, nil
}

func scanTierStats(tier storage.Backend) (keys int, bytes int64, err error) {
	cursor := &storage.Cursor{}
	for {
		entries, hasMore, err := tier.RangeNext(storage.KindMultiVersion, cursor, encoding.All(), tierScanChunkSize)
		if err != nil {
			return 0, 0, diagnostic.StorageIOFailure(err)
		}
		for _, e := range entries {
			keys++
			bytes += int64(len(e.Value))
		}
		if !hasMore {
			break
		}
	}
	return keys, bytes, nil
}
