package txn

import "github.com/reifydb/reifydb/internal/encoding"

// Delta is one buffered mutation in a command transaction's pending-writes
// buffer: a plain set, or a tombstone (unset captures the previous value for
// CDC, remove does not).
type Delta struct {
	Key       encoding.Key
	Value     []byte
	Tombstone bool
	Previous  []byte
}

// PendingWrites is an ordered map of key to the most recent Delta buffered
// for it in a command transaction: insertion order is preserved for
// deterministic commit batches, and a later write to the same key replaces
// the earlier one in place rather than appending.
type PendingWrites struct {
	order []string
	byKey map[string]Delta
}

func newPendingWrites() *PendingWrites {
	return &PendingWrites{byKey: make(map[string]Delta)}
}

func (p *PendingWrites) set(d Delta) {
	k := string(d.Key.Bytes())
	if _, exists := p.byKey[k]; !exists {
		p.order = append(p.order, k)
	}
	p.byKey[k] = d
}

func (p *PendingWrites) get(key encoding.Key) (Delta, bool) {
	d, ok := p.byKey[string(key.Bytes())]
	return d, ok
}

// Deltas returns every buffered delta in insertion order.
func (p *PendingWrites) Deltas() []Delta {
	out := make([]Delta, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, p.byKey[k])
	}
	return out
}

// Keys returns the set of distinct keys with a pending write.
func (p *PendingWrites) Keys() []encoding.Key {
	out := make([]encoding.Key, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, encoding.NewKey([]byte(k)))
	}
	return out
}

func (p *PendingWrites) Len() int { return len(p.order) }
