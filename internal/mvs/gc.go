package mvs

import (
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/metrics"
	"github.com/reifydb/reifydb/internal/storage"
)

// dropRequest asks the background worker to drop every physical version of
// key in the hot tier older than the one visible at watermark: the largest
// version <= watermark is kept (it's what any reader at or below watermark
// would see), every version above watermark is kept (future readers still
// need them), and everything strictly below the kept version is dropped.
type dropRequest struct {
	key       encoding.Key
	watermark uint64
}

// gcWorker is the single consumer of a multi-producer queue of drop
// requests: every commit schedules one request per written key, and this
// goroutine folds them into physical deletes against the hot tier.
type gcWorker struct {
	hot  storage.Backend
	ch   chan dropRequest
	done chan struct{}
}

func newGCWorker(hot storage.Backend) *gcWorker {
	w := &gcWorker{hot: hot, ch: make(chan dropRequest, 4096), done: make(chan struct{})}
	go w.run()
	return w
}

// schedule enqueues req. The queue is bounded and GC is best-effort: if
// it's full, the request is dropped rather than blocking the committing
// transaction — a later commit of the same key will schedule another.
func (w *gcWorker) schedule(req dropRequest) {
	select {
	case w.ch <- req:
		metrics.GCQueueDepth.Set(float64(len(w.ch)))
	default:
		metrics.GCRequestsDroppedTotal.Inc()
	}
}

func (w *gcWorker) stop() { close(w.done) }

func (w *gcWorker) run() {
	for {
		select {
		case req := <-w.ch:
			metrics.GCQueueDepth.Set(float64(len(w.ch)))
			w.process(req)
		case <-w.done:
			return
		}
	}
}

// process drops every version of req.key older than the one visible at
// req.watermark. Physical keys for one logical key sort ascending in
// descending-version order (see versionKey), so versions are scanned
// newest-first; the first one whose version <= watermark is the one kept
// for readers at or below watermark, and everything after it is dropped.
func (w *gcWorker) process(req dropRequest) {
	pfx := encoding.Prefix(req.key.Bytes())
	cursor := &storage.Cursor{}
	var keys []encoding.Key
	var versions []uint64
	for {
		entries, hasMore, err := w.hot.RangeNext(storage.KindMultiVersion, cursor, pfx, 256)
		if err != nil {
			return
		}
		for _, e := range entries {
			_, version := splitVersionKey(e.Key)
			keys = append(keys, e.Key)
			versions = append(versions, version)
		}
		if !hasMore {
			break
		}
	}

	keepThrough := -1
	for i, v := range versions {
		if v <= req.watermark {
			keepThrough = i
			break
		}
	}
	if keepThrough < 0 {
		return
	}
	toDrop := keys[keepThrough+1:]
	if len(toDrop) == 0 {
		return
	}
	if err := w.hot.Drop(map[storage.Kind][]encoding.Key{storage.KindMultiVersion: toDrop}); err == nil {
		metrics.GCDropsTotal.Add(float64(len(toDrop)))
	}
}
