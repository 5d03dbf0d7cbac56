// Package metrics exposes the engine's own Prometheus collectors: commit
// throughput, version-GC queue depth, per-tier read hit/miss counts, and
// storage-stats event counters. It is deliberately separate from any
// collector a surrounding deployment registers for its own concerns —
// this package only instruments internal/mvs and internal/txn.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CommitsTotal counts commit attempts by outcome: "ok" or "error" for a
	// batch the multi-version store wrote or failed to write, "conflict"
	// for a transaction the manager aborted before writing.
	CommitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reifydb_commits_total",
			Help: "Total number of commit attempts by outcome",
		},
		[]string{"outcome"},
	)

	CommitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reifydb_commit_duration_seconds",
			Help:    "Time taken to apply a commit's writes to the hot tier",
			Buckets: prometheus.DefBuckets,
		},
	)

	// StorageStatsWritesTotal and StorageStatsBytesTotal accumulate the
	// write-count and byte-total fields of the per-commit storage-stats
	// event emitted by internal/mvs.Store.Commit.
	StorageStatsWritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reifydb_storage_stats_writes_total",
			Help: "Total number of key writes folded into hot-tier commits",
		},
	)

	StorageStatsBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reifydb_storage_stats_bytes_total",
			Help: "Total number of value bytes folded into hot-tier commits",
		},
	)

	StorageStatsEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reifydb_storage_stats_events_total",
			Help: "Total number of storage-stats events emitted by commits",
		},
	)

	// TierReadsTotal counts multi-version store reads per tier and
	// result, so a hit rate for hot vs. warm vs. cold can be derived.
	TierReadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reifydb_tier_reads_total",
			Help: "Total number of per-tier read lookups by tier and result",
		},
		[]string{"tier", "result"},
	)

	// GCQueueDepth is the current number of pending version-drop
	// requests queued to a store's background GC worker.
	GCQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reifydb_gc_queue_depth",
			Help: "Number of drop requests currently queued for version garbage collection",
		},
	)

	GCDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reifydb_gc_drops_total",
			Help: "Total number of physical versions reclaimed by garbage collection",
		},
	)

	GCRequestsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reifydb_gc_requests_dropped_total",
			Help: "Total number of GC drop requests discarded because the queue was full",
		},
	)
)

func init() {
	prometheus.MustRegister(CommitsTotal)
	prometheus.MustRegister(CommitDuration)
	prometheus.MustRegister(StorageStatsWritesTotal)
	prometheus.MustRegister(StorageStatsBytesTotal)
	prometheus.MustRegister(StorageStatsEventsTotal)
	prometheus.MustRegister(TierReadsTotal)
	prometheus.MustRegister(GCQueueDepth)
	prometheus.MustRegister(GCDropsTotal)
	prometheus.MustRegister(GCRequestsDroppedTotal)
}

// Handler returns the Prometheus HTTP handler for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing one operation and later recording its
// elapsed duration to a histogram.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed duration to histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(t.Duration().Seconds())
}

// ObserveDurationVec records the elapsed duration to a labeled histogram.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(t.Duration().Seconds())
}
