package exec

import (
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/txn"
)

// Reader is the uniform range-scan surface a Scan operator pulls from. It
// exists because txn.QueryTransaction and txn.CommandTransaction expose the
// same batched-range-read shape through two distinct cursor types
// (RangeCursor vs RangeCommandCursor, the latter merging the transaction's
// own pending writes into the store's view) — wrapping each in its own
// adapter lets Scan stay ignorant of which kind of transaction it is
// reading through.
type Reader interface {
	RangeNext(r encoding.Range, batchSize int) ([]txn.Entry, bool, error)
}

// queryReader reads through a read-only QueryTransaction.
type queryReader struct {
	qtx    *txn.QueryTransaction
	cursor txn.RangeCursor
}

// NewQueryReader adapts qtx to Reader.
func NewQueryReader(qtx *txn.QueryTransaction) Reader {
	return &queryReader{qtx: qtx}
}

func (r *queryReader) RangeNext(rng encoding.Range, batchSize int) ([]txn.Entry, bool, error) {
	return r.qtx.RangeBatched(&r.cursor, rng, batchSize)
}

// commandReader reads through an in-flight CommandTransaction, seeing its
// own not-yet-committed writes merged into the result (read-your-writes).
type commandReader struct {
	ctx    *txn.CommandTransaction
	cursor txn.RangeCommandCursor
}

// NewCommandReader adapts ctx to Reader.
func NewCommandReader(ctx *txn.CommandTransaction) Reader {
	return &commandReader{ctx: ctx}
}

func (r *commandReader) RangeNext(rng encoding.Range, batchSize int) ([]txn.Entry, bool, error) {
	return r.ctx.RangeBatched(&r.cursor, rng, batchSize)
}
