// Package exec implements the volcano/vector hybrid executor: operators
// pull column.Frame batches from the store through internal/txn, evaluate
// internal/expr trees over them, and push results onto an
// internal/stream.FrameStream. Every operator implements the same
// pull-driven Next(ctx) contract; operators never hold a back-pointer to
// their parent (§9) — they return frames and let the driver in run.go route
// them downstream.
package exec

import (
	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/stream"
)

// DefaultBatchSize bounds how many rows a leaf Scan operator requests from
// the store per Next call.
const DefaultBatchSize = 1024

// Context carries per-pipeline state through an operator tree: currently
// just the cancellation token, checked at batch boundaries.
type Context struct {
	Token *stream.Token
}

// Canceled reports whether this pipeline's token has been canceled. A nil
// token (used by tests that don't need cancellation) is never canceled.
func (c *Context) Canceled() bool {
	if c == nil || c.Token == nil {
		return false
	}
	return c.Token.Canceled()
}

// Operator is one node of a compiled operator tree. Next returns the next
// batch of output rows, or (nil, nil) once the operator is exhausted.
type Operator interface {
	Next(ctx *Context) (*column.Frame, error)
}
