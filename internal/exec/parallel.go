package exec

import (
	"sync"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/stream"
	"github.com/reifydb/reifydb/internal/txn"
)

// Statement builds one independently-executable pipeline against a
// QueryTransaction pinned to the batch's shared snapshot version. Build
// runs on the statement's own goroutine; tok is shared by every statement
// in the batch and by every operator the pipeline constructs, so canceling
// one statement's pipeline (via a panic or error) cancels all of them.
type Statement struct {
	Build func(qtx *txn.QueryTransaction, tok *stream.Token) Operator
}

// RunParallelStatements opens one QueryTransaction per statement, all
// pinned to the same snapshot version via Manager.BeginQueryAtVersion so
// every statement in the batch observes an identical view of the store
// (§4.8's parallel statement scheduling), runs each pipeline to completion
// concurrently, and returns each statement's accumulated output batches in
// original order. A panic or error in any statement cancels the shared
// token and the first error wins.
func RunParallelStatements(mgr *txn.Manager, stmts []Statement) ([][]*column.Frame, error) {
	version := mgr.DoneUntil()
	token := stream.NewToken()

	results := make([][]*column.Frame, len(stmts))
	errs := make([]error, len(stmts))

	var wg sync.WaitGroup
	for i, stmt := range stmts {
		wg.Add(1)
		go func(i int, stmt Statement) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = diagnostic.ParallelTaskPanic(r)
					token.Cancel()
				}
			}()

			qtx := mgr.BeginQueryAtVersion(version)
			defer qtx.Close()

			op := stmt.Build(qtx, token)
			ctx := &Context{Token: token}
			var frames []*column.Frame
			for {
				if ctx.Canceled() {
					break
				}
				f, err := op.Next(ctx)
				if err != nil {
					errs[i] = err
					token.Cancel()
					return
				}
				if f == nil {
					break
				}
				frames = append(frames, f)
			}
			results[i] = frames
		}(i, stmt)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
