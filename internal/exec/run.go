package exec

import "github.com/reifydb/reifydb/internal/stream"

// Run drives root to completion on its own goroutine, pushing each batch
// onto s until root is exhausted, an error occurs, or s's token is
// canceled. The caller consumes s.Chan(); Run returns immediately.
func Run(root Operator, s *stream.FrameStream) {
	ctx := &Context{Token: s.Token()}
	go func() {
		for {
			if ctx.Canceled() {
				return
			}
			f, err := root.Next(ctx)
			if err != nil {
				s.SendErr(err)
				return
			}
			if f == nil {
				s.Close()
				return
			}
			if !s.Send(f) {
				return
			}
		}
	}()
}
