// Package intercept implements the typed interceptor chain mechanism: one
// ordered, abortable pre-chain and one observe-only post-chain per mutation
// kind (table/view/ring-buffer insert/update/delete), plus a pre-commit and
// post-commit chain run once per transaction commit. Ordering within a
// chain is stable and declared at construction.
package intercept

import "github.com/reifydb/reifydb/internal/encoding"

// Source names the kind of row-bearing object a mutation interceptor fires
// for.
type Source uint8

const (
	SourceTable Source = iota
	SourceView
	SourceRingBuffer
)

func (s Source) String() string {
	switch s {
	case SourceTable:
		return "table"
	case SourceView:
		return "view"
	case SourceRingBuffer:
		return "ringbuffer"
	default:
		return "unknown"
	}
}

// Op names the mutation an interceptor chain fires for.
type Op uint8

const (
	OpInsert Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// MutationContext is the mutable context passed through one row mutation's
// pre- and post-chains. New is nil for a delete, Old is nil for an insert.
type MutationContext struct {
	Source Source
	Op     Op
	Key    encoding.Key
	New    []byte
	Old    []byte
}

// PreMutationInterceptor observes (and may reject) a row mutation before it
// is applied.
type PreMutationInterceptor func(ctx *MutationContext) error

// PostMutationInterceptor observes a row mutation after it has been applied.
// It may not reject it.
type PostMutationInterceptor func(ctx *MutationContext)

// PreMutationChain is a stable-ordered list of PreMutationInterceptor
// stages; the first to return an error aborts the mutation.
type PreMutationChain struct {
	stages []PreMutationInterceptor
}

func (c *PreMutationChain) Append(stage PreMutationInterceptor) {
	c.stages = append(c.stages, stage)
}

func (c *PreMutationChain) Len() int { return len(c.stages) }

func (c *PreMutationChain) Execute(ctx *MutationContext) error {
	for _, stage := range c.stages {
		if err := stage(ctx); err != nil {
			return err
		}
	}
	return nil
}

// PostMutationChain is a stable-ordered list of PostMutationInterceptor
// stages. Every stage runs; none can abort.
type PostMutationChain struct {
	stages []PostMutationInterceptor
}

func (c *PostMutationChain) Append(stage PostMutationInterceptor) {
	c.stages = append(c.stages, stage)
}

func (c *PostMutationChain) Len() int { return len(c.stages) }

func (c *PostMutationChain) Execute(ctx *MutationContext) {
	for _, stage := range c.stages {
		stage(ctx)
	}
}

// PendingWrite is one key/value (or tombstone) pair as seen by a pre-commit
// interceptor: either one of the transaction's own buffered writes, or one
// appended by an earlier interceptor stage (view materialization appends
// view-row writes derived from the table deltas it observes).
type PendingWrite struct {
	Key       encoding.Key
	Value     []byte
	Tombstone bool
}

// PreCommitContext is passed through the pre-commit chain once per
// transaction commit, before a commit version has been assigned.
type PreCommitContext struct {
	// TransactionWrites is this transaction's own buffered writes,
	// read-only from the interceptor's point of view.
	TransactionWrites []PendingWrite
	// PendingWrites accumulates additional writes appended by
	// interceptor stages; the caller folds these into the same commit
	// batch as TransactionWrites.
	PendingWrites []PendingWrite
}

// Append buffers an additional write to be committed alongside the
// transaction's own writes.
func (c *PreCommitContext) Append(key encoding.Key, value []byte, tombstone bool) {
	c.PendingWrites = append(c.PendingWrites, PendingWrite{Key: key, Value: value, Tombstone: tombstone})
}

// PreCommitInterceptor observes the about-to-commit write set and may
// reject the commit outright, or append further writes to it.
type PreCommitInterceptor func(ctx *PreCommitContext) error

// RowChange is one logical row mutation recorded for post-commit observers
// (CDC emission, cache invalidation).
type RowChange struct {
	Key       encoding.Key
	Value     []byte
	Tombstone bool
}

// PostCommitContext is passed through the post-commit chain once per
// transaction commit, after the commit version is durable.
type PostCommitContext struct {
	Version    uint64
	RowChanges []RowChange
}

// PostCommitInterceptor observes a durable commit. It may not mutate
// anything; the commit has already happened.
type PostCommitInterceptor func(ctx *PostCommitContext)

// PreCommitChain is a stable-ordered list of PreCommitInterceptor stages;
// the first to return an error aborts the commit.
type PreCommitChain struct {
	stages []PreCommitInterceptor
}

func (c *PreCommitChain) Append(stage PreCommitInterceptor) { c.stages = append(c.stages, stage) }
func (c *PreCommitChain) Len() int                          { return len(c.stages) }

func (c *PreCommitChain) Execute(ctx *PreCommitContext) error {
	for _, stage := range c.stages {
		if err := stage(ctx); err != nil {
			return err
		}
	}
	return nil
}

// PostCommitChain is a stable-ordered list of PostCommitInterceptor stages.
type PostCommitChain struct {
	stages []PostCommitInterceptor
}

func (c *PostCommitChain) Append(stage PostCommitInterceptor) { c.stages = append(c.stages, stage) }
func (c *PostCommitChain) Len() int                           { return len(c.stages) }

func (c *PostCommitChain) Execute(ctx *PostCommitContext) {
	for _, stage := range c.stages {
		stage(ctx)
	}
}

type mutationKey struct {
	source Source
	op     Op
}

// Interceptors is the full set of chains for one engine instance: one
// pre/post pair per (Source, Op) combination, plus the transaction-wide
// pre-commit and post-commit chains.
type Interceptors struct {
	preMutation  map[mutationKey]*PreMutationChain
	postMutation map[mutationKey]*PostMutationChain

	PreCommit  *PreCommitChain
	PostCommit *PostCommitChain
}

// New returns an Interceptors with every chain empty.
func New() *Interceptors {
	return &Interceptors{
		preMutation:  make(map[mutationKey]*PreMutationChain),
		postMutation: make(map[mutationKey]*PostMutationChain),
		PreCommit:    &PreCommitChain{},
		PostCommit:   &PostCommitChain{},
	}
}

// PreMutation returns the pre-mutation chain for (source, op), creating it
// empty on first use.
func (i *Interceptors) PreMutation(source Source, op Op) *PreMutationChain {
	k := mutationKey{source, op}
	c, ok := i.preMutation[k]
	if !ok {
		c = &PreMutationChain{}
		i.preMutation[k] = c
	}
	return c
}

// PostMutation returns the post-mutation chain for (source, op), creating
// it empty on first use.
func (i *Interceptors) PostMutation(source Source, op Op) *PostMutationChain {
	k := mutationKey{source, op}
	c, ok := i.postMutation[k]
	if !ok {
		c = &PostMutationChain{}
		i.postMutation[k] = c
	}
	return c
}

// RunPreMutation executes the pre-mutation chain for ctx's (Source, Op).
func (i *Interceptors) RunPreMutation(ctx *MutationContext) error {
	return i.PreMutation(ctx.Source, ctx.Op).Execute(ctx)
}

// RunPostMutation executes the post-mutation chain for ctx's (Source, Op).
func (i *Interceptors) RunPostMutation(ctx *MutationContext) {
	i.PostMutation(ctx.Source, ctx.Op).Execute(ctx)
}
