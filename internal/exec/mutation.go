package exec

import (
	"github.com/reifydb/reifydb/internal/change"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/intercept"
	"github.com/reifydb/reifydb/internal/txn"
	"github.com/reifydb/reifydb/internal/value"
)

// Mutator applies single-row table/view/ring-buffer mutations against a
// command transaction, running the matching pre/post-mutation interceptor
// chain around each and recording the change for CDC/flow purposes — the
// primitive every DML operator and the bulk-insert builder are built on.
type Mutator struct {
	Txn      *txn.CommandTransaction
	Source   intercept.Source
	Inter    *intercept.Interceptors
	Recorder *change.Recorder
}

// NewMutator returns a Mutator writing through tx, firing source's
// interceptor chains, and recording changes to rec.
func NewMutator(tx *txn.CommandTransaction, source intercept.Source, inter *intercept.Interceptors, rec *change.Recorder) *Mutator {
	return &Mutator{Txn: tx, Source: source, Inter: inter, Recorder: rec}
}

// Insert writes a new row at key under sourceID. row is the row's encoded
// value bytes.
func (m *Mutator) Insert(sourceID uint64, key encoding.Key, row []byte) error {
	return m.apply(sourceID, intercept.OpInsert, key, nil, row)
}

// Update replaces the row at key. oldRow is the row's current encoded
// bytes, passed through for interceptors and CDC before/after images.
func (m *Mutator) Update(sourceID uint64, key encoding.Key, oldRow, newRow []byte) error {
	return m.apply(sourceID, intercept.OpUpdate, key, oldRow, newRow)
}

// Delete removes the row at key. oldRow is its current encoded bytes.
func (m *Mutator) Delete(sourceID uint64, key encoding.Key, oldRow []byte) error {
	return m.apply(sourceID, intercept.OpDelete, key, oldRow, nil)
}

func (m *Mutator) apply(sourceID uint64, op intercept.Op, key encoding.Key, oldRow, newRow []byte) error {
	mctx := &intercept.MutationContext{Source: m.Source, Op: op, Key: key, Old: oldRow, New: newRow}
	if m.Inter != nil {
		if err := m.Inter.RunPreMutation(mctx); err != nil {
			return err
		}
	}

	var err error
	switch op {
	case intercept.OpDelete:
		err = m.Txn.Unset(key, oldRow)
	default:
		err = m.Txn.Set(key, newRow)
	}
	if err != nil {
		return err
	}

	if m.Recorder != nil {
		m.Recorder.Record(change.RowChange{SourceID: sourceID, Key: key, Before: oldRow, After: newRow, Op: op})
	}
	if m.Inter != nil {
		m.Inter.RunPostMutation(mctx)
	}
	return nil
}

// InsertMode selects how strictly BulkInsert checks each appended row.
type InsertMode uint8

const (
	// InsertValidated checks every declared primary-key field is defined
	// and the row's arity matches the schema before writing.
	InsertValidated InsertMode = iota
	// InsertTrusted skips those checks — the caller guarantees
	// conformity, for bulk-load paths that already validated upstream.
	InsertTrusted
)

// BulkInsert is the fluent append-only insert path: it bypasses plan
// compilation entirely for straight table appends, sharing one command
// transaction across every Append call in a single builder (§4.8).
type BulkInsert struct {
	table   TableDef
	mutator *Mutator
	mode    InsertMode
	pkIndex []int
}

// NewBulkInsert builds a BulkInsert over table, deriving its primary key
// from pkFields (schema field names, in key order).
func NewBulkInsert(mutator *Mutator, table TableDef, pkFields []string, mode InsertMode) (*BulkInsert, error) {
	pkIndex := make([]int, len(pkFields))
	for i, name := range pkFields {
		idx := table.Schema.IndexOf(name)
		if idx < 0 {
			return nil, diagnostic.ColumnNotFoundInFrame(diagnostic.InternalFragment(), name)
		}
		pkIndex[i] = idx
	}
	return &BulkInsert{table: table, mutator: mutator, mode: mode, pkIndex: pkIndex}, nil
}

// Append inserts one row, values ordered the same as table.Schema.Fields.
func (b *BulkInsert) Append(values []value.Value) error {
	if b.mode == InsertValidated {
		if err := b.validate(values); err != nil {
			return err
		}
	}
	builder := value.NewRowBuilder(b.table.Schema)
	for i, v := range values {
		builder.Set(i, v)
	}
	row := builder.Build()
	key := b.rowKey(values)
	return b.mutator.Insert(b.table.SourceID, key, row.Bytes())
}

func (b *BulkInsert) validate(values []value.Value) error {
	if len(values) != len(b.table.Schema.Fields) {
		return diagnostic.FrameShapeMismatch(len(b.table.Schema.Fields), len(values))
	}
	for _, i := range b.pkIndex {
		if value.IsUndefined(values[i]) {
			return diagnostic.PrimaryKeyFieldUndefined(diagnostic.InternalFragment(), b.table.Schema.Fields[i].Name)
		}
	}
	return nil
}

func (b *BulkInsert) rowKey(values []value.Value) encoding.Key {
	kb := encoding.NewBuilder().U64(b.table.SourceID)
	for _, i := range b.pkIndex {
		appendKeyValue(kb, values[i])
	}
	return kb.Build()
}

// appendKeyValue extends a key builder with v, widening fixed-width
// numerics to their key-builder counterpart and falling back to a string
// rendering for types with no dedicated key encoding (decimals, intervals —
// neither is expected as a primary-key field).
func appendKeyValue(b *encoding.Builder, v value.Value) {
	switch v.Type() {
	case value.Bool:
		b.Bool(v.Bool())
	case value.Int1:
		b.I8(int8(v.Int64()))
	case value.Int2:
		b.I16(int16(v.Int64()))
	case value.Int4:
		b.I32(int32(v.Int64()))
	case value.Int8:
		b.I64(v.Int64())
	case value.Uint1:
		b.U8(uint8(v.Uint64()))
	case value.Uint2:
		b.U16(uint16(v.Uint64()))
	case value.Uint4:
		b.U32(uint32(v.Uint64()))
	case value.Uint8, value.RowNumber:
		b.U64(v.Uint64())
	case value.Utf8:
		b.Str(v.Str())
	case value.Blob:
		b.Bytes(v.Bytes())
	case value.Uuid4, value.Uuid7, value.IdentityID:
		id := v.UUID()
		b.Raw(id[:])
	case value.Int, value.Uint:
		if v.Big() != nil {
			b.Bytes(v.Big().Bytes())
		}
	default:
		b.Str(v.String())
	}
}
