package exec

import (
	"encoding/binary"
	"time"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/txn"
	"github.com/reifydb/reifydb/internal/value"
)

// TableDef is the minimal catalog fact a scan needs: which physical source
// to read and how to decode its rows. Catalog resolution itself is
// explicitly out of scope (§1/§6) — a caller resolves a table/view name to
// a TableDef before building a Scan.
type TableDef struct {
	SourceID uint64
	Schema   *value.Schema
}

// decodeRows turns a batch of raw (key, value.Encoded bytes) entries into a
// Frame under schema. Shared by every scan variant whose row value is a
// plain value.Encoded payload.
func decodeRows(schema *value.Schema, entries []txn.Entry) (*column.Frame, error) {
	names := make([]string, len(schema.Fields))
	cols := make([]*column.Data, len(schema.Fields))
	for i, f := range schema.Fields {
		names[i] = f.Name
		cols[i] = column.NewData(f.Type, len(entries))
	}
	for _, e := range entries {
		row := value.NewEncoded(e.Value)
		for i := range schema.Fields {
			cols[i].Push(row.Get(schema, i))
		}
	}
	return column.NewFrame(names, cols)
}

// sourcePrefix builds the physical key prefix every row of source carries:
// its source id, folded the same way the store folds version-tagged keys
// (internal/mvs), as a big-endian-ordered u64.
func sourcePrefix(sourceID uint64) encoding.Range {
	prefix := encoding.NewBuilder().U64(sourceID).Build().Bytes()
	return encoding.Prefix(prefix)
}

// TableScan reads every row of one table or view source, in physical key
// order, decoding each row's value bytes against its Schema.
type TableScan struct {
	def       TableDef
	reader    Reader
	rng       encoding.Range
	exhausted bool
	batchSize int
}

// NewTableScan builds a full-table scan over def via reader.
func NewTableScan(def TableDef, reader Reader) *TableScan {
	return &TableScan{def: def, reader: reader, rng: sourcePrefix(def.SourceID), batchSize: DefaultBatchSize}
}

func (s *TableScan) Next(ctx *Context) (*column.Frame, error) {
	if s.exhausted || ctx.Canceled() {
		return nil, nil
	}
	entries, hasMore, err := s.reader.RangeNext(s.rng, s.batchSize)
	if err != nil {
		return nil, err
	}
	if !hasMore {
		s.exhausted = true
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return decodeRows(s.def.Schema, entries)
}

// RangeScan reads rows of one source restricted to an explicit key range
// (a primary-key predicate folded by the plan compiler into physical key
// bounds) rather than the whole source.
type RangeScan struct {
	schema    *value.Schema
	reader    Reader
	rng       encoding.Range
	exhausted bool
	batchSize int
}

// NewRangeScan builds a scan over rng, decoding rows against schema.
func NewRangeScan(schema *value.Schema, rng encoding.Range, reader Reader) *RangeScan {
	return &RangeScan{schema: schema, reader: reader, rng: rng, batchSize: DefaultBatchSize}
}

func (s *RangeScan) Next(ctx *Context) (*column.Frame, error) {
	if s.exhausted || ctx.Canceled() {
		return nil, nil
	}
	entries, hasMore, err := s.reader.RangeNext(s.rng, s.batchSize)
	if err != nil {
		return nil, err
	}
	if !hasMore {
		s.exhausted = true
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return decodeRows(s.schema, entries)
}

// SeriesDef names a time-series source: its physical id, whether rows carry
// a tag discriminator, and the schema of the payload fields beyond
// timestamp/tag.
type SeriesDef struct {
	SourceID uint64
	HasTag   bool
	Payload  *value.Schema
}

// SeriesScan decodes composite (timestamp, optional tag, payload) keys and
// reassembles typed columns — series rows are keyed by time rather than a
// declared primary key, so timestamp and tag live in the physical key
// itself and only the payload is in the value bytes.
type SeriesScan struct {
	def       SeriesDef
	reader    Reader
	rng       encoding.Range
	exhausted bool
	batchSize int
}

// NewSeriesScan builds a full scan of a series source.
func NewSeriesScan(def SeriesDef, reader Reader) *SeriesScan {
	return &SeriesScan{def: def, reader: reader, rng: sourcePrefix(def.SourceID), batchSize: DefaultBatchSize}
}

func (s *SeriesScan) Next(ctx *Context) (*column.Frame, error) {
	if s.exhausted || ctx.Canceled() {
		return nil, nil
	}
	entries, hasMore, err := s.reader.RangeNext(s.rng, s.batchSize)
	if err != nil {
		return nil, err
	}
	if !hasMore {
		s.exhausted = true
	}
	if len(entries) == 0 {
		return nil, nil
	}

	names := []string{"timestamp"}
	tsCol := column.NewData(value.DateTime, len(entries))
	var tagCol *column.Data
	if s.def.HasTag {
		tagCol = column.NewData(value.Utf8, len(entries))
		names = append(names, "tag")
	}
	payloadNames := make([]string, len(s.def.Payload.Fields))
	payloadCols := make([]*column.Data, len(s.def.Payload.Fields))
	for i, f := range s.def.Payload.Fields {
		payloadNames[i] = f.Name
		payloadCols[i] = column.NewData(f.Type, len(entries))
	}
	names = append(names, payloadNames...)

	const sourceIDWidth = 8
	const timestampWidth = 8
	for _, e := range entries {
		body := e.Key.Bytes()[sourceIDWidth:]
		ts := int64(binary.BigEndian.Uint64(body[:timestampWidth]))
		tsCol.Push(value.DateTimeValue(time.Unix(0, ts).UTC()))
		rest := body[timestampWidth:]
		if s.def.HasTag {
			tagCol.Push(value.Utf8Value(string(rest)))
		}
		row := value.NewEncoded(e.Value)
		for i := range s.def.Payload.Fields {
			payloadCols[i].Push(row.Get(s.def.Payload, i))
		}
	}

	cols := []*column.Data{tsCol}
	if tagCol != nil {
		cols = append(cols, tagCol)
	}
	cols = append(cols, payloadCols...)
	return column.NewFrame(names, cols)
}
