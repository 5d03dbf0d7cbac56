package wire_test

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/value"
	"github.com/reifydb/reifydb/internal/wire"
)

func roundTrip(t *testing.T, f *column.Frame) *column.Frame {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, wire.WriteFrame(&buf, f))
	got, err := wire.ReadFrame(&buf)
	require.NoError(t, err)
	return got
}

func TestRoundTripScalarColumns(t *testing.T) {
	id := column.NewData(value.Int4, 3)
	id.Push(value.Int4Value(1))
	id.Push(value.Undef())
	id.Push(value.Int4Value(-7))

	name := column.NewData(value.Utf8, 3)
	name.Push(value.Utf8Value("alice"))
	name.Push(value.Utf8Value(""))
	name.Push(value.Utf8Value("carol"))

	active := column.NewData(value.Bool, 3)
	active.Push(value.BoolValue(true))
	active.Push(value.BoolValue(false))
	active.Push(value.Undef())

	f, err := column.NewFrame([]string{"id", "name", "active"}, []*column.Data{id, name, active})
	require.NoError(t, err)

	got := roundTrip(t, f)
	require.Equal(t, 3, got.Rows())
	assert.Equal(t, []string{"id", "name", "active"}, got.Names())

	idCol, _ := got.Column("id")
	assert.Equal(t, int64(1), idCol.Get(0).Int64())
	assert.True(t, value.IsUndefined(idCol.Get(1)))
	assert.Equal(t, int64(-7), idCol.Get(2).Int64())

	nameCol, _ := got.Column("name")
	assert.Equal(t, "alice", nameCol.Get(0).Str())
	assert.Equal(t, "carol", nameCol.Get(2).Str())

	activeCol, _ := got.Column("active")
	assert.Equal(t, true, activeCol.Get(0).Bool())
	assert.Equal(t, false, activeCol.Get(1).Bool())
	assert.True(t, value.IsUndefined(activeCol.Get(2)))
}

func TestRoundTripFloatsAreBitExact(t *testing.T) {
	f4 := column.NewData(value.Float4, 2)
	f4.Push(value.Float4Value(3.5))
	f4.Push(value.Float4Value(-1.25))

	f8 := column.NewData(value.Float8, 2)
	f8.Push(value.Float8Value(2.718281828))
	f8.Push(value.Float8Value(-0.0001))

	frame, err := column.NewFrame([]string{"f4", "f8"}, []*column.Data{f4, f8})
	require.NoError(t, err)

	got := roundTrip(t, frame)
	c4, _ := got.Column("f4")
	assert.Equal(t, float64(float32(3.5)), c4.Get(0).Float64())
	assert.Equal(t, float64(float32(-1.25)), c4.Get(1).Float64())

	c8, _ := got.Column("f8")
	assert.Equal(t, 2.718281828, c8.Get(0).Float64())
	assert.Equal(t, -0.0001, c8.Get(1).Float64())
}

func TestRoundTripArbitraryPrecisionIntAndDecimal(t *testing.T) {
	big1, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	i := column.NewData(value.Int, 1)
	i.Push(value.IntValue(big1))

	dec := column.NewData(value.Decimal, 1)
	dec.Push(value.DecimalValue(value.Decimal{Precision: 10, Scale: 2, Magnitude: big.NewInt(-12345)}))

	frame, err := column.NewFrame([]string{"big", "amount"}, []*column.Data{i, dec})
	require.NoError(t, err)

	got := roundTrip(t, frame)
	bigCol, _ := got.Column("big")
	assert.Equal(t, 0, big1.Cmp(bigCol.Get(0).Big()))

	decCol, _ := got.Column("amount")
	d := decCol.Get(0).Decimal()
	assert.Equal(t, "-123.45", d.String())
}

func TestRoundTripBlobAndUUID(t *testing.T) {
	blob := column.NewData(value.Blob, 1)
	blob.Push(value.BlobValue([]byte{0x00, 0x01, 0xFF}))

	id := uuid.New()
	u := column.NewData(value.Uuid7, 1)
	u.Push(value.Uuid7Value(id))

	frame, err := column.NewFrame([]string{"payload", "id"}, []*column.Data{blob, u})
	require.NoError(t, err)

	got := roundTrip(t, frame)
	blobCol, _ := got.Column("payload")
	assert.Equal(t, []byte{0x00, 0x01, 0xFF}, blobCol.Get(0).Bytes())

	idCol, _ := got.Column("id")
	assert.Equal(t, id, idCol.Get(0).UUID())
}

func TestRoundTripDateTimeAndInterval(t *testing.T) {
	ts := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	dt := column.NewData(value.DateTime, 1)
	dt.Push(value.DateTimeValue(ts))

	iv := column.NewData(value.Interval, 2)
	iv.Push(value.IntervalValue(90 * time.Minute))
	iv.Push(value.IntervalValue(-45 * time.Second))

	frame, err := column.NewFrame([]string{"ts", "span"}, []*column.Data{dt, iv})
	require.NoError(t, err)

	got := roundTrip(t, frame)
	dtCol, _ := got.Column("ts")
	assert.True(t, ts.Equal(dtCol.Get(0).Time()))

	ivCol, _ := got.Column("span")
	assert.Equal(t, 90*time.Minute, ivCol.Get(0).Duration())
	assert.Equal(t, -45*time.Second, ivCol.Get(1).Duration())
}

func TestRoundTripEmptyFrame(t *testing.T) {
	got := roundTrip(t, column.Empty())
	assert.Equal(t, 0, got.Rows())
	assert.Equal(t, 0, got.ColumnCount())
}

func TestRoundTripAllUndefinedColumn(t *testing.T) {
	d := column.NewData(value.Undefined, 3)
	d.Push(value.Undef())
	d.Push(value.Undef())
	d.Push(value.Undef())

	frame, err := column.NewFrame([]string{"u"}, []*column.Data{d})
	require.NoError(t, err)

	got := roundTrip(t, frame)
	require.Equal(t, 3, got.Rows())
	c, _ := got.Column("u")
	for i := 0; i < 3; i++ {
		assert.True(t, value.IsUndefined(c.Get(i)))
	}
}

func TestReadFrameRejectsTruncatedPayload(t *testing.T) {
	d := column.NewData(value.Int8, 1)
	d.Push(value.Int8Value(42))
	frame, err := column.NewFrame([]string{"n"}, []*column.Data{d})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, wire.WriteFrame(&buf, frame))
	truncated := buf.Bytes()[:buf.Len()-2]

	_, err = wire.ReadFrame(bytes.NewReader(truncated))
	assert.Error(t, err)
}

func TestRoundTripSourceQualifierPreserved(t *testing.T) {
	d := column.NewData(value.Int4, 1)
	d.Push(value.Int4Value(5))
	d.SourceQualifier = "orders"

	frame, err := column.NewFrame([]string{"id"}, []*column.Data{d})
	require.NoError(t, err)

	got := roundTrip(t, frame)
	c, _ := got.Column("id")
	assert.Equal(t, "orders", c.SourceQualifier)
}
