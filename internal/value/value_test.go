package value_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/reifydb/reifydb/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRoundTrip(t *testing.T) {
	schema := value.NewSchema([]value.Field{
		{Name: "id", Type: value.Int4},
		{Name: "name", Type: value.Utf8},
		{Name: "active", Type: value.Bool},
		{Name: "balance", Type: value.Decimal},
	})

	b := value.NewRowBuilder(schema)
	b.Set(0, value.Int4Value(42))
	b.Set(1, value.Utf8Value("hello world"))
	b.Set(2, value.BoolValue(true))
	b.Set(3, value.DecimalValue(value.Decimal{Precision: 10, Scale: 2, Magnitude: big.NewInt(12345)}))
	row := b.Build()

	require.True(t, row.Defined(schema, 0))
	assert.Equal(t, int64(42), row.Get(schema, 0).Int64())
	assert.Equal(t, "hello world", row.Get(schema, 1).Str())
	assert.True(t, row.Get(schema, 2).Bool())
	assert.Equal(t, "123.45", row.Get(schema, 3).Decimal().String())
}

func TestSchemaNullField(t *testing.T) {
	schema := value.NewSchema([]value.Field{
		{Name: "a", Type: value.Int4},
		{Name: "b", Type: value.Utf8},
	})
	b := value.NewRowBuilder(schema)
	b.Set(0, value.Int4Value(1))
	row := b.Build()

	assert.True(t, row.Defined(schema, 0))
	assert.False(t, row.Defined(schema, 1))
	assert.True(t, value.IsUndefined(row.Get(schema, 1)))
}

func TestParseDurationBasic(t *testing.T) {
	cases := []struct {
		in       string
		expected time.Duration
	}{
		{"P1D", 24 * time.Hour},
		{"PT2H30M", 2*time.Hour + 30*time.Minute},
		{"P1Y", 365 * 24 * time.Hour},
	}
	for _, tc := range cases {
		d, err := value.ParseDuration(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.expected, d, tc.in)
	}
}

func TestParseDurationErrors(t *testing.T) {
	cases := []string{
		"P",
		"PT",
		"X1D",
		"P1DT2Y", // Y in time part
		"PT2H2H", // duplicate component
		"P2D1Y",  // out of order: D before Y
	}
	for _, in := range cases {
		_, err := value.ParseDuration(in)
		assert.Error(t, err, in)
	}
}

func TestDecimalString(t *testing.T) {
	d := value.Decimal{Precision: 5, Scale: 3, Magnitude: big.NewInt(-1234)}
	assert.Equal(t, "-1.234", d.String())
}
