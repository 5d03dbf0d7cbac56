package column_test

import (
	"testing"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPushAndGet(t *testing.T) {
	d := column.NewData(value.Int4, 4)
	d.Push(value.Int4Value(10))
	d.Push(value.Undef())
	d.Push(value.Int4Value(30))

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, int64(10), d.Get(0).Int64())
	assert.True(t, value.IsUndefined(d.Get(1)))
	assert.Equal(t, int64(30), d.Get(2).Int64())
}

func TestFrameEqualLengthValidation(t *testing.T) {
	a := column.NewData(value.Int4, 2)
	a.Push(value.Int4Value(1))
	a.Push(value.Int4Value(2))

	b := column.NewData(value.Int4, 1)
	b.Push(value.Int4Value(1))

	_, err := column.NewFrame([]string{"a", "b"}, []*column.Data{a, b})
	assert.Error(t, err)
}

func TestFrameProjectAndSelectRows(t *testing.T) {
	id := column.NewData(value.Int4, 3)
	id.Push(value.Int4Value(1))
	id.Push(value.Int4Value(2))
	id.Push(value.Int4Value(3))

	v := column.NewData(value.Utf8, 3)
	v.Push(value.Utf8Value("a"))
	v.Push(value.Utf8Value("b"))
	v.Push(value.Utf8Value("c"))

	f, err := column.NewFrame([]string{"id", "v"}, []*column.Data{id, v})
	require.NoError(t, err)

	sub := f.SelectRows([]int{2, 0})
	idCol, ok := sub.Column("id")
	require.True(t, ok)
	assert.Equal(t, int64(3), idCol.Get(0).Int64())
	assert.Equal(t, int64(1), idCol.Get(1).Int64())

	proj, err := f.Project([]string{"v"})
	require.NoError(t, err)
	assert.Equal(t, 1, proj.ColumnCount())
}
