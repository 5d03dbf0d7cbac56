package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/expr"
	"github.com/reifydb/reifydb/internal/value"
)

func TestBinaryArithmeticAddsRowByRow(t *testing.T) {
	f := frameOf(t, []string{"a", "b"}, []*column.Data{intCol(1, 2, 3), intCol(10, 20, 30)})

	b := expr.Binary{Op: expr.OpAdd, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	out, err := b.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, int64(11), out.Get(0).Int64())
	assert.Equal(t, int64(33), out.Get(2).Int64())
}

func TestBinaryArithmeticPromotesFloat(t *testing.T) {
	floatCol := column.NewData(value.Float8, 1)
	floatCol.Push(value.Float8Value(0.5))
	fr := frameOf(t, []string{"a", "b"}, []*column.Data{intCol(3), floatCol})

	b := expr.Binary{Op: expr.OpMul, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	out, err := b.Eval(fr)
	require.NoError(t, err)
	assert.Equal(t, value.Float8, out.Typ)
	assert.Equal(t, 1.5, out.Get(0).Float64())
}

func TestBinaryDivisionByZeroFloatProducesInf(t *testing.T) {
	floatA := column.NewData(value.Float8, 1)
	floatA.Push(value.Float8Value(1))
	floatB := column.NewData(value.Float8, 1)
	floatB.Push(value.Float8Value(0))
	fr := frameOf(t, []string{"a", "b"}, []*column.Data{floatA, floatB})

	b := expr.Binary{Op: expr.OpDiv, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	out, err := b.Eval(fr)
	require.NoError(t, err)
	assert.True(t, out.Get(0).Float64() > 0)
}

func TestBinaryComparisonOperators(t *testing.T) {
	tests := []struct {
		op   expr.BinaryOp
		want []bool
	}{
		{expr.OpLt, []bool{true, false, false}},
		{expr.OpLe, []bool{true, true, false}},
		{expr.OpGt, []bool{false, false, true}},
		{expr.OpGe, []bool{false, true, true}},
	}
	for _, tt := range tests {
		f := frameOf(t, []string{"a", "b"}, []*column.Data{intCol(1, 2, 3), intCol(2, 2, 2)})
		b := expr.Binary{Op: tt.op, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
		out, err := b.Eval(f)
		require.NoError(t, err)
		for i, want := range tt.want {
			assert.Equal(t, want, out.Get(i).Bool(), "op=%s row=%d", tt.op, i)
		}
	}
}

func TestBinaryEqualityRequiresMatchingTypes(t *testing.T) {
	strCol := column.NewData(value.Utf8, 1)
	strCol.Push(value.Utf8Value("1"))
	f := frameOf(t, []string{"a", "b"}, []*column.Data{intCol(1), strCol})

	b := expr.Binary{Op: expr.OpEq, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	_, err := b.Eval(f)
	assert.Error(t, err)
}

func TestBinaryEqualityOnMatchingTypes(t *testing.T) {
	f := frameOf(t, []string{"a", "b"}, []*column.Data{intCol(1, 2), intCol(1, 3)})

	b := expr.Binary{Op: expr.OpEq, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	out, err := b.Eval(f)
	require.NoError(t, err)
	assert.True(t, out.Get(0).Bool())
	assert.False(t, out.Get(1).Bool())

	ne := expr.Binary{Op: expr.OpNe, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	out, err = ne.Eval(f)
	require.NoError(t, err)
	assert.False(t, out.Get(0).Bool())
	assert.True(t, out.Get(1).Bool())
}

func boolCol(values ...bool) *column.Data {
	d := column.NewData(value.Bool, len(values))
	for _, v := range values {
		d.Push(value.BoolValue(v))
	}
	return d
}

func TestBinaryLogicalAndOr(t *testing.T) {
	f := frameOf(t, []string{"a", "b"}, []*column.Data{boolCol(true, true, false), boolCol(true, false, false)})

	and := expr.Binary{Op: expr.OpAnd, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	out, err := and.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, []bool{out.Get(0).Bool(), out.Get(1).Bool(), out.Get(2).Bool()})

	or := expr.Binary{Op: expr.OpOr, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	out, err = or.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, []bool{out.Get(0).Bool(), out.Get(1).Bool(), out.Get(2).Bool()})
}

func TestBinaryLogicalRejectsNonBoolean(t *testing.T) {
	f := frameOf(t, []string{"a", "b"}, []*column.Data{intCol(1), intCol(0)})

	and := expr.Binary{Op: expr.OpAnd, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	_, err := and.Eval(f)
	assert.Error(t, err)
}

func undefCol(t value.Type, n int) *column.Data {
	d := column.NewData(t, n)
	for i := 0; i < n; i++ {
		d.Push(value.Undef())
	}
	return d
}

func TestBinaryPropagatesUndefined(t *testing.T) {
	f := frameOf(t, []string{"a", "b"}, []*column.Data{intCol(1), undefCol(value.Int8, 1)})

	b := expr.Binary{Op: expr.OpAdd, Left: expr.ColumnRef{Name: "a"}, Right: expr.ColumnRef{Name: "b"}}
	out, err := b.Eval(f)
	require.NoError(t, err)
	assert.True(t, value.IsUndefined(out.Get(0)))
}
