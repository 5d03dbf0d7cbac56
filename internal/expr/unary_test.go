package expr_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/expr"
	"github.com/reifydb/reifydb/internal/value"
)

func TestUnaryNotInvertsBoolean(t *testing.T) {
	f := frameOf(t, []string{"a"}, []*column.Data{boolCol(true, false)})

	out, err := expr.Unary{Op: expr.OpNot, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	require.NoError(t, err)
	assert.False(t, out.Get(0).Bool())
	assert.True(t, out.Get(1).Bool())
}

func TestUnaryNotRejectsNonBoolean(t *testing.T) {
	f := frameOf(t, []string{"a"}, []*column.Data{intCol(1)})

	_, err := expr.Unary{Op: expr.OpNot, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	assert.Error(t, err)
}

func TestUnaryNegFixedWidthInt(t *testing.T) {
	f := frameOf(t, []string{"a"}, []*column.Data{intCol(5, -3)})

	out, err := expr.Unary{Op: expr.OpNeg, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), out.Get(0).Int64())
	assert.Equal(t, int64(3), out.Get(1).Int64())
}

func TestUnaryPosIsIdentity(t *testing.T) {
	f := frameOf(t, []string{"a"}, []*column.Data{intCol(5, -3)})

	out, err := expr.Unary{Op: expr.OpPos, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Get(0).Int64())
	assert.Equal(t, int64(-3), out.Get(1).Int64())
}

func TestUnaryNegFloat(t *testing.T) {
	floatCol := column.NewData(value.Float8, 1)
	floatCol.Push(value.Float8Value(2.5))
	f := frameOf(t, []string{"a"}, []*column.Data{floatCol})

	out, err := expr.Unary{Op: expr.OpNeg, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, -2.5, out.Get(0).Float64())
}

func TestUnaryNegArbitraryPrecisionInt(t *testing.T) {
	bigCol := column.NewData(value.Int, 1)
	bigCol.Push(value.IntValue(big.NewInt(42)))
	f := frameOf(t, []string{"a"}, []*column.Data{bigCol})

	out, err := expr.Unary{Op: expr.OpNeg, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, int64(-42), out.Get(0).Big().Int64())
}

func TestUnaryNegUintFloorsAtZero(t *testing.T) {
	bigCol := column.NewData(value.Uint, 1)
	bigCol.Push(value.UintValue(big.NewInt(42)))
	f := frameOf(t, []string{"a"}, []*column.Data{bigCol})

	out, err := expr.Unary{Op: expr.OpNeg, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Get(0).Big().Int64())
}

func TestUnaryNegDecimal(t *testing.T) {
	decCol := column.NewData(value.Decimal, 1)
	decCol.Push(value.DecimalValue(value.Decimal{Precision: 5, Scale: 2, Magnitude: big.NewInt(1234)}))
	f := frameOf(t, []string{"a"}, []*column.Data{decCol})

	out, err := expr.Unary{Op: expr.OpNeg, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, "-12.34", out.Get(0).Decimal().String())
}

func TestUnaryArithmeticRejectsNonNumeric(t *testing.T) {
	strCol := column.NewData(value.Utf8, 1)
	strCol.Push(value.Utf8Value("x"))
	f := frameOf(t, []string{"a"}, []*column.Data{strCol})

	_, err := expr.Unary{Op: expr.OpNeg, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	assert.Error(t, err)
}

func TestUnaryPropagatesUndefined(t *testing.T) {
	f := frameOf(t, []string{"a"}, []*column.Data{undefCol(value.Int8, 1)})

	out, err := expr.Unary{Op: expr.OpNeg, Operand: expr.ColumnRef{Name: "a"}}.Eval(f)
	require.NoError(t, err)
	assert.True(t, value.IsUndefined(out.Get(0)))
}
