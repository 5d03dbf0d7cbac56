package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/expr"
	"github.com/reifydb/reifydb/internal/value"
)

func TestCastAppliesRowByRow(t *testing.T) {
	f := frameOf(t, []string{"a"}, []*column.Data{intCol(1, 1000, -1000)})

	c := expr.Cast{Operand: expr.ColumnRef{Name: "a"}, Target: value.Int1, Mode: expr.CastSaturating}
	out, err := c.Eval(f)
	require.NoError(t, err)
	assert.Equal(t, value.Int1, out.Typ)
	assert.Equal(t, int64(1), out.Get(0).Int64())
	assert.Equal(t, int64(127), out.Get(1).Int64())
	assert.Equal(t, int64(-128), out.Get(2).Int64())
}

func TestCastPropagatesUndefinedRows(t *testing.T) {
	f := frameOf(t, []string{"a"}, []*column.Data{undefCol(value.Int8, 1)})

	c := expr.Cast{Operand: expr.ColumnRef{Name: "a"}, Target: value.Int1, Mode: expr.CastChecked}
	out, err := c.Eval(f)
	require.NoError(t, err)
	assert.True(t, value.IsUndefined(out.Get(0)))
}
