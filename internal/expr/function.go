package expr

import (
	"math"
	"math/big"
	"strings"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// FuncKind distinguishes the three calling conventions a registered function
// can have.
type FuncKind uint8

const (
	// FuncScalar is evaluated once per row from its arguments' values at
	// that row.
	FuncScalar FuncKind = iota
	// FuncAggregate accumulates over every row of a group and produces one
	// value per group; it cannot appear outside an aggregate operator.
	FuncAggregate
	// FuncGenerator ignores its arguments' per-row values and produces a
	// column driven only by row count (e.g. a row counter).
	FuncGenerator
)

// ScalarFunc computes one output value from a row's already-evaluated
// argument values. Undefined propagation is handled by FuncCall before
// calling in: a ScalarFunc is only invoked for rows where every argument is
// defined.
type ScalarFunc func(args []value.Value) (value.Value, error)

// GeneratorFunc produces a full column of rows rows, independent of any
// input frame column.
type GeneratorFunc func(rows int) (*column.Data, error)

// Aggregator accumulates values across a group's rows and yields one value.
type Aggregator interface {
	Accumulate(v value.Value)
	Result() value.Value
}

// FuncDef is one entry of the function registry.
type FuncDef struct {
	Name        string
	Kind        FuncKind
	MinArity    int
	MaxArity    int // -1 means unbounded
	ResultType  value.Type
	Scalar      ScalarFunc
	Generator   GeneratorFunc
	NewAggregate func() Aggregator
}

var registry = map[string]*FuncDef{}

// Register adds or replaces a function definition under its own name,
// lower-cased so lookups are case-insensitive.
func Register(def *FuncDef) {
	registry[strings.ToLower(def.Name)] = def
}

// Lookup finds a registered function by name, case-insensitively.
func Lookup(name string) (*FuncDef, bool) {
	def, ok := registry[strings.ToLower(name)]
	return def, ok
}

func init() {
	registerBuiltins()
}

// FuncCall evaluates a scalar or generator function call over a frame.
// Aggregate functions are looked up by the aggregate operator directly via
// Lookup and never reach FuncCall.Eval.
type FuncCall struct {
	Name     string
	Args     []Expr
	Fragment diagnostic.Fragment
}

func (f FuncCall) Eval(frame *column.Frame) (*column.Data, error) {
	def, ok := Lookup(f.Name)
	if !ok {
		return nil, diagnostic.FunctionNotFound(f.Fragment, f.Name)
	}
	if len(f.Args) < def.MinArity || (def.MaxArity >= 0 && len(f.Args) > def.MaxArity) {
		return nil, diagnostic.FunctionArityMismatch(f.Fragment, f.Name, def.MinArity, len(f.Args))
	}

	rows := frame.Rows()

	if def.Kind == FuncAggregate {
		return nil, diagnostic.AggregateOutsideGroup(f.Fragment, f.Name)
	}

	if def.Kind == FuncGenerator {
		return def.Generator(rows)
	}

	argCols := make([]*column.Data, len(f.Args))
	for i, a := range f.Args {
		d, err := a.Eval(frame)
		if err != nil {
			return nil, err
		}
		argCols[i] = d
	}

	resultType := def.ResultType
	out := column.NewData(resultType, rows)
	args := make([]value.Value, len(argCols))
	for row := 0; row < rows; row++ {
		anyUndefined := false
		for i, c := range argCols {
			v := c.Get(row)
			if value.IsUndefined(v) {
				anyUndefined = true
				break
			}
			args[i] = v
		}
		if anyUndefined {
			out.Push(value.Undef())
			continue
		}
		r, err := def.Scalar(args)
		if err != nil {
			return nil, err
		}
		out.Push(r)
	}
	return out, nil
}

// registerBuiltins installs the scalar and aggregate functions every
// evaluator needs regardless of what a caller adds with Register.
func registerBuiltins() {
	Register(&FuncDef{
		Name: "abs", Kind: FuncScalar, MinArity: 1, MaxArity: 1, ResultType: value.Float8,
		Scalar: func(args []value.Value) (value.Value, error) {
			return value.Float8Value(math.Abs(numericAsFloat(args[0]))), nil
		},
	})
	Register(&FuncDef{
		Name: "coalesce", Kind: FuncScalar, MinArity: 1, MaxArity: -1, ResultType: value.Utf8,
		Scalar: func(args []value.Value) (value.Value, error) {
			for _, a := range args {
				if !value.IsUndefined(a) {
					return a, nil
				}
			}
			return value.Undef(), nil
		},
	})
	Register(&FuncDef{
		Name: "length", Kind: FuncScalar, MinArity: 1, MaxArity: 1, ResultType: value.Int8,
		Scalar: func(args []value.Value) (value.Value, error) {
			return value.Int8Value(int64(len(args[0].Str()))), nil
		},
	})
	Register(&FuncDef{
		Name: "lower", Kind: FuncScalar, MinArity: 1, MaxArity: 1, ResultType: value.Utf8,
		Scalar: func(args []value.Value) (value.Value, error) {
			return value.Utf8Value(strings.ToLower(args[0].Str())), nil
		},
	})
	Register(&FuncDef{
		Name: "upper", Kind: FuncScalar, MinArity: 1, MaxArity: 1, ResultType: value.Utf8,
		Scalar: func(args []value.Value) (value.Value, error) {
			return value.Utf8Value(strings.ToUpper(args[0].Str())), nil
		},
	})

	Register(&FuncDef{
		Name: "row_number", Kind: FuncGenerator, MinArity: 0, MaxArity: 0, ResultType: value.RowNumber,
		Generator: func(rows int) (*column.Data, error) {
			out := column.NewData(value.RowNumber, rows)
			for i := 0; i < rows; i++ {
				out.Push(value.RowNumberValue(uint64(i) + 1))
			}
			return out, nil
		},
	})

	Register(&FuncDef{Name: "sum", Kind: FuncAggregate, MinArity: 1, MaxArity: 1, NewAggregate: newSumAggregator})
	Register(&FuncDef{Name: "count", Kind: FuncAggregate, MinArity: 0, MaxArity: 1, NewAggregate: newCountAggregator})
	Register(&FuncDef{Name: "min", Kind: FuncAggregate, MinArity: 1, MaxArity: 1, NewAggregate: func() Aggregator { return &minMaxAggregator{isMin: true} }})
	Register(&FuncDef{Name: "max", Kind: FuncAggregate, MinArity: 1, MaxArity: 1, NewAggregate: func() Aggregator { return &minMaxAggregator{isMin: false} }})
	Register(&FuncDef{Name: "avg", Kind: FuncAggregate, MinArity: 1, MaxArity: 1, NewAggregate: newAvgAggregator})
}

type sumAggregator struct {
	sum  big.Int
	f    float64
	isFl bool
	any  bool
}

func newSumAggregator() Aggregator { return &sumAggregator{} }

func (a *sumAggregator) Accumulate(v value.Value) {
	if value.IsUndefined(v) {
		return
	}
	a.any = true
	if v.Type() == value.Float4 || v.Type() == value.Float8 {
		a.isFl = true
		a.f += v.Float64()
		return
	}
	a.sum.Add(&a.sum, valueAsBigInt(v))
}

func (a *sumAggregator) Result() value.Value {
	if !a.any {
		return value.Undef()
	}
	if a.isFl {
		return value.Float8Value(a.f + bigToFloat(&a.sum))
	}
	return value.IntValue(new(big.Int).Set(&a.sum))
}

func bigToFloat(n *big.Int) float64 {
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

type countAggregator struct{ n int64 }

func newCountAggregator() Aggregator { return &countAggregator{} }

func (a *countAggregator) Accumulate(v value.Value) {
	if !value.IsUndefined(v) {
		a.n++
	}
}

func (a *countAggregator) Result() value.Value { return value.Int8Value(a.n) }

type minMaxAggregator struct {
	isMin bool
	cur   value.Value
	any   bool
}

func (a *minMaxAggregator) Accumulate(v value.Value) {
	if value.IsUndefined(v) {
		return
	}
	if !a.any {
		a.cur = v
		a.any = true
		return
	}
	c := compareNumeric(v, a.cur)
	if (a.isMin && c < 0) || (!a.isMin && c > 0) {
		a.cur = v
	}
}

func (a *minMaxAggregator) Result() value.Value {
	if !a.any {
		return value.Undef()
	}
	return a.cur
}

type avgAggregator struct {
	sum float64
	n   int64
}

func newAvgAggregator() Aggregator { return &avgAggregator{} }

func (a *avgAggregator) Accumulate(v value.Value) {
	if value.IsUndefined(v) {
		return
	}
	a.sum += numericAsFloat(v)
	a.n++
}

func (a *avgAggregator) Result() value.Value {
	if a.n == 0 {
		return value.Undef()
	}
	return value.Float8Value(a.sum / float64(a.n))
}
