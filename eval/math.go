package eval

import (
	"fmt"
	"math"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/molctx"
	"github.com/dangerclosesec/molselect/registry"
)

// value is the runtime result of evaluating an ir.Expr: either a single
// scalar or one number per atom. Unlike ir.ValueType (fixed at parse
// time), vector-ness here reflects the actual shape of a $variable
// binding, which may be scalar even where the static tag says vector.
type value struct {
	vec []float64 // nil means scalar
	sca float64
}

func scalar(f float64) value { return value{sca: f} }
func vector(v []float64) value { return value{vec: v} }

func (v value) isVector() bool { return v.vec != nil }

func (v value) at(i int) float64 {
	if v.vec != nil {
		return v.vec[i]
	}
	return v.sca
}

// evalExpr walks a math-expression node to a value, resolving FieldRef
// against the context's numeric columns and VarRef against its bound
// variables (spec §4.3.3, §3.1).
func evalExpr(e ir.Expr, ctx molctx.MolecularContext) (value, error) {
	switch n := e.(type) {
	case *ir.NumLit:
		return scalar(n.Value), nil

	case *ir.Const:
		if n.Kind == ir.ConstPi {
			return scalar(math.Pi), nil
		}
		return scalar(math.E), nil

	case *ir.Neg:
		v, err := evalExpr(n.Operand, ctx)
		if err != nil {
			return value{}, err
		}
		return mapValue(v, func(f float64) (float64, error) { return -f, nil })

	case *ir.BinOp:
		return evalBinOp(n, ctx)

	case *ir.FuncCall:
		return evalFuncCall(n, ctx)

	case *ir.FieldRef:
		ft, ok := ctx.FieldType(n.Keyword)
		if !ok {
			return value{}, &errs.UnknownFieldError{Field: n.Keyword}
		}
		switch ft {
		case registry.FieldInt:
			ints, _ := ctx.IntField(n.Keyword)
			out := make([]float64, len(ints))
			for i, x := range ints {
				out[i] = float64(x)
			}
			return vector(out), nil
		case registry.FieldFloat:
			floats, _ := ctx.FloatField(n.Keyword)
			return vector(floats), nil
		default:
			return value{}, &errs.TypeError{Detail: fmt.Sprintf("field %q is a string column and cannot be used in arithmetic", n.Keyword)}
		}

	case *ir.VarRef:
		v, ok := ctx.Variable(n.Name)
		if !ok {
			return value{}, &errs.UnknownVariableError{Name: n.Name}
		}
		if v.IsScalar {
			return scalar(v.Scalar), nil
		}
		return vector(v.Vector), nil
	}
	return value{}, &errs.TypeError{Detail: fmt.Sprintf("unsupported expression node %T", e)}
}

// mapValue applies fn element-wise, preserving scalar-vs-vector shape.
func mapValue(v value, fn func(float64) (float64, error)) (value, error) {
	if !v.isVector() {
		r, err := fn(v.sca)
		return scalar(r), err
	}
	out := make([]float64, len(v.vec))
	for i, f := range v.vec {
		r, err := fn(f)
		if err != nil {
			return value{}, err
		}
		out[i] = r
	}
	return vector(out), nil
}

// combine applies fn element-wise across two values, broadcasting a
// scalar against a vector; n is the atom count used when both operands
// happen to be vectors (lengths are assumed equal, enforced upstream by
// every vector column sharing the context's atom count).
func combine(l, r value, n int, fn func(a, b float64) (float64, error)) (value, error) {
	if !l.isVector() && !r.isVector() {
		out, err := fn(l.sca, r.sca)
		return scalar(out), err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := fn(l.at(i), r.at(i))
		if err != nil {
			return value{}, err
		}
		out[i] = v
	}
	return vector(out), nil
}

func evalBinOp(n *ir.BinOp, ctx molctx.MolecularContext) (value, error) {
	l, err := evalExpr(n.Left, ctx)
	if err != nil {
		return value{}, err
	}
	r, err := evalExpr(n.Right, ctx)
	if err != nil {
		return value{}, err
	}
	switch n.Op {
	case "+":
		return combine(l, r, ctx.N(), func(a, b float64) (float64, error) { return a + b, nil })
	case "-":
		return combine(l, r, ctx.N(), func(a, b float64) (float64, error) { return a - b, nil })
	case "*":
		return combine(l, r, ctx.N(), func(a, b float64) (float64, error) { return a * b, nil })
	case "/":
		// True division by zero yields NaN rather than an error
		// (spec §4.5): only // and % treat zero as a hard error.
		return combine(l, r, ctx.N(), func(a, b float64) (float64, error) {
			if b == 0 {
				return math.NaN(), nil
			}
			return a / b, nil
		})
	case "//":
		return combine(l, r, ctx.N(), func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, fmt.Errorf("%w: floor division by zero", errs.ErrDivByZero)
			}
			return math.Floor(a / b), nil
		})
	case "%":
		return combine(l, r, ctx.N(), func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, fmt.Errorf("%w: modulo by zero", errs.ErrDivByZero)
			}
			return math.Mod(a, b), nil
		})
	case "**":
		return combine(l, r, ctx.N(), func(a, b float64) (float64, error) { return math.Pow(a, b), nil })
	}
	return value{}, &errs.TypeError{Detail: fmt.Sprintf("unknown operator %q", n.Op)}
}

func evalFuncCall(n *ir.FuncCall, ctx molctx.MolecularContext) (value, error) {
	arg, err := evalExpr(n.Arg, ctx)
	if err != nil {
		return value{}, err
	}
	fn, ok := mathFuncs[n.Name]
	if !ok {
		return value{}, &errs.TypeError{Detail: fmt.Sprintf("unknown function %q", n.Name)}
	}
	return mapValue(arg, fn)
}

var mathFuncs = map[string]func(float64) (float64, error){
	"sin": func(f float64) (float64, error) { return math.Sin(f), nil },
	"cos": func(f float64) (float64, error) { return math.Cos(f), nil },
	"tan": func(f float64) (float64, error) { return math.Tan(f), nil },
	"asin": func(f float64) (float64, error) {
		if f < -1 || f > 1 {
			return 0, &errs.DomainError{Detail: fmt.Sprintf("asin(%g) outside [-1, 1]", f)}
		}
		return math.Asin(f), nil
	},
	"acos": func(f float64) (float64, error) {
		if f < -1 || f > 1 {
			return 0, &errs.DomainError{Detail: fmt.Sprintf("acos(%g) outside [-1, 1]", f)}
		}
		return math.Acos(f), nil
	},
	"atan":  func(f float64) (float64, error) { return math.Atan(f), nil },
	"sinh":  func(f float64) (float64, error) { return math.Sinh(f), nil },
	"cosh":  func(f float64) (float64, error) { return math.Cosh(f), nil },
	"tanh":  func(f float64) (float64, error) { return math.Tanh(f), nil },
	"exp":   func(f float64) (float64, error) { return math.Exp(f), nil },
	"log": func(f float64) (float64, error) {
		if f <= 0 {
			return 0, &errs.DomainError{Detail: fmt.Sprintf("log(%g) requires a positive argument", f)}
		}
		return math.Log(f), nil
	},
	"log10": func(f float64) (float64, error) {
		if f <= 0 {
			return 0, &errs.DomainError{Detail: fmt.Sprintf("log10(%g) requires a positive argument", f)}
		}
		return math.Log10(f), nil
	},
	"sqrt": func(f float64) (float64, error) {
		if f < 0 {
			return 0, &errs.DomainError{Detail: fmt.Sprintf("sqrt(%g) requires a non-negative argument", f)}
		}
		return math.Sqrt(f), nil
	},
	"sq":     func(f float64) (float64, error) { return f * f, nil },
	"sqr":    func(f float64) (float64, error) { return f * f, nil },
	"square": func(f float64) (float64, error) { return f * f, nil },
	"abs":    func(f float64) (float64, error) { return math.Abs(f), nil },
	"floor":  func(f float64) (float64, error) { return math.Floor(f), nil },
	"ceil":   func(f float64) (float64, error) { return math.Ceil(f), nil },
}
