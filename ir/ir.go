// Package ir defines the tagged intermediate representation produced by the
// parser (spec §3.3): a logical/predicate layer that always evaluates to a
// mask, and an expression layer that is typed scalar or vector.
package ir

// ValueType tags every expression node as either a pure number (scalar) or
// a per-atom value (vector). Comparisons statically reject two scalar
// operands (errs.ErrPureNumericMask) because the result would not be a mask.
type ValueType int

const (
	TypeScalar ValueType = iota
	TypeVector
)

func (t ValueType) String() string {
	if t == TypeVector {
		return "vector"
	}
	return "scalar"
}

// Node is any IR node: a predicate or an expression.
type Node interface {
	String() string
}

// Expr is a math-expression node. Its Type is established at construction
// time by the parser and never changes.
type Expr interface {
	Node
	Type() ValueType
}

// Pred is a predicate node. Every Pred evaluates to a mask of length N.
type Pred interface {
	Node
	isPred()
}

// Item is one member of a property selection's value list.
type Item interface {
	Node
	isItem()
}
