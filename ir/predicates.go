package ir

import (
	"fmt"
	"strings"
)

// PropertySel is "KEYWORD items+" or "(math_expr) items+": the mask is the
// OR of each item's match against the field's per-atom value.
type PropertySel struct {
	Field Expr
	Items []Item
}

func (n *PropertySel) isPred() {}
func (n *PropertySel) String() string {
	parts := make([]string, len(n.Items))
	for i, it := range n.Items {
		parts[i] = it.String()
	}
	return fmt.Sprintf("%s %s", n.Field, strings.Join(parts, " "))
}

// CompareOp is one of the six comparison relations, normalized from any of
// its spellings (spec §4.3.2: <=|ge|=|==|eq|!=|ne|<|lt|>|gt|>=|ge).
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
)

func (op CompareOp) String() string {
	switch op {
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	}
	return "?"
}

// CompareSel is a chain of two or more comparands: "a op b op c" means
// "a op b AND b op c", evaluated left to right.
type CompareSel struct {
	Comparands []Expr
	Ops        []CompareOp // len(Ops) == len(Comparands)-1
}

func (n *CompareSel) isPred() {}
func (n *CompareSel) String() string {
	parts := make([]string, 0, len(n.Comparands)*2-1)
	for i, c := range n.Comparands {
		if i > 0 {
			parts = append(parts, n.Ops[i-1].String())
		}
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

// RegexSel is "math_expr =~ \"pattern\"".
type RegexSel struct {
	Field   Expr
	Pattern string
}

func (n *RegexSel) isPred() {}
func (n *RegexSel) String() string { return fmt.Sprintf("%s =~ %q", n.Field, n.Pattern) }

// SpatialOp distinguishes within from exwithin.
type SpatialOp int

const (
	OpWithin SpatialOp = iota
	OpExWithin
)

// WithinSel is "within N of EXPR" / "exwithin N of EXPR".
type WithinSel struct {
	Op       SpatialOp
	Distance Expr
	Inner    Pred
}

func (n *WithinSel) isPred() {}
func (n *WithinSel) String() string {
	name := "within"
	if n.Op == OpExWithin {
		name = "exwithin"
	}
	return fmt.Sprintf("%s %s of %s", name, n.Distance, n.Inner)
}

// BondedOp distinguishes bonded from exbonded.
type BondedOp int

const (
	OpBonded BondedOp = iota
	OpExBonded
)

// BondedSel is "bonded N to EXPR" / "exbonded N to EXPR".
type BondedSel struct {
	Op    BondedOp
	Hops  Expr
	Inner Pred
}

func (n *BondedSel) isPred() {}
func (n *BondedSel) String() string {
	name := "bonded"
	if n.Op == OpExBonded {
		name = "exbonded"
	}
	return fmt.Sprintf("%s %s to %s", name, n.Hops, n.Inner)
}

// SequenceSel is "sequence PATTERN". IsRegex records whether PATTERN was
// written double-quoted (a regex, per the quoting rules of spec §4.3.4)
// as opposed to single-quoted/raw/bare (a literal substring).
type SequenceSel struct {
	Pattern string
	IsRegex bool
}

func (n *SequenceSel) isPred() {}
func (n *SequenceSel) String() string { return fmt.Sprintf("sequence %q", n.Pattern) }

// SameAsSel is "same KEYWORD as EXPR".
type SameAsSel struct {
	Grouping string
	Inner    Pred
}

func (n *SameAsSel) isPred() {}
func (n *SameAsSel) String() string { return fmt.Sprintf("same %s as %s", n.Grouping, n.Inner) }
