package eval

import (
	"fmt"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/molctx"
	"github.com/dangerclosesec/molselect/registry"
)

// Evaluate walks pred against ctx and returns the atom mask it selects
// (spec §4.5, §6.3). pred must already be macro-free: a *ir.BoolFlag
// with Kind == ir.FlagMacro reaching here indicates the caller skipped
// macro.Expand, which is a programming error rather than bad input.
func Evaluate(pred ir.Pred, ctx molctx.MolecularContext) (Mask, error) {
	return evalPred(pred, ctx)
}

func evalPred(pred ir.Pred, ctx molctx.MolecularContext) (Mask, error) {
	switch p := pred.(type) {
	case *ir.And:
		l, err := evalPred(p.Left, ctx)
		if err != nil {
			return nil, err
		}
		r, err := evalPred(p.Right, ctx)
		if err != nil {
			return nil, err
		}
		return maskAnd(l, r), nil

	case *ir.Or:
		l, err := evalPred(p.Left, ctx)
		if err != nil {
			return nil, err
		}
		r, err := evalPred(p.Right, ctx)
		if err != nil {
			return nil, err
		}
		return maskOr(l, r), nil

	case *ir.Xor:
		l, err := evalPred(p.Left, ctx)
		if err != nil {
			return nil, err
		}
		r, err := evalPred(p.Right, ctx)
		if err != nil {
			return nil, err
		}
		return maskXor(l, r), nil

	case *ir.Not:
		m, err := evalPred(p.Inner, ctx)
		if err != nil {
			return nil, err
		}
		return maskNot(m), nil

	case *ir.BoolFlag:
		return evalBoolFlag(p, ctx)

	case *ir.PropertySel:
		return evalPropertySel(p, ctx)

	case *ir.CompareSel:
		return evalCompareSel(p, ctx)

	case *ir.RegexSel:
		return evalRegexSel(p, ctx)

	case *ir.WithinSel:
		return evalWithinSel(p, ctx)

	case *ir.BondedSel:
		return evalBondedSel(p, ctx)

	case *ir.SequenceSel:
		return evalSequenceSel(p, ctx)

	case *ir.SameAsSel:
		return evalSameAsSel(p, ctx)
	}
	return nil, &errs.TypeError{Detail: fmt.Sprintf("unsupported predicate node %T", pred)}
}

func evalBoolFlag(p *ir.BoolFlag, ctx molctx.MolecularContext) (Mask, error) {
	n := ctx.N()
	switch p.Kind {
	case ir.FlagAll:
		return newMask(n, true), nil

	case ir.FlagNone:
		return newMask(n, false), nil

	case ir.FlagMacro:
		return nil, &errs.TypeError{Detail: fmt.Sprintf("macro reference %q reached the evaluator unexpanded", p.Name)}

	case ir.FlagKeyword:
		ft, ok := ctx.FieldType(p.Name)
		if !ok {
			return nil, &errs.UnknownFieldError{Field: p.Name}
		}
		out := make(Mask, n)
		switch ft {
		case registry.FieldInt:
			vals, _ := ctx.IntField(p.Name)
			for i, v := range vals {
				out[i] = v != 0
			}
		case registry.FieldFloat:
			vals, _ := ctx.FloatField(p.Name)
			for i, v := range vals {
				out[i] = v != 0
			}
		case registry.FieldString:
			vals, _ := ctx.StringField(p.Name)
			for i, v := range vals {
				out[i] = v != ""
			}
		}
		return out, nil
	}
	return nil, &errs.TypeError{Detail: fmt.Sprintf("unknown bool flag kind %d", p.Kind)}
}
