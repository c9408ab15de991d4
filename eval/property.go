package eval

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/molctx"
	"github.com/dangerclosesec/molselect/registry"
)

// CompileRegex compiles an item/RegexSel pattern for the standard
// library's regexp engine (spec §1's "external regex matcher"),
// folding in a case-insensitivity prefix when the target field is
// registered case-insensitive (spec §9 Open Question).
func CompileRegex(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	pat := pattern
	if caseInsensitive {
		pat = "(?i)" + pat
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, &errs.PatternError{Pattern: pattern, Detail: err.Error()}
	}
	return re, nil
}

func evalPropertySel(p *ir.PropertySel, ctx molctx.MolecularContext) (Mask, error) {
	if fr, ok := p.Field.(*ir.FieldRef); ok {
		ft, ok2 := ctx.FieldType(fr.Keyword)
		if !ok2 {
			return nil, &errs.UnknownFieldError{Field: fr.Keyword}
		}
		if ft == registry.FieldString {
			vals, _ := ctx.StringField(fr.Keyword)
			return evalStringPropertySel(vals, ctx.FieldCaseInsensitive(fr.Keyword), p.Items)
		}
	}

	v, err := evalExpr(p.Field, ctx)
	if err != nil {
		return nil, err
	}
	return evalNumericPropertySel(v, ctx, p.Items)
}

func evalStringPropertySel(vals []string, caseInsensitive bool, items []ir.Item) (Mask, error) {
	out := make(Mask, len(vals))
	for _, item := range items {
		switch it := item.(type) {
		case *ir.StringItem:
			target := it.Value
			for i, v := range vals {
				if out[i] {
					continue
				}
				a, b := v, target
				if caseInsensitive {
					a, b = strings.ToLower(a), strings.ToLower(b)
				}
				if a == b {
					out[i] = true
				}
			}
		case *ir.RegexItem:
			re, err := CompileRegex(it.Pattern, caseInsensitive)
			if err != nil {
				return nil, err
			}
			for i, v := range vals {
				if !out[i] && re.MatchString(v) {
					out[i] = true
				}
			}
		default:
			return nil, &errs.TypeError{Detail: fmt.Sprintf("string field cannot be matched against %s", item)}
		}
	}
	return out, nil
}

func evalNumericPropertySel(v value, ctx molctx.MolecularContext, items []ir.Item) (Mask, error) {
	n := ctx.N()
	out := make(Mask, n)
	for _, item := range items {
		switch it := item.(type) {
		case *ir.NumberItem:
			target, err := evalExpr(it.Value, ctx)
			if err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				if !out[i] && v.at(i) == target.at(i) {
					out[i] = true
				}
			}

		case *ir.RangeItem:
			lo, err := evalExpr(it.Lo, ctx)
			if err != nil {
				return nil, err
			}
			hi, err := evalExpr(it.Hi, ctx)
			if err != nil {
				return nil, err
			}
			var step *value
			if it.Step != nil {
				s, err := evalExpr(it.Step, ctx)
				if err != nil {
					return nil, err
				}
				step = &s
			}
			for i := 0; i < n; i++ {
				if out[i] {
					continue
				}
				x, l, h := v.at(i), lo.at(i), hi.at(i)
				if x < l || x > h {
					continue
				}
				if step == nil {
					out[i] = true
					continue
				}
				st := step.at(i)
				if st == 0 {
					continue
				}
				k := (x - l) / st
				if math.Abs(k-math.Round(k)) < 1e-9 {
					out[i] = true
				}
			}

		default:
			return nil, &errs.TypeError{Detail: fmt.Sprintf("numeric field cannot be matched against %s", item)}
		}
	}
	return out, nil
}

func evalCompareSel(p *ir.CompareSel, ctx molctx.MolecularContext) (Mask, error) {
	n := ctx.N()
	vals := make([]value, len(p.Comparands))
	for i, c := range p.Comparands {
		v, err := evalExpr(c, ctx)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	out := newMask(n, true)
	for i, op := range p.Ops {
		l, r := vals[i], vals[i+1]
		step := make(Mask, n)
		for a := 0; a < n; a++ {
			step[a] = compareOp(op, l.at(a), r.at(a))
		}
		out = maskAnd(out, step)
	}
	return out, nil
}

func compareOp(op ir.CompareOp, a, b float64) bool {
	switch op {
	case ir.OpEQ:
		return a == b
	case ir.OpNE:
		return a != b
	case ir.OpLT:
		return a < b
	case ir.OpLE:
		return a <= b
	case ir.OpGT:
		return a > b
	case ir.OpGE:
		return a >= b
	}
	return false
}

func evalRegexSel(p *ir.RegexSel, ctx molctx.MolecularContext) (Mask, error) {
	fr, ok := p.Field.(*ir.FieldRef)
	if !ok {
		return nil, &errs.TypeError{Detail: "=~ requires a plain field reference, not a computed expression"}
	}
	ft, ok2 := ctx.FieldType(fr.Keyword)
	if !ok2 {
		return nil, &errs.UnknownFieldError{Field: fr.Keyword}
	}
	if ft != registry.FieldString {
		return nil, &errs.TypeError{Detail: fmt.Sprintf("=~ requires a string field, %q is %s", fr.Keyword, ft)}
	}
	vals, _ := ctx.StringField(fr.Keyword)
	re, err := CompileRegex(p.Pattern, ctx.FieldCaseInsensitive(fr.Keyword))
	if err != nil {
		return nil, err
	}
	out := make(Mask, ctx.N())
	for i, v := range vals {
		out[i] = re.MatchString(v)
	}
	return out, nil
}
