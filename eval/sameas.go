package eval

import (
	"fmt"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/molctx"
)

var groupingKinds = map[string]molctx.GroupKind{
	"residue":  molctx.GroupResidue,
	"chain":    molctx.GroupChain,
	"segment":  molctx.GroupSegment,
	"fragment": molctx.GroupFragment,
	"model":    molctx.GroupModel,
}

// evalSameAsSel resolves "same KEYWORD as SEL": the closure of SEL's
// mask under the grouping key (spec §4.5) — every atom sharing a group
// id with at least one selected atom.
func evalSameAsSel(p *ir.SameAsSel, ctx molctx.MolecularContext) (Mask, error) {
	kind, ok := groupingKinds[p.Grouping]
	if !ok {
		return nil, &errs.TypeError{Detail: fmt.Sprintf("%q is not a valid grouping keyword for same/as", p.Grouping)}
	}

	inner, err := evalPred(p.Inner, ctx)
	if err != nil {
		return nil, err
	}

	n := ctx.N()
	wanted := make(map[int]bool)
	for i := 0; i < n; i++ {
		if inner[i] {
			wanted[ctx.GroupID(kind, i)] = true
		}
	}

	out := make(Mask, n)
	for i := 0; i < n; i++ {
		if wanted[ctx.GroupID(kind, i)] {
			out[i] = true
		}
	}
	return out, nil
}
