package eval

import (
	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/molctx"
)

// evalBondedSel resolves "bonded N to SEL" / "exbonded N to SEL": every
// atom reachable from an atom in SEL by exactly N bond hops (spec §4.5,
// §9's resolved "exactly N hops, not up to N" decision). exbonded
// additionally removes every atom that is a direct (hop-1) neighbor of SEL.
func evalBondedSel(p *ir.BondedSel, ctx molctx.MolecularContext) (Mask, error) {
	if !ctx.HasTopology() {
		return nil, &errs.NoTopologyError{}
	}

	hv, err := evalExpr(p.Hops, ctx)
	if err != nil {
		return nil, err
	}
	if hv.isVector() {
		return nil, &errs.TypeError{Detail: "bonded hop count must be a pure numeric scalar"}
	}
	hops := int(hv.sca)
	if hops < 0 || float64(hops) != hv.sca {
		return nil, &errs.DomainError{Detail: "bonded hop count must be a non-negative integer"}
	}

	inner, err := evalPred(p.Inner, ctx)
	if err != nil {
		return nil, err
	}

	// Multi-source BFS over shortest-path hop distance, so a walk that
	// backtracks through an already-visited atom never counts as a
	// fresh "exactly N hops" reach of it.
	n := ctx.N()
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	frontier := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inner[i] {
			dist[i] = 0
			frontier = append(frontier, i)
		}
	}

	for hop := 0; hop < hops && len(frontier) > 0; hop++ {
		next := make([]int, 0, len(frontier))
		for _, i := range frontier {
			for _, j := range ctx.Neighbors(i) {
				if dist[j] == -1 {
					dist[j] = hop + 1
					next = append(next, j)
				}
			}
		}
		frontier = next
	}

	out := make(Mask, n)
	for i := 0; i < n; i++ {
		if dist[i] == hops {
			out[i] = true
		}
	}

	if p.Op == ir.OpExBonded {
		// spec: exbonded additionally removes atoms that are direct
		// neighbors (hop 1) of the seed from the result.
		hop1 := make(Mask, n)
		for i := 0; i < n; i++ {
			if dist[i] == 1 {
				hop1[i] = true
			}
		}
		out = maskAndNot(out, hop1)
	}
	return out, nil
}
