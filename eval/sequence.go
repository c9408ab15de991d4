package eval

import (
	"strings"

	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/molctx"
)

// evalSequenceSel matches a one-letter sequence pattern against every
// chain's ordered residue sequence (spec §3.1, §4.5) and expands any
// matched span back to the full set of atoms it covers.
func evalSequenceSel(p *ir.SequenceSel, ctx molctx.MolecularContext) (Mask, error) {
	out := make(Mask, ctx.N())

	if p.IsRegex {
		re, err := CompileRegex(p.Pattern, false)
		if err != nil {
			return nil, err
		}
		for _, chain := range ctx.ChainIDs() {
			residues := ctx.ChainSequence(chain)
			codes := sequenceCodes(residues)
			for _, loc := range re.FindAllStringIndex(codes, -1) {
				markSpan(out, residues, loc[0], loc[1])
			}
		}
		return out, nil
	}

	needle := p.Pattern
	for _, chain := range ctx.ChainIDs() {
		residues := ctx.ChainSequence(chain)
		codes := sequenceCodes(residues)
		start := 0
		for {
			idx := strings.Index(codes[start:], needle)
			if idx < 0 {
				break
			}
			at := start + idx
			markSpan(out, residues, at, at+len(needle))
			start = at + 1
			if start >= len(codes) {
				break
			}
		}
	}
	return out, nil
}

func sequenceCodes(residues []molctx.SeqResidue) string {
	b := make([]byte, len(residues))
	for i, r := range residues {
		b[i] = r.Code
	}
	return string(b)
}

func markSpan(out Mask, residues []molctx.SeqResidue, lo, hi int) {
	for _, r := range residues[lo:hi] {
		for _, a := range r.Atoms {
			out[a] = true
		}
	}
}
