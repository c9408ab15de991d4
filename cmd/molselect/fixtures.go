package main

import "github.com/dangerclosesec/molselect/molctx"

// demoFixture builds a small in-memory structure for `molselect eval`,
// since loading real PDB/mmCIF structures is out of scope (spec.md §1
// Non-goals) — a stand-in for the "molecular context" a real host
// application would supply.
func demoFixture() *molctx.MemoryContext {
	ctx := molctx.NewMemoryContext(8)
	ctx.StringFields["name"] = []string{"N", "CA", "C", "O", "CB", "N", "CA", "C"}
	ctx.StringFields["resname"] = []string{"MET", "MET", "MET", "MET", "MET", "ALA", "ALA", "ALA"}
	ctx.StringFields["chain"] = []string{"A", "A", "A", "A", "A", "A", "A", "A"}
	ctx.StringFields["element"] = []string{"N", "C", "C", "O", "C", "N", "C", "C"}
	ctx.IntFields["resid"] = []int{1, 1, 1, 1, 1, 2, 2, 2}
	ctx.IntFields["serial"] = []int{1, 2, 3, 4, 5, 6, 7, 8}
	ctx.FloatFields["x"] = []float64{0, 1, 2, 3, 1, 4, 5, 6}
	ctx.FloatFields["y"] = []float64{0, 0, 0, 0, 1, 0, 0, 0}
	ctx.FloatFields["z"] = []float64{0, 0, 0, 0, 0, 0, 0, 0}

	ctx.Neighbor = [][]int{
		{1},
		{0, 2, 4},
		{1, 3, 5},
		{2},
		{1},
		{2, 6},
		{5, 7},
		{6},
	}

	ctx.Groups[molctx.GroupResidue] = []int{1, 1, 1, 1, 1, 2, 2, 2}
	ctx.Groups[molctx.GroupChain] = []int{0, 0, 0, 0, 0, 0, 0, 0}
	ctx.Groups[molctx.GroupSegment] = []int{0, 0, 0, 0, 0, 0, 0, 0}
	ctx.Groups[molctx.GroupFragment] = []int{0, 0, 0, 0, 0, 0, 0, 0}
	ctx.Groups[molctx.GroupModel] = []int{0, 0, 0, 0, 0, 0, 0, 0}

	chains, seqs := molctx.BuildChainSequences(ctx.StringFields["chain"], ctx.StringFields["resname"], ctx.IntFields["resid"])
	ctx.Chains = chains
	ctx.Sequences = seqs

	return ctx
}

// fixtures lists the fixtures `molselect eval --fixture` accepts.
var fixtures = map[string]func() *molctx.MemoryContext{
	"demo": demoFixture,
}
