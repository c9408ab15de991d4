package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/molctx"
)

// fixture builds a small 6-atom structure: residue 1 (MET, atoms 0-3,
// chain A) bonded in a line 0-1-2-3 with a branch 1-4, residue 2 (ALA,
// atoms 4-5, chain A) continuing the branch to atom 5.
func fixture() *molctx.MemoryContext {
	ctx := molctx.NewMemoryContext(6)
	ctx.StringFields["name"] = []string{"N", "CA", "C", "O", "CB", "CA2"}
	ctx.StringFields["resname"] = []string{"MET", "MET", "MET", "MET", "ALA", "ALA"}
	ctx.StringFields["chain"] = []string{"A", "A", "A", "A", "A", "A"}
	ctx.IntFields["resid"] = []int{1, 1, 1, 1, 2, 2}
	ctx.FloatFields["x"] = []float64{0, 1, 2, 3, 1, 1}
	ctx.FloatFields["y"] = []float64{0, 0, 0, 0, 1, 2}
	ctx.FloatFields["z"] = []float64{0, 0, 0, 0, 0, 0}

	ctx.Neighbor = [][]int{
		{1},       // 0 - N
		{0, 2, 4}, // 1 - CA
		{1, 3},    // 2 - C
		{2},       // 3 - O
		{1, 5},    // 4 - CB
		{4},       // 5 - CA2
	}

	ctx.Groups[molctx.GroupResidue] = []int{1, 1, 1, 1, 2, 2}
	ctx.Groups[molctx.GroupChain] = []int{0, 0, 0, 0, 0, 0}
	ctx.Groups[molctx.GroupSegment] = []int{0, 0, 0, 0, 0, 0}
	ctx.Groups[molctx.GroupFragment] = []int{0, 0, 0, 0, 0, 0}
	ctx.Groups[molctx.GroupModel] = []int{0, 0, 0, 0, 0, 0}

	chains, seqs := molctx.BuildChainSequences(ctx.StringFields["chain"], ctx.StringFields["resname"], ctx.IntFields["resid"])
	ctx.Chains = chains
	ctx.Sequences = seqs

	return ctx
}

func allMask(n int) Mask { return newMask(n, true) }

func TestEvaluateBoolFlagAllAndNone(t *testing.T) {
	ctx := fixture()

	m, err := Evaluate(&ir.BoolFlag{Kind: ir.FlagAll}, ctx)
	require.NoError(t, err)
	assert.Equal(t, allMask(6), m)

	m, err = Evaluate(&ir.BoolFlag{Kind: ir.FlagNone}, ctx)
	require.NoError(t, err)
	assert.Equal(t, newMask(6, false), m)
}

func TestEvaluateLogicalAlgebra(t *testing.T) {
	ctx := fixture()
	sel := &ir.PropertySel{
		Field: &ir.FieldRef{Keyword: "resid"},
		Items: []ir.Item{&ir.NumberItem{Value: &ir.NumLit{Value: 1, IsInt: true}}},
	}

	m, err := Evaluate(sel, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{true, true, true, true, false, false}, m)

	// not-not is identity.
	nn, err := Evaluate(&ir.Not{Inner: &ir.Not{Inner: sel}}, ctx)
	require.NoError(t, err)
	assert.Equal(t, m, nn)

	// or-not is all (law of excluded middle).
	lem, err := Evaluate(&ir.Or{Left: sel, Right: &ir.Not{Inner: sel}}, ctx)
	require.NoError(t, err)
	assert.Equal(t, allMask(6), lem)

	// De Morgan: not(a and b) == (not a) or (not b).
	other := &ir.PropertySel{
		Field: &ir.FieldRef{Keyword: "chain"},
		Items: []ir.Item{&ir.StringItem{Value: "A"}},
	}
	lhs, err := Evaluate(&ir.Not{Inner: &ir.And{Left: sel, Right: other}}, ctx)
	require.NoError(t, err)
	rhs, err := Evaluate(&ir.Or{Left: &ir.Not{Inner: sel}, Right: &ir.Not{Inner: other}}, ctx)
	require.NoError(t, err)
	assert.Equal(t, rhs, lhs)
}

func TestEvaluatePropertySelStringEquality(t *testing.T) {
	ctx := fixture()
	sel := &ir.PropertySel{
		Field: &ir.FieldRef{Keyword: "name"},
		Items: []ir.Item{&ir.StringItem{Value: "CA"}, &ir.StringItem{Value: "CB"}},
	}
	m, err := Evaluate(sel, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, true, false, false, true, false}, m)
}

func TestEvaluatePropertySelRangeWithStep(t *testing.T) {
	ctx := fixture()
	ctx.IntFields["serial"] = []int{1, 2, 3, 4, 5, 6}
	sel := &ir.PropertySel{
		Field: &ir.FieldRef{Keyword: "serial"},
		Items: []ir.Item{&ir.RangeItem{
			Lo:   &ir.NumLit{Value: 1, IsInt: true},
			Hi:   &ir.NumLit{Value: 6, IsInt: true},
			Step: &ir.NumLit{Value: 2, IsInt: true},
		}},
	}
	m, err := Evaluate(sel, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{true, false, true, false, true, false}, m)
}

func TestEvaluateCompareSelChain(t *testing.T) {
	ctx := fixture()
	sel := &ir.CompareSel{
		Comparands: []ir.Expr{
			&ir.NumLit{Value: 0},
			&ir.FieldRef{Keyword: "x"},
			&ir.NumLit{Value: 2},
		},
		Ops: []ir.CompareOp{ir.OpLT, ir.OpLE},
	}
	m, err := Evaluate(sel, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, true, true, false, true, true}, m)
}

func TestEvaluateRegexSel(t *testing.T) {
	ctx := fixture()
	sel := &ir.RegexSel{Field: &ir.FieldRef{Keyword: "name"}, Pattern: "^C"}
	m, err := Evaluate(sel, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, true, true, false, true, true}, m)
}

func TestEvaluateWithinSelIncludesSelfAtDistanceZero(t *testing.T) {
	ctx := fixture()
	inner := &ir.PropertySel{Field: &ir.FieldRef{Keyword: "name"}, Items: []ir.Item{&ir.StringItem{Value: "N"}}}
	sel := &ir.WithinSel{Op: ir.OpWithin, Distance: &ir.NumLit{Value: 0}, Inner: inner}
	m, err := Evaluate(sel, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{true, false, false, false, false, false}, m)
}

func TestEvaluateExWithinExcludesSelection(t *testing.T) {
	ctx := fixture()
	inner := &ir.PropertySel{Field: &ir.FieldRef{Keyword: "name"}, Items: []ir.Item{&ir.StringItem{Value: "N"}}}
	sel := &ir.WithinSel{Op: ir.OpExWithin, Distance: &ir.NumLit{Value: 1}, Inner: inner}
	m, err := Evaluate(sel, ctx)
	require.NoError(t, err)
	assert.False(t, m[0])  // atom 0 itself excluded
	assert.True(t, m[1])   // CA is exactly distance 1 away
}

func TestEvaluateBondedSelExactHops(t *testing.T) {
	ctx := fixture()
	inner := &ir.PropertySel{Field: &ir.FieldRef{Keyword: "name"}, Items: []ir.Item{&ir.StringItem{Value: "N"}}}

	oneHop, err := Evaluate(&ir.BondedSel{Op: ir.OpBonded, Hops: &ir.NumLit{Value: 1, IsInt: true}, Inner: inner}, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, true, false, false, false, false}, oneHop)

	twoHop, err := Evaluate(&ir.BondedSel{Op: ir.OpBonded, Hops: &ir.NumLit{Value: 2, IsInt: true}, Inner: inner}, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, false, true, false, true, false}, twoHop)
}

func TestEvaluateExBondedRemovesHopOneFromResult(t *testing.T) {
	ctx := fixture()
	inner := &ir.PropertySel{Field: &ir.FieldRef{Keyword: "name"}, Items: []ir.Item{&ir.StringItem{Value: "N"}}}

	// At exactly one hop, exbonded removes the hop-1 set from the
	// hop-1 result itself, leaving nothing (spec.md §4.5 step 3).
	oneHop, err := Evaluate(&ir.BondedSel{Op: ir.OpExBonded, Hops: &ir.NumLit{Value: 1, IsInt: true}, Inner: inner}, ctx)
	require.NoError(t, err)
	assert.Equal(t, newMask(6, false), oneHop)

	// At two hops, the hop-1 and hop-2 sets are disjoint under the
	// shortest-path BFS, so exbonded leaves the hop-2 result intact.
	twoHop, err := Evaluate(&ir.BondedSel{Op: ir.OpExBonded, Hops: &ir.NumLit{Value: 2, IsInt: true}, Inner: inner}, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, false, true, false, true, false}, twoHop)
}

func TestEvaluateBondedSelNoTopology(t *testing.T) {
	ctx := fixture()
	ctx.Neighbor = nil
	inner := &ir.BoolFlag{Kind: ir.FlagAll}
	_, err := Evaluate(&ir.BondedSel{Op: ir.OpBonded, Hops: &ir.NumLit{Value: 1, IsInt: true}, Inner: inner}, ctx)
	assert.Error(t, err)
}

func TestEvaluateSameAsGrouping(t *testing.T) {
	ctx := fixture()
	inner := &ir.PropertySel{Field: &ir.FieldRef{Keyword: "name"}, Items: []ir.Item{&ir.StringItem{Value: "CB"}}}
	m, err := Evaluate(&ir.SameAsSel{Grouping: "residue", Inner: inner}, ctx)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, false, false, false, true, true}, m)
}

func TestEvaluateSequenceSelLiteralAndRegex(t *testing.T) {
	ctx := fixture()

	lit, err := Evaluate(&ir.SequenceSel{Pattern: "MA"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, allMask(6), lit)

	re, err := Evaluate(&ir.SequenceSel{Pattern: "M+A", IsRegex: true}, ctx)
	require.NoError(t, err)
	assert.Equal(t, allMask(6), re)

	none, err := Evaluate(&ir.SequenceSel{Pattern: "GG"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, newMask(6, false), none)
}

func TestEvaluateDivisionByZero(t *testing.T) {
	ctx := fixture()
	expr := &ir.BinOp{Op: "/", Left: &ir.FieldRef{Keyword: "x"}, Right: &ir.NumLit{Value: 0}}
	v, err := evalExpr(expr, ctx)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.at(1)))

	floorDiv := &ir.BinOp{Op: "//", Left: &ir.FieldRef{Keyword: "x"}, Right: &ir.NumLit{Value: 0}}
	_, err = evalExpr(floorDiv, ctx)
	assert.Error(t, err)
}

func TestEvaluateDomainError(t *testing.T) {
	ctx := fixture()
	_, err := evalExpr(&ir.FuncCall{Name: "sqrt", Arg: &ir.NumLit{Value: -1}}, ctx)
	assert.Error(t, err)
}

func TestEvaluateUnknownField(t *testing.T) {
	ctx := fixture()
	_, err := Evaluate(&ir.PropertySel{Field: &ir.FieldRef{Keyword: "nope"}, Items: []ir.Item{&ir.StringItem{Value: "x"}}}, ctx)
	assert.Error(t, err)
}
