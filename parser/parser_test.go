package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/grammar"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/registry"
)

func testGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	reg := registry.NewDefault()
	g, err := grammar.Assemble(reg)
	require.NoError(t, err)
	return g
}

func TestParsePropertySelection(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "name CA")
	require.NoError(t, err)

	sel, ok := pred.(*ir.PropertySel)
	require.True(t, ok, "expected *ir.PropertySel, got %T", pred)
	fr, ok := sel.Field.(*ir.FieldRef)
	require.True(t, ok)
	assert.Equal(t, "name", fr.Keyword)
	require.Len(t, sel.Items, 1)
	si, ok := sel.Items[0].(*ir.StringItem)
	require.True(t, ok)
	assert.Equal(t, "CA", si.Value)
}

func TestParseListItemsAreOred(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "resname ALA GLY SER")
	require.NoError(t, err)

	sel, ok := pred.(*ir.PropertySel)
	require.True(t, ok)
	assert.Len(t, sel.Items, 3)
}

func TestParseRangeItem(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "resid 10 to 20")
	require.NoError(t, err)

	sel, ok := pred.(*ir.PropertySel)
	require.True(t, ok)
	require.Len(t, sel.Items, 1)
	rng, ok := sel.Items[0].(*ir.RangeItem)
	require.True(t, ok)
	assert.Nil(t, rng.Step)
}

func TestParseSteppedRange(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "resid 1:10:2")
	require.NoError(t, err)

	sel := pred.(*ir.PropertySel)
	rng := sel.Items[0].(*ir.RangeItem)
	assert.NotNil(t, rng.Step)
}

func TestParseImplicitAnd(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "protein name CA")
	require.NoError(t, err)

	and, ok := pred.(*ir.And)
	require.True(t, ok, "expected implicit AND, got %T", pred)
	_, ok = and.Left.(*ir.BoolFlag)
	assert.True(t, ok)
	_, ok = and.Right.(*ir.PropertySel)
	assert.True(t, ok)
}

func TestParseExplicitAndOrPrecedence(t *testing.T) {
	g := testGrammar(t)
	// "or" binds looser than "and": a and b or c == (a and b) or c
	pred, err := Parse(g, "all and none or all")
	require.NoError(t, err)

	or, ok := pred.(*ir.Or)
	require.True(t, ok)
	_, ok = or.Left.(*ir.And)
	assert.True(t, ok)
}

func TestParseNotKeywordAndBang(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "not all")
	require.NoError(t, err)
	_, ok := pred.(*ir.Not)
	require.True(t, ok)

	pred, err = Parse(g, "!all")
	require.NoError(t, err)
	_, ok = pred.(*ir.Not)
	require.True(t, ok)
}

func TestParseCompareChain(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "x > 0 and x < 10")
	require.NoError(t, err)

	and := pred.(*ir.And)
	left, ok := and.Left.(*ir.CompareSel)
	require.True(t, ok)
	assert.Len(t, left.Comparands, 2)
}

func TestParsePureNumericComparisonRejected(t *testing.T) {
	g := testGrammar(t)
	_, err := Parse(g, "sqrt(25) < 10")
	require.Error(t, err)
	var pnm *errs.PureNumericMaskError
	assert.ErrorAs(t, err, &pnm)
}

func TestParseRegexSelection(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, `name =~ "CA|CB"`)
	require.NoError(t, err)
	rs, ok := pred.(*ir.RegexSel)
	require.True(t, ok)
	assert.Equal(t, "CA|CB", rs.Pattern)
}

func TestParseWithinAndExwithin(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "within 5 of resname ALA")
	require.NoError(t, err)
	ws, ok := pred.(*ir.WithinSel)
	require.True(t, ok)
	assert.Equal(t, ir.OpWithin, ws.Op)

	pred, err = Parse(g, "exwithin 5 of resname ALA")
	require.NoError(t, err)
	ws, ok = pred.(*ir.WithinSel)
	require.True(t, ok)
	assert.Equal(t, ir.OpExWithin, ws.Op)
}

func TestParseGroupedPredicateVsPropertySelParen(t *testing.T) {
	g := testGrammar(t)

	// "(" predicate ")" -- logical grouping, no items follow.
	pred, err := Parse(g, "(resname ALA or resname GLY) and name CA")
	require.NoError(t, err)
	and, ok := pred.(*ir.And)
	require.True(t, ok)
	_, ok = and.Left.(*ir.Or)
	assert.True(t, ok)

	// "(" math_expr ")" items+ -- computed-field property selection.
	pred, err = Parse(g, "(x + y) 1 to 10")
	require.NoError(t, err)
	sel, ok := pred.(*ir.PropertySel)
	require.True(t, ok)
	_, ok = sel.Field.(*ir.BinOp)
	assert.True(t, ok)
}

func TestParseBondedChain(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "bonded 2 to index 0")
	require.NoError(t, err)
	bs, ok := pred.(*ir.BondedSel)
	require.True(t, ok)
	assert.Equal(t, ir.OpBonded, bs.Op)
}

func TestParseSameAs(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "same residue as name CA")
	require.NoError(t, err)
	sa, ok := pred.(*ir.SameAsSel)
	require.True(t, ok)
	assert.Equal(t, "residue", sa.Grouping)
}

func TestParseSequence(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, `sequence "MIEIK"`)
	require.NoError(t, err)
	ss, ok := pred.(*ir.SequenceSel)
	require.True(t, ok)
	assert.Equal(t, "MIEIK", ss.Pattern)
}

func TestParseMacroReference(t *testing.T) {
	g := testGrammar(t)
	pred, err := Parse(g, "protein")
	require.NoError(t, err)
	bf, ok := pred.(*ir.BoolFlag)
	require.True(t, ok)
	assert.Equal(t, ir.FlagMacro, bf.Kind)

	pred, err = Parse(g, "@protein")
	require.NoError(t, err)
	bf, ok = pred.(*ir.BoolFlag)
	require.True(t, ok)
	assert.Equal(t, ir.FlagMacro, bf.Kind)
}

func TestParseUnknownIdentifierErrors(t *testing.T) {
	g := testGrammar(t)
	_, err := Parse(g, "totallymadeupflag")
	require.Error(t, err)
}
