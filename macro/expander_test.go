package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/grammar"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/parser"
	"github.com/dangerclosesec/molselect/registry"
)

func testGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	reg := registry.NewDefault()
	g, err := grammar.Assemble(reg)
	require.NoError(t, err)
	return g
}

func TestExpandInlinesMacroDefinition(t *testing.T) {
	g := testGrammar(t)
	pred, err := parser.Parse(g, "water")
	require.NoError(t, err)

	expanded, err := Expand(g, pred)
	require.NoError(t, err)

	_, stillMacro := expanded.(*ir.BoolFlag)
	assert.False(t, stillMacro, "water should expand to a PropertySel, not remain a bare macro flag")
}

func TestExpandRecursesThroughNestedMacros(t *testing.T) {
	g := testGrammar(t)
	pred, err := parser.Parse(g, "protein and name CA")
	require.NoError(t, err)

	expanded, err := Expand(g, pred)
	require.NoError(t, err)

	and, ok := expanded.(*ir.And)
	require.True(t, ok)
	_, stillMacro := and.Left.(*ir.BoolFlag)
	assert.False(t, stillMacro, "protein expands through _std_aa/_nonstd_aa, no bare flag should remain")
}

func TestExpandDetectsCycle(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.RegisterMacro(registry.Macro{Name: "foo", Definition: "bar"}))
	require.NoError(t, reg.RegisterMacro(registry.Macro{Name: "bar", Definition: "foo"}))
	g, err := grammar.Assemble(reg)
	require.NoError(t, err)

	pred, err := parser.Parse(g, "foo")
	require.NoError(t, err)

	_, err = Expand(g, pred)
	require.Error(t, err)
	var cyc *errs.MacroCycleError
	assert.ErrorAs(t, err, &cyc)
}

func TestExpandCachesAcrossCalls(t *testing.T) {
	g := testGrammar(t)
	e := NewExpander(g)

	pred1, err := parser.Parse(g, "water")
	require.NoError(t, err)
	out1, err := e.Expand(pred1)
	require.NoError(t, err)

	pred2, err := parser.Parse(g, "water")
	require.NoError(t, err)
	out2, err := e.Expand(pred2)
	require.NoError(t, err)

	assert.Equal(t, out1.String(), out2.String())
}
