package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangerclosesec/molselect/registry"
)

func TestAssembleReservesKeywordsAndMacros(t *testing.T) {
	reg := registry.NewDefault()
	g, err := Assemble(reg)
	require.NoError(t, err)

	assert.True(t, g.IsReservedWord("name"))
	assert.True(t, g.IsReservedWord("label_atom_id"))
	assert.True(t, g.IsReservedWord("protein"))
	assert.True(t, g.IsReservedWord("ca"))
	assert.True(t, g.IsReservedWord("and"), "structural words are always reserved")
}

func TestIsBareWordRejectsReservedAndNumeric(t *testing.T) {
	reg := registry.NewDefault()
	g, err := Assemble(reg)
	require.NoError(t, err)

	assert.False(t, g.IsBareWord("protein"))
	assert.False(t, g.IsBareWord("42"))
	assert.False(t, g.IsBareWord("3.14e10"))
	assert.True(t, g.IsBareWord("HOH"))
	assert.True(t, g.IsBareWord("MYRES1"))
}

func TestAssembleDetectsCustomCollision(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.RegisterKeyword(registry.Keyword{Name: "and", Type: registry.FieldString}))

	_, err := Assemble(reg)
	require.Error(t, err, "a keyword cannot shadow a structural word")
}
