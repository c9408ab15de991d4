package molctx

import (
	"unsafe"

	"github.com/dangerclosesec/molselect/registry"
)

// MemoryContext is a plain in-memory MolecularContext, suitable for
// tests and small structures loaded entirely into memory. Callers
// populate the exported fields directly (grounded on the teacher's
// plain public-field model structs, e.g. permissions/model.Entity)
// rather than through a fluent builder.
type MemoryContext struct {
	Atoms int

	IntFields    map[string][]int
	FloatFields  map[string][]float64
	StringFields map[string][]string

	// Neighbor is nil when the structure carries no topology.
	Neighbor [][]int

	Groups map[GroupKind][]int

	Chains    []string
	Sequences map[string][]SeqResidue
	Variables map[string]Variable

	// CaseInsensitiveFields lists string keywords that should compare
	// case-insensitively (default: none, i.e. case-sensitive).
	CaseInsensitiveFields map[string]bool
}

// NewMemoryContext creates an empty context for n atoms. Populate the
// exported maps before use; unset fields simply report "not present".
func NewMemoryContext(n int) *MemoryContext {
	return &MemoryContext{
		Atoms:        n,
		IntFields:    make(map[string][]int),
		FloatFields:  make(map[string][]float64),
		StringFields: make(map[string][]string),
		Groups:       make(map[GroupKind][]int),
		Sequences:    make(map[string][]SeqResidue),
		Variables:    make(map[string]Variable),
		CaseInsensitiveFields: make(map[string]bool),
	}
}

func (c *MemoryContext) N() int { return c.Atoms }

func (c *MemoryContext) FieldType(keyword string) (registry.FieldType, bool) {
	if _, ok := c.IntFields[keyword]; ok {
		return registry.FieldInt, true
	}
	if _, ok := c.FloatFields[keyword]; ok {
		return registry.FieldFloat, true
	}
	if _, ok := c.StringFields[keyword]; ok {
		return registry.FieldString, true
	}
	return 0, false
}

func (c *MemoryContext) IntField(keyword string) ([]int, bool) {
	v, ok := c.IntFields[keyword]
	return v, ok
}

func (c *MemoryContext) FloatField(keyword string) ([]float64, bool) {
	v, ok := c.FloatFields[keyword]
	return v, ok
}

func (c *MemoryContext) StringField(keyword string) ([]string, bool) {
	v, ok := c.StringFields[keyword]
	return v, ok
}

func (c *MemoryContext) HasTopology() bool {
	return c.Neighbor != nil
}

func (c *MemoryContext) Neighbors(atom int) []int {
	if atom < 0 || atom >= len(c.Neighbor) {
		return nil
	}
	return c.Neighbor[atom]
}

func (c *MemoryContext) GroupID(kind GroupKind, atom int) int {
	ids, ok := c.Groups[kind]
	if !ok || atom < 0 || atom >= len(ids) {
		return -1
	}
	return ids[atom]
}

func (c *MemoryContext) ChainIDs() []string {
	return c.Chains
}

func (c *MemoryContext) ChainSequence(chain string) []SeqResidue {
	return c.Sequences[chain]
}

func (c *MemoryContext) Variable(name string) (Variable, bool) {
	v, ok := c.Variables[name]
	return v, ok
}

func (c *MemoryContext) FieldCaseInsensitive(keyword string) bool {
	return c.CaseInsensitiveFields[keyword]
}

// CacheKey uses the struct's own address as a stable per-instance
// identity; MemoryContext is always used through a pointer.
func (c *MemoryContext) CacheKey() uintptr {
	return uintptr(unsafe.Pointer(c))
}
