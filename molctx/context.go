// Package molctx defines MolecularContext, the read-only input the
// evaluator walks an IR tree against (spec §3.1), plus an in-memory
// fixture implementation grounded on the source's pure-Python backend
// (PureArray/PureStructure): a column-oriented table with a topology,
// grouping keys, and per-chain sequences layered on top.
package molctx

import "github.com/dangerclosesec/molselect/registry"

// GroupKind names one of the five grouping dimensions spec §3.1 lists:
// atoms sharing a GroupId of a given kind belong to the same group.
type GroupKind int

const (
	GroupResidue GroupKind = iota
	GroupChain
	GroupSegment
	GroupFragment
	GroupModel
)

// SeqResidue is one entry of a chain's ordered one-letter sequence
// (spec §3.1 "Residue sequence"), carrying the atom indices it covers
// so SequenceSel can expand a matched span back to a full atom mask.
type SeqResidue struct {
	Code  byte
	Atoms []int
}

// Variable is a caller-supplied $name binding (spec §3.1): either a
// single scalar or one value per atom.
type Variable struct {
	IsScalar bool
	Scalar   float64
	Vector   []float64
}

// MolecularContext is the read-only snapshot the evaluator consumes.
// Implementations must keep every column and the Neighbors/GroupID
// results stable and of length N for the lifetime of an evaluation
// (spec §3.1 invariants, §5 concurrency model).
type MolecularContext interface {
	// N is the number of atoms.
	N() int

	// FieldType reports a keyword's column type, or false if the
	// context has no column for it (errs.UnknownField at lookup time).
	FieldType(keyword string) (registry.FieldType, bool)
	IntField(keyword string) ([]int, bool)
	FloatField(keyword string) ([]float64, bool)
	StringField(keyword string) ([]string, bool)

	// HasTopology reports whether bond information is available;
	// bonded/exbonded queries fail with errs.NoTopology when false.
	HasTopology() bool
	Neighbors(atom int) []int

	// GroupID returns the stable group identifier of the given kind
	// for atom i. Two atoms share a group iff their GroupID is equal.
	GroupID(kind GroupKind, atom int) int

	// ChainIDs lists the distinct chain identifiers in a stable order,
	// used to iterate sequences for "sequence" queries.
	ChainIDs() []string
	ChainSequence(chain string) []SeqResidue

	Variable(name string) (Variable, bool)

	// FieldCaseInsensitive reports whether a string column compares
	// case-insensitively (mirrors registry.Keyword.CaseInsensitive,
	// spec §9 Open Question: default case-sensitive).
	FieldCaseInsensitive(keyword string) bool

	// CacheKey identifies this context for the lifetime of an
	// evaluation, so the evaluator can key lazily-built auxiliary
	// data (the x/y/z coordinate columns) against it without
	// requiring the interface value itself be comparable (spec §4.5
	// expansion "Concurrent evaluation cache").
	CacheKey() uintptr
}
