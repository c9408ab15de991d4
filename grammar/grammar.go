// Package grammar assembles a concrete grammar description from a
// registry snapshot (spec §4.2). The parser consumes the assembled
// Grammar rather than querying the registry directly, so that a query
// is always parsed against a fixed, reserved-word-complete vocabulary
// even if the registry is mutated afterward (the registry is expected
// to be frozen by then; see registry.Registry.Freeze).
package grammar

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/registry"
)

// structuralWords are the fixed tokens of the language itself (spec
// §4.3): logical operators, predicate-form introducers, and math
// function names. These are reserved independent of any registry
// content and can never be shadowed by a keyword or macro name.
var structuralWords = []string{
	"all", "everything", "none", "nothing",
	"or", "xor", "and", "not",
	"within", "exwithin", "of",
	"bonded", "exbonded", "to",
	"sequence", "same", "as",
	"pi", "e",
	"sin", "cos", "tan", "asin", "acos", "atan",
	"sinh", "cosh", "tanh",
	"exp", "log", "log10", "sqrt", "sq", "sqr", "square", "abs", "floor", "ceil",
}

var structuralOperators = []string{
	"<=", ">=", "==", "!=", "=~", "&&", "||",
	"<", ">", "=", "!", "&", "|",
	"(", ")", "+", "-", "*", "/", "//", "%", "**",
	":", ",", "@",
}

// Grammar is the assembled, immutable vocabulary a query is parsed
// against. Build one with Assemble from a (preferably frozen) registry.
type Grammar struct {
	// KeywordNames maps every registered keyword name or synonym
	// (spelled exactly as registered) to its canonical keyword name.
	KeywordNames map[string]string
	// MacroNames maps every registered macro name or synonym
	// (spelled exactly as registered) to its canonical macro name.
	MacroNames map[string]string
	// Reserved is the full set of identifiers the lexer must recognize
	// as structural or registry tokens rather than bare string values.
	Reserved map[string]struct{}
	// LastToken matches exactly the reserved words. IsBareWord accepts
	// a word as the fallback "raw identifier" terminal (spec §4.2) only
	// when LastToken does not match it and it is not shaped like a number.
	LastToken *regexp.Regexp

	reg *registry.Registry
}

// Registry returns the registry snapshot this grammar was assembled
// from, so evaluator/macro stages can still resolve entries by name.
func (g *Grammar) Registry() *registry.Registry {
	return g.reg
}

// Assemble builds a Grammar from the current contents of reg (spec
// §4.2). It guarantees identifier reservation: any keyword or macro
// name (canonical or synonym) is reserved and can never be misparsed
// as a bare string value by the LastToken fallback.
func Assemble(reg *registry.Registry) (*Grammar, error) {
	g := &Grammar{
		KeywordNames: make(map[string]string),
		MacroNames:   make(map[string]string),
		Reserved:     make(map[string]struct{}),
		reg:          reg,
	}

	for _, w := range structuralWords {
		g.Reserved[w] = struct{}{}
	}

	// Canonical keyword names and macro identifiers are required
	// lowercase by the registry's kwident/macroident validators, and
	// every structural word above is written lowercase too; keyword
	// synonyms may be mixed case (e.g. Cartn_x) and are reserved as
	// spelled. Matching is exact case, not case-folded: "name CA" reserves the word "name" but
	// leaves the value "CA" free, even though the macro alias "ca"
	// (calpha) is also registered. Case-folding here would make every
	// uppercase PDB atom/residue name collide with some lowercase
	// keyword or macro spelling.
	var collisionErr error
	reg.IterKeywords(func(kw registry.Keyword) {
		for _, n := range kw.Names() {
			if _, taken := g.Reserved[n]; taken && collisionErr == nil {
				collisionErr = &errs.DuplicateNameError{Name: n}
			}
			g.Reserved[n] = struct{}{}
			g.KeywordNames[n] = kw.Name
		}
	})
	if collisionErr != nil {
		return nil, collisionErr
	}

	reg.IterMacros(func(m registry.Macro) {
		for _, n := range m.Names() {
			if _, taken := g.Reserved[n]; taken && collisionErr == nil {
				collisionErr = &errs.DuplicateNameError{Name: n}
			}
			g.Reserved[n] = struct{}{}
			g.MacroNames[n] = m.Name
		}
	})
	if collisionErr != nil {
		return nil, collisionErr
	}

	g.LastToken = compileLastTokenPattern(g.Reserved)
	return g, nil
}

// compileLastTokenPattern builds the reserved-word matcher behind the
// fallback bare-word terminal (spec §4.2's LAST_TOKEN placeholder): an
// anchored alternation of every reserved word. Go's regexp has no
// negative lookahead, so the pattern matches the words a bare value may
// NOT be; IsBareWord inverts it and rejects numeric shapes separately.
func compileLastTokenPattern(reserved map[string]struct{}) *regexp.Regexp {
	words := make([]string, 0, len(reserved))
	for w := range reserved {
		words = append(words, regexp.QuoteMeta(w))
	}
	sort.Strings(words)

	reservedAlt := strings.Join(words, "|")
	pattern := `^(?:` + reservedAlt + `)$`
	return regexp.MustCompile(pattern)
}

// IsReservedWord reports whether s is claimed verbatim by a structural
// keyword, a registered field keyword, or a macro name.
func (g *Grammar) IsReservedWord(s string) bool {
	_, ok := g.Reserved[s]
	return ok
}

// IsBareWord reports whether s is eligible as a last-token bare string
// value: not reserved, and not shaped like a number.
func (g *Grammar) IsBareWord(s string) bool {
	if g.LastToken.MatchString(s) {
		return false
	}
	return !looksNumeric(s)
}

var numericShape = regexp.MustCompile(`^[+-]?\d+(?:\.\d*)?(?:[eE][+-]?\d+)?$`)

func looksNumeric(s string) bool {
	return numericShape.MatchString(s)
}

// StructuralOperators lists the fixed operator/punctuation spellings
// the lexer recognizes verbatim (spec §4.3).
func StructuralOperators() []string {
	out := make([]string, len(structuralOperators))
	copy(out, structuralOperators)
	return out
}
