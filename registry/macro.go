package registry

import (
	"strings"

	"github.com/google/uuid"
)

// Macro is a registry entry for a named, reusable query fragment (spec
// §3.2). Definitions are stored unparsed and parsed lazily by the macro
// expander on first use (spec §4.4).
type Macro struct {
	ID         uuid.UUID
	Name       string   `validate:"required,macroident"`
	Synonyms   []string `validate:"dive,macroident"`
	Definition string   `validate:"required"`
}

// Names returns the canonical name followed by every synonym.
func (m Macro) Names() []string {
	names := make([]string, 0, len(m.Synonyms)+1)
	names = append(names, m.Name)
	names = append(names, m.Synonyms...)
	return names
}

// Hidden reports whether this is an internal macro (name starts with '_'),
// which is expandable but not surfaced as a query flag (spec §3.2, §4.4).
func (m Macro) Hidden() bool {
	return strings.HasPrefix(m.Name, "_")
}
