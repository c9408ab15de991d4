package registry

import "github.com/google/uuid"

// FieldType is the scalar type a keyword's column holds (spec §3.2).
type FieldType int

const (
	FieldInt FieldType = iota
	FieldFloat
	FieldString
)

func (t FieldType) String() string {
	switch t {
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	default:
		return "str"
	}
}

// Keyword is a registry entry describing one per-atom column (spec §3.2).
type Keyword struct {
	ID              uuid.UUID
	Name            string   `validate:"required,kwident"`
	Synonyms        []string `validate:"dive,kwsynonym"`
	Type            FieldType
	Description     string
	CaseInsensitive bool // spec §9 Open Question: string fields default case-sensitive
}

// Names returns the canonical name followed by every synonym.
func (k Keyword) Names() []string {
	names := make([]string, 0, len(k.Synonyms)+1)
	names = append(names, k.Name)
	names = append(names, k.Synonyms...)
	return names
}
