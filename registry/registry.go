// Package registry implements the keyword and macro catalog (spec §4.1).
// It is populated from the built-in catalog at startup and may be extended
// by callers before the grammar is assembled from it; once assembled, the
// registry is expected to be frozen and read only, so concurrent
// evaluations never race with registration (spec §5).
package registry

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dangerclosesec/molselect/errs"
)

var (
	kwIdentPattern    = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	macroIdentPattern = regexp.MustCompile(`^_?[a-z][a-z0-9_]*$`)
	// kwSynonymPattern is looser than kwIdentPattern: a canonical
	// keyword name must be lowercase (grammar.Assemble's exact-case
	// reservation relies on every structural/keyword/macro spelling
	// being lowercase), but synonyms may spell out an external naming
	// convention verbatim — e.g. the mmCIF column names Cartn_x and
	// B_iso_or_equiv (spec §6.1) are mixed-case by definition.
	kwSynonymPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("kwident", func(fl validator.FieldLevel) bool {
		return kwIdentPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("kwsynonym", func(fl validator.FieldLevel) bool {
		return kwSynonymPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("macroident", func(fl validator.FieldLevel) bool {
		return macroIdentPattern.MatchString(fl.Field().String())
	})
	return v
}

// ResolveKind tells a caller what resolve_name found.
type ResolveKind int

const (
	ResolveNone ResolveKind = iota
	ResolveKeyword
	ResolveMacro
)

// Registry is the keyword/macro catalog (spec §4.1, §3.2). Zero value is
// not usable; construct with New or NewDefault.
type Registry struct {
	mu       sync.RWMutex
	validate *validator.Validate
	names    map[string]ResolveKind // every canonical+synonym name, across both namespaces
	keywords map[string]*Keyword    // canonical name -> entry (synonyms resolve via names+lookup)
	macros   map[string]*Macro
	byAlias  map[string]string // alias (canonical or synonym) -> canonical name
	frozen   bool
}

// New creates an empty registry with no keywords or macros registered.
func New() *Registry {
	return &Registry{
		validate: newValidator(),
		names:    make(map[string]ResolveKind),
		keywords: make(map[string]*Keyword),
		macros:   make(map[string]*Macro),
		byAlias:  make(map[string]string),
	}
}

// NewDefault creates a registry pre-populated with the built-in keyword and
// macro catalog (spec §6.1, §6.2). Panics if the built-in catalog itself
// contains a collision, which would indicate a programming error in this
// package, not caller input.
func NewDefault() *Registry {
	reg := New()
	for _, kw := range builtinKeywords() {
		if err := reg.RegisterKeyword(kw); err != nil {
			panic(fmt.Sprintf("molselect: built-in keyword %q: %v", kw.Name, err))
		}
	}
	for _, m := range builtinMacros() {
		if err := reg.RegisterMacro(m); err != nil {
			panic(fmt.Sprintf("molselect: built-in macro %q: %v", m.Name, err))
		}
	}
	return reg
}

// Freeze marks the registry immutable. Call once the grammar has been
// assembled from it (spec §5): further registration attempts fail with
// errs.ErrRegistryFrozen.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

func (r *Registry) checkCollision(names []string) error {
	for _, n := range names {
		if _, ok := r.names[n]; ok {
			return &errs.DuplicateNameError{Name: n}
		}
	}
	return nil
}

// RegisterKeyword adds a keyword to the catalog. Fails with
// errs.ErrDuplicateName on a name collision (checked across both keyword
// and macro namespaces, which are disjoint per spec §3.2), or
// errs.ErrType if the entry fails struct validation.
func (r *Registry) RegisterKeyword(kw Keyword) error {
	if err := r.validate.Struct(kw); err != nil {
		return &errs.TypeError{Detail: fmt.Sprintf("invalid keyword %q: %v", kw.Name, err)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errs.ErrRegistryFrozen
	}
	names := kw.Names()
	if err := r.checkCollision(names); err != nil {
		return err
	}
	if kw.ID == uuid.Nil {
		kw.ID = uuid.New()
	}
	entry := kw
	r.keywords[kw.Name] = &entry
	for _, n := range names {
		r.names[n] = ResolveKeyword
		r.byAlias[n] = kw.Name
	}
	return nil
}

// RegisterMacro adds a macro to the catalog. Same collision/validation
// rules as RegisterKeyword. The definition is stored unparsed (spec §4.1);
// parsing and cycle detection happen lazily in the macro package.
func (r *Registry) RegisterMacro(m Macro) error {
	if err := r.validate.Struct(m); err != nil {
		return &errs.TypeError{Detail: fmt.Sprintf("invalid macro %q: %v", m.Name, err)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errs.ErrRegistryFrozen
	}
	names := m.Names()
	if err := r.checkCollision(names); err != nil {
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	entry := m
	r.macros[m.Name] = &entry
	for _, n := range names {
		r.names[n] = ResolveMacro
		r.byAlias[n] = m.Name
	}
	return nil
}

// ResolveName reports whether name (canonical or synonym) is a keyword, a
// macro, or unregistered.
func (r *Registry) ResolveName(name string) (ResolveKind, *Keyword, *Macro) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	canonical, ok := r.byAlias[name]
	if !ok {
		return ResolveNone, nil, nil
	}
	switch r.names[name] {
	case ResolveKeyword:
		return ResolveKeyword, r.keywords[canonical], nil
	case ResolveMacro:
		return ResolveMacro, nil, r.macros[canonical]
	default:
		return ResolveNone, nil, nil
	}
}

// Keyword looks up a keyword by canonical name or synonym.
func (r *Registry) Keyword(name string) (*Keyword, bool) {
	kind, kw, _ := r.ResolveName(name)
	return kw, kind == ResolveKeyword
}

// MacroByName looks up a macro by canonical name or synonym.
func (r *Registry) MacroByName(name string) (*Macro, bool) {
	kind, _, m := r.ResolveName(name)
	return m, kind == ResolveMacro
}

// IterKeywords calls fn for every registered keyword, canonical entries
// only (not once per synonym).
func (r *Registry) IterKeywords(fn func(Keyword)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, kw := range r.keywords {
		fn(*kw)
	}
}

// IterMacros calls fn for every registered macro, canonical entries only.
func (r *Registry) IterMacros(fn func(Macro)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.macros {
		fn(*m)
	}
}
