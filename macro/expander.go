// Package macro expands macro references inside a parsed IR tree (spec
// §4.4). Macro definitions are stored unparsed in the registry; this
// package parses each on first use, caches the expanded result, and
// walks its own macro references with a dynamic expansion stack so a
// macro that transitively references itself is rejected rather than
// looping forever.
package macro

import (
	"sync"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/grammar"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/parser"
)

// Expander owns the cache of already-expanded macro definitions for one
// grammar. Safe for concurrent use (spec §5): the cache is guarded by a
// mutex, mirroring the teacher's ruleCache/ruleCacheMu pattern.
type Expander struct {
	g *grammar.Grammar

	mu    sync.Mutex
	cache map[string]ir.Pred
}

// NewExpander creates an Expander bound to g. Macros are resolved
// through g's registry snapshot (grammar.Grammar.Registry).
func NewExpander(g *grammar.Grammar) *Expander {
	return &Expander{g: g, cache: make(map[string]ir.Pred)}
}

// Expand returns pred with every macro BoolFlag node replaced, in
// place, by the macro's own (itself fully expanded) definition.
func Expand(g *grammar.Grammar, pred ir.Pred) (ir.Pred, error) {
	return NewExpander(g).Expand(pred)
}

// Expand walks pred and substitutes every macro reference it finds,
// recursively, so a macro whose definition itself references macros is
// fully inlined.
func (e *Expander) Expand(pred ir.Pred) (ir.Pred, error) {
	return e.expandPred(pred, nil)
}

func (e *Expander) expandPred(p ir.Pred, stack []string) (ir.Pred, error) {
	switch n := p.(type) {
	case *ir.And:
		l, r, err := e.expandPair(n.Left, n.Right, stack)
		if err != nil {
			return nil, err
		}
		return &ir.And{Left: l, Right: r}, nil
	case *ir.Or:
		l, r, err := e.expandPair(n.Left, n.Right, stack)
		if err != nil {
			return nil, err
		}
		return &ir.Or{Left: l, Right: r}, nil
	case *ir.Xor:
		l, r, err := e.expandPair(n.Left, n.Right, stack)
		if err != nil {
			return nil, err
		}
		return &ir.Xor{Left: l, Right: r}, nil
	case *ir.Not:
		inner, err := e.expandPred(n.Inner, stack)
		if err != nil {
			return nil, err
		}
		return &ir.Not{Inner: inner}, nil
	case *ir.WithinSel:
		inner, err := e.expandPred(n.Inner, stack)
		if err != nil {
			return nil, err
		}
		return &ir.WithinSel{Op: n.Op, Distance: n.Distance, Inner: inner}, nil
	case *ir.BondedSel:
		inner, err := e.expandPred(n.Inner, stack)
		if err != nil {
			return nil, err
		}
		return &ir.BondedSel{Op: n.Op, Hops: n.Hops, Inner: inner}, nil
	case *ir.SameAsSel:
		inner, err := e.expandPred(n.Inner, stack)
		if err != nil {
			return nil, err
		}
		return &ir.SameAsSel{Grouping: n.Grouping, Inner: inner}, nil
	case *ir.BoolFlag:
		if n.Kind != ir.FlagMacro {
			return n, nil
		}
		return e.resolveMacro(n.Name, stack)
	default:
		// PropertySel, CompareSel, RegexSel, SequenceSel carry no nested
		// predicate and so have nothing to expand.
		return p, nil
	}
}

func (e *Expander) expandPair(left, right ir.Pred, stack []string) (ir.Pred, ir.Pred, error) {
	l, err := e.expandPred(left, stack)
	if err != nil {
		return nil, nil, err
	}
	r, err := e.expandPred(right, stack)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// resolveMacro parses (if not already cached) and expands the named
// macro's definition, detecting cycles via the dynamic expansion stack
// (spec §4.1, §4.4).
func (e *Expander) resolveMacro(name string, stack []string) (ir.Pred, error) {
	for _, s := range stack {
		if s == name {
			return nil, &errs.MacroCycleError{Chain: append(append([]string{}, stack...), name)}
		}
	}

	e.mu.Lock()
	if cached, ok := e.cache[name]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	e.mu.Unlock()

	m, ok := e.g.Registry().MacroByName(name)
	if !ok {
		return nil, &errs.UnknownFieldError{Field: name}
	}

	def, err := parser.Parse(e.g, m.Definition)
	if err != nil {
		return nil, err
	}

	expanded, err := e.expandPred(def, append(stack, name))
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[name] = expanded
	e.mu.Unlock()

	return expanded, nil
}
